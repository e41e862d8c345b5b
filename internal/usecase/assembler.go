package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mealcart/backend/internal/domain"
)

// Assembler turns an optimal basket into a store-grouped shopping list with
// cost breakdowns and a savings figure against a single-store baseline.
type Assembler struct{}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble groups basket lines by store and computes per-store subtotals,
// the grand total, and savings versus buying the whole basket at the single
// cheapest store. The price snapshot supplies the baseline store's prices
// and the cheapest substitutes for items it lacks; when no store's baseline
// can be fully priced, savings is flagged not computable instead of zero.
func (a *Assembler) Assemble(basket domain.Basket, prices map[domain.PriceKey]domain.PriceObservation) domain.ShoppingList {
	list := domain.ShoppingList{Currency: basket.Currency, GrandTotal: decimal.Zero}
	if len(basket.Lines) == 0 {
		return list
	}

	groups := make(map[string][]domain.ShoppingListItem)
	subtotals := make(map[string]decimal.Decimal)
	for _, line := range basket.Lines {
		perUnit := decimal.Zero
		if line.Quantity > 0 {
			perUnit = line.Cost.Div(decimal.NewFromFloat(line.Quantity)).Round(4)
		}
		groups[line.Store] = append(groups[line.Store], domain.ShoppingListItem{
			ProductName:  line.ProductName,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			PricePerUnit: perUnit,
			LineCost:     line.Cost,
			URL:          line.URL,
		})
		subtotals[line.Store] = subtotals[line.Store].Add(line.Cost)
	}

	stores := make([]string, 0, len(groups))
	for store := range groups {
		stores = append(stores, store)
	}
	sort.Strings(stores)

	for _, store := range stores {
		items := groups[store]
		sort.Slice(items, func(a, b int) bool { return items[a].ProductName < items[b].ProductName })
		list.Stores = append(list.Stores, domain.StoreGroup{
			Store:    store,
			Items:    items,
			Subtotal: subtotals[store],
		})
		list.GrandTotal = list.GrandTotal.Add(subtotals[store])
	}

	a.computeSavings(&list, basket, prices)
	return list
}

// computeSavings prices the basket at every candidate store, substituting
// the cheapest alternative for items a store lacks, and compares the best
// such single-store total against the actual multi-store total.
func (a *Assembler) computeSavings(list *domain.ShoppingList, basket domain.Basket, prices map[domain.PriceKey]domain.PriceObservation) {
	candidates := make(map[string]bool)
	for key := range prices {
		candidates[key.Store] = true
	}
	if len(candidates) == 0 {
		return
	}

	// Cheapest per-base price per product across every store, for
	// substitution when the baseline store lacks an item.
	cheapest := make(map[string]decimal.Decimal)
	for key, obs := range prices {
		price := obs.EffectivePricePerBase()
		if cur, ok := cheapest[key.ProductName]; !ok || price.LessThan(cur) {
			cheapest[key.ProductName] = price
		}
	}

	stores := make([]string, 0, len(candidates))
	for store := range candidates {
		stores = append(stores, store)
	}
	sort.Strings(stores)

	bestStore := ""
	var bestTotal decimal.Decimal
	for _, store := range stores {
		total := decimal.Zero
		computable := true
		for _, line := range basket.Lines {
			perBase, ok := storePrice(prices, line.ProductName, store)
			if !ok {
				perBase, ok = cheapest[line.ProductName]
				if !ok {
					computable = false
					break
				}
			}
			total = total.Add(perBase.Mul(decimal.NewFromFloat(line.Quantity)).Round(2))
		}
		if !computable {
			continue
		}
		if bestStore == "" || total.LessThan(bestTotal) {
			bestStore = store
			bestTotal = total
		}
	}

	if bestStore == "" {
		return
	}
	list.BaselineStore = bestStore
	list.BaselineTotal = bestTotal
	list.Savings = bestTotal.Sub(list.GrandTotal)
	list.SavingsComputable = true
}

func storePrice(prices map[domain.PriceKey]domain.PriceObservation, product, store string) (decimal.Decimal, bool) {
	obs, ok := prices[domain.PriceKey{ProductName: product, Store: store}]
	if !ok {
		return decimal.Decimal{}, false
	}
	return obs.EffectivePricePerBase(), true
}
