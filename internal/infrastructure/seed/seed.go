package seed

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mealcart/backend/internal/domain"
)

// Catalog is the static product and nutrition catalog. Seeded once at
// startup; read-only afterwards.
type Catalog struct {
	products  map[string]domain.Product
	nutrition map[string]domain.NutritionProfile
}

// NewCatalog builds the catalog from the seed tables.
func NewCatalog() *Catalog {
	c := &Catalog{
		products:  make(map[string]domain.Product),
		nutrition: make(map[string]domain.NutritionProfile),
	}
	for category, names := range productsByCategory {
		for _, name := range names {
			normalized := strings.ToLower(strings.TrimSpace(name))
			c.products[normalized] = domain.Product{
				ID:             uuid.NewString(),
				Name:           name,
				NormalizedName: normalized,
				Category:       category,
			}
		}
	}
	for name, profile := range nutritionTable {
		profile.ProductName = name
		c.nutrition[name] = profile
	}
	return c
}

// ProductByName resolves a product by its normalized name.
func (c *Catalog) ProductByName(name string) (domain.Product, bool) {
	product, ok := c.products[strings.ToLower(strings.TrimSpace(name))]
	return product, ok
}

// Nutrition resolves the nutrition profile for a product.
func (c *Catalog) Nutrition(name string) (domain.NutritionProfile, bool) {
	profile, ok := c.nutrition[strings.ToLower(strings.TrimSpace(name))]
	return profile, ok
}

// ProductsByCategory lists the catalog products in a category.
func (c *Catalog) ProductsByCategory(category domain.Category) []domain.Product {
	var result []domain.Product
	for _, product := range c.products {
		if product.Category == category {
			result = append(result, product)
		}
	}
	return result
}

// productsByCategory is the MVP product list.
var productsByCategory = map[domain.Category][]string{
	domain.CategoryProtein: {
		"chicken breast", "eggs", "greek yogurt", "cottage cheese", "tofu",
		"lentils", "chickpeas", "tuna", "ground beef",
	},
	domain.CategoryCarbs: {
		"rice", "oats", "bread", "pasta", "potatoes", "bananas",
	},
	domain.CategoryVegetables: {
		"broccoli", "spinach", "carrots", "onions", "tomatoes",
	},
	domain.CategoryDairy: {
		"milk", "cheese",
	},
	domain.CategoryFats: {
		"olive oil", "peanut butter", "butter",
	},
}

// nutritionTable holds macros per 100 base units. Gram-based products read
// as per-100 g; milk and olive oil are per-100 ml; eggs are per-100 pieces
// (one egg ~60 g).
var nutritionTable = map[string]domain.NutritionProfile{
	"chicken breast": {Calories: 165, Protein: 31.0, Carbs: 0.0, Fat: 3.6, Fiber: 0.0},
	"eggs":           {Calories: 9300, Protein: 780.0, Carbs: 66.0, Fat: 660.0, Fiber: 0.0},
	"greek yogurt":   {Calories: 59, Protein: 10.0, Carbs: 3.6, Fat: 0.4, Fiber: 0.0},
	"cottage cheese": {Calories: 98, Protein: 11.0, Carbs: 3.4, Fat: 4.3, Fiber: 0.0},
	"tofu":           {Calories: 76, Protein: 8.0, Carbs: 1.9, Fat: 4.8, Fiber: 0.3},
	"lentils":        {Calories: 116, Protein: 9.0, Carbs: 20.0, Fat: 0.4, Fiber: 7.9},
	"chickpeas":      {Calories: 164, Protein: 8.9, Carbs: 27.0, Fat: 2.6, Fiber: 7.6},
	"tuna":           {Calories: 144, Protein: 30.0, Carbs: 0.0, Fat: 1.0, Fiber: 0.0},
	"ground beef":    {Calories: 250, Protein: 26.0, Carbs: 0.0, Fat: 15.0, Fiber: 0.0},
	"milk":           {Calories: 61, Protein: 3.4, Carbs: 5.0, Fat: 3.3, Fiber: 0.0},
	"cheese":         {Calories: 402, Protein: 25.0, Carbs: 1.3, Fat: 33.0, Fiber: 0.0},
	"rice":           {Calories: 130, Protein: 2.7, Carbs: 28.0, Fat: 0.3, Fiber: 0.4},
	"oats":           {Calories: 389, Protein: 17.0, Carbs: 66.0, Fat: 7.0, Fiber: 10.6},
	"bread":          {Calories: 265, Protein: 9.0, Carbs: 49.0, Fat: 3.2, Fiber: 2.7},
	"pasta":          {Calories: 131, Protein: 5.0, Carbs: 25.0, Fat: 1.1, Fiber: 1.8},
	"potatoes":       {Calories: 77, Protein: 2.0, Carbs: 17.0, Fat: 0.1, Fiber: 2.2},
	"bananas":        {Calories: 89, Protein: 1.1, Carbs: 23.0, Fat: 0.3, Fiber: 2.6},
	"broccoli":       {Calories: 34, Protein: 2.8, Carbs: 7.0, Fat: 0.4, Fiber: 2.6},
	"spinach":        {Calories: 23, Protein: 2.9, Carbs: 3.6, Fat: 0.4, Fiber: 2.2},
	"carrots":        {Calories: 41, Protein: 0.9, Carbs: 10.0, Fat: 0.2, Fiber: 2.8},
	"onions":         {Calories: 40, Protein: 1.1, Carbs: 9.0, Fat: 0.1, Fiber: 1.7},
	"tomatoes":       {Calories: 18, Protein: 0.9, Carbs: 3.9, Fat: 0.2, Fiber: 1.2},
	"olive oil":      {Calories: 884, Protein: 0.0, Carbs: 0.0, Fat: 100.0, Fiber: 0.0},
	"peanut butter":  {Calories: 588, Protein: 25.0, Carbs: 20.0, Fat: 50.0, Fiber: 6.0},
	"butter":         {Calories: 717, Protein: 0.9, Carbs: 0.1, Fat: 81.0, Fiber: 0.0},
}

// DemoPrice is a raw demo observation, shaped like an ingestion record so
// the server answers out of the box without a real ingestion collaborator.
type DemoPrice struct {
	ProductName string
	Store       string
	City        string
	Currency    string
	Price       string
	Quantity    string
	OnSale      bool
	SalePrice   string
	URL         string
}

// DemoPrices returns a small Vienna price set across two stores.
func DemoPrices() []DemoPrice {
	vienna := func(product, store, price, quantity string) DemoPrice {
		return DemoPrice{
			ProductName: product, Store: store, City: "vienna",
			Currency: "EUR", Price: price, Quantity: quantity,
		}
	}
	return []DemoPrice{
		vienna("chicken breast", "spar", "8,99", "1kg"),
		vienna("chicken breast", "billa", "9,49", "1kg"),
		vienna("eggs", "spar", "3,50", "10 pcs"),
		vienna("greek yogurt", "billa", "1,29", "500g"),
		vienna("cottage cheese", "spar", "1,49", "250g"),
		vienna("tofu", "billa", "2,19", "400g"),
		vienna("lentils", "spar", "2,39", "500g"),
		vienna("chickpeas", "billa", "1,09", "400g"),
		vienna("tuna", "spar", "2,49", "195g"),
		vienna("ground beef", "billa", "7,99", "1kg"),
		vienna("milk", "spar", "1,19", "1l"),
		vienna("cheese", "billa", "2,99", "250g"),
		vienna("rice", "spar", "2,50", "1kg"),
		vienna("oats", "billa", "1,49", "500g"),
		vienna("bread", "spar", "2,20", "500g"),
		vienna("pasta", "billa", "1,39", "500g"),
		vienna("potatoes", "spar", "1,99", "2kg"),
		vienna("bananas", "billa", "1,59", "1kg"),
		vienna("broccoli", "spar", "1,99", "500g"),
		vienna("spinach", "billa", "1,79", "450g"),
		vienna("carrots", "spar", "1,29", "1kg"),
		vienna("onions", "billa", "1,49", "1kg"),
		vienna("tomatoes", "spar", "2,99", "1kg"),
		vienna("olive oil", "billa", "6,99", "750ml"),
		vienna("peanut butter", "spar", "3,49", "350g"),
		vienna("butter", "billa", "2,59", "250g"),
	}
}
