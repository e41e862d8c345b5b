package http

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mealcart/backend/internal/domain"
	"github.com/mealcart/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	planner  *usecase.Planner
	view     *usecase.PriceView
	ingestor *usecase.Ingestor
	catalog  domain.ProductCatalog
}

// NewHandler creates a new HTTP handler.
func NewHandler(planner *usecase.Planner, view *usecase.PriceView, ingestor *usecase.Ingestor, catalog domain.ProductCatalog) *Handler {
	return &Handler{planner: planner, view: view, ingestor: ingestor, catalog: catalog}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mealcart-backend",
		"version": "1.0.0",
	})
}

// CreateMealPlan runs the optimization pipeline for a request. Verdicts are
// part of the payload, not HTTP errors; only malformed requests and
// internal failures map to error statuses.
func (h *Handler) CreateMealPlan(c *gin.Context) {
	var req domain.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.planner.Plan(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// priceEntry is one row of the price listing response.
type priceEntry struct {
	domain.PriceObservation
	Category domain.Category `json:"category"`
}

// ListPrices returns the current observation per (product, store) for a
// city, optionally filtered by category and store. Stale entries are
// included and flagged.
func (h *Handler) ListPrices(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city query parameter is required"})
		return
	}
	category := strings.ToLower(c.Query("category"))
	store := strings.ToLower(c.Query("store"))

	latest, err := h.view.Latest(c.Request.Context(), city, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries := make([]priceEntry, 0, len(latest))
	for _, obs := range latest {
		product, ok := h.catalog.ProductByName(obs.ProductName)
		if !ok {
			continue
		}
		if category != "" && string(product.Category) != category {
			continue
		}
		if store != "" && obs.Store != store {
			continue
		}
		entries = append(entries, priceEntry{PriceObservation: obs, Category: product.Category})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].ProductName != entries[b].ProductName {
			return entries[a].ProductName < entries[b].ProductName
		}
		return entries[a].Store < entries[b].Store
	})

	c.JSON(http.StatusOK, gin.H{
		"prices":     entries,
		"totalCount": len(entries),
		"city":       strings.ToLower(city),
	})
}

// IngestPrices accepts a batch of raw price records from the ingestion
// collaborator. Records failing unit normalization are skipped and counted,
// never fatal for the batch.
func (h *Handler) IngestPrices(c *gin.Context) {
	var records []usecase.RawPriceRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accepted, skipped, err := h.ingestor.Ingest(c.Request.Context(), records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"accepted": accepted,
		"skipped":  skipped,
	})
}
