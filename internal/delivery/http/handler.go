package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/madridpricer/backend/internal/domain"
	"github.com/madridpricer/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	prediction *usecase.PredictionService
	bargains   *usecase.BargainService
	boundaries domain.BoundaryProvider
}

// NewHandler creates a new HTTP handler
func NewHandler(prediction *usecase.PredictionService, bargains *usecase.BargainService, boundaries domain.BoundaryProvider) *Handler {
	return &Handler{
		prediction: prediction,
		bargains:   bargains,
		boundaries: boundaries,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	modelLoaded := h.prediction != nil && h.prediction.Ready()
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"service":      "madridpricer-backend",
		"version":      "1.0.0",
		"model_loaded": modelLoaded,
	})
}

// PredictPrice handles price prediction requests for a property query.
func (h *Handler) PredictPrice(c *gin.Context) {
	var query domain.PropertyQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.prediction.PredictPrice(c.Request.Context(), &query)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Opportunities returns underpriced listings for the investor view.
// Query params: limit (default 50, 0 for all), min_residual (default 0).
func (h *Handler) Opportunities(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}
	minResidual, err := strconv.ParseFloat(c.DefaultQuery("min_residual", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_residual must be a number"})
		return
	}

	ops, err := h.bargains.Opportunities(c.Request.Context(), limit, minResidual)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         len(ops),
		"opportunities": ops,
	})
}

// Districts returns the 20 Madrid districts and their neighbourhoods so the
// UI pickers stay aligned with the model's category set.
func (h *Handler) Districts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"districts":  domain.Districts,
		"geography":  domain.MadridGeography,
		"room_types": domain.RoomTypes,
	})
}

// Boundaries serves the neighbourhood boundary GeoJSON for map rendering.
func (h *Handler) Boundaries(c *gin.Context) {
	if h.boundaries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrBoundariesUnavailable.Error()})
		return
	}
	data, err := h.boundaries.FeatureCollection()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

// statusForError maps the domain error taxonomy to HTTP statuses: artifacts
// missing is a server-side condition, bad queries are the client's.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrModelNotLoaded),
		errors.Is(err, domain.ErrDatasetUnavailable),
		errors.Is(err, domain.ErrBoundariesUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrSchemaMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
