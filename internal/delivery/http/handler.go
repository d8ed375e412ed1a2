package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/glowmatch/backend/internal/domain"
	"github.com/glowmatch/backend/internal/infrastructure/catalog"
	"github.com/glowmatch/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog *usecase.CatalogService // nil when no backend is configured
	ranking *usecase.RankingService
	version string
	logger  zerolog.Logger
}

// NewHandler creates a new HTTP handler. catalogService may be nil, in which
// case the catalog endpoints answer 503 and the scoring endpoints still work.
func NewHandler(catalogService *usecase.CatalogService, ranking *usecase.RankingService, version string, logger zerolog.Logger) *Handler {
	if ranking == nil {
		ranking = usecase.NewRankingService(usecase.RankingConfig{})
	}
	return &Handler{
		catalog: catalogService,
		ranking: ranking,
		version: version,
		logger:  logger,
	}
}

// scoreRequest is the body of POST /api/v1/match/score
type scoreRequest struct {
	Product *catalog.ProductPayload `json:"product"`
	Profile *catalog.ProfilePayload `json:"profile"`
}

// rankRequest is the body of POST /api/v1/match/rank
type rankRequest struct {
	Products []catalog.ProductPayload `json:"products"`
	Profile  *catalog.ProfilePayload  `json:"profile"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "glowmatch-backend",
		"version": h.version,
	})
}

// ScoreProduct scores one product against an optional profile
func (h *Handler) ScoreProduct(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Product == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product is required"})
		return
	}

	product := catalog.MapProduct(*req.Product)
	profile := h.requestProfile(c, req.Profile)

	c.JSON(http.StatusOK, gin.H{
		"score": usecase.MatchScore(&product, profile),
	})
}

// RankProducts orders the supplied products for an optional profile
func (h *Handler) RankProducts(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Products == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "products is required"})
		return
	}

	profile := h.requestProfile(c, req.Profile)
	c.JSON(http.StatusOK, domain.RankedCatalog{
		Items:           h.ranking.Rank(catalog.MapProducts(req.Products), profile),
		ProfileComplete: profile != nil,
	})
}

// ListProducts returns the catalog ranked for the shopper owning the bearer token
func (h *Handler) ListProducts(c *gin.Context) {
	if h.catalog == nil {
		h.respondError(c, domain.ErrCatalogNotConfigured)
		return
	}

	query := domain.ProductQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	result, err := h.catalog.ListProducts(c.Request.Context(), query, bearerToken(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct returns a single product with its score
func (h *Handler) GetProduct(c *gin.Context) {
	if h.catalog == nil {
		h.respondError(c, domain.ErrCatalogNotConfigured)
		return
	}

	result, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"), bearerToken(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// requestProfile maps an inline profile. An incomplete profile is treated
// like an absent one so the product is returned unscored.
func (h *Handler) requestProfile(c *gin.Context, payload *catalog.ProfilePayload) *domain.ShopperProfile {
	if payload == nil {
		return nil
	}
	profile, err := catalog.MapProfile(*payload)
	if err != nil {
		h.logger.Debug().
			Str("rid", RequestIDFromContext(c)).
			Str("skin_type", payload.SkinType).
			Str("sensitivity", payload.Sensitivity).
			Msg("incomplete profile in request, scoring skipped")
		return nil
	}
	return profile
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		status, message = http.StatusNotFound, "product not found"
	case errors.Is(err, domain.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, domain.ErrCatalogAPIFailure):
		status, message = http.StatusBadGateway, "catalog service unavailable"
	case errors.Is(err, domain.ErrCatalogNotConfigured):
		status, message = http.StatusServiceUnavailable, "catalog API not configured"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("rid", RequestIDFromContext(c)).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": message})
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
