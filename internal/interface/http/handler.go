package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
	"github.com/rehabscope/rehabscope/internal/domain/estimate"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	analysisSvc analysis.Service
	estimateSvc estimate.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(analysisSvc analysis.Service, estimateSvc estimate.Service, logger *slog.Logger) *Handler {
	return &Handler{
		analysisSvc: analysisSvc,
		estimateSvc: estimateSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// Analyze runs the photo set for one room through the configured provider.
func (h *Handler) Analyze(c *gin.Context) {
	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.analysisSvc.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, translateDomainError(err, "analysis_failed"))
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAnalysis returns a previously stored analysis result.
func (h *Handler) GetAnalysis(c *gin.Context) {
	result, err := h.analysisSvc.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, translateDomainError(err, "analysis_failed"))
		return
	}

	c.JSON(http.StatusOK, result)
}

type priceItemsRequest struct {
	SuggestedRepairs []analysis.SuggestedRepair `json:"suggestedRepairs"`
	ZipCode          string                     `json:"zipCode"`
}

// PriceItems converts AI repair suggestions into regionally priced line items.
func (h *Handler) PriceItems(c *gin.Context) {
	var req priceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	items, err := h.estimateSvc.PriceSuggestions(c.Request.Context(), req.SuggestedRepairs, req.ZipCode)
	if err != nil {
		abortWithError(c, translateDomainError(err, "estimate_failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type totalsRequest struct {
	LineItems []estimate.RepairItem `json:"lineItems"`
	// ContingencyPct is a pointer so an omitted field gets the default
	// while an explicit 0 stays 0.
	ContingencyPct *float64 `json:"contingencyPct"`
}

// EstimateTotals rolls selected line items up into an estimate total.
func (h *Handler) EstimateTotals(c *gin.Context) {
	var req totalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	pct := estimate.DefaultContingencyPct
	if req.ContingencyPct != nil {
		pct = *req.ContingencyPct
	}

	totals := h.estimateSvc.Totals(req.LineItems, pct)
	c.JSON(http.StatusOK, totals)
}

// ReloadCosts drops the cached cost tables and loads them fresh.
func (h *Handler) ReloadCosts(c *gin.Context) {
	if err := h.estimateSvc.ReloadCosts(c.Request.Context()); err != nil {
		abortWithError(c, translateDomainError(err, "estimate_failed"))
		return
	}

	h.logger.Info("cost tables reloaded")
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
