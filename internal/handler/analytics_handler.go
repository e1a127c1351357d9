package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/onboarding/internal/analytics"
	"github.com/eaglebank/onboarding/shared/cqrs"
	"github.com/eaglebank/onboarding/shared/middleware"
)

// AnalyticsQuerier defines the reports served by AnalyticsHandler.
type AnalyticsQuerier interface {
	Breakdown(context.Context, cqrs.BreakdownQuery) (*analytics.Breakdown, error)
	Services(context.Context) (*analytics.ServicesReport, error)
	Kin(context.Context) (*analytics.Breakdown, error)
	Dashboard(context.Context) (*analytics.DashboardSummary, error)
	Financial(context.Context) (*analytics.FinancialReport, error)
	GenderAccount(context.Context) (*analytics.GenderAccountReport, error)
	OccupationCard(context.Context) (*analytics.OccupationCardReport, error)
	CityPerformance(context.Context) (*analytics.CityPerformanceReport, error)
	OccupationIncome(context.Context) (*analytics.OccupationIncomeReport, error)
	Premium(context.Context) (*analytics.PremiumReport, error)
	Digital(context.Context) (*analytics.DigitalReport, error)
	HighValue(context.Context, cqrs.HighValueQuery) (*analytics.HighValueReport, error)
	Completeness(context.Context) (*analytics.CompletenessReport, error)
	Segments(context.Context) (*analytics.SegmentationReport, error)
	ExecutiveSummary(context.Context) (*analytics.ExecutiveSummaryReport, error)
}

type AnalyticsHandler struct {
	queries AnalyticsQuerier
}

type HighValueRequest struct {
	Threshold *float64 `form:"threshold" validate:"omitempty,gt=0"`
}

func NewAnalyticsHandler(queries AnalyticsQuerier) *AnalyticsHandler {
	return &AnalyticsHandler{queries: queries}
}

// Register mounts the report routes on rg.
func (h *AnalyticsHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/analytics")
	a.GET("/breakdown/:dimension", h.Breakdown)
	a.GET("/services", report(h.queries.Services))
	a.GET("/kin", report(h.queries.Kin))
	a.GET("/dashboard", report(h.queries.Dashboard))
	a.GET("/financial", report(h.queries.Financial))
	a.GET("/gender-account", report(h.queries.GenderAccount))
	a.GET("/occupation-card", report(h.queries.OccupationCard))
	a.GET("/city-performance", report(h.queries.CityPerformance))
	a.GET("/occupation-income", report(h.queries.OccupationIncome))
	a.GET("/premium", report(h.queries.Premium))
	a.GET("/digital", report(h.queries.Digital))
	a.GET("/high-value", h.HighValue)
	a.GET("/completeness", report(h.queries.Completeness))
	a.GET("/segments", report(h.queries.Segments))
	a.GET("/executive-summary", report(h.queries.ExecutiveSummary))
}

// report serves a parameterless report.
func report[T any](compute func(context.Context) (*T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := compute(c.Request.Context())
		if err != nil {
			respondWithServiceError(c, err, "Failed to compute report")
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func (h *AnalyticsHandler) Breakdown(c *gin.Context) {
	r, err := h.queries.Breakdown(c.Request.Context(), cqrs.BreakdownQuery{Dimension: c.Param("dimension")})
	if err != nil {
		respondWithServiceError(c, err, "Failed to compute report")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *AnalyticsHandler) HighValue(c *gin.Context) {
	var req HighValueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	var q cqrs.HighValueQuery
	if req.Threshold != nil {
		q.Threshold = *req.Threshold
	}
	r, err := h.queries.HighValue(c.Request.Context(), q)
	if err != nil {
		respondWithServiceError(c, err, "Failed to compute report")
		return
	}
	c.JSON(http.StatusOK, r)
}
