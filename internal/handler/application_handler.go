package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/onboarding/shared/cqrs"
	"github.com/eaglebank/onboarding/shared/middleware"
	"github.com/eaglebank/onboarding/shared/models"
)

// ApplicationCommander defines the write-side operations used by ApplicationHandler.
type ApplicationCommander interface {
	CreateApplication(context.Context, cqrs.CreateApplicationCommand) (*models.Application, error)
	UpdateApplication(context.Context, cqrs.UpdateApplicationCommand) (*models.Application, error)
	DeleteApplication(context.Context, cqrs.DeleteApplicationCommand) error
}

// ApplicationQuerier defines the read-side operations used by ApplicationHandler.
type ApplicationQuerier interface {
	GetApplication(context.Context, cqrs.GetApplicationQuery) (*models.Application, error)
	ListApplications(context.Context, cqrs.ListApplicationsQuery) ([]models.Application, error)
	CountApplications(context.Context) (int, error)
	FindApplication(context.Context, cqrs.FindApplicationQuery) (*models.Application, error)
	ListByAccountType(ctx context.Context, accountType string) ([]models.Application, error)
	ListByCity(ctx context.Context, city string) ([]models.Application, error)
}

// ApplicationHandler handles account-opening application requests.
type ApplicationHandler struct {
	commands ApplicationCommander
	queries  ApplicationQuerier
}

type ListApplicationsRequest struct {
	Skip  int `form:"skip" validate:"gte=0"`
	Limit int `form:"limit" validate:"gte=0,lte=100"`
}

type ListApplicationsResponse struct {
	Applications []models.Application `json:"applications"`
	Skip         int                  `json:"skip"`
	Limit        int                  `json:"limit"`
}

type CountResponse struct {
	Total int `json:"total"`
}

func NewApplicationHandler(commands ApplicationCommander, queries ApplicationQuerier) *ApplicationHandler {
	return &ApplicationHandler{commands: commands, queries: queries}
}

// Register mounts the application routes on rg.
func (h *ApplicationHandler) Register(rg *gin.RouterGroup) {
	apps := rg.Group("/applications")
	apps.POST("", h.CreateApplication)
	apps.GET("", h.ListApplications)
	apps.GET("/count", h.CountApplications)
	apps.GET("/:id", h.GetApplication)
	apps.PATCH("/:id", h.UpdateApplication)
	apps.DELETE("/:id", h.DeleteApplication)
	apps.GET("/cnic/:value", h.findBy(models.FieldCNICNo))
	apps.GET("/account-number/:value", h.findBy(models.FieldAccountNo))
	apps.GET("/iban/:value", h.findBy(models.FieldIBAN))
	apps.GET("/account-type/:accountType", h.ListByAccountType)
	apps.GET("/city/:city", h.ListByCity)
}

func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	operatorID, _ := middleware.GetOperatorID(c)

	var app models.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.commands.CreateApplication(c.Request.Context(), cqrs.CreateApplicationCommand{
		Application: app,
		SubmittedBy: operatorID,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to create application")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var req ListApplicationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	apps, err := h.queries.ListApplications(c.Request.Context(), cqrs.ListApplicationsQuery{Skip: req.Skip, Limit: req.Limit})
	if err != nil {
		respondWithServiceError(c, err, "Failed to list applications")
		return
	}

	c.JSON(http.StatusOK, ListApplicationsResponse{Applications: apps, Skip: req.Skip, Limit: req.Limit})
}

func (h *ApplicationHandler) CountApplications(c *gin.Context) {
	total, err := h.queries.CountApplications(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to count applications")
		return
	}
	c.JSON(http.StatusOK, CountResponse{Total: total})
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}

	app, err := h.queries.GetApplication(c.Request.Context(), cqrs.GetApplicationQuery{ID: id})
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch application")
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}
	operatorID, _ := middleware.GetOperatorID(c)

	var patch models.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := h.commands.UpdateApplication(c.Request.Context(), cqrs.UpdateApplicationCommand{
		ID:          id,
		Patch:       patch,
		RequestedBy: operatorID,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to update application")
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}
	operatorID, _ := middleware.GetOperatorID(c)

	err := h.commands.DeleteApplication(c.Request.Context(), cqrs.DeleteApplicationCommand{
		ID:          id,
		RequestedBy: operatorID,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to delete application")
		return
	}

	c.Status(http.StatusNoContent)
}

// findBy serves the single-record lookups by CNIC, account number and IBAN.
func (h *ApplicationHandler) findBy(field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		app, err := h.queries.FindApplication(c.Request.Context(), cqrs.FindApplicationQuery{
			Field: field,
			Value: c.Param("value"),
		})
		if err != nil {
			respondWithServiceError(c, err, "Failed to look up application")
			return
		}
		c.JSON(http.StatusOK, app)
	}
}

func (h *ApplicationHandler) ListByAccountType(c *gin.Context) {
	apps, err := h.queries.ListByAccountType(c.Request.Context(), c.Param("accountType"))
	if err != nil {
		respondWithServiceError(c, err, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) ListByCity(c *gin.Context) {
	apps, err := h.queries.ListByCity(c.Request.Context(), c.Param("city"))
	if err != nil {
		respondWithServiceError(c, err, "Failed to list applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

func applicationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid application id")
		return 0, false
	}
	return id, true
}
