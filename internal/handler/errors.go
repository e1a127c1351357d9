package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/onboarding/internal/validation"
	"github.com/eaglebank/onboarding/shared/middleware"
	"github.com/eaglebank/onboarding/shared/models"
)

// respondWithServiceError maps service errors onto status codes: validation
// failures are 400, missing records 404, everything else 500 with fallback as
// the message.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	var verr validation.Error
	switch {
	case errors.As(err, &verr):
		middleware.RespondWithValidationError(c, []middleware.ValidationError{{
			Field:   verr.Field(),
			Message: verr.Error(),
			Type:    verr.Rule(),
		}})
	case errors.Is(err, models.ErrApplicationNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Application not found")
	default:
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
