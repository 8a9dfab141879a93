package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/mailer"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service"
)

// serviceError maps a service failure onto the response envelope. fallback is the
// message used for unclassified errors.
func serviceError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return Error(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrQualificationNotFound):
		return Error(c, http.StatusNotFound, "qualification not found")
	case errors.Is(err, service.ErrProfileNotFound):
		return Error(c, http.StatusNotFound, "business profile not found")
	case errors.Is(err, service.ErrEmptyInput):
		return Error(c, http.StatusUnprocessableEntity, "no qualifications to report on")
	case errors.Is(err, service.ErrInvalidInput):
		return Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConfiguration):
		return Error(c, http.StatusInternalServerError, "generation service is not configured")
	case errors.Is(err, service.ErrQuotaExceeded):
		return Error(c, http.StatusServiceUnavailable, "generation quota exceeded, please retry later")
	case errors.Is(err, service.ErrServiceUnavailable):
		return Error(c, http.StatusServiceUnavailable, "generation service unavailable, please retry later")
	case errors.Is(err, service.ErrAnalysisFailed):
		return Error(c, http.StatusBadGateway, "analysis failed, the model returned an unusable response")
	case errors.Is(err, service.ErrStorageDisabled):
		return Error(c, http.StatusServiceUnavailable, "report export is not configured")
	case errors.Is(err, mailer.ErrNotConfigured):
		return Error(c, http.StatusServiceUnavailable, "report delivery is not configured")
	default:
		return Error(c, http.StatusInternalServerError, fallback)
	}
}
