package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/dto"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/mailer"
	middlewarepkg "github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/middleware"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service/report"
)

// ReportSender summarizes and delivers the caller's qualifications.
type ReportSender interface {
	Summary(ctx context.Context, ownerID string) (report.Summary, error)
	Send(ctx context.Context, ownerID, email string, detailed bool) error
}

// ReportsHandler exposes aggregate reporting endpoints.
type ReportsHandler struct {
	reports ReportSender
}

// NewReportsHandler constructs a ReportsHandler.
func NewReportsHandler(reports ReportSender) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// Summary handles GET /reports/summary requests.
func (h *ReportsHandler) Summary(c echo.Context) error {
	summary, err := h.reports.Summary(c.Request().Context(), middlewarepkg.UserIDFromContext(c))
	if err != nil {
		return serviceError(c, err, "failed to summarize qualifications")
	}
	return Success(c, http.StatusOK, "summary generated", summary)
}

// Email handles POST /reports/email requests.
func (h *ReportsHandler) Email(c echo.Context) error {
	var req dto.ReportEmailRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	ctx := c.Request().Context()
	if rid := middlewarepkg.RequestIDFromContext(c); rid != "" {
		ctx = mailer.WithRequestID(ctx, rid)
	}

	if err := h.reports.Send(ctx, middlewarepkg.UserIDFromContext(c), req.Email, req.Detailed); err != nil {
		return serviceError(c, err, "failed to send report")
	}
	return Success(c, http.StatusAccepted, "report sent", map[string]any{"email": req.Email, "detailed": req.Detailed})
}
