package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/dto"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
	middlewarepkg "github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/middleware"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service/keyneed"
)

// QualificationStore is the qualification surface used by the HTTP layer.
type QualificationStore interface {
	Qualify(ctx context.Context, ownerID string, in service.QualifyInput) (*entity.Qualification, error)
	Analyze(ctx context.Context, ownerID string, in service.QualifyInput) (entity.LeadSubmission, entity.Verdict, error)
	List(ctx context.Context, ownerID string) ([]entity.Qualification, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// ReportExporter renders single qualification reports.
type ReportExporter interface {
	Download(ctx context.Context, ownerID, id string) (string, []byte, error)
	Export(ctx context.Context, ownerID, id string) (string, error)
}

// QualificationsHandler exposes lead analysis and the caller's stored qualifications.
type QualificationsHandler struct {
	qualifications QualificationStore
	reports        ReportExporter
}

// NewQualificationsHandler constructs a QualificationsHandler.
func NewQualificationsHandler(qualifications QualificationStore, reports ReportExporter) *QualificationsHandler {
	return &QualificationsHandler{qualifications: qualifications, reports: reports}
}

// Create handles POST /qualifications: analyze the lead and store the result.
func (h *QualificationsHandler) Create(c echo.Context) error {
	in, err := bindQualifyInput(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	record, err := h.qualifications.Qualify(c.Request().Context(), middlewarepkg.UserIDFromContext(c), in)
	if err != nil {
		return serviceError(c, err, "failed to qualify lead")
	}
	return Success(c, http.StatusCreated, "lead qualified", record)
}

// Analyze handles POST /qualifications/analyze: analyze without storing.
func (h *QualificationsHandler) Analyze(c echo.Context) error {
	in, err := bindQualifyInput(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	lead, verdict, err := h.qualifications.Analyze(c.Request().Context(), middlewarepkg.UserIDFromContext(c), in)
	if err != nil {
		return serviceError(c, err, "failed to analyze lead")
	}

	need := keyneed.Classify(keyneed.Record{
		Summary:         verdict.Summary,
		Insights:        verdict.Insights,
		Recommendations: verdict.Recommendations,
	})
	return Success(c, http.StatusOK, "lead analyzed", dto.AnalyzeResponse{Lead: lead, Verdict: verdict, KeyNeed: string(need)})
}

// List handles GET /qualifications requests, newest first.
func (h *QualificationsHandler) List(c echo.Context) error {
	records, err := h.qualifications.List(c.Request().Context(), middlewarepkg.UserIDFromContext(c))
	if err != nil {
		return serviceError(c, err, "failed to list qualifications")
	}
	return Success(c, http.StatusOK, "qualifications fetched", map[string]any{
		"items": records,
		"total": len(records),
	})
}

// Delete handles DELETE /qualifications/:id requests.
func (h *QualificationsHandler) Delete(c echo.Context) error {
	if err := h.qualifications.Delete(c.Request().Context(), middlewarepkg.UserIDFromContext(c), c.Param("id")); err != nil {
		return serviceError(c, err, "failed to delete qualification")
	}
	return Success(c, http.StatusOK, "qualification deleted", nil)
}

// Report handles GET /qualifications/:id/report with a text attachment.
func (h *QualificationsHandler) Report(c echo.Context) error {
	filename, content, err := h.reports.Download(c.Request().Context(), middlewarepkg.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err, "failed to render report")
	}
	return Attachment(c, filename, content)
}

// Export handles POST /qualifications/:id/export and returns the report URL.
func (h *QualificationsHandler) Export(c echo.Context) error {
	link, err := h.reports.Export(c.Request().Context(), middlewarepkg.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err, "failed to export report")
	}
	return Success(c, http.StatusOK, "report exported", dto.ExportResponse{URL: link})
}

func bindQualifyInput(c echo.Context) (service.QualifyInput, error) {
	var req dto.QualifyRequest
	if err := c.Bind(&req); err != nil {
		return service.QualifyInput{}, err
	}
	in := service.QualifyInput{Lead: req.Lead, APIKey: req.APIKey}
	if req.Profile != nil {
		profile := req.Profile.Entity()
		in.Profile = &profile
	}
	return in, nil
}
