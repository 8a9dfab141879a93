package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
	middlewarepkg "github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/middleware"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service/report"
)

const testOwner = "7d1f0b7c-52f5-4b8e-9d55-7f3a0c3e1a11"

type stubQualificationStore struct {
	qualify func(ctx context.Context, ownerID string, in service.QualifyInput) (*entity.Qualification, error)
	analyze func(ctx context.Context, ownerID string, in service.QualifyInput) (entity.LeadSubmission, entity.Verdict, error)
	list    func(ctx context.Context, ownerID string) ([]entity.Qualification, error)
	del     func(ctx context.Context, ownerID, id string) error
}

func (s *stubQualificationStore) Qualify(ctx context.Context, ownerID string, in service.QualifyInput) (*entity.Qualification, error) {
	if s.qualify != nil {
		return s.qualify(ctx, ownerID, in)
	}
	return nil, errors.New("not implemented")
}

func (s *stubQualificationStore) Analyze(ctx context.Context, ownerID string, in service.QualifyInput) (entity.LeadSubmission, entity.Verdict, error) {
	if s.analyze != nil {
		return s.analyze(ctx, ownerID, in)
	}
	return entity.LeadSubmission{}, entity.Verdict{}, errors.New("not implemented")
}

func (s *stubQualificationStore) List(ctx context.Context, ownerID string) ([]entity.Qualification, error) {
	if s.list != nil {
		return s.list(ctx, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (s *stubQualificationStore) Delete(ctx context.Context, ownerID, id string) error {
	if s.del != nil {
		return s.del(ctx, ownerID, id)
	}
	return errors.New("not implemented")
}

type stubReports struct {
	download func(ctx context.Context, ownerID, id string) (string, []byte, error)
	export   func(ctx context.Context, ownerID, id string) (string, error)
	summary  func(ctx context.Context, ownerID string) (report.Summary, error)
	send     func(ctx context.Context, ownerID, email string, detailed bool) error
}

func (s *stubReports) Download(ctx context.Context, ownerID, id string) (string, []byte, error) {
	if s.download != nil {
		return s.download(ctx, ownerID, id)
	}
	return "", nil, errors.New("not implemented")
}

func (s *stubReports) Export(ctx context.Context, ownerID, id string) (string, error) {
	if s.export != nil {
		return s.export(ctx, ownerID, id)
	}
	return "", errors.New("not implemented")
}

func (s *stubReports) Summary(ctx context.Context, ownerID string) (report.Summary, error) {
	if s.summary != nil {
		return s.summary(ctx, ownerID)
	}
	return report.Summary{}, errors.New("not implemented")
}

func (s *stubReports) Send(ctx context.Context, ownerID, email string, detailed bool) error {
	if s.send != nil {
		return s.send(ctx, ownerID, email, detailed)
	}
	return errors.New("not implemented")
}

// newContext builds an echo context for an authenticated request with a JSON body.
func newContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middlewarepkg.ContextKeyUserID, testOwner)
	return c, rec
}
