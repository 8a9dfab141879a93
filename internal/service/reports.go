package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/mailer"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service/report"
)

const textContentType = "text/plain; charset=utf-8"

var filenameUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// QualificationReader lists and loads the caller's qualifications.
type QualificationReader interface {
	List(ctx context.Context, ownerID string) ([]entity.Qualification, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Qualification, error)
}

// ObjectStore uploads report artifacts and returns a download URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, content []byte) (string, error)
}

// ReportService summarizes stored qualifications and delivers reports.
type ReportService struct {
	records    QualificationReader
	dispatcher mailer.Dispatcher
	recipients *RecipientValidator
	store      ObjectStore
	log        logrus.FieldLogger
}

// NewReportService wires report delivery. store may be nil when export is disabled.
func NewReportService(records QualificationReader, dispatcher mailer.Dispatcher, recipients *RecipientValidator, store ObjectStore, log logrus.FieldLogger) *ReportService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if recipients == nil {
		recipients = NewRecipientValidator(nil)
	}
	return &ReportService{records: records, dispatcher: dispatcher, recipients: recipients, store: store, log: log}
}

// Summary aggregates all of the caller's qualifications.
func (s *ReportService) Summary(ctx context.Context, ownerID string) (report.Summary, error) {
	records, err := s.records.List(ctx, ownerID)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(records)
}

// Send renders the caller's summary and hands it to the mail dispatcher.
func (s *ReportService) Send(ctx context.Context, ownerID, email string, detailed bool) error {
	to, err := s.recipients.Normalize(ctx, email)
	if err != nil {
		return err
	}

	summary, err := s.Summary(ctx, ownerID)
	if err != nil {
		return err
	}

	html, err := report.RenderHTML(summary, detailed)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Lead qualification report: %d leads, average score %d", summary.Total, summary.AverageScore)
	if summary.Total == 1 {
		subject = fmt.Sprintf("Lead qualification report: %s (%d)", summary.Rows[0].Name, summary.Rows[0].Score)
	}

	msg := mailer.Message{
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    report.RenderText(summary, detailed),
	}
	if err := s.dispatcher.Send(ctx, msg); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"leads":    summary.Total,
		"detailed": detailed,
	}).Info("report dispatched")
	return nil
}

// Download renders one qualification as a text attachment.
func (s *ReportService) Download(ctx context.Context, ownerID, id string) (string, []byte, error) {
	q, err := s.records.Get(ctx, ownerID, id)
	if err != nil {
		return "", nil, err
	}
	return reportFilename(*q), []byte(report.RenderQualificationText(*q)), nil
}

// Export uploads one qualification's text report and returns its download URL.
func (s *ReportService) Export(ctx context.Context, ownerID, id string) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	q, err := s.records.Get(ctx, ownerID, id)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s", q.UserID, reportFilename(*q))
	link, err := s.store.Put(ctx, key, textContentType, []byte(report.RenderQualificationText(*q)))
	if err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return link, nil
}

func reportFilename(q entity.Qualification) string {
	slug := strings.Trim(filenameUnsafe.ReplaceAllString(strings.ToLower(q.CompanyName), "-"), "-")
	if slug == "" {
		slug = "lead"
	}
	return fmt.Sprintf("%s-%s.txt", slug, q.ID.String()[:8])
}
