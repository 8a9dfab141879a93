package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

// WebsiteFetcher retrieves a website excerpt for a lead.
type WebsiteFetcher interface {
	Extract(ctx context.Context, url string) (WebsiteExcerpt, error)
}

// AnalyzeInput carries everything one analysis needs. APIKey is the caller-scoped
// credential and may be empty.
type AnalyzeInput struct {
	Profile entity.BusinessProfile
	Lead    entity.LeadSubmission
	APIKey  string
}

// AnalysisService turns a lead into a verdict via the generation service.
type AnalysisService struct {
	fetcher    WebsiteFetcher
	generator  TextGenerator
	defaultKey string
	log        logrus.FieldLogger
}

// NewAnalysisService wires the pipeline. defaultKey is the shared fallback credential.
func NewAnalysisService(fetcher WebsiteFetcher, generator TextGenerator, defaultKey string, log logrus.FieldLogger) *AnalysisService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AnalysisService{
		fetcher:    fetcher,
		generator:  generator,
		defaultKey: strings.TrimSpace(defaultKey),
		log:        log,
	}
}

// Analyze runs extract, compose, generate and parse. A website failure only degrades
// the prompt. Generation failures are *ServiceUnavailableError and unusable output is
// *UnparsableResponseError.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (entity.Verdict, error) {
	entry := s.log.WithField("lead", in.Lead.CompanyName)

	var excerpt *WebsiteExcerpt
	if website := strings.TrimSpace(in.Lead.Website); website != "" && s.fetcher != nil {
		got, err := s.fetcher.Extract(ctx, website)
		if err != nil {
			entry.WithError(err).WithField("website", website).Warn("website excerpt unavailable, continuing without it")
		} else {
			excerpt = &got
		}
	}

	prompt := ComposePrompt(in.Profile, in.Lead, excerpt)

	apiKey := s.selectCredential(in.APIKey)
	if apiKey == "" {
		return entity.Verdict{}, ErrConfiguration
	}

	raw, err := s.generator.Generate(ctx, apiKey, prompt)
	if err != nil {
		entry.WithError(err).Error("generation call failed")
		return entity.Verdict{}, &ServiceUnavailableError{Err: err, Quota: errors.Is(err, ErrQuotaExceeded)}
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		entry.WithError(err).WithField("raw_length", len(raw)).Error("model response unparsable")
		return entity.Verdict{}, err
	}

	entry.WithField("score", verdict.Score).Info("lead analyzed")
	return verdict, nil
}

func (s *AnalysisService) selectCredential(callerKey string) string {
	if key := strings.TrimSpace(callerKey); key != "" {
		return key
	}
	return s.defaultKey
}
