package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/repository"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service/keyneed"
)

// Analyzer produces a verdict for a lead.
type Analyzer interface {
	Analyze(ctx context.Context, in AnalyzeInput) (entity.Verdict, error)
}

// QualifyInput is a qualification request. Profile and APIKey fall back to the
// caller's stored profile when omitted.
type QualifyInput struct {
	Lead    entity.LeadSubmission
	Profile *entity.BusinessProfile
	APIKey  string
}

// QualificationService owns qualification records on behalf of authenticated users.
type QualificationService struct {
	repo     repository.QualificationsRepository
	profiles repository.ProfilesRepository
	analyzer Analyzer
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewQualificationService wires the store with the analysis pipeline.
func NewQualificationService(repo repository.QualificationsRepository, profiles repository.ProfilesRepository, analyzer Analyzer, log logrus.FieldLogger) *QualificationService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &QualificationService{
		repo:     repo,
		profiles: profiles,
		analyzer: analyzer,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a verdict for lead under ownerID.
func (s *QualificationService) Create(ctx context.Context, ownerID string, lead entity.LeadSubmission, verdict entity.Verdict) (*entity.Qualification, error) {
	uid, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, uid, lead, verdict, nil)
}

func (s *QualificationService) create(ctx context.Context, uid uuid.UUID, lead entity.LeadSubmission, verdict entity.Verdict, keyNeed *string) (*entity.Qualification, error) {
	q := &entity.Qualification{
		ID:                           uuid.New(),
		UserID:                       uid,
		CompanyName:                  lead.CompanyName,
		Industry:                     lead.Industry,
		EmployeeCount:                lead.EmployeeCount,
		AnnualRevenue:                lead.AnnualRevenue,
		Challenges:                   lead.Challenges,
		QualificationScore:           verdict.Score,
		QualificationSummary:         verdict.Summary,
		QualificationInsights:        stringSliceOrEmpty(verdict.Insights),
		QualificationRecommendations: stringSliceOrEmpty(verdict.Recommendations),
		KeyNeed:                      keyNeed,
		CreatedAt:                    s.now(),
	}
	if website := strings.TrimSpace(lead.Website); website != "" {
		q.Website = &website
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create qualification: %w", err)
	}
	return q, nil
}

// List returns the caller's records, newest first. No records is not an error.
func (s *QualificationService) List(ctx context.Context, ownerID string) ([]entity.Qualification, error) {
	uid, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list qualifications: %w", err)
	}
	if records == nil {
		records = []entity.Qualification{}
	}
	return records, nil
}

// Get loads one of the caller's records.
func (s *QualificationService) Get(ctx context.Context, ownerID, id string) (*entity.Qualification, error) {
	uid, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}
	recordID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrQualificationNotFound
	}
	q, err := s.repo.GetForUser(ctx, recordID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrQualificationNotFound) {
			return nil, ErrQualificationNotFound
		}
		return nil, fmt.Errorf("get qualification: %w", err)
	}
	return q, nil
}

// Delete removes one of the caller's records. Missing, foreign and malformed ids
// all report ErrQualificationNotFound.
func (s *QualificationService) Delete(ctx context.Context, ownerID, id string) error {
	uid, err := parseOwner(ownerID)
	if err != nil {
		return err
	}
	recordID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return ErrQualificationNotFound
	}
	if err := s.repo.DeleteForUser(ctx, recordID, uid); err != nil {
		if errors.Is(err, repository.ErrQualificationNotFound) {
			return ErrQualificationNotFound
		}
		return fmt.Errorf("delete qualification: %w", err)
	}
	return nil
}

// Analyze runs the analysis pipeline for the caller without storing anything.
func (s *QualificationService) Analyze(ctx context.Context, ownerID string, in QualifyInput) (entity.LeadSubmission, entity.Verdict, error) {
	uid, err := parseOwner(ownerID)
	if err != nil {
		return entity.LeadSubmission{}, entity.Verdict{}, err
	}
	lead, err := NormalizeLead(in.Lead)
	if err != nil {
		return entity.LeadSubmission{}, entity.Verdict{}, err
	}

	profile, apiKey, err := s.resolveProfile(ctx, uid, in)
	if err != nil {
		return entity.LeadSubmission{}, entity.Verdict{}, err
	}

	verdict, err := s.analyzer.Analyze(ctx, AnalyzeInput{Profile: profile, Lead: lead, APIKey: apiKey})
	if err != nil {
		return entity.LeadSubmission{}, entity.Verdict{}, err
	}
	return lead, verdict, nil
}

// Qualify analyzes a lead, caches its key need and stores the result.
func (s *QualificationService) Qualify(ctx context.Context, ownerID string, in QualifyInput) (*entity.Qualification, error) {
	lead, verdict, err := s.Analyze(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	uid, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}

	need := string(keyneed.Classify(keyneed.Record{
		Summary:         verdict.Summary,
		Insights:        verdict.Insights,
		Recommendations: verdict.Recommendations,
	}))

	q, err := s.create(ctx, uid, lead, verdict, &need)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"qualification_id": q.ID.String(),
		"score":            q.QualificationScore,
		"key_need":         need,
	}).Info("qualification stored")
	return q, nil
}

func (s *QualificationService) resolveProfile(ctx context.Context, uid uuid.UUID, in QualifyInput) (entity.BusinessProfile, string, error) {
	var stored *entity.BusinessProfile
	if s.profiles != nil && (in.Profile == nil || strings.TrimSpace(in.APIKey) == "") {
		p, err := s.profiles.Get(ctx, uid)
		if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
			return entity.BusinessProfile{}, "", fmt.Errorf("load profile: %w", err)
		}
		stored = p
	}

	apiKey := strings.TrimSpace(in.APIKey)
	if apiKey == "" && stored != nil && stored.GenerationAPIKey != nil {
		apiKey = *stored.GenerationAPIKey
	}

	if in.Profile != nil {
		profile, err := NormalizeProfile(*in.Profile)
		if err != nil {
			return entity.BusinessProfile{}, "", err
		}
		return profile, apiKey, nil
	}
	if stored == nil {
		return entity.BusinessProfile{}, "", ErrProfileNotFound
	}
	return *stored, apiKey, nil
}

func parseOwner(ownerID string) (uuid.UUID, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return uuid.Nil, ErrUnauthenticated
	}
	uid, err := uuid.Parse(ownerID)
	if err != nil || uid == uuid.Nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return uid, nil
}
