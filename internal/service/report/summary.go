package report

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service/keyneed"
)

// ErrEmptyInput is returned when a summary is requested for zero records.
var ErrEmptyInput = errors.New("no qualifications to summarize")

// Score bands.
const (
	HighThreshold   = 80
	MediumThreshold = 60

	BandHigh   = "High"
	BandMedium = "Medium"
	BandLow    = "Low"
)

// Row is one qualification in a summary, ordered by score.
type Row struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Industry        string    `json:"industry"`
	Score           int       `json:"score"`
	Band            string    `json:"band"`
	Date            time.Time `json:"date"`
	KeyNeed         string    `json:"key_need"`
	Summary         string    `json:"summary"`
	Insights        []string  `json:"insights"`
	Recommendations []string  `json:"recommendations"`
}

// Summary aggregates a set of qualifications.
type Summary struct {
	Total        int    `json:"total"`
	AverageScore int    `json:"average_score"`
	High         int    `json:"high"`
	Medium       int    `json:"medium"`
	Low          int    `json:"low"`
	KeyNeed      string `json:"key_need,omitempty"`
	Rows         []Row  `json:"rows"`
}

// Band classifies a score as High (>=80), Medium (60-79) or Low (<60).
func Band(score int) string {
	switch {
	case score >= HighThreshold:
		return BandHigh
	case score >= MediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// Summarize sorts records by score, highest first, and computes the band counts and
// the rounded average. KeyNeed is only set when there is exactly one record.
func Summarize(records []entity.Qualification) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrEmptyInput
	}

	rows := make([]Row, 0, len(records))
	sum := 0
	var s Summary
	for _, q := range records {
		sum += q.QualificationScore
		band := Band(q.QualificationScore)
		switch band {
		case BandHigh:
			s.High++
		case BandMedium:
			s.Medium++
		default:
			s.Low++
		}
		rows = append(rows, Row{
			ID:              q.ID.String(),
			Name:            q.CompanyName,
			Industry:        q.Industry,
			Score:           q.QualificationScore,
			Band:            band,
			Date:            q.CreatedAt,
			KeyNeed:         string(keyneed.Classify(keyneed.FromQualification(q))),
			Summary:         q.QualificationSummary,
			Insights:        q.QualificationInsights,
			Recommendations: q.QualificationRecommendations,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })

	s.Total = len(records)
	s.AverageScore = int(math.Round(float64(sum) / float64(len(records))))
	s.Rows = rows
	if len(rows) == 1 {
		s.KeyNeed = rows[0].KeyNeed
	}
	return s, nil
}
