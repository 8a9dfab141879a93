package entity

import (
	"time"

	"github.com/google/uuid"
)

// LeadSubmission is one prospect submitted for qualification.
type LeadSubmission struct {
	CompanyName   string `json:"company_name"`
	Industry      string `json:"industry"`
	EmployeeCount string `json:"employee_count"`
	AnnualRevenue string `json:"annual_revenue"`
	Website       string `json:"website,omitempty"`
	Challenges    string `json:"challenges"`
}

// Verdict is the structured judgment returned by the language model.
type Verdict struct {
	Score           int      `json:"score"`
	Summary         string   `json:"summary"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// Qualification is a persisted lead together with its verdict.
type Qualification struct {
	ID                           uuid.UUID `json:"id"`
	UserID                       uuid.UUID `json:"user_id"`
	CompanyName                  string    `json:"company_name"`
	Industry                     string    `json:"industry"`
	EmployeeCount                string    `json:"employee_count"`
	AnnualRevenue                string    `json:"annual_revenue"`
	Website                      *string   `json:"website,omitempty"`
	Challenges                   string    `json:"challenges"`
	QualificationScore           int       `json:"qualification_score"`
	QualificationSummary         string    `json:"qualification_summary"`
	QualificationInsights        []string  `json:"qualification_insights"`
	QualificationRecommendations []string  `json:"qualification_recommendations"`
	KeyNeed                      *string   `json:"key_need,omitempty"`
	CreatedAt                    time.Time `json:"created_at"`
}

// Lead returns the submission part of the record.
func (q Qualification) Lead() LeadSubmission {
	lead := LeadSubmission{
		CompanyName:   q.CompanyName,
		Industry:      q.Industry,
		EmployeeCount: q.EmployeeCount,
		AnnualRevenue: q.AnnualRevenue,
		Challenges:    q.Challenges,
	}
	if q.Website != nil {
		lead.Website = *q.Website
	}
	return lead
}

// Verdict returns the model judgment part of the record.
func (q Qualification) Verdict() Verdict {
	return Verdict{
		Score:           q.QualificationScore,
		Summary:         q.QualificationSummary,
		Insights:        q.QualificationInsights,
		Recommendations: q.QualificationRecommendations,
	}
}
