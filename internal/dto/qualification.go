package dto

import "github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"

// QualifyRequest submits a lead for analysis. Profile and APIKey are optional and
// fall back to the caller's stored profile.
type QualifyRequest struct {
	Lead    entity.LeadSubmission `json:"lead"`
	Profile *ProfileRequest       `json:"profile,omitempty"`
	APIKey  string                `json:"api_key,omitempty"`
}

// AnalyzeResponse is the verdict of an analysis that was not stored.
type AnalyzeResponse struct {
	Lead    entity.LeadSubmission `json:"lead"`
	Verdict entity.Verdict        `json:"verdict"`
	KeyNeed string                `json:"key_need"`
}

// ExportResponse carries the download link of an exported report.
type ExportResponse struct {
	URL string `json:"url"`
}

// ReportEmailRequest asks for the caller's summary to be mailed.
type ReportEmailRequest struct {
	Email    string `json:"email"`
	Detailed bool   `json:"detailed"`
}
