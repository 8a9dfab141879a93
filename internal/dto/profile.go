package dto

import (
	"time"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

// ProfileRequest describes the caller's own business. A nil GenerationAPIKey keeps
// the stored key.
type ProfileRequest struct {
	CompanyName      string  `json:"company_name"`
	Industry         string  `json:"industry"`
	EmployeeCount    string  `json:"employee_count"`
	AnnualRevenue    string  `json:"annual_revenue"`
	Services         string  `json:"services"`
	GenerationAPIKey *string `json:"generation_api_key,omitempty"`
}

// Entity converts the request into a business profile.
func (r ProfileRequest) Entity() entity.BusinessProfile {
	return entity.BusinessProfile{
		CompanyName:      r.CompanyName,
		Industry:         r.Industry,
		EmployeeCount:    r.EmployeeCount,
		AnnualRevenue:    r.AnnualRevenue,
		Services:         r.Services,
		GenerationAPIKey: r.GenerationAPIKey,
	}
}

// ProfileResponse is the stored profile without its credential.
type ProfileResponse struct {
	CompanyName      string    `json:"company_name"`
	Industry         string    `json:"industry"`
	EmployeeCount    string    `json:"employee_count"`
	AnnualRevenue    string    `json:"annual_revenue"`
	Services         string    `json:"services"`
	HasGenerationKey bool      `json:"has_generation_key"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProfileResponse builds a response from a stored profile.
func NewProfileResponse(p entity.BusinessProfile) ProfileResponse {
	return ProfileResponse{
		CompanyName:      p.CompanyName,
		Industry:         p.Industry,
		EmployeeCount:    p.EmployeeCount,
		AnnualRevenue:    p.AnnualRevenue,
		Services:         p.Services,
		HasGenerationKey: p.GenerationAPIKey != nil && *p.GenerationAPIKey != "",
		UpdatedAt:        p.UpdatedAt,
	}
}
