package entity

import (
	"time"

	"github.com/google/uuid"
)

// BusinessProfile describes the company of the user running qualifications.
type BusinessProfile struct {
	UserID           uuid.UUID `json:"user_id"`
	CompanyName      string    `json:"company_name"`
	Industry         string    `json:"industry"`
	EmployeeCount    string    `json:"employee_count"`
	AnnualRevenue    string    `json:"annual_revenue"`
	Services         string    `json:"services"`
	GenerationAPIKey *string   `json:"-"`
	UpdatedAt        time.Time `json:"updated_at"`
}
