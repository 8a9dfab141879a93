package service

import (
	"strings"
	"text/template"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

// verdictInstruction is the response contract the verdict parser depends on.
const verdictInstruction = `Respond ONLY with a JSON object of exactly this shape:
{"score": <integer from 0 to 100>, "summary": "<short paragraph>", "insights": ["<insight>", ...], "recommendations": ["<recommendation>", ...]}`

var promptTemplate = template.Must(template.New("qualification").Parse(
	`You are a B2B sales analyst. Evaluate how well the prospective lead below fits as a customer for the qualifying business.

Qualifying Business:
- Company Name: {{.Profile.CompanyName}}
- Industry: {{.Profile.Industry}}
- Employee Count: {{.Profile.EmployeeCount}}
- Annual Revenue: {{.Profile.AnnualRevenue}}
- Services Offered: {{.Profile.Services}}

Lead Information:
- Company Name: {{.Lead.CompanyName}}
- Industry: {{.Lead.Industry}}
- Employee Count: {{.Lead.EmployeeCount}}
- Annual Revenue: {{.Lead.AnnualRevenue}}
{{- if .Lead.Website}}
- Website: {{.Lead.Website}}
{{- end}}
- Challenges: {{.Lead.Challenges}}
{{if .Excerpt}}
Website Analysis:
The following text was extracted from {{.Excerpt.URL}}:
"""
{{.Excerpt.Content}}
"""
{{end}}
Score the lead from 0 (no fit) to 100 (ideal fit) based on how well the qualifying business's services address the lead's challenges, size and industry. Summarize the reasoning, list key insights about the lead and recommend concrete next steps.

` + verdictInstruction + `
`))

type promptData struct {
	Profile entity.BusinessProfile
	Lead    entity.LeadSubmission
	Excerpt *WebsiteExcerpt
}

// ComposePrompt renders the qualification prompt. The Website Analysis section is
// only present when excerpt carries content.
func ComposePrompt(profile entity.BusinessProfile, lead entity.LeadSubmission, excerpt *WebsiteExcerpt) string {
	data := promptData{Profile: profile, Lead: lead}
	if excerpt != nil && strings.TrimSpace(excerpt.Content) != "" {
		data.Excerpt = excerpt
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, data); err != nil {
		// promptData only holds strings.
		panic(err)
	}
	return sb.String()
}
