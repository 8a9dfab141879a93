package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

const dateLayout = "2006-01-02"

const htmlTpl = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Lead Qualification Report</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; line-height: 1.6; color: #333; }
        h1 { color: #2c3e50; }
        .stats span { display: inline-block; margin-right: 16px; }
        table { width: 100%; border-collapse: collapse; margin-top: 16px; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
        .lead { border-bottom: 1px solid #eee; padding-bottom: 20px; margin-bottom: 20px; }
        .score { font-weight: bold; }
        .High { color: #27ae60; } .Medium { color: #f39c12; } .Low { color: #c0392b; }
        .summary { background-color: #f9f9f9; padding: 15px; border-radius: 5px; border-left: 4px solid #3498db; }
    </style>
</head>
<body>
    <h1>Lead Qualification Report</h1>
    <p class="stats">
        <span>Total leads: {{.Summary.Total}}</span>
        <span>Average score: {{.Summary.AverageScore}}</span>
        <span class="High">High: {{.Summary.High}}</span>
        <span class="Medium">Medium: {{.Summary.Medium}}</span>
        <span class="Low">Low: {{.Summary.Low}}</span>
    </p>
    {{- if .Summary.KeyNeed}}
    <p>Key need: <strong>{{.Summary.KeyNeed}}</strong></p>
    {{- end}}
{{if .Detailed}}
    {{- range .Summary.Rows}}
    <div class="lead">
        <h2>{{.Name}}</h2>
        <p>{{.Industry}} &middot; {{date .Date}} &middot; Key need: {{.KeyNeed}}</p>
        <p class="score {{.Band}}">Score: {{.Score}} ({{.Band}})</p>
        <div class="summary">{{.Summary}}</div>
        {{- if .Insights}}
        <h3>Key Insights</h3>
        <ol>{{range .Insights}}<li>{{.}}</li>{{end}}</ol>
        {{- end}}
        {{- if .Recommendations}}
        <h3>Recommendations</h3>
        <ol>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ol>
        {{- end}}
    </div>
    {{- end}}
{{else}}
    <table>
        <tr><th>Company</th><th>Industry</th><th>Score</th><th>Date</th></tr>
        {{- range .Summary.Rows}}
        <tr><td>{{.Name}}</td><td>{{.Industry}}</td><td class="score {{.Band}}">{{.Score}}</td><td>{{date .Date}}</td></tr>
        {{- end}}
    </table>
{{end}}
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format(dateLayout) },
}).Parse(htmlTpl))

// RenderHTML renders the email body. detailed selects per-lead sections instead of
// the compact table.
func RenderHTML(s Summary, detailed bool) (string, error) {
	var sb strings.Builder
	data := struct {
		Summary  Summary
		Detailed bool
	}{Summary: s, Detailed: detailed}
	if err := reportTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return sb.String(), nil
}

// RenderText renders the plain-text alternative of RenderHTML.
func RenderText(s Summary, detailed bool) string {
	var sb strings.Builder
	sb.WriteString("LEAD QUALIFICATION REPORT\n\n")
	fmt.Fprintf(&sb, "Total leads: %d\n", s.Total)
	fmt.Fprintf(&sb, "Average score: %d\n", s.AverageScore)
	fmt.Fprintf(&sb, "High: %d  Medium: %d  Low: %d\n", s.High, s.Medium, s.Low)
	if s.KeyNeed != "" {
		fmt.Fprintf(&sb, "Key need: %s\n", s.KeyNeed)
	}
	sb.WriteString("\n")

	if !detailed {
		for i, row := range s.Rows {
			fmt.Fprintf(&sb, "%d. %s (%s) - %d - %s\n", i+1, row.Name, row.Industry, row.Score, row.Date.Format(dateLayout))
		}
		return sb.String()
	}

	for i, row := range s.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s\n", row.Name)
		fmt.Fprintf(&sb, "Industry: %s\n", row.Industry)
		fmt.Fprintf(&sb, "Date: %s\n", row.Date.Format(dateLayout))
		fmt.Fprintf(&sb, "Score: %d (%s)\n", row.Score, row.Band)
		fmt.Fprintf(&sb, "Key need: %s\n", row.KeyNeed)
		writeTextSections(&sb, row.Summary, row.Insights, row.Recommendations)
	}
	return sb.String()
}

// RenderQualificationText renders one qualification as a downloadable text report.
func RenderQualificationText(q entity.Qualification) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "LEAD QUALIFICATION: %s\n", q.CompanyName)
	fmt.Fprintf(&sb, "Industry: %s\n", q.Industry)
	if q.Website != nil && *q.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", *q.Website)
	}
	fmt.Fprintf(&sb, "Date: %s\n", q.CreatedAt.Format(dateLayout))
	fmt.Fprintf(&sb, "Score: %d/100 (%s)\n", q.QualificationScore, Band(q.QualificationScore))
	if q.KeyNeed != nil && *q.KeyNeed != "" {
		fmt.Fprintf(&sb, "Key need: %s\n", *q.KeyNeed)
	}
	writeTextSections(&sb, q.QualificationSummary, q.QualificationInsights, q.QualificationRecommendations)
	return sb.String()
}

func writeTextSections(sb *strings.Builder, summary string, insights, recommendations []string) {
	sb.WriteString("\nSUMMARY\n")
	sb.WriteString(summary)
	sb.WriteString("\n\nKEY INSIGHTS\n")
	writeNumbered(sb, insights)
	sb.WriteString("\nRECOMMENDATIONS\n")
	writeNumbered(sb, recommendations)
}

func writeNumbered(sb *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, item)
	}
}
