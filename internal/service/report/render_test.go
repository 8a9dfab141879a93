package report

import (
	"strings"
	"testing"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

func sampleSummary(t *testing.T) Summary {
	t.Helper()
	a := record("Acme <Logistics>", 90)
	a.QualificationInsights = []string{"Growing fleet"}
	a.QualificationRecommendations = []string{"Book a demo", "Send case study"}
	s, err := Summarize([]entity.Qualification{a, record("Globex", 55)})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	return s
}

func TestRenderHTML_Compact(t *testing.T) {
	out, err := RenderHTML(sampleSummary(t), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<table>") {
		t.Fatalf("expected compact table")
	}
	if strings.Contains(out, "Recommendations") {
		t.Fatalf("expected no per-lead sections in compact mode")
	}
	if !strings.Contains(out, "Acme &lt;Logistics&gt;") {
		t.Fatalf("expected company name to be escaped")
	}
	if !strings.Contains(out, "2024-05-01") || !strings.Contains(out, "Average score: 73") {
		t.Fatalf("expected date and average in output")
	}
}

func TestRenderHTML_Detailed(t *testing.T) {
	out, err := RenderHTML(sampleSummary(t), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Key Insights", "Growing fleet", "Recommendations", "Send case study", "Key need:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected detailed output to contain %q", want)
		}
	}
	if strings.Contains(out, "<table>") {
		t.Fatalf("expected no compact table in detailed mode")
	}
}

func TestRenderText(t *testing.T) {
	s := sampleSummary(t)

	compact := RenderText(s, false)
	if !strings.Contains(compact, "1. Acme <Logistics> (Retail) - 90 - 2024-05-01") {
		t.Fatalf("unexpected compact text: %s", compact)
	}
	if !strings.Contains(compact, "2. Globex") {
		t.Fatalf("expected second row numbered 2")
	}

	detailed := RenderText(s, true)
	for _, want := range []string{"SUMMARY", "KEY INSIGHTS", "RECOMMENDATIONS", "2. Send case study"} {
		if !strings.Contains(detailed, want) {
			t.Fatalf("expected detailed text to contain %q", want)
		}
	}
}

func TestRenderQualificationText(t *testing.T) {
	q := record("Acme", 82)
	website := "https://acme.example"
	need := "Operations"
	q.Website = &website
	q.KeyNeed = &need
	q.QualificationInsights = []string{"Growing fleet", "Legacy dispatch"}
	q.QualificationRecommendations = []string{"Book a demo"}

	out := RenderQualificationText(q)

	summaryIdx := strings.Index(out, "SUMMARY\n")
	insightsIdx := strings.Index(out, "KEY INSIGHTS\n")
	recsIdx := strings.Index(out, "RECOMMENDATIONS\n")
	if summaryIdx < 0 || insightsIdx < summaryIdx || recsIdx < insightsIdx {
		t.Fatalf("expected sections in order, got:\n%s", out)
	}
	for _, want := range []string{"1. Growing fleet", "2. Legacy dispatch", "1. Book a demo", "Score: 82/100 (High)", "Key need: Operations", "Website: https://acme.example"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0. ") {
		t.Fatalf("expected numbering to start at 1")
	}
}
