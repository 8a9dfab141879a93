package keyneed

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

// Category is one of the fixed business-need labels.
type Category string

const (
	Growth      Category = "Growth"
	Marketing   Category = "Marketing"
	Finance     Category = "Finance"
	Operations  Category = "Operations"
	Talent      Category = "Talent"
	Technology  Category = "Technology"
	Competition Category = "Competition"
	Innovation  Category = "Innovation"
	Compliance  Category = "Compliance"
	Strategy    Category = "Strategy"
)

type categoryKeywords struct {
	category Category
	keywords []string
}

// keywordTable is scanned in order; the first entry is the fallback.
var keywordTable = []categoryKeywords{
	{Growth, []string{"growth", "expand", "scale", "scaling", "new market", "acquisition", "increase sales"}},
	{Marketing, []string{"marketing", "brand", "campaign", "advertis", "lead generation", "social media", "seo"}},
	{Finance, []string{"financ", "cash flow", "budget", "cost", "funding", "profit", "revenue"}},
	{Operations, []string{"operation", "efficien", "process", "logistic", "supply chain", "workflow", "automat"}},
	{Talent, []string{"hiring", "talent", "retention", "workforce", "recruit", "staff", "employee"}},
	{Technology, []string{"technolog", "software", "digital", "cloud", "infrastructure", "data", "legacy system"}},
	{Competition, []string{"competit", "rival", "market share", "differentiat", "pricing pressure"}},
	{Innovation, []string{"innovat", "new product", "research", "r&d", "prototype", "disrupt"}},
	{Compliance, []string{"complian", "regulat", "legal", "audit", "gdpr", "certification", "risk"}},
	{Strategy, []string{"strateg", "roadmap", "vision", "long-term", "planning", "partnership"}},
}

// Record is the text a classification is derived from.
type Record struct {
	KeyNeed         string
	Summary         string
	Insights        []string
	Recommendations []string
}

// FromQualification extracts the classifiable fields of a stored qualification.
func FromQualification(q entity.Qualification) Record {
	rec := Record{
		Summary:         q.QualificationSummary,
		Insights:        q.QualificationInsights,
		Recommendations: q.QualificationRecommendations,
	}
	if q.KeyNeed != nil {
		rec.KeyNeed = *q.KeyNeed
	}
	return rec
}

// Categories returns the labels in table order.
func Categories() []Category {
	out := make([]Category, 0, len(keywordTable))
	for _, entry := range keywordTable {
		out = append(out, entry.category)
	}
	return out
}

// Classify returns the dominant key need of rec. A precomputed KeyNeed is returned
// unchanged; otherwise the category with the strictly highest keyword count wins and
// Growth is returned when nothing matches.
func Classify(rec Record) Category {
	if strings.TrimSpace(rec.KeyNeed) != "" {
		return Category(rec.KeyNeed)
	}

	text := rec.text()
	best := keywordTable[0].category
	bestCount := 0
	for _, entry := range keywordTable {
		count := countMatches(text, entry.keywords)
		if count > bestCount {
			best = entry.category
			bestCount = count
		}
	}
	return Category(titleCase(string(best)))
}

// Scores reports the keyword hit count per category, mainly for diagnostics.
func Scores(rec Record) map[Category]int {
	text := rec.text()
	scores := make(map[Category]int, len(keywordTable))
	for _, entry := range keywordTable {
		scores[entry.category] = countMatches(text, entry.keywords)
	}
	return scores
}

func (r Record) text() string {
	return strings.ToLower(r.Summary + " " + strings.Join(r.Insights, " ") + " " + strings.Join(r.Recommendations, " "))
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
