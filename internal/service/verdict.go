package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

const (
	minScore = 0
	maxScore = 100
)

var bracketSpanExpr = regexp.MustCompile(`(?s)\{.*\}`)

// verdictStrategy attempts to turn raw model output into a verdict.
type verdictStrategy struct {
	name  string
	parse func(raw string) (entity.Verdict, error)
}

// verdictStrategies run in order; the first success wins.
var verdictStrategies = []verdictStrategy{
	{name: "direct", parse: parseDirect},
	{name: "bracket_span", parse: parseBracketSpan},
}

// rawVerdict mirrors the JSON object the prompt asks for. Score is decoded as a
// float so that "87.5" style answers are not rejected outright.
type rawVerdict struct {
	Score           *float64 `json:"score"`
	Summary         string   `json:"summary"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// ParseVerdict extracts a verdict from model output, first by decoding the whole
// text and then by decoding the widest {...} span inside it.
func ParseVerdict(raw string) (entity.Verdict, error) {
	var lastErr error
	for _, strategy := range verdictStrategies {
		verdict, err := strategy.parse(raw)
		if err == nil {
			return verdict, nil
		}
		lastErr = fmt.Errorf("%s: %w", strategy.name, err)
	}
	return entity.Verdict{}, &UnparsableResponseError{Raw: raw, Err: lastErr}
}

func parseDirect(raw string) (entity.Verdict, error) {
	return decodeVerdict(strings.TrimSpace(raw))
}

func parseBracketSpan(raw string) (entity.Verdict, error) {
	span := bracketSpanExpr.FindString(raw)
	if span == "" {
		return entity.Verdict{}, errors.New("no json object found")
	}
	return decodeVerdict(span)
}

func decodeVerdict(text string) (entity.Verdict, error) {
	if text == "" {
		return entity.Verdict{}, errors.New("empty response")
	}
	if !strings.HasPrefix(text, "{") {
		return entity.Verdict{}, errors.New("response is not a json object")
	}

	var parsed rawVerdict
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return entity.Verdict{}, err
	}

	verdict := entity.Verdict{
		Summary:         strings.TrimSpace(parsed.Summary),
		Insights:        stringSliceOrEmpty(parsed.Insights),
		Recommendations: stringSliceOrEmpty(parsed.Recommendations),
	}
	// A reply without a score keeps the zero value.
	if parsed.Score != nil {
		verdict.Score = clampScore(*parsed.Score)
	}
	return verdict, nil
}

func clampScore(value float64) int {
	if math.IsNaN(value) {
		return minScore
	}
	rounded := int(math.Round(value))
	if rounded < minScore {
		return minScore
	}
	if rounded > maxScore {
		return maxScore
	}
	return rounded
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
