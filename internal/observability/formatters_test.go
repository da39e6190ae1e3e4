package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/carematch/internal/matching"
	"github.com/jonathan/carematch/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintRecommendations(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &types.RecommendationsResponse{
		Recommendations: []types.MatchResult{
			{
				CandidateID:   "j-clean",
				MatchScore:    93,
				MatchedSkills: []string{"housekeeping"},
				MissingSkills: []string{},
				CandidateSummary: types.CandidateSummary{
					Kind:  types.CandidateJob,
					Title: "Weekly cleaning",
				},
			},
			{
				CandidateID:   "j-drive",
				MatchScore:    50,
				MatchedSkills: []string{},
				MissingSkills: []string{"driving"},
				CandidateSummary: types.CandidateSummary{
					Kind: types.CandidateJob,
				},
			},
		},
	}

	p.PrintRecommendations("TOP JOBS", resp)
	output := buf.String()

	assert.Contains(t, output, "TOP JOBS")
	assert.Contains(t, output, "Candidates ranked: 2")
	assert.Contains(t, output, "#1  j-clean (Weekly cleaning)")
	assert.Contains(t, output, "Score: 93")
	assert.Contains(t, output, "Missing: driving")
	assert.NotContains(t, output, "more candidates")
}

func TestPrintRecommendations_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resp := &types.RecommendationsResponse{}
	for i := 0; i < 8; i++ {
		resp.Recommendations = append(resp.Recommendations, types.MatchResult{
			CandidateID:      fmt.Sprintf("w%d", i),
			MatchScore:       90 - i,
			CandidateSummary: types.CandidateSummary{Kind: types.CandidateWorker, DisplayName: "Ana"},
		})
	}

	p.PrintRecommendations("TOP WORKERS", resp)
	output := buf.String()

	assert.Contains(t, output, "#5  w4 (Ana)")
	assert.NotContains(t, output, "#6")
	assert.Contains(t, output, "... and 3 more candidates")
}

func TestPrintRecommendations_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations("TOP JOBS", &types.RecommendationsResponse{})
	assert.Contains(t, buf.String(), "No candidates in the pool.")
}

func TestPrintRecommendations_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRecommendations("TOP JOBS", nil)

	assert.Empty(t, buf.String())
}

func TestPrintBreakdown(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBreakdown("w1 / j1", &types.ScoreBreakdown{
		MatchScore: 64,
		Breakdown: types.Breakdown{
			types.CriterionSkills:     0.5,
			types.CriterionReputation: 1,
		},
		Notes: "Moderate skill match (cooking).",
	})
	output := buf.String()

	assert.Contains(t, output, "Match score: 64")
	assert.Contains(t, output, "skills        0.50")
	assert.Contains(t, output, "location      n/a")
	assert.Contains(t, output, strings.Repeat("█", 20))
	assert.Contains(t, output, "Moderate skill match (cooking).")
}

func TestPrintBreakdown_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintBreakdown("x", nil)
	assert.Empty(t, buf.String())
}

func TestPrintWeights(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintWeights(matching.DefaultWeights())
	output := buf.String()

	assert.Contains(t, output, "CRITERION WEIGHTS")
	assert.Contains(t, output, "skills        0.30")
	assert.Contains(t, output, "reputation    0.10")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("T", strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}
