// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/carematch/internal/matching"
	"github.com/jonathan/carematch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintRecommendations outputs the top ranked candidates with scores and skills.
func (p *Printer) PrintRecommendations(title string, resp *types.RecommendationsResponse) {
	if resp == nil {
		return
	}
	if len(resp.Recommendations) == 0 {
		p.printBox(title, "No candidates in the pool.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates ranked: %d\n\n", len(resp.Recommendations)))

	count := min(len(resp.Recommendations), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := resp.Recommendations[i]
		sb.WriteString(fmt.Sprintf("#%d  %s", i+1, r.CandidateID))
		if label := candidateLabel(r.CandidateSummary); label != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", label))
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    Score: %d\n", r.MatchScore))
		if len(r.MatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", truncate(strings.Join(r.MatchedSkills, ", "), 40)))
		}
		if len(r.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", truncate(strings.Join(r.MissingSkills, ", "), 40)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(resp.Recommendations) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(resp.Recommendations)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func candidateLabel(s types.CandidateSummary) string {
	if s.Kind == types.CandidateWorker {
		return s.DisplayName
	}
	return s.Title
}

// PrintBreakdown outputs every criterion of one pair, marking the excluded ones.
func (p *Printer) PrintBreakdown(title string, b *types.ScoreBreakdown) {
	if b == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match score: %d\n\n", b.MatchScore))
	for _, c := range matching.Criteria() {
		v, ok := b.Breakdown[c]
		if !ok {
			sb.WriteString(fmt.Sprintf("  %-13s n/a\n", c))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-13s %.2f  %s\n", c, v, bar(v, 20)))
	}
	if b.Notes != "" {
		sb.WriteString("\n")
		sb.WriteString(b.Notes)
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func bar(v float64, width int) string {
	filled := int(v*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
}

// PrintWeights outputs the criterion weights in evaluation order.
func (p *Printer) PrintWeights(w matching.Weights) {
	var sb strings.Builder
	for _, c := range matching.Criteria() {
		sb.WriteString(fmt.Sprintf("  %-13s %.2f\n", c, w.Of(c)))
	}
	p.printBox("CRITERION WEIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}
