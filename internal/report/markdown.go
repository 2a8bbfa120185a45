// Package report formats battery results into Markdown tables, with optional
// HTML rendering. It never computes anything: every number is handed in by
// the caller.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	domstats "quantsig/domain/stats"
)

// ThresholdSection is one indicator/target pairing of a threshold report.
type ThresholdSection struct {
	Indicator string
	Target    string
	Rows      []domstats.QuantileRow
	Test      domstats.ThresholdTestReport
}

// ThresholdReport renders the optimal-thresholds report: per pairing, the
// quantile profit-factor table followed by the optimizer result and, when
// permutations ran, the Monte Carlo p-values.
func ThresholdReport(sections []ThresholdSection) string {
	var b strings.Builder
	b.WriteString("## Optimal Thresholds w/ Profit Factor Report\n\n")
	b.WriteString("Evaluates threshold levels for each indicator to identify the most " +
		"profitable long and short rules. Each table row shows the fraction of cases " +
		"on either side of a threshold with the profit factors of trading those sides; " +
		"the optimal thresholds below each table are the levels with the highest profit " +
		"factors, and the p-values estimate how often random data matches them.\n")

	for _, s := range sections {
		fmt.Fprintf(&b, "\n### %s vs %s\n\n", s.Indicator, s.Target)
		b.WriteString("| Threshold | Frac Gtr/Eq | Long PF | Short PF | Frac Less | Short PF | Long PF |\n")
		b.WriteString("|-----------|-------------|---------|----------|-----------|----------|---------|\n")
		for _, r := range s.Rows {
			fmt.Fprintf(&b, "| %.3f | %.3f | %s | %s | %.3f | %s | %s |\n",
				r.Threshold, r.FracGtrEq,
				r.LongPFAbove, r.ShortPFAbove,
				r.FracLess,
				r.ShortPFBelow, r.LongPFBelow)
		}

		base := s.Test.Baseline
		fmt.Fprintf(&b, "\n**Grand profit factor**: %s\n", domstats.PFFromEpsilonBounded(base.PFAll))
		fmt.Fprintf(&b, "**Optimal long threshold**: %.4f, profit factor = %s\n",
			base.LongThreshold, base.LongProfitFactor())
		fmt.Fprintf(&b, "**Optimal short threshold**: %.4f, profit factor = %s\n",
			base.ShortThreshold, base.ShortProfitFactor())
		if s.Test.Reps > 0 {
			fmt.Fprintf(&b, "\n**P-values**: Long=%.3f, Short=%.3f, Best=%.3f\n",
				s.Test.PValLong, s.Test.PValShort, s.Test.PValBest)
		}
	}
	return b.String()
}

// MutualInfoReport renders mutual information scores with their permutation
// significance estimates.
func MutualInfoReport(scores []domstats.MIScore) string {
	var b strings.Builder
	b.WriteString("## Mutual Information Report\n\n")
	b.WriteString("High MI scores indicate a strong relationship between the indicator " +
		"and the target variable; low p-values back that up against the cyclic-shift " +
		"null distribution.\n\n")
	b.WriteString("**MI Score**: Mutual dependence between indicator and target.\n")
	b.WriteString("**Solo p-value**: Proportion of permuted MI scores at or above the original.\n")
	b.WriteString("**Unbiased p-value**: Solo estimate adjusted for the permutation count plus one.\n\n")
	b.WriteString("| Indicator | Target | MI Score | Solo p-value | Unbiased p-value |\n")
	b.WriteString("|-----------|--------|----------|--------------|------------------|\n")
	for _, s := range scores {
		fmt.Fprintf(&b, "| %s | %s | %.4f | %s | %.4f |\n",
			s.Indicator, s.Target, s.MI, formatPValue(s.SoloPValue), s.UnbiasedPValue)
	}
	return b.String()
}

// BreakReport renders the serial-correlated mean break report.
func BreakReport(r domstats.BreakReport) string {
	multi := len(r.PerIndicator) > 1

	var b strings.Builder
	b.WriteString("## Serial Correlated Mean Break Test Report\n\n")
	b.WriteString("Identifies potential breaks in the mean of each indicator while " +
		"accounting for serial correlation. A large z(U) with a small p-value points " +
		"at nonstationary behavior.\n\n")
	b.WriteString("**nrecent**: The boundary at which the strongest break was observed.\n")
	b.WriteString("**z(U)**: The greatest mean break found across the scanned range.\n")
	b.WriteString("**Solo p-value**: Significance of that break for this indicator alone.\n")
	if multi {
		b.WriteString("**Unbiased p-value**: Adjusted for testing multiple indicators.\n")
	}
	b.WriteString("\n")

	header := "| Indicator | nrecent | z(U) | Solo p-value |"
	rule := "|-----------|---------|------|--------------|"
	if multi {
		header += " Unbiased p-value |"
		rule += "------------------|"
	}
	b.WriteString(header + "\n" + rule + "\n")
	for _, row := range r.PerIndicator {
		fmt.Fprintf(&b, "| %s | %d | %.4f | %s |", row.Indicator, row.Breakpoint, row.MaxZ, formatPValue(row.SoloPValue))
		if multi {
			fmt.Fprintf(&b, " %s |", formatPValue(r.UnbiasedPValue))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BasicStatsRow is one indicator's descriptive profile.
type BasicStatsRow struct {
	Indicator       string
	NCases          int
	Mean            float64
	Min             float64
	Max             float64
	IQR             float64
	RangeIQRRatio   float64
	RelativeEntropy float64
}

// BasicStatsReport renders the descriptive profile table.
func BasicStatsReport(rows []BasicStatsRow) string {
	var b strings.Builder
	b.WriteString("## Simple Statistics and Relative Entropy Report\n\n")
	b.WriteString("Summarizes each indicator: case count, mean, range, interquartile " +
		"range, range/IQR ratio, and relative entropy. A lower range/IQR ratio suggests " +
		"a tighter distribution; relative entropy near one means close to uniform.\n\n")
	b.WriteString("| Indicator | Ncases | Mean | Min | Max | IQR | rng/IQR | Relative Entropy |\n")
	b.WriteString("|-----------|--------|------|-----|-----|-----|---------|------------------|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			r.Indicator, r.NCases, r.Mean, r.Min, r.Max, r.IQR, r.RangeIQRRatio, r.RelativeEntropy)
	}
	return b.String()
}

// RenderHTML converts a Markdown report into a standalone HTML page.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

func formatPValue(p float64) string {
	if math.IsNaN(p) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", p)
}
