// Package report renders the human-readable artifacts of a pipeline run:
// the detection summary and the numeric utility comparison between the
// original and anonymized tables.
package report

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/detect"
	"github.com/looplj/anonhub/internal/policy"
)

// Summarize renders the per-column detection table.
func Summarize(detections []detect.Result, selections []policy.Selection) string {
	if len(detections) == 0 {
		return "No sensitive columns detected."
	}

	selectionByColumn := lo.SliceToMap(selections, func(sel policy.Selection) (string, policy.Selection) {
		return sel.Column, sel
	})

	rows := lo.Map(detections, func(det detect.Result, _ int) []string {
		applied := "-"
		if sel, ok := selectionByColumn[det.Column]; ok {
			applied = sel.Technique.String()
		}

		return []string{det.Column, det.Detector, fmt.Sprintf("%.2f", det.Confidence), applied}
	})

	return renderTable([]string{"Column", "Detector", "Confidence", "Technique"}, rows)
}

// Utility compares mean and spread of every column that is numeric in both
// tables and reports the drift caused by anonymization. Columns that were
// turned into bucket labels or hashes simply drop out of the comparison.
func Utility(original, anonymized *dataset.Table) string {
	var lines []string

	if original.NumRows() != anonymized.NumRows() || original.NumColumns() != anonymized.NumColumns() {
		lines = append(lines, fmt.Sprintf(
			"WARNING: Shape changed from (%d, %d) to (%d, %d) during anonymization.",
			original.NumRows(), original.NumColumns(),
			anonymized.NumRows(), anonymized.NumColumns(),
		))
	}

	type drift struct {
		column              string
		origMean, anonMean  float64
		origStd, anonStd    float64
		meanDelta, stdDelta float64
	}

	var drifts []drift

	for _, col := range original.Columns() {
		anonCol, ok := anonymized.Column(col.Name)
		if !ok {
			continue
		}

		origValues, ok := col.Numeric()
		if !ok {
			continue
		}

		anonValues, ok := anonCol.Numeric()
		if !ok {
			continue
		}

		d := drift{
			column:   col.Name,
			origMean: dataset.Mean(origValues),
			anonMean: dataset.Mean(anonValues),
			origStd:  dataset.Std(origValues),
			anonStd:  dataset.Std(anonValues),
		}
		d.meanDelta = deltaPercent(d.origMean, d.anonMean)
		d.stdDelta = deltaPercent(d.origStd, d.anonStd)

		drifts = append(drifts, d)
	}

	if len(drifts) == 0 {
		return "Utility report: no numeric columns to compare."
	}

	avgMeanDelta := lo.SumBy(drifts, func(d drift) float64 {
		return d.meanDelta
	}) / float64(len(drifts))

	utilityScore := 100.0 - avgMeanDelta
	if utilityScore < 0 {
		utilityScore = 0
	}

	lines = append(lines, fmt.Sprintf("Approximate data utility score (0-100): %.1f", utilityScore))
	lines = append(lines, "")

	rows := lo.Map(drifts, func(d drift, _ int) []string {
		return []string{
			d.column,
			fmt.Sprintf("%.2f", d.origMean),
			fmt.Sprintf("%.2f", d.anonMean),
			fmt.Sprintf("%.1f%%", d.meanDelta),
			fmt.Sprintf("%.2f", d.origStd),
			fmt.Sprintf("%.2f", d.anonStd),
			fmt.Sprintf("%.1f%%", d.stdDelta),
		}
	})

	lines = append(lines, renderTable(
		[]string{"Column", "Mean (orig)", "Mean (anon)", "D mean", "Std (orig)", "Std (anon)", "D std"},
		rows,
	))

	return strings.Join(lines, "\n")
}

func deltaPercent(before, after float64) float64 {
	if before == 0 {
		return 0
	}

	base := before
	if base < 0 {
		base = -base
	}

	diff := after - before
	if diff < 0 {
		diff = -diff
	}

	return diff / base * 100.0
}

// renderTable renders a markdown-style table with padded cells.
func renderTable(headers []string, rows [][]string) string {
	widths := lo.Map(headers, func(h string, _ int) int {
		return len(h)
	})

	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder

	writeRow := func(cells []string) {
		sb.WriteString("|")

		for i, cell := range cells {
			sb.WriteString(" ")
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(headers)

	sb.WriteString("|")

	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("|")
	}

	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}

	return strings.TrimRight(sb.String(), "\n")
}
