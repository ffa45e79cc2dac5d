package detect

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/log"
)

// Result flags one column as sensitive. At most one Result exists per
// column; absence means the column was not flagged.
type Result struct {
	Column     string
	Detector   string
	Confidence float64
}

// Classifier applies the detector rules to every column of a table.
type Classifier struct {
	allowlist map[string]struct{}
	overrides map[string]string
}

// NewClassifier builds a classifier. Allowlisted columns are skipped
// entirely, case-insensitively. overrides maps a column name to a detector
// label that short-circuits classification for that column.
func NewClassifier(allowlist []string, overrides map[string]string) *Classifier {
	return &Classifier{
		allowlist: lo.SliceToMap(allowlist, func(name string) (string, struct{}) {
			return strings.ToLower(name), struct{}{}
		}),
		overrides: overrides,
	}
}

// Classify scores every column and returns the best match per column, in
// column order. Detectors run in Priority order; the first match at or above
// 0.95 wins immediately. Priority order already decides precedence among
// equal scores, so the early exit cannot change the outcome.
func (c *Classifier) Classify(ctx context.Context, table *dataset.Table) []Result {
	results := make([]Result, 0, table.NumColumns())

	for _, col := range table.Columns() {
		if _, ok := c.allowlist[strings.ToLower(col.Name)]; ok {
			log.Debug(ctx, "column allowlisted, skipping", log.String("column", col.Name))
			continue
		}

		if hint, ok := c.overrides[col.Name]; ok {
			results = append(results, Result{Column: col.Name, Detector: hint, Confidence: 1.0})
			continue
		}

		if result, ok := c.classifyColumn(col); ok {
			log.Debug(ctx, "column classified",
				log.String("column", result.Column),
				log.String("detector", result.Detector),
				log.Float("confidence", result.Confidence),
			)
			results = append(results, result)
		}
	}

	return results
}

func (c *Classifier) classifyColumn(col *dataset.Column) (Result, bool) {
	var (
		best      Kind
		bestScore float64
	)

	for _, kind := range Priority {
		if !kind.matches(col.Name, col) {
			continue
		}

		score := kind.confidence(col.Name)
		if score > bestScore {
			best = kind
			bestScore = score

			if score >= 0.95 {
				break
			}
		}
	}

	if bestScore == 0 {
		return Result{}, false
	}

	return Result{Column: col.Name, Detector: best.Label(), Confidence: bestScore}, true
}
