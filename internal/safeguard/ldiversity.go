// Package safeguard implements the post-transformation l-diversity check:
// within each group of rows sharing the same quasi-identifier values, the
// designated sensitive attribute must take at least l distinct values, or
// the whole group has the attribute suppressed.
package safeguard

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/log"
)

// Config assigns column roles for the check. The defaults mirror the
// healthcare dataset the tool was originally built for.
type Config struct {
	SensitiveAttribute string   `conf:"sensitive_attribute" yaml:"sensitive_attribute" json:"sensitive_attribute"`
	QuasiIdentifiers   []string `conf:"quasi_identifiers" yaml:"quasi_identifiers" json:"quasi_identifiers"`
	MinDiversity       int      `conf:"min_diversity" yaml:"min_diversity" json:"min_diversity"`
	SuppressionLabel   string   `conf:"suppression_label" yaml:"suppression_label" json:"suppression_label"`
}

// DefaultConfig returns the built-in roles.
func DefaultConfig() Config {
	return Config{
		SensitiveAttribute: "Medical Condition",
		QuasiIdentifiers:   []string{"Age", "Gender", "Hospital", "Date of Admission"},
		MinDiversity:       3,
		SuppressionLabel:   "Suppressed",
	}
}

// groupKeySep separates quasi-identifier values inside a group key. A unit
// separator cannot occur in CSV cell text the way commas or spaces can.
const groupKeySep = "\x1f"

// Apply runs the check against an already-transformed table, so grouping
// happens on whatever form the quasi-identifiers take post-transformation
// (generalized age buckets, for instance). The table's sensitive column is
// replaced in place. Returns the number of suppressed rows.
func Apply(ctx context.Context, table *dataset.Table, cfg Config) int {
	if cfg.MinDiversity <= 0 {
		cfg.MinDiversity = 3
	}

	if cfg.SuppressionLabel == "" {
		cfg.SuppressionLabel = "Suppressed"
	}

	sensitive, ok := table.Column(cfg.SensitiveAttribute)
	if !ok {
		return 0
	}

	quasi := lo.FilterMap(cfg.QuasiIdentifiers, func(name string, _ int) (*dataset.Column, bool) {
		return table.Column(name)
	})
	if len(quasi) == 0 {
		return 0
	}

	groups := make(map[string][]int)

	for row := 0; row < table.NumRows(); row++ {
		parts := lo.Map(quasi, func(col *dataset.Column, _ int) string {
			return col.Values[row].Text()
		})

		key := strings.Join(parts, groupKeySep)
		groups[key] = append(groups[key], row)
	}

	out := sensitive.Clone()
	suppressed := 0

	for _, rows := range groups {
		distinct := make(map[string]struct{})

		for _, row := range rows {
			v := sensitive.Values[row]
			if v.IsMissing() {
				continue
			}

			distinct[v.Text()] = struct{}{}
		}

		if len(distinct) >= cfg.MinDiversity {
			continue
		}

		for _, row := range rows {
			out.Values[row] = dataset.NewString(cfg.SuppressionLabel)
		}

		suppressed += len(rows)
	}

	if suppressed > 0 {
		log.Info(ctx, "l-diversity suppression applied",
			log.String("sensitive_attribute", cfg.SensitiveAttribute),
			log.Int("min_diversity", cfg.MinDiversity),
			log.Int("suppressed_rows", suppressed),
		)
	}

	table.SetColumn(out)

	return suppressed
}
