// Package pipeline sequences the anonymization run: classification, policy
// resolution, per-column transformation, and the disclosure safeguard.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/detect"
	"github.com/looplj/anonhub/internal/log"
	"github.com/looplj/anonhub/internal/policy"
	"github.com/looplj/anonhub/internal/report"
	"github.com/looplj/anonhub/internal/safeguard"
	"github.com/looplj/anonhub/internal/technique"
	"github.com/looplj/anonhub/internal/tracing"
)

// ErrSecretRequired is returned by New when irreversible mode is requested
// without a configured secret. This is a construction-time failure: no
// transformation can run without it.
var ErrSecretRequired = errors.New("irreversible anonymization requires a secret")

// sampleSeed fixes the sub-sampling draw so previews are reproducible.
const sampleSeed = 42

// Config assembles a pipeline.
type Config struct {
	Mode      policy.Mode
	Secret    string
	Overrides []policy.Override
	Allowlist []string
	Defaults  policy.Defaults
	Safeguard safeguard.Config
}

// Result is the unit returned to callers: the transformed table plus the
// structured detection and selection data behind the report.
type Result struct {
	Table      *dataset.Table
	Detections []detect.Result
	Selections []policy.Selection
	Report     string
}

// RunOptions tune a single run.
type RunOptions struct {
	// InspectOnly stops after classification and selection; the table is
	// returned untransformed.
	InspectOnly bool
	// SampleRows, when positive, runs the transformation on a reproducible
	// uniform sub-sample of at most this many rows. Ignored when Persistent
	// is set: persisted output always covers the full table.
	SampleRows int
	// Persistent marks the run as producing durable output.
	Persistent bool
}

// Pipeline is the orchestrator. It is immutable after construction and safe
// to reuse across runs; each run owns its own parameter maps and generators.
type Pipeline struct {
	mode       policy.Mode
	classifier *detect.Classifier
	selector   *policy.Selector
	safeguard  safeguard.Config
}

// New builds a pipeline, enforcing the mode invariant.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Mode == policy.Irreversible && cfg.Secret == "" {
		return nil, ErrSecretRequired
	}

	overrideHints := lo.SliceToMap(cfg.Overrides, func(rule policy.Override) (string, string) {
		return rule.Column, rule.DetectorHint
	})

	return &Pipeline{
		mode:       cfg.Mode,
		classifier: detect.NewClassifier(cfg.Allowlist, overrideHints),
		selector:   policy.NewSelector(cfg.Mode, cfg.Secret, cfg.Overrides, cfg.Defaults),
		safeguard:  cfg.Safeguard,
	}, nil
}

// Mode returns the operating mode fixed at construction.
func (p *Pipeline) Mode() policy.Mode {
	return p.mode
}

// Inspect classifies the table and resolves selections without transforming
// anything.
func (p *Pipeline) Inspect(ctx context.Context, table *dataset.Table) *Result {
	detections := p.classifier.Classify(ctx, table)
	selections := p.selector.Select(detections)

	return &Result{
		Table:      table,
		Detections: detections,
		Selections: selections,
		Report:     report.Summarize(detections, selections),
	}
}

// Run executes a full anonymization pass over the table. The input table is
// never modified. Selections referencing columns absent from the table are
// skipped silently: they are stale configuration, not errors.
func (p *Pipeline) Run(ctx context.Context, table *dataset.Table, opts RunOptions) (*Result, error) {
	ctx = tracing.WithRunID(ctx, tracing.GenerateRunID())

	log.Info(ctx, "starting anonymization run",
		log.String("mode", p.mode.String()),
		log.Int("rows", table.NumRows()),
		log.Int("columns", table.NumColumns()),
	)

	result := p.Inspect(ctx, table)
	if opts.InspectOnly {
		return result, nil
	}

	working := table.Clone()

	// Preview runs without durable output can work on a sampled subset to
	// keep response times flat on large datasets.
	if opts.SampleRows > 0 && !opts.Persistent && working.NumRows() > opts.SampleRows {
		working = working.Sample(opts.SampleRows, sampleSeed)

		log.Debug(ctx, "sampled table for preview",
			log.Int("sample_rows", opts.SampleRows),
		)
	}

	utilityBase := working.Clone()

	for i, selection := range result.Selections {
		col, ok := working.Column(selection.Column)
		if !ok {
			log.Debug(ctx, "selection references missing column, skipping",
				log.String("column", selection.Column),
			)

			continue
		}

		out, effective, err := technique.Apply(col, selection.Technique, selection.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to apply %s to column %q: %w",
				selection.Technique, selection.Column, err)
		}

		working.SetColumn(out)

		// Hand the effective params (including any generated seed) back to
		// the caller; reversibility depends on the caller keeping them.
		result.Selections[i].Params = effective
	}

	if p.mode == policy.Irreversible {
		safeguard.Apply(ctx, working, p.safeguard)
	}

	result.Table = working
	result.Report = result.Report + "\n\n" + report.Utility(utilityBase, working)

	log.Info(ctx, "anonymization run completed",
		log.String("mode", p.mode.String()),
		log.Int("rows", working.NumRows()),
		log.Strings("columns", working.ColumnNames()),
		log.Any("techniques", lo.SliceToMap(result.Selections, func(sel policy.Selection) (string, string) {
			return sel.Column, sel.Technique.String()
		})),
	)

	return result, nil
}
