package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/policy"
	"github.com/looplj/anonhub/internal/safeguard"
	"github.com/looplj/anonhub/internal/technique"
)

var testDefaults = policy.Defaults{
	Reversible:   technique.Pseudonym,
	Irreversible: technique.Hash,
}

func nameTable() *dataset.Table {
	return dataset.New(
		dataset.NewStringColumn("Name", []string{"Alice Smith", "Bob Jones"}),
	)
}

func TestNew_SecretRequired(t *testing.T) {
	t.Run("irreversible without secret fails", func(t *testing.T) {
		_, err := New(Config{Mode: policy.Irreversible, Defaults: testDefaults})
		assert.ErrorIs(t, err, ErrSecretRequired)
	})

	t.Run("reversible without secret succeeds", func(t *testing.T) {
		_, err := New(Config{Mode: policy.Reversible, Defaults: testDefaults})
		assert.NoError(t, err)
	})

	t.Run("irreversible with secret succeeds", func(t *testing.T) {
		_, err := New(Config{Mode: policy.Irreversible, Secret: "s3cr3t", Defaults: testDefaults})
		assert.NoError(t, err)
	})
}

func TestRun_ReversibleNameColumn(t *testing.T) {
	p, err := New(Config{Mode: policy.Reversible, Defaults: testDefaults})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), nameTable(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, result.Detections, 1)
	assert.Equal(t, "name", result.Detections[0].Detector)
	assert.GreaterOrEqual(t, result.Detections[0].Confidence, 0.8)

	require.Len(t, result.Selections, 1)
	assert.Equal(t, technique.Pseudonym, result.Selections[0].Technique)

	col, ok := result.Table.Column("Name")
	require.True(t, ok)

	first := col.Values[0].Text()
	second := col.Values[1].Text()

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, "Alice Smith", first)
	assert.NotEqual(t, "Bob Jones", second)
}

func TestRun_IrreversibleNameColumn(t *testing.T) {
	cfg := Config{Mode: policy.Irreversible, Secret: "s3cr3t", Defaults: testDefaults}

	p, err := New(cfg)
	require.NoError(t, err)

	result, err := p.Run(context.Background(), nameTable(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, result.Selections, 1)
	assert.Equal(t, technique.Hash, result.Selections[0].Technique)

	col, ok := result.Table.Column("Name")
	require.True(t, ok)

	for _, v := range col.Values {
		hexed := v.Text()
		assert.Len(t, hexed, 32)
		assert.Equal(t, strings.ToLower(hexed), hexed)

		for _, r := range hexed {
			assert.Contains(t, "0123456789abcdef", string(r))
		}
	}

	// Deterministic across runs with the same secret.
	p2, err := New(cfg)
	require.NoError(t, err)

	again, err := p2.Run(context.Background(), nameTable(), RunOptions{})
	require.NoError(t, err)

	colAgain, _ := again.Table.Column("Name")
	assert.Equal(t, col.Values, colAgain.Values)
}

func TestRun_SafeguardSuppression(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Gender", []string{"F", "F", "F"}),
		dataset.NewStringColumn("Hospital", []string{"General", "General", "General"}),
		dataset.NewStringColumn("Medical Condition", []string{"Asthma", "Asthma", "Asthma"}),
	)

	p, err := New(Config{
		Mode:      policy.Irreversible,
		Secret:    "s3cr3t",
		Defaults:  testDefaults,
		Safeguard: safeguard.DefaultConfig(),
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), table, RunOptions{})
	require.NoError(t, err)

	col, ok := result.Table.Column("Medical Condition")
	require.True(t, ok)

	for _, v := range col.Values {
		assert.Equal(t, "Suppressed", v.Text())
	}
}

func TestRun_SafeguardSkippedInReversibleMode(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Gender", []string{"F", "F", "F"}),
		dataset.NewStringColumn("Medical Condition", []string{"Asthma", "Asthma", "Asthma"}),
	)

	p, err := New(Config{
		Mode:      policy.Reversible,
		Defaults:  testDefaults,
		Safeguard: safeguard.DefaultConfig(),
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), table, RunOptions{})
	require.NoError(t, err)

	col, _ := result.Table.Column("Medical Condition")
	assert.Equal(t, "Asthma", col.Values[0].Text())
}

func TestRun_HighRiskOverrideForcedToHash(t *testing.T) {
	p, err := New(Config{
		Mode:   policy.Irreversible,
		Secret: "s3cr3t",
		Overrides: []policy.Override{{
			Column:       "Name",
			DetectorHint: "name",
			Technique:    technique.Mask,
		}},
		Defaults: testDefaults,
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), nameTable(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, result.Selections, 1)
	assert.Equal(t, technique.Hash, result.Selections[0].Technique)
}

func TestRun_StaleSelectionSkipped(t *testing.T) {
	p, err := New(Config{
		Mode: policy.Reversible,
		Overrides: []policy.Override{{
			Column:       "Ghost",
			DetectorHint: "name",
			Technique:    technique.Mask,
		}},
		Defaults: testDefaults,
	})
	require.NoError(t, err)

	// "Ghost" is declared in config but absent from the table.
	table := dataset.New(
		dataset.NewStringColumn("color", []string{"red", "blue"}),
	)

	result, err := p.Run(context.Background(), table, RunOptions{})
	require.NoError(t, err)

	col, _ := result.Table.Column("color")
	assert.Equal(t, "red", col.Values[0].Text())
}

func TestRun_InspectOnly(t *testing.T) {
	p, err := New(Config{Mode: policy.Reversible, Defaults: testDefaults})
	require.NoError(t, err)

	table := nameTable()

	result, err := p.Run(context.Background(), table, RunOptions{InspectOnly: true})
	require.NoError(t, err)

	col, _ := result.Table.Column("Name")
	assert.Equal(t, "Alice Smith", col.Values[0].Text(), "inspect must not transform")
	assert.NotEmpty(t, result.Detections)
	assert.Contains(t, result.Report, "name")
}

func TestRun_AllowlistRespected(t *testing.T) {
	p, err := New(Config{
		Mode:      policy.Reversible,
		Allowlist: []string{"name"},
		Defaults:  testDefaults,
	})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), nameTable(), RunOptions{})
	require.NoError(t, err)

	assert.Empty(t, result.Detections)

	col, _ := result.Table.Column("Name")
	assert.Equal(t, "Alice Smith", col.Values[0].Text())
}

func TestRun_SampleRows(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}

	table := dataset.New(dataset.NewNumberColumn("Billing Amount", values))

	p, err := New(Config{Mode: policy.Reversible, Defaults: testDefaults})
	require.NoError(t, err)

	run := func() *Result {
		result, err := p.Run(context.Background(), table, RunOptions{SampleRows: 10})
		require.NoError(t, err)

		return result
	}

	first := run()
	assert.Equal(t, 10, first.Table.NumRows())

	// The sample draw is seeded, so the preview rows are stable across runs.
	second := run()

	firstCol, _ := first.Table.Column("Billing Amount")
	secondCol, _ := second.Table.Column("Billing Amount")

	for i := range firstCol.Values {
		a, _ := firstCol.Values[i].Float()
		b, _ := secondCol.Values[i].Float()
		// Noise differs run to run, but both draws picked the same rows:
		// values stay within the Laplace tail bound of each other.
		assert.InDelta(t, a, b, 60)
	}

	t.Run("persistent output ignores sampling", func(t *testing.T) {
		result, err := p.Run(context.Background(), table, RunOptions{SampleRows: 10, Persistent: true})
		require.NoError(t, err)
		assert.Equal(t, 100, result.Table.NumRows())
	})
}

func TestRun_InputTableUntouched(t *testing.T) {
	table := nameTable()

	p, err := New(Config{Mode: policy.Reversible, Defaults: testDefaults})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), table, RunOptions{})
	require.NoError(t, err)

	col, _ := table.Column("Name")
	assert.Equal(t, "Alice Smith", col.Values[0].Text())
}

func TestRun_SeedHandedBack(t *testing.T) {
	p, err := New(Config{Mode: policy.Reversible, Defaults: testDefaults})
	require.NoError(t, err)

	result, err := p.Run(context.Background(), nameTable(), RunOptions{})
	require.NoError(t, err)

	require.Len(t, result.Selections, 1)
	require.Equal(t, technique.Pseudonym, result.Selections[0].Technique)

	// The effective params carry the generated seed; replaying them must
	// reproduce the identical mapping.
	seed, ok := result.Selections[0].Params["seed"]
	require.True(t, ok)
	assert.NotNil(t, seed)

	replayed, _, err := technique.Apply(
		mustColumn(t, nameTable(), "Name"),
		technique.Pseudonym,
		result.Selections[0].Params,
	)
	require.NoError(t, err)

	out := mustColumn(t, result.Table, "Name")
	assert.Equal(t, out.Values, replayed.Values)
}

func mustColumn(t *testing.T, table *dataset.Table, name string) *dataset.Column {
	t.Helper()

	col, ok := table.Column(name)
	require.True(t, ok)

	return col
}
