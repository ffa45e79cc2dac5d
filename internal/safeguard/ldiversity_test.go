package safeguard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/anonhub/internal/dataset"
)

func TestApply_SuppressesHomogeneousGroup(t *testing.T) {
	// Three rows with identical quasi-identifiers and a single distinct
	// condition: distinct count 1 < 3, the whole group is suppressed.
	table := dataset.New(
		dataset.NewStringColumn("Age", []string{"40-49", "40-49", "40-49"}),
		dataset.NewStringColumn("Gender", []string{"F", "F", "F"}),
		dataset.NewStringColumn("Medical Condition", []string{"Asthma", "Asthma", "Asthma"}),
	)

	suppressed := Apply(context.Background(), table, DefaultConfig())

	assert.Equal(t, 3, suppressed)

	col, ok := table.Column("Medical Condition")
	require.True(t, ok)

	for _, v := range col.Values {
		assert.Equal(t, "Suppressed", v.Text())
	}
}

func TestApply_KeepsDiverseGroup(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Age", []string{"40-49", "40-49", "40-49"}),
		dataset.NewStringColumn("Medical Condition", []string{"Asthma", "Diabetes", "Arthritis"}),
	)

	suppressed := Apply(context.Background(), table, DefaultConfig())

	assert.Zero(t, suppressed)

	col, _ := table.Column("Medical Condition")
	assert.Equal(t, "Asthma", col.Values[0].Text())
}

func TestApply_GroupsIndependently(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Age", []string{"20-29", "20-29", "20-29", "50-59", "50-59", "50-59"}),
		dataset.NewStringColumn("Medical Condition", []string{
			"Asthma", "Diabetes", "Arthritis",
			"Flu", "Flu", "Flu",
		}),
	)

	suppressed := Apply(context.Background(), table, DefaultConfig())

	assert.Equal(t, 3, suppressed)

	col, _ := table.Column("Medical Condition")
	assert.Equal(t, "Asthma", col.Values[0].Text())
	assert.Equal(t, "Suppressed", col.Values[3].Text())
	assert.Equal(t, "Suppressed", col.Values[5].Text())
}

func TestApply_MissingSensitiveDoesNotCount(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Age", []string{"30-39", "30-39", "30-39"}),
		dataset.NewColumn("Medical Condition", []dataset.Value{
			dataset.NewString("Asthma"),
			dataset.Missing(),
			dataset.NewString("Diabetes"),
		}),
	)

	// Two distinct non-missing values < 3: suppress, including the missing row.
	suppressed := Apply(context.Background(), table, DefaultConfig())
	assert.Equal(t, 3, suppressed)
}

func TestApply_NoSensitiveColumn(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Age", []string{"30-39"}),
	)

	assert.Zero(t, Apply(context.Background(), table, DefaultConfig()))
}

func TestApply_NoQuasiIdentifiers(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Medical Condition", []string{"Asthma"}),
	)

	assert.Zero(t, Apply(context.Background(), table, DefaultConfig()))
}

func TestApply_CustomRoles(t *testing.T) {
	table := dataset.New(
		dataset.NewStringColumn("Region", []string{"EU", "EU"}),
		dataset.NewStringColumn("Diagnosis", []string{"A", "B"}),
	)

	cfg := Config{
		SensitiveAttribute: "Diagnosis",
		QuasiIdentifiers:   []string{"Region"},
		MinDiversity:       2,
		SuppressionLabel:   "***",
	}

	suppressed := Apply(context.Background(), table, cfg)
	assert.Zero(t, suppressed, "two distinct values meet l=2")

	cfg.MinDiversity = 3

	suppressed = Apply(context.Background(), table, cfg)
	assert.Equal(t, 2, suppressed)

	col, _ := table.Column("Diagnosis")
	assert.Equal(t, "***", col.Values[0].Text())
}
