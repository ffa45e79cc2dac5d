package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/anonhub/internal/policy"
	"github.com/looplj/anonhub/internal/technique"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "anonhub.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "reversible", config.Anonymizer.Mode)
	assert.Equal(t, "pseudonym", config.Anonymizer.DefaultStrategy.Reversible)
	assert.Equal(t, "hash", config.Anonymizer.DefaultStrategy.Irreversible)
	assert.Equal(t, 3, config.Safeguard.MinDiversity)
	assert.Equal(t, "Suppressed", config.Safeguard.SuppressionLabel)
	require.NoError(t, config.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
anonymizer:
  mode: reversible
  allowlist:
    - Hospital
    - Department
  overrides:
    - column: Notes
      detector_hint: name
      technique: mask
      params:
        show_last: 4
safeguard:
  min_diversity: 2
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, []string{"Hospital", "Department"}, config.Anonymizer.Allowlist)
	require.Len(t, config.Anonymizer.Overrides, 1)
	assert.Equal(t, "Notes", config.Anonymizer.Overrides[0].Column)
	assert.Equal(t, "mask", config.Anonymizer.Overrides[0].Technique)
	assert.Equal(t, 2, config.Safeguard.MinDiversity)
	require.NoError(t, config.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoad_SecretFromEnv(t *testing.T) {
	t.Setenv("ANONHUB_SECRET", "s3cret")

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", config.Anonymizer.Secret)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Anonymizer.Mode = "sideways" },
			wantErr: "anonymizer.mode",
		},
		{
			name:    "irreversible without secret",
			mutate:  func(c *Config) { c.Anonymizer.Mode = "irreversible" },
			wantErr: "anonymizer.secret",
		},
		{
			name: "unknown override technique",
			mutate: func(c *Config) {
				c.Anonymizer.Overrides = []OverrideRule{{Column: "Notes", Technique: "rot13"}}
			},
			wantErr: "unsupported technique",
		},
		{
			name: "override without column",
			mutate: func(c *Config) {
				c.Anonymizer.Overrides = []OverrideRule{{Technique: "mask"}}
			},
			wantErr: "column cannot be empty",
		},
		{
			name:    "unknown default technique",
			mutate:  func(c *Config) { c.Anonymizer.DefaultStrategy.Reversible = "rot13" },
			wantErr: "default_strategy.reversible",
		},
		{
			name:    "min diversity below one",
			mutate:  func(c *Config) { c.Safeguard.MinDiversity = 0 },
			wantErr: "min_diversity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := Load("")
			require.NoError(t, err)

			tt.mutate(&config)

			err = config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	config.Anonymizer.Mode = "sideways"
	config.Safeguard.MinDiversity = 0
	config.Safeguard.SensitiveAttribute = ""

	err = config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anonymizer.mode")
	assert.Contains(t, err.Error(), "min_diversity")
	assert.Contains(t, err.Error(), "sensitive_attribute")
}

func TestPipelineConfig(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	config.Anonymizer.Mode = "irreversible"
	config.Anonymizer.Secret = "s3cret"
	config.Anonymizer.Allowlist = []string{"Hospital"}
	config.Anonymizer.Overrides = []OverrideRule{
		{Column: "Notes", Technique: "mask", Params: map[string]any{"show_last": 4}},
	}

	pc, err := config.PipelineConfig()
	require.NoError(t, err)

	assert.Equal(t, policy.Irreversible, pc.Mode)
	assert.Equal(t, "s3cret", pc.Secret)
	assert.Equal(t, []string{"Hospital"}, pc.Allowlist)
	assert.Equal(t, technique.Pseudonym, pc.Defaults.Reversible)
	assert.Equal(t, technique.Hash, pc.Defaults.Irreversible)

	require.Len(t, pc.Overrides, 1)
	assert.Equal(t, technique.Mask, pc.Overrides[0].Technique)
	assert.Equal(t, "custom", pc.Overrides[0].DetectorHint, "hint defaults when omitted")
	assert.Equal(t, 4, pc.Overrides[0].Params.Int("show_last", 0))
}

func TestPipelineConfig_BadTechnique(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)

	config.Anonymizer.Overrides = []OverrideRule{{Column: "Notes", Technique: "rot13"}}

	_, err = config.PipelineConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, technique.ErrUnsupported)
}
