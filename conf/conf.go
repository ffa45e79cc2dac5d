// Package conf loads and validates the anonhub configuration document.
package conf

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"

	"github.com/looplj/anonhub/internal/log"
	"github.com/looplj/anonhub/internal/pipeline"
	"github.com/looplj/anonhub/internal/policy"
	"github.com/looplj/anonhub/internal/safeguard"
	"github.com/looplj/anonhub/internal/technique"
)

// Config is the root configuration document.
type Config struct {
	Log        log.Config       `conf:"log"        yaml:"log"        json:"log"`
	Anonymizer AnonymizerConfig `conf:"anonymizer" yaml:"anonymizer" json:"anonymizer"`
	Safeguard  safeguard.Config `conf:"safeguard"  yaml:"safeguard"  json:"safeguard"`
}

// AnonymizerConfig configures classification and policy resolution.
type AnonymizerConfig struct {
	// Mode is "reversible" or "irreversible". Empty means reversible.
	Mode string `conf:"mode" yaml:"mode" json:"mode"`
	// Secret feeds irreversible hashing as the salt. Usually supplied via
	// the ANONHUB_SECRET environment variable rather than the file.
	Secret string `conf:"secret" yaml:"secret,omitempty" json:"secret,omitempty"`
	// Allowlist names columns exempt from detection and transformation.
	Allowlist []string `conf:"allowlist" yaml:"allowlist" json:"allowlist"`
	// Overrides pin per-column behavior ahead of the heuristics.
	Overrides []OverrideRule `conf:"overrides" yaml:"overrides" json:"overrides"`
	// DefaultStrategy is the fallback technique per mode for categories the
	// mode tables do not cover.
	DefaultStrategy DefaultStrategy `conf:"default_strategy" yaml:"default_strategy" json:"default_strategy"`
}

// OverrideRule is one user-declared column rule. Technique is required;
// DetectorHint defaults to "custom" when omitted.
type OverrideRule struct {
	Column       string         `conf:"column"        yaml:"column"        json:"column"`
	DetectorHint string         `conf:"detector_hint" yaml:"detector_hint" json:"detector_hint"`
	Technique    string         `conf:"technique"     yaml:"technique"     json:"technique"`
	Params       map[string]any `conf:"params"        yaml:"params"        json:"params"`
}

// DefaultStrategy names the fallback technique for each mode.
type DefaultStrategy struct {
	Reversible   string `conf:"reversible"   yaml:"reversible"   json:"reversible"`
	Irreversible string `conf:"irreversible" yaml:"irreversible" json:"irreversible"`
}

// Load reads configuration from the given file (optional), environment
// variables prefixed with ANONHUB, and built-in defaults, in that order of
// precedence.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("anonymizer.mode", "reversible")
	v.SetDefault("anonymizer.default_strategy.reversible", "pseudonym")
	v.SetDefault("anonymizer.default_strategy.irreversible", "hash")

	defaults := safeguard.DefaultConfig()
	v.SetDefault("safeguard.sensitive_attribute", defaults.SensitiveAttribute)
	v.SetDefault("safeguard.quasi_identifiers", defaults.QuasiIdentifiers)
	v.SetDefault("safeguard.min_diversity", defaults.MinDiversity)
	v.SetDefault("safeguard.suppression_label", defaults.SuppressionLabel)

	v.SetEnvPrefix("ANONHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The secret should never have to live in the config file.
	_ = v.BindEnv("anonymizer.secret", "ANONHUB_SECRET")

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config

	err := v.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	return config, nil
}

// Validate checks the document as a whole and reports every problem found.
func (c Config) Validate() error {
	var result *multierror.Error

	mode, err := policy.ParseMode(c.Anonymizer.Mode)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("anonymizer.mode: %w", err))
	}

	if mode == policy.Irreversible && c.Anonymizer.Secret == "" {
		result = multierror.Append(result,
			fmt.Errorf("anonymizer.secret must be set for irreversible mode (ANONHUB_SECRET)"))
	}

	for _, rule := range c.Anonymizer.Overrides {
		if rule.Column == "" {
			result = multierror.Append(result, fmt.Errorf("anonymizer.overrides: column cannot be empty"))
			continue
		}

		if _, err := technique.ParseKind(rule.Technique); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("anonymizer.overrides[%s]: %w", rule.Column, err))
		}
	}

	for _, name := range []struct{ key, value string }{
		{"anonymizer.default_strategy.reversible", c.Anonymizer.DefaultStrategy.Reversible},
		{"anonymizer.default_strategy.irreversible", c.Anonymizer.DefaultStrategy.Irreversible},
	} {
		if name.value == "" {
			continue
		}

		if _, err := technique.ParseKind(name.value); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", name.key, err))
		}
	}

	if c.Safeguard.MinDiversity < 1 {
		result = multierror.Append(result, fmt.Errorf("safeguard.min_diversity must be at least 1"))
	}

	if c.Safeguard.SensitiveAttribute == "" {
		result = multierror.Append(result, fmt.Errorf("safeguard.sensitive_attribute cannot be empty"))
	}

	return result.ErrorOrNil()
}

// PipelineConfig converts the document into the engine's configuration.
// Validate should pass before calling this; conversion re-checks the same
// names and fails on the first bad one.
func (c Config) PipelineConfig() (pipeline.Config, error) {
	mode, err := policy.ParseMode(c.Anonymizer.Mode)
	if err != nil {
		return pipeline.Config{}, err
	}

	overrides := make([]policy.Override, 0, len(c.Anonymizer.Overrides))

	for _, rule := range c.Anonymizer.Overrides {
		kind, err := technique.ParseKind(rule.Technique)
		if err != nil {
			return pipeline.Config{}, fmt.Errorf("override for column %q: %w", rule.Column, err)
		}

		hint := rule.DetectorHint
		if hint == "" {
			hint = "custom"
		}

		overrides = append(overrides, policy.Override{
			Column:       rule.Column,
			DetectorHint: hint,
			Technique:    kind,
			Params:       technique.Params(rule.Params).Clone(),
		})
	}

	defaults, err := c.parseDefaults()
	if err != nil {
		return pipeline.Config{}, err
	}

	return pipeline.Config{
		Mode:      mode,
		Secret:    c.Anonymizer.Secret,
		Overrides: overrides,
		Allowlist: c.Anonymizer.Allowlist,
		Defaults:  defaults,
		Safeguard: c.Safeguard,
	}, nil
}

func (c Config) parseDefaults() (policy.Defaults, error) {
	defaults := policy.Defaults{
		Reversible:   technique.Pseudonym,
		Irreversible: technique.Hash,
	}

	if name := c.Anonymizer.DefaultStrategy.Reversible; name != "" {
		kind, err := technique.ParseKind(name)
		if err != nil {
			return policy.Defaults{}, fmt.Errorf("default_strategy.reversible: %w", err)
		}

		defaults.Reversible = kind
	}

	if name := c.Anonymizer.DefaultStrategy.Irreversible; name != "" {
		kind, err := technique.ParseKind(name)
		if err != nil {
			return policy.Defaults{}, fmt.Errorf("default_strategy.irreversible: %w", err)
		}

		defaults.Irreversible = kind
	}

	return defaults, nil
}
