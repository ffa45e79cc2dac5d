package policy

import (
	"dario.cat/mergo"

	"github.com/looplj/anonhub/internal/detect"
	"github.com/looplj/anonhub/internal/technique"
)

// reversibleTable favors techniques whose effect could be undone with an
// external key: consistent pseudonyms, stable tokens, mild generalization.
var reversibleTable = map[string]technique.Kind{
	"name":       technique.Pseudonym,
	"email":      technique.Pseudonym,
	"phone":      technique.Mask,
	"address":    technique.Generalize,
	"dob":        technique.Generalize,
	"numeric_id": technique.Tokenize,
	"salary":     technique.Noise,
}

// irreversibleTable hashes direct identifiers and shuffles metrics, keeping
// dataset-level distributions while breaking the link to individuals.
var irreversibleTable = map[string]technique.Kind{
	"name":       technique.Hash,
	"email":      technique.Hash,
	"numeric_id": technique.Hash,
	"phone":      technique.Mask,
	"address":    technique.Generalize,
	"dob":        technique.Generalize,
	"salary":     technique.Shuffle,
}

// highRisk are the categories whose override technique is forced to the mode
// table's choice in irreversible mode. The operator cannot accidentally
// weaken protection of a direct identifier there.
var highRisk = map[string]struct{}{
	"name":       {},
	"email":      {},
	"numeric_id": {},
}

// Selection is the resolved, ready-to-apply transformation for a column.
type Selection struct {
	Column    string
	Technique technique.Kind
	Params    technique.Params
}

// Override is a user-declared rule that takes precedence over heuristic
// detection for its column.
type Override struct {
	Column       string
	DetectorHint string
	Technique    technique.Kind
	Params       technique.Params
}

// Defaults are the fallback techniques for categories absent from the mode
// tables.
type Defaults struct {
	Reversible   technique.Kind
	Irreversible technique.Kind
}

// Selector turns detections into selections for one operating mode.
type Selector struct {
	mode      Mode
	secret    string
	overrides []Override
	defaults  Defaults
}

// NewSelector builds a selector. secret, when non-empty, is injected as the
// hash salt unless an override supplies its own.
func NewSelector(mode Mode, secret string, overrides []Override, defaults Defaults) *Selector {
	return &Selector{
		mode:      mode,
		secret:    secret,
		overrides: overrides,
		defaults:  defaults,
	}
}

// Select resolves one Selection per DetectionResult, keyed by column name.
func (s *Selector) Select(detections []detect.Result) []Selection {
	overrides := s.buildOverrideMap()

	selections := make([]Selection, 0, len(detections))

	for _, detection := range detections {
		if selection, ok := overrides[detection.Column]; ok {
			selections = append(selections, selection)
			continue
		}

		kind := s.chooseTechnique(detection.Detector)

		params := technique.Params{}
		if kind == technique.Hash {
			params = s.withHashParams(detection.Column, params)
		}

		selections = append(selections, Selection{
			Column:    detection.Column,
			Technique: kind,
			Params:    params,
		})
	}

	return selections
}

// buildOverrideMap resolves the configured overrides. In irreversible mode
// the high-risk categories ignore the override's stated technique and take
// the mode-mandated one instead.
func (s *Selector) buildOverrideMap() map[string]Selection {
	overrides := make(map[string]Selection, len(s.overrides))

	for _, rule := range s.overrides {
		kind := rule.Technique
		params := rule.Params

		if s.mode == Irreversible {
			if _, risky := highRisk[rule.DetectorHint]; risky {
				kind = s.chooseTechnique(rule.DetectorHint)
			}
		}

		if kind == technique.Hash {
			params = s.withHashParams(rule.Column, params)
		}

		overrides[rule.Column] = Selection{
			Column:    rule.Column,
			Technique: kind,
			Params:    params,
		}
	}

	return overrides
}

// chooseTechnique resolves a detector label through the mode table, falling
// back to the configured per-mode default for unknown labels.
func (s *Selector) chooseTechnique(label string) technique.Kind {
	if s.mode == Irreversible {
		if kind, ok := irreversibleTable[label]; ok {
			return kind
		}

		return s.defaults.Irreversible
	}

	if kind, ok := reversibleTable[label]; ok {
		return kind
	}

	return s.defaults.Reversible
}

// withHashParams completes hash parameters with the column tag and the
// shared secret as salt. Explicitly supplied values are never overwritten.
func (s *Selector) withHashParams(column string, base technique.Params) technique.Params {
	params := base.Clone()

	enrich := technique.Params{"column": column}
	if s.secret != "" {
		enrich["salt"] = s.secret
	}

	// Merge fills only the keys the override did not set itself.
	_ = mergo.Merge(&params, enrich)

	return params
}
