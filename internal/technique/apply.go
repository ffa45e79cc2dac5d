package technique

import (
	"fmt"

	"github.com/looplj/anonhub/internal/dataset"
)

// Apply runs the technique on a column and returns the transformed column
// together with the effective params (the input params plus any generated
// seed). The input column and params are never modified.
func Apply(col *dataset.Column, kind Kind, params Params) (*dataset.Column, Params, error) {
	effective := params.Clone()

	var out *dataset.Column

	switch kind {
	case Mask:
		out = applyMask(col, effective)
	case Hash:
		out = applyHash(col, effective)
	case Pseudonym:
		out = applyPseudonym(col, effective)
	case Shuffle:
		out = applyShuffle(col, effective)
	case Generalize:
		out = applyGeneralize(col, effective)
	case Noise:
		out = applyNoise(col, effective)
	case Tokenize:
		out = applyTokenize(col, effective)
	default:
		return nil, nil, fmt.Errorf("%w: kind %d", ErrUnsupported, kind)
	}

	return out, effective, nil
}
