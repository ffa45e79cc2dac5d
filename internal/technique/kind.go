// Package technique implements the transformation registry: seven named,
// parameterized column transformations. Every technique preserves row count
// and order, and passes missing values through untouched.
package technique

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when a technique name does not resolve to a
// known kind. Requesting an unknown technique is a caller error and fails
// the operation outright.
var ErrUnsupported = errors.New("unsupported technique")

// Kind enumerates the transformation techniques.
type Kind int

const (
	Mask Kind = iota
	Hash
	Pseudonym
	Shuffle
	Generalize
	Noise
	Tokenize
)

// Kinds lists every technique kind.
var Kinds = []Kind{Mask, Hash, Pseudonym, Shuffle, Generalize, Noise, Tokenize}

// ParseKind resolves a technique name from config. Unknown names fail fast.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "mask":
		return Mask, nil
	case "hash":
		return Hash, nil
	case "pseudonym":
		return Pseudonym, nil
	case "shuffle":
		return Shuffle, nil
	case "generalize":
		return Generalize, nil
	case "noise":
		return Noise, nil
	case "tokenize":
		return Tokenize, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
}

// String returns the technique name.
func (k Kind) String() string {
	switch k {
	case Mask:
		return "mask"
	case Hash:
		return "hash"
	case Pseudonym:
		return "pseudonym"
	case Shuffle:
		return "shuffle"
	case Generalize:
		return "generalize"
	case Noise:
		return "noise"
	case Tokenize:
		return "tokenize"
	default:
		return "unknown"
	}
}
