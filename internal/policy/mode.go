// Package policy resolves a detected sensitivity category and an operating
// mode into a concrete transformation technique with parameters.
package policy

import "fmt"

// Mode is the operating mode fixed for a pipeline run.
type Mode int

const (
	// Reversible picks techniques that allow re-identification in principle,
	// via an external mapping or a retained seed.
	Reversible Mode = iota
	// Irreversible destroys direct identifiers and permutes metrics so that
	// records cannot be reconstructed even with auxiliary information.
	Irreversible
)

func (m Mode) String() string {
	if m == Irreversible {
		return "irreversible"
	}

	return "reversible"
}

// ParseMode resolves a mode name from config. The empty string means
// reversible, the safer default for exploratory runs.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "reversible":
		return Reversible, nil
	case "irreversible":
		return Irreversible, nil
	default:
		return Reversible, fmt.Errorf("unknown mode %q", name)
	}
}
