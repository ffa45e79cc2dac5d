package technique

import (
	"crypto/rand"
	"encoding/binary"
	"maps"

	"github.com/spf13/cast"
)

// Params carries technique parameters. Apply never mutates the caller's map;
// it returns a copy completed with any generated values (notably the seed),
// so the caller owns persistence of the effective parameters.
type Params map[string]any

// Clone returns a shallow copy of the params.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}

	return maps.Clone(p)
}

// String returns the named parameter as a string, or def when absent.
func (p Params) String(key, def string) string {
	v, ok := p[key]
	if !ok {
		return def
	}

	return cast.ToString(v)
}

// Int returns the named parameter as an int, or def when absent or
// not coercible.
func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}

	return n
}

// Float returns the named parameter as a float64, or def when absent or
// not coercible.
func (p Params) Float(key string, def float64) float64 {
	v, ok := p[key]
	if !ok {
		return def
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}

	return f
}

// seed returns the configured seed, generating and recording a fresh one
// when absent. A caller that keeps the returned params can replay the exact
// same randomized transformation later; that is the reversibility contract
// for seeded techniques.
func (p Params) seed() uint64 {
	if v, ok := p["seed"]; ok {
		if s, err := cast.ToUint64E(v); err == nil {
			return s
		}
	}

	var buf [4]byte

	_, _ = rand.Read(buf[:])
	s := uint64(binary.BigEndian.Uint32(buf[:]))
	p["seed"] = s

	return s
}
