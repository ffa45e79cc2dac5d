package technique

import (
	"math/rand/v2"

	"github.com/looplj/anonhub/internal/dataset"
)

// applyShuffle permutes the non-missing values among themselves, leaving
// missing values in place. The multiset of values is preserved exactly, so
// the column's marginal distribution survives while the row link is broken.
func applyShuffle(col *dataset.Column, params Params) *dataset.Column {
	seed := params.seed()
	rng := rand.New(rand.NewPCG(seed, seed))

	positions := make([]int, 0, col.Len())

	for i, v := range col.Values {
		if !v.IsMissing() {
			positions = append(positions, i)
		}
	}

	perm := rng.Perm(len(positions))

	values := make([]dataset.Value, len(col.Values))
	copy(values, col.Values)

	for i, j := range perm {
		values[positions[i]] = col.Values[positions[j]]
	}

	return dataset.NewColumn(col.Name, values)
}
