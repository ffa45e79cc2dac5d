package technique

import (
	"math"
	"math/rand/v2"

	"github.com/looplj/anonhub/internal/dataset"
)

// epsilonFloor keeps the Laplace scale finite for epsilon near zero.
const epsilonFloor = 1e-6

// applyNoise adds zero-mean Laplace noise with scale sensitivity/epsilon to
// every numerically coercible value. Non-numeric values pass through. This
// is a plain perturbation, not calibrated differential privacy.
func applyNoise(col *dataset.Column, params Params) *dataset.Column {
	epsilon := params.Float("epsilon", 1.0)
	sensitivity := params.Float("sensitivity", 1.0)
	scale := sensitivity / math.Max(epsilon, epsilonFloor)

	seed := params.seed()
	rng := rand.New(rand.NewPCG(seed, seed))

	values := make([]dataset.Value, 0, col.Len())

	for _, v := range col.Values {
		if v.IsMissing() {
			values = append(values, v)
			continue
		}

		f, ok := v.Float()
		if !ok {
			values = append(values, v)
			continue
		}

		values = append(values, dataset.NewNumber(f+laplace(rng, scale)))
	}

	return dataset.NewColumn(col.Name, values)
}

// laplace samples Laplace(0, scale) by inverse CDF.
func laplace(rng *rand.Rand, scale float64) float64 {
	u := rng.Float64() - 0.5

	sign := 1.0
	if u < 0 {
		sign = -1.0
	}

	return -scale * sign * math.Log(1-2*math.Abs(u))
}
