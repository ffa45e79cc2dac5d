package technique

import (
	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/pkg/xfake"
)

// applyPseudonym replaces each distinct non-missing value with a synthetic
// identity drawn from a generator seeded by the params. The mapping is
// memoized per invocation: repeated originals map to the same token, and
// distinct originals always receive distinct tokens. Replaying with the
// params returned by Apply regenerates the identical mapping.
func applyPseudonym(col *dataset.Column, params Params) *dataset.Column {
	mode := params.String("mode", "name")
	fake := xfake.New(params.seed())

	mapping := make(map[string]string)
	values := make([]dataset.Value, 0, col.Len())

	for _, v := range col.Values {
		if v.IsMissing() {
			values = append(values, v)
			continue
		}

		key := v.Text()

		token, ok := mapping[key]
		if !ok {
			switch mode {
			case "email":
				token = fake.UniqueEmail()
			case "phone":
				token = fake.UniquePhone()
			default:
				token = fake.UniqueName()
			}

			mapping[key] = token
		}

		values = append(values, dataset.NewString(token))
	}

	return dataset.NewColumn(col.Name, values)
}
