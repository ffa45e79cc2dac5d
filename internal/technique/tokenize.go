package technique

import (
	"fmt"

	"github.com/looplj/anonhub/internal/dataset"
)

// applyTokenize assigns each distinct non-missing value a sequential token
// in first-seen order. The mapping is stable within one invocation only;
// there is no seed and no cross-invocation reproducibility.
func applyTokenize(col *dataset.Column, _ Params) *dataset.Column {
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
			token = fmt.Sprintf("TOK-%06d", len(mapping)+1)
			mapping[key] = token
		}

		values = append(values, dataset.NewString(token))
	}

	return dataset.NewColumn(col.Name, values)
}
