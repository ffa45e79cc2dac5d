package technique

import (
	"fmt"
	"math"

	"github.com/looplj/anonhub/internal/dataset"
)

// applyGeneralize reduces value precision. Numbers fall into fixed-width
// buckets rendered as "start-end" ranges; date-parseable text is reduced to
// the configured granularity; anything else becomes the fallback label.
func applyGeneralize(col *dataset.Column, params Params) *dataset.Column {
	granularity := params.String("granularity", "year")
	bucket := params.Int("bucket_size", 10)
	fallback := params.String("fallback_label", "generalized")

	values := make([]dataset.Value, 0, col.Len())

	for _, v := range col.Values {
		if v.IsMissing() {
			values = append(values, v)
			continue
		}

		if v.Kind == dataset.KindNumber {
			start := int(math.Floor(v.Num/float64(bucket))) * bucket
			values = append(values, dataset.NewString(fmt.Sprintf("%d-%d", start, start+bucket-1)))

			continue
		}

		if t, ok := v.Time(); ok {
			switch granularity {
			case "decade":
				values = append(values, dataset.NewString(fmt.Sprintf("%ds", t.Year()/10*10)))
			case "month":
				values = append(values, dataset.NewString(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))))
			default:
				values = append(values, dataset.NewString(fmt.Sprintf("%d", t.Year())))
			}

			continue
		}

		values = append(values, dataset.NewString(fallback))
	}

	return dataset.NewColumn(col.Name, values)
}
