package technique

import (
	"strings"

	"github.com/looplj/anonhub/internal/dataset"
)

// applyMask replaces all but the last show_last characters of each value's
// string form with the fill character. Values no longer than show_last are
// masked entirely at their original length.
func applyMask(col *dataset.Column, params Params) *dataset.Column {
	fill := params.String("mask_char", "*")
	showLast := params.Int("show_last", 2)

	values := make([]dataset.Value, 0, col.Len())

	for _, v := range col.Values {
		if v.IsMissing() {
			values = append(values, v)
			continue
		}

		text := []rune(v.Text())
		if len(text) <= showLast {
			values = append(values, dataset.NewString(strings.Repeat(fill, len(text))))
			continue
		}

		masked := strings.Repeat(fill, len(text)-showLast) + string(text[len(text)-showLast:])
		values = append(values, dataset.NewString(masked))
	}

	return dataset.NewColumn(col.Name, values)
}
