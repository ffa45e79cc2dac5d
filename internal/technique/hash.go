package technique

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/looplj/anonhub/internal/dataset"
)

// applyHash digests salt, column tag and value string form, in that order,
// and keeps the first length hex characters. Including the column tag makes
// equal values hash differently across columns, so identical digests cannot
// be used for cross-column linkage.
func applyHash(col *dataset.Column, params Params) *dataset.Column {
	salt := params.String("salt", "")
	columnTag := params.String("column", "")
	length := params.Int("length", 32)

	values := make([]dataset.Value, 0, col.Len())

	for _, v := range col.Values {
		if v.IsMissing() {
			values = append(values, v)
			continue
		}

		h := sha256.New()
		if salt != "" {
			h.Write([]byte(salt))
		}

		if columnTag != "" {
			h.Write([]byte(columnTag))
		}

		h.Write([]byte(v.Text()))

		digest := hex.EncodeToString(h.Sum(nil))
		if length > 0 && length < len(digest) {
			digest = digest[:length]
		}

		values = append(values, dataset.NewString(digest))
	}

	return dataset.NewColumn(col.Name, values)
}
