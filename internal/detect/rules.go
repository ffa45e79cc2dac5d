package detect

import (
	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/pkg/xregexp"
)

// Column-name hints, matched case-insensitively anywhere in the name.
const (
	nameHint    = `(?i)(name|full[_\s]?name|first|last)`
	emailHint   = `(?i)(email|e[-_\s]?mail)`
	phoneHint   = `(?i)(phone|mobile|contact|tel)`
	addressHint = `(?i)(address|addr|street|city|state|zip)`
	dobHint     = `(?i)(birth|dob|date[-_\s]?of[-_\s]?birth|age|date)`
	idHint      = `(?i)(ssn|national|id|passport|credit|card|account|iban)`
	salaryHint  = `(?i)(income|salary|compensation|pay|revenue|billing|amount|cost|price|fee)`
)

// Value-shape patterns and the ratio of non-missing values that must match.
const (
	emailValuePattern   = `^[\w.-]+@[\w.-]+\.\w+$`
	phoneValuePattern   = `\+?\d[\d\-\s]{7,}\d`
	addressValuePattern = `\d+\s+\w+`
	dobValuePattern     = `\d{4}-\d{2}-\d{2}`
	idValuePattern      = `^\d{13,16}$`
	whitespacePattern   = `\s`

	emailRatio      = 0.5
	phoneRatio      = 0.4
	addressRatio    = 0.6
	dobRatio        = 0.5
	idRatio         = 0.3
	whitespaceRatio = 0.8
)

// nameMatches reports whether the column name matches the kind's hint.
func (k Kind) nameMatches(name string) bool {
	switch k {
	case DOB:
		return xregexp.MatchString(dobHint, name)
	case Email:
		return xregexp.MatchString(emailHint, name)
	case Salary:
		return xregexp.MatchString(salaryHint, name)
	case Phone:
		return xregexp.MatchString(phoneHint, name)
	case Name:
		return xregexp.MatchString(nameHint, name)
	case Address:
		return xregexp.MatchString(addressHint, name)
	case NumericID:
		return xregexp.MatchString(idHint, name)
	default:
		return false
	}
}

// matches evaluates the full predicate for the kind against a column.
// A panic inside a predicate is treated as no-match: one malformed column
// must never abort the whole classification run.
func (k Kind) matches(name string, col *dataset.Column) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()

	values := col.Strings()

	switch k {
	case DOB:
		return k.nameMatches(name) || xregexp.MatchRatio(dobValuePattern, values) > dobRatio
	case Email:
		return k.nameMatches(name) || xregexp.MatchRatio(emailValuePattern, values) > emailRatio
	case Salary:
		// A salary column is recognized purely by its name; values are too
		// generic (plain numbers) to carry a usable shape signal.
		return k.nameMatches(name)
	case Phone:
		if k.nameMatches(name) && !xregexp.MatchString(salaryHint, name) {
			return true
		}
		// Phone-like digit runs inside a numeric column are more likely ids,
		// so the value test only applies to text columns.
		return xregexp.MatchRatio(phoneValuePattern, values) > phoneRatio &&
			!xregexp.MatchString(salaryHint, name) &&
			col.Kind() == dataset.ColumnText
	case Name:
		return k.nameMatches(name) || xregexp.MatchRatio(whitespacePattern, values) > whitespaceRatio
	case Address:
		return k.nameMatches(name) || xregexp.MatchRatio(addressValuePattern, values) > addressRatio
	case NumericID:
		return k.nameMatches(name) || xregexp.MatchRatio(idValuePattern, values) > idRatio
	default:
		return false
	}
}

// confidence scores a successful match of the kind on the named column.
func (k Kind) confidence(name string) float64 {
	switch k {
	case Email, Phone:
		return 0.9
	case DOB:
		if k.nameMatches(name) {
			return 0.95
		}

		return 0.8
	default:
		return 0.8
	}
}
