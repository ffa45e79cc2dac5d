// Package detect classifies table columns against a closed set of
// sensitivity categories. Each category combines a case-insensitive
// column-name hint with a value-shape ratio test over the column's
// non-missing values.
package detect

// Kind enumerates the sensitivity categories the classifier knows about.
type Kind int

const (
	DOB Kind = iota
	Email
	Salary
	Phone
	Name
	Address
	NumericID
)

// Priority lists every kind in evaluation order: more specific,
// higher-precision categories come before the general ones, so that a
// same-confidence tie resolves to the more specific label.
var Priority = []Kind{DOB, Email, Salary, Phone, Name, Address, NumericID}

// Label returns the wire label of the kind, as used in configs and reports.
func (k Kind) Label() string {
	switch k {
	case DOB:
		return "dob"
	case Email:
		return "email"
	case Salary:
		return "salary"
	case Phone:
		return "phone"
	case Name:
		return "name"
	case Address:
		return "address"
	case NumericID:
		return "numeric_id"
	default:
		return "unknown"
	}
}
