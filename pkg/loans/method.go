// Package loans provides the loan computation engine: periodic payment
// calculation, amortization schedule generation, and eligibility screening.
package loans

import "fmt"

// Method identifies the repayment method for a loan. It is a closed
// enumeration; every switch over it must handle all variants and fail on
// anything else rather than silently substituting a default.
type Method int

const (
	// MethodAnnuity is a constant payment where the interest/principal split
	// shifts over time as the balance declines.
	MethodAnnuity Method = iota

	// MethodFlat is a constant payment with interest charged on the original
	// principal every period rather than the declining balance.
	MethodFlat
)

const (
	methodAnnuityName = "annuity"
	methodFlatName    = "flat"
)

// String returns the canonical lower-case name of the method.
func (m Method) String() string {
	switch m {
	case MethodAnnuity:
		return methodAnnuityName
	case MethodFlat:
		return methodFlatName
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Valid reports whether m is one of the known variants.
func (m Method) Valid() bool {
	switch m {
	case MethodAnnuity, MethodFlat:
		return true
	default:
		return false
	}
}

// ParseMethod converts a config or request string into a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case methodAnnuityName:
		return MethodAnnuity, nil
	case methodFlatName:
		return MethodFlat, nil
	default:
		return 0, fmt.Errorf("unknown repayment method %q (want %q or %q)",
			s, methodAnnuityName, methodFlatName)
	}
}

// MarshalText implements encoding.TextMarshaler so the method serializes as
// its name in JSON and YAML.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown repayment method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
