package benor

// Value is a single binary consensus value. Undecided ("?") is a legitimate
// protocol value, distinct from the unset state of a faulty node, which is
// modeled as a nil pointer in NodeRecord.
type Value string

const (
	Zero      Value = "0"
	One       Value = "1"
	Undecided Value = "?"
)

// ParseValue decodes a wire value. Anything outside "0"/"1"/"?" is rejected,
// including the empty string of a missing field.
func ParseValue(s string) (Value, error) {
	switch v := Value(s); v {
	case Zero, One, Undecided:
		return v, nil
	default:
		return "", ErrMalformedMessage
	}
}

// Valid reports whether v is one of the three protocol values.
func (v Value) Valid() bool {
	return v == Zero || v == One || v == Undecided
}

// Binary reports whether v is a decided binary value, i.e. not Undecided.
func (v Value) Binary() bool {
	return v == Zero || v == One
}

func (v Value) String() string {
	return string(v)
}
