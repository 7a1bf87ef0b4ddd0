package models

// Optional tracks whether an update field was supplied at all.
// It is transport-agnostic; handlers map into it from httputil types.
//   - Present=false: field absent from request (leave untouched)
//   - Present=true: overwrite with Value (zero value clears)
type Optional[T any] struct {
	Present bool
	Value   T
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}
