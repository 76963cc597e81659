package util

// Ptr returns a pointer to the given value.
// LSP option structs use pointers for every optional field.
func Ptr[T any](v T) *T {
	return &v
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
