// Package ptr has pointer helpers for optional values.
package ptr

// To returns a pointer to v. Useful for literals in optional fields.
func To[T any](v T) *T {
	return &v
}

// Deref returns the pointed-to value, or fallback when p is nil.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
