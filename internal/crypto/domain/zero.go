package domain

// Zero overwrites a byte slice with zeros to clear sensitive key material
// from memory. Derived master keys exist only for the duration of a single
// operation; callers zero them before returning.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
