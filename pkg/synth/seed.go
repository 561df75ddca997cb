// Package synth holds the deterministic seeding primitives behind the
// synthetic analysis panels and the import-time jitter.
package synth

import "unicode/utf16"

// Seed folds s into a 32-bit signed hash, walking UTF-16 code units.
// hash = hash*31 + c with int32 wraparound; "" hashes to 0.
func Seed(s string) int32 {
	var hash int32
	for _, c := range utf16.Encode([]rune(s)) {
		hash = (hash << 5) - hash + int32(c)
	}
	return hash
}
