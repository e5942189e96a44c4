package utils

import (
	"regexp"
	"testing"
)

func TestRand16BytesToBase62(t *testing.T) {
	base62 := regexp.MustCompile(`^[0-9a-zA-Z]{1,22}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := Rand16BytesToBase62()
		if !base62.MatchString(s) {
			t.Fatalf("Rand16BytesToBase62() = %q, not base62", s)
		}
		if seen[s] {
			t.Fatalf("Rand16BytesToBase62() repeated %q", s)
		}
		seen[s] = true
	}
}
