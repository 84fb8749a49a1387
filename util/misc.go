package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

func JsonHash(s interface{}) string {
	bs, _ := json.Marshal(s)
	hash := sha256.Sum256(bs)
	return hex.EncodeToString(hash[:])
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// CumulativeRate returns, for every prefix of flags, the fraction that is true.
func CumulativeRate(flags []bool) []float64 {
	out := make([]float64, len(flags))
	count := 0
	for i, f := range flags {
		if f {
			count++
		}
		out[i] = float64(count) / float64(i+1)
	}
	return out
}

// SafeName turns an arbitrary label into something usable as a file name.
func SafeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
