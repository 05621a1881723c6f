package catalog

import (
	"strconv"
	"strings"
)

// CompareVersions compares two loosely formatted versions numerically.
// Leading non-digits ("v") and trailing suffixes ("-beta") are ignored; missing parts count as zero.
func CompareVersions(a, b string) int {
	va := splitNumeric(NormalizeVersion(a))
	vb := splitNumeric(NormalizeVersion(b))
	n := max(len(va), len(vb))
	for i := 0; i < n; i++ {
		ai, bi := 0, 0
		if i < len(va) {
			ai = va[i]
		}
		if i < len(vb) {
			bi = vb[i]
		}
		if ai > bi {
			return 1
		}
		if ai < bi {
			return -1
		}
	}
	return 0
}

// NormalizeVersion extracts the leading dotted numeric run of s.
func NormalizeVersion(s string) string {
	s = strings.TrimSpace(s)
	start := 0
	for start < len(s) && (s[start] < '0' || s[start] > '9') {
		start++
	}
	s = s[start:]
	end := 0
	for end < len(s) {
		c := s[end]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		end++
	}
	return s[:end]
}

func splitNumeric(s string) []int {
	if s == "" {
		return []int{}
	}
	parts := strings.Split(s, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
