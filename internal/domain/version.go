package domain

import "strings"

// Version labels are uppercase letter sequences assigned at check-in:
// ordinal 1 is "A", 26 is "Z", 27 is "AA", and so on. Labels strictly
// increase with the ordinal and are gap-free from the seed revision.

// VersionLabel converts a 1-based revision ordinal to its letter label.
// Ordinals below 1 yield the empty string.
func VersionLabel(ordinal int64) string {
	if ordinal < 1 {
		return ""
	}
	var b []byte
	for n := ordinal; n > 0; {
		n-- // shift to 0-based so that 26 maps to "Z", not "A0"
		b = append(b, byte('A'+n%26))
		n /= 26
	}
	// reverse
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// ParseVersionLabel converts a letter label back to its 1-based ordinal.
func ParseVersionLabel(label string) (int64, error) {
	if label == "" {
		return 0, ErrValidation("version label is empty")
	}
	var n int64
	for _, c := range label {
		if c < 'A' || c > 'Z' {
			return 0, ErrValidation("invalid version label %q", label)
		}
		n = n*26 + int64(c-'A') + 1
	}
	return n, nil
}

// NextVersionLabel returns the successor of the given label, or "A" for the
// empty label.
func NextVersionLabel(label string) (string, error) {
	if label == "" {
		return "A", nil
	}
	ord, err := ParseVersionLabel(strings.ToUpper(label))
	if err != nil {
		return "", err
	}
	return VersionLabel(ord + 1), nil
}
