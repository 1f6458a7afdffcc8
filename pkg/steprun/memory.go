package steprun

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMemory indicates a memory size string could not be parsed.
var ErrInvalidMemory = errors.New("invalid memory value")

// Byte multipliers for memory parsing.
const (
	byteUnit = 1
	kb       = 1000
	mb       = 1000 * kb
	gb       = 1000 * mb
	kib      = 1024
	mib      = 1024 * kib
	gib      = 1024 * mib
)

// ParseMemory parses a human-readable memory size ("512MiB", "2GB", "1024")
// into mebibytes. A bare number is treated as MiB, matching the unit the
// Batch job definition schema expects.
func ParseMemory(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMemory
	}

	// Find where the numeric part ends
	numEnd := 0
	for i, c := range s {
		if c >= '0' && c <= '9' || c == '.' {
			numEnd = i + 1
		} else {
			break
		}
	}

	if numEnd == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMemory, s)
	}

	numStr := s[:numEnd]
	unitStr := strings.TrimSpace(s[numEnd:])

	var multiplier float64
	switch strings.ToUpper(unitStr) {
	case "":
		// Bare numbers are already MiB.
		multiplier = mib
	case "B":
		multiplier = byteUnit
	case "K", "KB":
		multiplier = kb
	case "M", "MB":
		multiplier = mb
	case "G", "GB":
		multiplier = gb
	case "KI", "KIB":
		multiplier = kib
	case "MI", "MIB":
		multiplier = mib
	case "GI", "GIB":
		multiplier = gib
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidMemory, unitStr)
	}

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMemory, s)
	}

	return num * multiplier / mib, nil
}

// MustParseMemory is ParseMemory for static values in tests and defaults.
// It panics on invalid input.
func MustParseMemory(s string) float64 {
	v, err := ParseMemory(s)
	if err != nil {
		panic(err)
	}
	return v
}
