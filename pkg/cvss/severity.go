package cvss

import (
	"fmt"
	"strings"
)

// Severity is the qualitative severity band derived from a numeric score.
type Severity string

const (
	SeverityUnknown  Severity = "unknown"
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) String() string { return string(s) }

// Rank returns an integer for ordering severities (none=0 .. critical=4,
// unknown=-1).
func (s Severity) Rank() int {
	switch s {
	case SeverityNone:
		return 0
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return -1
}

// ParseSeverity parses a qualitative severity label case-insensitively.
// "moderate" is accepted as an alias for medium, matching advisory sources
// that use GitHub's label set.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "none":
		return SeverityNone, nil
	case "low":
		return SeverityLow, nil
	case "medium", "moderate":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	}
	return SeverityUnknown, fmt.Errorf("invalid severity %q", s)
}

// severityFor maps a score into the standard's qualitative bands. v2.0
// predates the None and Critical bands; v3.x and v4.0 share the five-band
// mapping.
func severityFor(std Standard, score float64) Severity {
	if std == V20 {
		switch {
		case score < 4.0:
			return SeverityLow
		case score < 7.0:
			return SeverityMedium
		}
		return SeverityHigh
	}

	switch {
	case score == 0:
		return SeverityNone
	case score < 4.0:
		return SeverityLow
	case score < 7.0:
		return SeverityMedium
	case score < 9.0:
		return SeverityHigh
	}
	return SeverityCritical
}
