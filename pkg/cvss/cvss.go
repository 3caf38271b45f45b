// Package cvss implements parsing and scoring for CVSS v2.0, v3.0, v3.1, and
// v4.0 vector strings.
//
// A vector parses into a validated metric set tagged with its standard
// version; scoring dispatches on that tag, with each standard's metric table
// and formula kept in its own file (v2.go, v3.go, v4.go). Rounding follows
// each standard's published rule: plain one-decimal rounding for v2.0 and
// v4.0, and the "round up to one decimal" function defined by v3.x.
package cvss

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedVector is wrapped by ParseError for any input rejected by
// Parse: bad version token, unknown metric, duplicate metric, invalid value,
// or a missing mandatory metric.
var ErrMalformedVector = errors.New("malformed CVSS vector")

// ParseError describes a vector string rejected by Parse, keeping the raw
// input for diagnosis.
type ParseError struct {
	Vector string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing CVSS vector %q: %v", e.Vector, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func malformed(vector, format string, args ...any) error {
	reason := fmt.Sprintf(format, args...)
	return &ParseError{Vector: vector, Err: fmt.Errorf("%w: %s", ErrMalformedVector, reason)}
}

// Standard identifies the CVSS standard version a vector declares.
type Standard string

const (
	V20 Standard = "2.0"
	V30 Standard = "3.0"
	V31 Standard = "3.1"
	V40 Standard = "4.0"
)

type metricGroup int

const (
	groupBase metricGroup = iota
	groupTemporal
	groupThreat
	groupEnvironmental
	groupSupplemental
)

// metricDef declares one metric of a standard: its abbreviation, the
// enumerated values it accepts, and the group it belongs to. Definition order
// is the canonical serialization order.
type metricDef struct {
	abbr   string
	values []string
	group  metricGroup
}

func (d metricDef) accepts(value string) bool {
	for _, v := range d.values {
		if v == value {
			return true
		}
	}
	return false
}

// Metric is one parsed abbreviation/value pair.
type Metric struct {
	Abbr  string
	Value string
}

// Vector is a validated metric set for a single standard version. Vectors are
// immutable once parsed.
type Vector struct {
	std     Standard
	metrics map[string]string
}

// Parse validates a CVSS vector string. v3.x and v4.0 vectors carry a
// mandatory CVSS:<version> prefix; v2.0 vectors have none and may optionally
// be wrapped in parentheses, as published in older feeds.
func Parse(s string) (*Vector, error) {
	switch {
	case strings.HasPrefix(s, "CVSS:4.0/"):
		return parseMetrics(V40, s, strings.TrimPrefix(s, "CVSS:4.0/"), v4Metrics)
	case strings.HasPrefix(s, "CVSS:3.1/"):
		return parseMetrics(V31, s, strings.TrimPrefix(s, "CVSS:3.1/"), v3Metrics)
	case strings.HasPrefix(s, "CVSS:3.0/"):
		return parseMetrics(V30, s, strings.TrimPrefix(s, "CVSS:3.0/"), v3Metrics)
	case strings.HasPrefix(s, "CVSS:"):
		return nil, malformed(s, "unsupported standard version %q", strings.SplitN(s, "/", 2)[0])
	}

	raw := s
	if strings.HasPrefix(raw, "(") {
		if !strings.HasSuffix(raw, ")") {
			return nil, malformed(s, "unbalanced parentheses")
		}
		raw = raw[1 : len(raw)-1]
	}
	return parseMetrics(V20, s, raw, v2Metrics)
}

func parseMetrics(std Standard, input, raw string, defs []metricDef) (*Vector, error) {
	index := make(map[string]metricDef, len(defs))
	for _, def := range defs {
		index[def.abbr] = def
	}

	metrics := make(map[string]string)
	for _, token := range strings.Split(raw, "/") {
		if token == "" {
			return nil, malformed(input, "empty metric token")
		}
		abbr, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			return nil, malformed(input, "metric token %q is not of the form ABBR:VALUE", token)
		}
		def, ok := index[abbr]
		if !ok {
			return nil, malformed(input, "unknown metric %q", abbr)
		}
		if _, dup := metrics[abbr]; dup {
			return nil, malformed(input, "duplicate metric %q", abbr)
		}
		if !def.accepts(value) {
			return nil, malformed(input, "invalid value %q for metric %q", value, abbr)
		}
		metrics[abbr] = value
	}

	for _, def := range defs {
		if def.group != groupBase {
			continue
		}
		if _, ok := metrics[def.abbr]; !ok {
			return nil, malformed(input, "missing mandatory metric %q", def.abbr)
		}
	}

	return &Vector{std: std, metrics: metrics}, nil
}

// Standard returns the standard version the vector declared.
func (v *Vector) Standard() Standard { return v.std }

// Metric returns the value of the given metric abbreviation and whether it
// was present in the vector.
func (v *Vector) Metric(abbr string) (string, bool) {
	value, ok := v.metrics[abbr]
	return value, ok
}

// Metrics returns the metric set in the standard's definition order.
func (v *Vector) Metrics() []Metric {
	var out []Metric
	for _, def := range v.defs() {
		if value, ok := v.metrics[def.abbr]; ok {
			out = append(out, Metric{Abbr: def.abbr, Value: value})
		}
	}
	return out
}

// String re-serializes the vector with metrics in definition order. The
// result parses back to an identical metric set.
func (v *Vector) String() string {
	var b strings.Builder
	switch v.std {
	case V40:
		b.WriteString("CVSS:4.0")
	case V31:
		b.WriteString("CVSS:3.1")
	case V30:
		b.WriteString("CVSS:3.0")
	}
	for i, m := range v.Metrics() {
		if i > 0 || v.std != V20 {
			b.WriteByte('/')
		}
		b.WriteString(m.Abbr)
		b.WriteByte(':')
		b.WriteString(m.Value)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (v Vector) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (v *Vector) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*v = *parsed
	return nil
}

// Score computes the vector's scores per its standard's published formula.
func (v *Vector) Score() Score {
	switch v.std {
	case V20:
		return v.scoreV2()
	case V30, V31:
		return v.scoreV3()
	default:
		return v.scoreV4()
	}
}

func (v *Vector) defs() []metricDef {
	switch v.std {
	case V20:
		return v2Metrics
	case V30, V31:
		return v3Metrics
	default:
		return v4Metrics
	}
}

// hasGroup reports whether at least one metric of the group is present in
// the vector.
func (v *Vector) hasGroup(g metricGroup) bool {
	for _, def := range v.defs() {
		if def.group != g {
			continue
		}
		if _, ok := v.metrics[def.abbr]; ok {
			return true
		}
	}
	return false
}

// value returns the metric's value, or fallback when absent.
func (v *Vector) value(abbr, fallback string) string {
	if value, ok := v.metrics[abbr]; ok {
		return value
	}
	return fallback
}

// Score is the numeric outcome of scoring a vector. Base is always present.
// Temporal and Environmental are set only when the vector carries the
// corresponding optional metric group; v4.0 folds threat and environmental
// metrics into the single base score, so both stay nil there.
type Score struct {
	Base          float64
	Temporal      *float64
	Environmental *float64
	Severity      Severity
}
