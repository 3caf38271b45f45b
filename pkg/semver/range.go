package semver

import (
	"fmt"
	"strings"
)

// Operator is the comparison half of a range comparator.
type Operator string

const (
	OpEqual        Operator = "="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// Comparator pairs an operator with a boundary version.
type Comparator struct {
	Op      Operator
	Version Version
}

// Matches reports whether v satisfies the comparator. A version equal to a
// strict < or > boundary does not satisfy it.
func (c Comparator) Matches(v Version) bool {
	cmp := v.Compare(c.Version)
	switch c.Op {
	case OpEqual:
		return cmp == 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	}
	return false
}

func (c Comparator) String() string {
	return string(c.Op) + c.Version.String()
}

// Range is a non-empty ordered comparator list combined with AND semantics.
// Ranges are only constructed by ParseRange, so a zero Range never escapes
// into matching code.
type Range struct {
	comparators []Comparator
}

// ParseRange parses a comma-separated comparator list such as
// ">=1.2.3, <2.0.0". A bare version is shorthand for an exact (=) comparator.
// An expression with no comparators is rejected with ErrEmptyRange.
func ParseRange(s string) (Range, error) {
	var comparators []Comparator
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseComparator(s, part)
		if err != nil {
			return Range{}, err
		}
		comparators = append(comparators, c)
	}
	if len(comparators) == 0 {
		return Range{}, &ParseError{Input: s, Err: ErrEmptyRange}
	}
	return Range{comparators: comparators}, nil
}

// MustParseRange is ParseRange for statically known inputs, panicking on
// failure.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseComparator(input, part string) (Comparator, error) {
	op := OpEqual
	rest := part
	switch {
	case strings.HasPrefix(part, ">="):
		op, rest = OpGreaterEqual, part[2:]
	case strings.HasPrefix(part, "<="):
		op, rest = OpLessEqual, part[2:]
	case strings.HasPrefix(part, ">"):
		op, rest = OpGreater, part[1:]
	case strings.HasPrefix(part, "<"):
		op, rest = OpLess, part[1:]
	case strings.HasPrefix(part, "="):
		op, rest = OpEqual, part[1:]
	}

	rest = strings.TrimSpace(rest)
	v, err := Parse(rest)
	if err != nil {
		return Comparator{}, malformed(input, fmt.Sprintf("comparator %q: invalid version %q", part, rest))
	}
	return Comparator{Op: op, Version: v}, nil
}

// Matches reports whether v satisfies every comparator in the range.
func (r Range) Matches(v Version) bool {
	if len(r.comparators) == 0 {
		return false
	}
	for _, c := range r.comparators {
		if !c.Matches(v) {
			return false
		}
	}
	return true
}

// Comparators returns the ordered comparator list.
func (r Range) Comparators() []Comparator {
	out := make([]Comparator, len(r.comparators))
	copy(out, r.comparators)
	return out
}

func (r Range) String() string {
	parts := make([]string, len(r.comparators))
	for i, c := range r.comparators {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// MatchesAny reports whether v satisfies at least one of the given ranges.
// An empty slice matches nothing.
func MatchesAny(ranges []Range, v Version) bool {
	for _, r := range ranges {
		if r.Matches(v) {
			return true
		}
	}
	return false
}
