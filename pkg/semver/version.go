// Package semver implements strict semantic version parsing and the
// comparator-range predicates used to decide whether an installed package
// version falls inside an advisory's affected window.
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is wrapped by ParseError when an input deviates from the
	// MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] grammar.
	ErrMalformed = errors.New("malformed version")

	// ErrEmptyRange is wrapped by ParseError when a range expression contains
	// no comparators.
	ErrEmptyRange = errors.New("empty version range")
)

// ParseError describes an input rejected by Parse or ParseRange. It keeps the
// offending string so callers can report exactly what was rejected.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func malformed(input, reason string) error {
	return &ParseError{Input: input, Err: fmt.Errorf("%w: %s", ErrMalformed, reason)}
}

// Identifier is one dot-separated pre-release identifier. Numeric identifiers
// compare numerically and sort before alphanumeric ones at the same position.
type Identifier struct {
	Str     string
	Num     uint64
	Numeric bool
}

func (id Identifier) String() string {
	if id.Numeric {
		return strconv.FormatUint(id.Num, 10)
	}
	return id.Str
}

func compareIdentifiers(a, b Identifier) int {
	switch {
	case a.Numeric && b.Numeric:
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	case a.Numeric:
		return -1
	case b.Numeric:
		return 1
	}
	return strings.Compare(a.Str, b.Str)
}

// Version is a parsed semantic version. Build metadata is retained for
// display but never participates in ordering or equality.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	Pre   []Identifier
	Build string
}

// Parse parses s under the strict MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]
// grammar. Partial versions, leading zeros, empty identifiers, and stray
// characters are all rejected with a ParseError wrapping ErrMalformed.
func Parse(s string) (Version, error) {
	var v Version

	rest := s
	if plus := strings.IndexByte(rest, '+'); plus >= 0 {
		build := rest[plus+1:]
		if err := validateBuild(s, build); err != nil {
			return Version{}, err
		}
		v.Build = build
		rest = rest[:plus]
	}

	core := rest
	if dash := strings.IndexByte(rest, '-'); dash >= 0 {
		core = rest[:dash]
		pre, err := parsePreRelease(s, rest[dash+1:])
		if err != nil {
			return Version{}, err
		}
		v.Pre = pre
	}

	fields := strings.Split(core, ".")
	if len(fields) != 3 {
		return Version{}, malformed(s, "expected MAJOR.MINOR.PATCH")
	}

	var err error
	if v.Major, err = parseNumericField(s, fields[0]); err != nil {
		return Version{}, err
	}
	if v.Minor, err = parseNumericField(s, fields[1]); err != nil {
		return Version{}, err
	}
	if v.Patch, err = parseNumericField(s, fields[2]); err != nil {
		return Version{}, err
	}

	return v, nil
}

// MustParse is Parse for statically known inputs, panicking on failure.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseNumericField(input, field string) (uint64, error) {
	if field == "" {
		return 0, malformed(input, "empty numeric field")
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, malformed(input, fmt.Sprintf("non-digit in numeric field %q", field))
		}
	}
	if len(field) > 1 && field[0] == '0' {
		return 0, malformed(input, fmt.Sprintf("leading zero in numeric field %q", field))
	}
	n, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, malformed(input, fmt.Sprintf("numeric field %q out of range", field))
	}
	return n, nil
}

func parsePreRelease(input, pre string) ([]Identifier, error) {
	if pre == "" {
		return nil, malformed(input, "empty pre-release")
	}
	parts := strings.Split(pre, ".")
	ids := make([]Identifier, 0, len(parts))
	for _, part := range parts {
		id, err := parseIdentifier(input, part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseIdentifier(input, part string) (Identifier, error) {
	if part == "" {
		return Identifier{}, malformed(input, "empty pre-release identifier")
	}
	numeric := true
	for i := 0; i < len(part); i++ {
		c := part[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-':
			numeric = false
		default:
			return Identifier{}, malformed(input, fmt.Sprintf("invalid character in identifier %q", part))
		}
	}
	if !numeric {
		return Identifier{Str: part}, nil
	}
	if len(part) > 1 && part[0] == '0' {
		return Identifier{}, malformed(input, fmt.Sprintf("leading zero in numeric identifier %q", part))
	}
	n, err := strconv.ParseUint(part, 10, 64)
	if err != nil {
		return Identifier{}, malformed(input, fmt.Sprintf("numeric identifier %q out of range", part))
	}
	return Identifier{Num: n, Numeric: true}, nil
}

func validateBuild(input, build string) error {
	if build == "" {
		return malformed(input, "empty build metadata")
	}
	for _, part := range strings.Split(build, ".") {
		if part == "" {
			return malformed(input, "empty build metadata identifier")
		}
		for i := 0; i < len(part); i++ {
			c := part[i]
			if (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '-' {
				return malformed(input, fmt.Sprintf("invalid character in build metadata %q", part))
			}
		}
	}
	return nil
}

// Compare orders v against other per semantic-version precedence: the numeric
// triplet first, then pre-release identifiers, where a version carrying any
// pre-release sorts before the same triplet without one. Build metadata is
// ignored. Returns -1, 0, or 1.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return compareUint(v.Major, other.Major)
	case v.Minor != other.Minor:
		return compareUint(v.Minor, other.Minor)
	case v.Patch != other.Patch:
		return compareUint(v.Patch, other.Patch)
	}

	switch {
	case len(v.Pre) == 0 && len(other.Pre) == 0:
		return 0
	case len(v.Pre) == 0:
		return 1
	case len(other.Pre) == 0:
		return -1
	}

	for i := 0; i < len(v.Pre) && i < len(other.Pre); i++ {
		if c := compareIdentifiers(v.Pre[i], other.Pre[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(v.Pre) < len(other.Pre):
		return -1
	case len(v.Pre) > len(other.Pre):
		return 1
	}
	return 0
}

func compareUint(a, b uint64) int {
	if a < b {
		return -1
	}
	return 1
}

// Equal reports whether v and other occupy the same point in the version
// ordering. Build metadata is ignored.
func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// LessThan reports whether v sorts strictly before other.
func (v Version) LessThan(other Version) bool { return v.Compare(other) < 0 }

// GreaterThan reports whether v sorts strictly after other.
func (v Version) GreaterThan(other Version) bool { return v.Compare(other) > 0 }

// IsPreRelease reports whether v carries pre-release identifiers.
func (v Version) IsPreRelease() bool { return len(v.Pre) > 0 }

func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	for i, id := range v.Pre {
		if i == 0 {
			b.WriteByte('-')
		} else {
			b.WriteByte('.')
		}
		b.WriteString(id.String())
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}
