package advisory

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Date is a calendar date (no time of day) that marshals to and from
// "YYYY-MM-DD" scalars. Advisory publication and withdrawal dates use this
// form.
type Date time.Time

const dateLayout = "2006-01-02"

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	return yaml.Node{
		Kind:  yaml.ScalarNode,
		Value: d.String(),
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. The YAML resolver tags bare
// dates as timestamps, so both tagged and quoted scalars are accepted.
func (d *Date) UnmarshalYAML(v *yaml.Node) error {
	if v.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected a date scalar, got %s", v.Tag)
	}

	dateValue, err := time.Parse(dateLayout, v.Value)
	if err != nil {
		return fmt.Errorf("unable to parse date (want YYYY-MM-DD): %w", err)
	}

	*d = Date(dateValue)
	return nil
}

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// Time returns the date as a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return time.Time(d)
}

// Before returns true if d is before other.
func (d Date) Before(other Date) bool {
	return time.Time(d).Before(time.Time(other))
}

// String returns the date as a YYYY-MM-DD string.
func (d Date) String() string {
	return time.Time(d).UTC().Format(dateLayout)
}
