package fieldtype

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var (
	timeLayouts     = []string{TimeLayout, "15:04"}
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
)

// ParseTemporal parses s as the value of a DATE, TIME or DATETIME field.
// Values without a zone are read as UTC. TIME values are placed on the zero date.
func ParseTemporal(k Kind, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var layouts []string
	switch k {
	case Date:
		layouts = []string{DateLayout}
	case Time:
		layouts = timeLayouts
	case DateTime:
		layouts = dateTimeLayouts
	default:
		return time.Time{}, fmt.Errorf("%s is not a temporal field type", k)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a valid %s", s, strings.ToLower(string(k)))
}

// FormatTemporal renders t in the canonical representation of kind k.
func FormatTemporal(k Kind, t time.Time) string {
	switch k {
	case Date:
		return t.Format(DateLayout)
	case Time:
		return t.Format(TimeLayout)
	default:
		return t.Format(time.RFC3339)
	}
}
