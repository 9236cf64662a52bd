package payroll

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Month is a calendar month, the unit payroll is recorded in.
type Month struct {
	Year int
	Mon  time.Month
}

var monthRegex = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	m := monthRegex.FindStringSubmatch(s)
	if m == nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	year, _ := strconv.Atoi(m[1])
	mon, _ := strconv.Atoi(m[2])
	return Month{Year: year, Mon: time.Month(mon)}, nil
}

// MustParseMonth is ParseMonth for literals. It panics on bad input.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MonthOf returns the calendar month t falls in, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Label renders the month the way payroll sheets title it, e.g. "June-2025".
func (m Month) Label() string {
	return fmt.Sprintf("%s-%d", m.Mon.String(), m.Year)
}

func (m Month) index() int {
	return m.Year*12 + int(m.Mon) - 1
}

// Compare returns -1, 0 or 1 when m is before, equal to or after other.
func (m Month) Compare(other Month) int {
	switch a, b := m.index(), other.index(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (m Month) Before(other Month) bool { return m.Compare(other) < 0 }

func (m Month) After(other Month) bool { return m.Compare(other) > 0 }

func (m Month) Next() Month { return m.add(1) }

func (m Month) Prev() Month { return m.add(-1) }

func (m Month) add(n int) Month {
	i := m.index() + n
	return Month{Year: i / 12, Mon: time.Month(i%12 + 1)}
}

// Start returns midnight of the first day of the month in loc.
func (m Month) Start(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, loc)
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
