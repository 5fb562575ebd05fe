package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// AllTimeKey is the textual form of the all-time period.
const AllTimeKey = "all"

var (
	ErrInvalidPeriod = errors.New("invalid period")

	monthPattern = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])$`)
)

// Period is the aggregation window: one calendar month or all time.
// The zero value is all time.
type Period struct {
	month string // YYYY-MM, empty for all time
}

// AllTime covers every record regardless of date.
var AllTime = Period{}

// MonthPeriod returns the period for the given calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{month: fmt.Sprintf("%04d-%02d", year, month)}
}

// MonthOf returns the period of the month t falls in.
func MonthOf(t time.Time) Period {
	return MonthPeriod(t.Year(), t.Month())
}

// ParsePeriod parses "all" or a "YYYY-MM" month.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AllTimeKey) {
		return AllTime, nil
	}
	if !monthPattern.MatchString(s) {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return Period{month: s}, nil
}

func (p Period) IsAllTime() bool {
	return p.month == ""
}

// Contains reports whether a YYYY-MM-DD date falls within the period. Months
// are matched by string prefix, which partitions sortable dates correctly.
func (p Period) Contains(date string) bool {
	if p.IsAllTime() {
		return true
	}
	return strings.HasPrefix(date, p.month)
}

// String returns "all" or the YYYY-MM month.
func (p Period) String() string {
	if p.IsAllTime() {
		return AllTimeKey
	}
	return p.month
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
