// Package calendar models civil dates: a (year, month, day) triple with no
// time of day and no time zone. All comparisons and arithmetic work on the
// triple or on its epoch-day number, never on time.Time instants.
package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFormat is returned when a string is not a YYYY-MM-DD calendar date.
var ErrInvalidFormat = errors.New("calendar: invalid date format")

const layoutLen = len("2006-01-02")

// Date is a calendar date. The zero value means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New validates the triple and builds a Date.
func New(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.valid() {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrInvalidFormat, year, int(month), day)
	}
	return d, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse reads the leading YYYY-MM-DD of s. A trailing time/zone part such as
// "T00:00:00Z" is ignored; it is never used to shift the date.
func Parse(s string) (Date, error) {
	if len(s) < layoutLen {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	head, tail := s[:layoutLen], s[layoutLen:]
	if tail != "" && tail[0] != 'T' && tail[0] != 't' && tail[0] != ' ' {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	for i := 0; i < layoutLen; i++ {
		c := head[i]
		switch i {
		case 4, 7:
			if c != '-' {
				return Date{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
			}
		default:
			if c < '0' || c > '9' {
				return Date{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
			}
		}
	}

	year := atoi(head[0:4])
	month := time.Month(atoi(head[5:7]))
	day := atoi(head[8:10])

	return New(year, month, day)
}

// FromTime returns the civil date of t as seen in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether d is the "no date" value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare orders dates by year, then month, then day.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func (d Date) Equal(other Date) bool { return d.Compare(other) == 0 }

// AddDays moves d by n days (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromEpochDay(d.EpochDay() + int64(n))
}

// DaysBetween returns to - from in whole days.
func DaysBetween(from, to Date) int64 {
	return to.EpochDay() - from.EpochDay()
}

// EpochDay returns the number of days since 1970-01-01 in the proleptic
// Gregorian calendar.
func (d Date) EpochDay() int64 {
	y := int64(d.Year)
	m := int64(d.Month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + int64(d.Day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// FromEpochDay is the inverse of EpochDay.
func FromEpochDay(n int64) Date {
	z := n + 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if month > 12 {
		month -= 12
	}
	year := yoe + era*400
	if month <= 2 {
		year++
	}
	return Date{Year: int(year), Month: time.Month(month), Day: int(day)}
}

// MarshalJSON writes the date as "YYYY-MM-DD", or null for the zero date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" with an optional time suffix; "" and null
// decode to the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, string(data))
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) valid() bool {
	if d.Year < 1 || d.Year > 9999 {
		return false
	}
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= daysIn(d.Year, d.Month)
}

func daysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
