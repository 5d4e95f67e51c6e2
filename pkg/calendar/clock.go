package calendar

import "time"

// Clock supplies "today" to code that must not read the wall clock itself.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock and converts it to a civil date in
// Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
	now      func() time.Time
}

// NewSystemClock builds a clock for the named IANA zone. An empty name means
// the process local zone.
func NewSystemClock(zone string) (*SystemClock, error) {
	if zone == "" {
		return &SystemClock{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return &SystemClock{Location: loc}, nil
}

func (c *SystemClock) Today() Date {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now().In(loc))
}

// FixedClock always returns the same date.
type FixedClock Date

func (c FixedClock) Today() Date { return Date(c) }
