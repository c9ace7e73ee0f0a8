package session

import "time"

type Status string

const (
	StatusOpen   Status = "open"
	StatusLocked Status = "locked"
	StatusClosed Status = "closed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusLocked, StatusClosed:
		return true
	default:
		return false
	}
}

// Day is a civil calendar date ("2026-08-29") in the organization's
// timezone. One session exists per (org, Day).
type Day string

const dayLayout = "2006-01-02"

func DayOf(t time.Time, loc *time.Location) Day {
	return Day(t.In(loc).Format(dayLayout))
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", err
	}
	return Day(t.Format(dayLayout)), nil
}

func (d Day) String() string {
	return string(d)
}
