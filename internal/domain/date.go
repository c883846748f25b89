package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// Date is a calendar date without time of day. It travels as "YYYY-MM-DD"
// in JSON and in the database.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.String() == o.String() }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string in YYYY-MM-DD format")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (Date) GormDataType() string { return "date" }

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) scanString(s string) error {
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockTime is a time of day ("HH:MM:SS").
type ClockTime struct {
	time.Time
}

func NewClockTime(hour, minute, second int) ClockTime {
	return ClockTime{time.Date(0, 1, 1, hour, minute, second, 0, time.UTC)}
}

var clockLayouts = []string{ClockLayout, "15:04", "15:04:05.999999999"}

func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClockTime(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return ClockTime{}, fmt.Errorf("invalid time %q: expected HH:MM[:SS]", s)
}

func (c ClockTime) String() string {
	return c.Format(ClockLayout)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time must be a string in HH:MM[:SS] format")
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (ClockTime) GormDataType() string { return "time" }

func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c = NewClockTime(v.Hour(), v.Minute(), v.Second())
		return nil
	case string:
		return c.scanString(v)
	case []byte:
		return c.scanString(string(v))
	case nil:
		*c = ClockTime{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into ClockTime", src)
}

func (c *ClockTime) scanString(s string) error {
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
