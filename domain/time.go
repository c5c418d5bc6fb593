package domain

import (
	"bytes"
	"fmt"
	"time"
)

// The backend serializes LocalDateTime and LocalDate values without a zone
// offset, which encoding/json's time.Time refuses. DateTime and Date accept
// those forms as well as RFC 3339.

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

const (
	dateTimeWire = "2006-01-02T15:04:05"
	dateWire     = "2006-01-02"
)

type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime { return DateTime{Time: t} }

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateTimeWire) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	t, err := parseWireTime(data)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// String renders the value for tables; zero values render as "-".
func (d DateTime) String() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("2006-01-02 15:04")
}

// Input renders the value for an <input type="datetime-local">.
func (d DateTime) Input() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02T15:04")
}

type Date struct {
	time.Time
}

func NewDate(t time.Time) Date { return Date{Time: t} }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateWire) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	t, err := parseWireTime(data)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format(dateWire)
}

func (d Date) Input() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateWire)
}

func parseWireTime(data []byte) (time.Time, error) {
	if bytes.Equal(data, []byte("null")) {
		return time.Time{}, nil
	}
	s := string(bytes.Trim(data, `"`))
	if s == "" {
		return time.Time{}, nil
	}
	return ParseTime(s)
}

// ParseTime accepts every layout the backend and the HTML date inputs produce.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
