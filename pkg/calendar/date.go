// Package calendar provides a day-precision date that travels as
// "YYYY-MM-DD" in JSON and as a Postgres date column.
package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const Layout = "2006-01-02"

// Date is a calendar day in UTC. The zero value is the zero time.
type Date struct {
	time.Time
}

// New truncates t to its UTC calendar day.
func New(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	return New(time.Now())
}

func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		// accept full timestamps from clients that send them
		ts, err2 := time.Parse(time.RFC3339, s)
		if err2 != nil {
			return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
		}
		t = ts
	}
	return New(t), nil
}

func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return d.Format(Layout)
}

// Before reports whether d falls on an earlier day than o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

func (d Date) After(o Date) bool { return d.Time.After(o.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
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

// ScanDate implements pgtype.DateScanner.
func (d *Date) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		*d = Date{}
		return nil
	}
	if v.InfinityModifier != pgtype.Finite {
		return fmt.Errorf("cannot scan infinite date")
	}
	*d = New(v.Time)
	return nil
}

// DateValue implements pgtype.DateValuer.
func (d Date) DateValue() (pgtype.Date, error) {
	if d.IsZero() {
		return pgtype.Date{}, nil
	}
	return pgtype.Date{Time: d.Time, Valid: true}, nil
}
