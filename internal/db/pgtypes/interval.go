// Package pgtypes provides custom types for PostgreSQL database operations.
// It includes types for handling PostgreSQL-specific data types that need
// special conversion to/from Go types.
package pgtypes

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Interval maps a PostgreSQL INTERVAL column to a Go time.Duration. It
// implements sql.Scanner and driver.Valuer so it can be used directly as a
// column type in the query layer.
type Interval struct {
	Duration time.Duration
	// Valid indicates whether the interval is NULL
	Valid bool
}

// NewInterval creates an Interval from a time.Duration
func NewInterval(d time.Duration) Interval {
	return Interval{
		Duration: d,
		Valid:    true,
	}
}

// NewNullInterval creates a NULL interval
func NewNullInterval() Interval {
	return Interval{
		Valid: false,
	}
}

// Scan implements the sql.Scanner interface to read PostgreSQL INTERVAL values
func (i *Interval) Scan(src any) error {
	if src == nil {
		i.Valid = false
		i.Duration = 0
		return nil
	}

	switch v := src.(type) {
	case pgtype.Interval:
		i.Duration = intervalDuration(v)
		i.Valid = v.Valid
		return nil
	case string:
		// Some code paths hand us the textual interval representation.
		var pgInterval pgtype.Interval
		if err := pgInterval.Scan(v); err != nil {
			return fmt.Errorf("failed to parse interval string %q: %w", v, err)
		}
		i.Duration = intervalDuration(pgInterval)
		i.Valid = pgInterval.Valid
		return nil
	case []byte:
		return i.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Interval", src)
	}
}

// intervalDuration flattens a pgtype.Interval into a duration. Days and
// months carry no timezone context here, so they are converted with fixed
// 24h days and 30-day months.
func intervalDuration(v pgtype.Interval) time.Duration {
	microseconds := v.Microseconds
	microseconds += int64(v.Days) * 24 * 60 * 60 * 1000000
	microseconds += int64(v.Months) * 30 * 24 * 60 * 60 * 1000000
	return time.Duration(microseconds) * time.Microsecond
}

// Value implements the driver.Valuer interface to write PostgreSQL INTERVAL values
func (i Interval) Value() (driver.Value, error) {
	if !i.Valid {
		return nil, nil
	}

	// Everything is stored in microseconds; Postgres normalizes on its side.
	return pgtype.Interval{
		Microseconds: i.Duration.Microseconds(),
		Valid:        true,
	}, nil
}

// String returns a human-readable representation of the interval
func (i Interval) String() string {
	if !i.Valid {
		return "NULL"
	}
	return i.Duration.String()
}

// ParseDuration parses a duration string (like "30m", "1h") and returns an Interval
func ParseDuration(s string) (Interval, error) {
	if s == "" {
		return NewNullInterval(), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Interval{}, err
	}

	return NewInterval(d), nil
}
