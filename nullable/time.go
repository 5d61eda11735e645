package nullable

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is accepted next to RFC3339 when decoding
const DateLayout = "2006-01-02"

// Time in `nullable` package
// implements: sql.Scanner and driver.Valuer by embedding sql.NullTime
// implements: json.Marshaler and json.Unmarshaler
type Time struct {
	sql.NullTime
}

func TimeOf(t time.Time) Time {
	return Time{sql.NullTime{Time: t, Valid: !t.IsZero()}}
}

func (n Time) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.Time.Format(time.RFC3339))
	}
	return []byte("null"), nil
}

func (n *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Valid = false
		n.Time = time.Time{}
		return nil
	}
	var str string // to string, then, to time.Time
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		n.Valid = false
		n.Time = time.Time{}
		return nil
	}
	t, err := ParseTime(str)
	if err != nil {
		return err
	}
	n.Time = t
	n.Valid = true
	return nil
}

// ParseTime reads RFC3339 (with or without fraction) or a bare date
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("nullable: unrecognized time %q", s)
}

func (n Time) ForceValue() time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return n.Time
}

// Or returns the time, or def when null
func (n Time) Or(def time.Time) time.Time {
	if !n.Valid {
		return def
	}
	return n.Time
}

func (n Time) IsNil() bool {
	return !n.Valid
}
