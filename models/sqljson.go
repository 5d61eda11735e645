package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Nested values are kept in one JSON column each.

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("models: cannot scan %T as json", src)
	}
}

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Party) Scan(src any) error          { return scanJSON(src, p) }
func (p Party) Value() (driver.Value, error) { return jsonValue(p) }

func (s *ShipTo) Scan(src any) error          { return scanJSON(src, s) }
func (s ShipTo) Value() (driver.Value, error) { return jsonValue(s) }

func (c *Company) Scan(src any) error          { return scanJSON(src, c) }
func (c Company) Value() (driver.Value, error) { return jsonValue(c) }

func (l *Layout) Scan(src any) error          { return scanJSON(src, l) }
func (l Layout) Value() (driver.Value, error) { return jsonValue(l) }

func (items *LineItems) Scan(src any) error { return scanJSON(src, items) }

func (items LineItems) Value() (driver.Value, error) {
	if items == nil {
		return "[]", nil
	}
	return jsonValue([]LineItem(items))
}
