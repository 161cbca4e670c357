package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Weekdays is a set of days, 0 = Sunday. Stored as a JSON array.
type Weekdays []time.Weekday

func (w Weekdays) Contains(d time.Weekday) bool {
	for _, x := range w {
		if x == d {
			return true
		}
	}
	return false
}

func (w Weekdays) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	return marshalColumn(w)
}

func (w *Weekdays) Scan(src any) error {
	return scanColumn(src, w)
}

// PeriodIDs is a set of time period identifiers. Stored as a JSON array.
type PeriodIDs []TimePeriodID

func (p PeriodIDs) Contains(id TimePeriodID) bool {
	for _, x := range p {
		if x == id {
			return true
		}
	}
	return false
}

func (p PeriodIDs) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return marshalColumn(p)
}

func (p *PeriodIDs) Scan(src any) error {
	return scanColumn(src, p)
}

// AvatarConfig maps avatar property names (top, hairColor, clothing, ...)
// to a single selected value. The "seed" key drives base generation.
type AvatarConfig map[string]string

// With returns a copy of the config with property set to value.
func (a AvatarConfig) With(property, value string) AvatarConfig {
	out := make(AvatarConfig, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[property] = value
	return out
}

func (a AvatarConfig) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	return marshalColumn(a)
}

func (a *AvatarConfig) Scan(src any) error {
	return scanColumn(src, a)
}

func marshalColumn(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanColumn(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
