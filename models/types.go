// File: /models/types.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice stores a list of strings (required skills on events) as a JSON
// column. A nil slice round-trips as SQL NULL but always marshals to [] in
// API responses.
type StringSlice []string

func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	raw, err := json.Marshal([]string(ss))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T for StringSlice", value)
	}

	// mysql json columns can hold an empty payload after manual edits
	if len(raw) == 0 {
		*ss = nil
		return nil
	}
	return json.Unmarshal(raw, ss)
}

func (StringSlice) GormDataType() string {
	return "json"
}

func (ss StringSlice) MarshalJSON() ([]byte, error) {
	if ss == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(ss))
}

func (ss *StringSlice) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*ss = values
	return nil
}
