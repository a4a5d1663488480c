package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONB stores a column map as a JSON document (jsonb on postgres, text on sqlite).
type JSONB map[string]interface{}

// Scan implements sql.Scanner
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("jsonb scan: value is neither []byte nor string")
	}
	return json.Unmarshal(bytes, j)
}

// Value implements driver.Valuer
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
