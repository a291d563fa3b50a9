package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONValue represents a JSONB column holding any JSON value
type JSONValue json.RawMessage

// Value implements driver.Valuer interface
func (j JSONValue) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	if !json.Valid(j) {
		return nil, fmt.Errorf("invalid JSON value")
	}
	return string(j), nil
}

// Scan implements sql.Scanner interface
func (j *JSONValue) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONValue(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	return nil
}

// MarshalJSON emits the raw value, or null when unset.
func (j JSONValue) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores a copy of data.
func (j *JSONValue) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}

// Setting is one platform setting
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     JSONValue `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SettingRequest is the body of PUT /api/admin/settings/:key
type SettingRequest struct {
	Value JSONValue `json:"value"`
}
