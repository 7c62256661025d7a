package asana

import (
	"bytes"
	"encoding/json"
)

// NullString distinguishes a missing field from an explicit null in a
// request body. Set is true when the field was present at all.
type NullString struct {
	Set   bool
	Valid bool
	Value string
}

func (n *NullString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Valid = false
		n.Value = ""
		return nil
	}
	n.Valid = true
	return json.Unmarshal(b, &n.Value)
}

func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Str builds a valid NullString, handy when calling the service directly
func Str(v string) NullString {
	return NullString{Set: true, Valid: true, Value: v}
}

// Null builds an explicit null
func Null() NullString {
	return NullString{Set: true}
}
