package memmodel

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Value is a scalar attribute or property value. Snapshot strings, numbers
// and booleans all decode to their literal text, so 0.2 and "0.2" are the
// same value in JSON and YAML snapshots.
type Value string

// UnmarshalJSON accepts a JSON string, number, boolean or null. Numbers keep
// their original spelling.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*v = Value(b)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("memmodel: value must be a string, number or boolean, got %s", b)
		}
		*v = Value(n)
	}
	return nil
}

func (v Value) String() string { return string(v) }
