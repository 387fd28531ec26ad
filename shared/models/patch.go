package models

import "encoding/json"

// PatchField carries a JSON value that distinguishes "absent" from
// "present and null". Absent fields are left unchanged by update
// handlers; an explicit null clears the column.
type PatchField[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON marks the field as present; a JSON null leaves Value
// nil, which update handlers treat as "clear".
func (f *PatchField[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON round-trips the wrapped value
func (f PatchField[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
