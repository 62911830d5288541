package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ExportFilename is the fixed name of a saved record.
const ExportFilename = "result.json"

// ErrNotObject is returned when a file does not hold a JSON object.
var ErrNotObject = errors.New("record file must contain a JSON object")

// Encode writes r as a single JSON object shaped section → field → value.
func Encode(w io.Writer, r Record) error {
	if err := json.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}

// Decode reads a record written by Encode. Sections or fields missing from
// the file keep their default values. The result is not validated.
func Decode(rd io.Reader) (Record, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read record: %w", err)
	}
	return Unmarshal(data)
}

// DecodeStrict is Decode that also rejects keys the record does not have.
func DecodeStrict(rd io.Reader) (Record, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read record: %w", err)
	}
	return unmarshal(data, true)
}

// Unmarshal is Decode over an in-memory file.
func Unmarshal(data []byte) (Record, error) {
	return unmarshal(data, false)
}

func unmarshal(data []byte, strict bool) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, ErrNotObject
	}

	r := Defaults()
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&r); err != nil {
		return Record{}, fmt.Errorf("failed to parse record: %w", err)
	}
	if dec.More() {
		return Record{}, fmt.Errorf("failed to parse record: trailing data after the object")
	}
	return r, nil
}
