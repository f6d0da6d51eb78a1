// Package render turns opaque service payloads into display text.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Indent is the per-level indentation used for output.
const Indent = "  "

// PrettyJSON re-encodes raw JSON with two-space indentation and object keys in
// sorted order, so the same payload always renders to the same bytes.
// Numbers keep the literal form they were sent in and HTML characters are not escaped.
func PrettyJSON(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("render: invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("render: trailing data after JSON value")
	}
	return Value(v)
}

// Value pretty-prints an already decoded value with the same rules as PrettyJSON.
func Value(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
