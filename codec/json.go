package codec

import (
	"bytes"
	"encoding/json"
)

// JSON encodes snapshot payloads with encoding/json.
// Pick it when snapshots are produced for tools that pin the standard library.
type JSON struct{}

// Marshal encodes v without HTML escaping and without the trailing newline
// json.Encoder adds, matching GoJSON byte for byte.
func (JSON) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Unmarshal decodes a snapshot payload into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name is the codec name stored in snapshot headers.
func (JSON) Name() string { return "json" }
