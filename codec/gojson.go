package codec

import gojson "github.com/goccy/go-json"

// GoJSON encodes snapshot payloads with github.com/goccy/go-json. It is the
// default codec and writes the same bytes as JSON, so readers built on
// encoding/json can decode its snapshots.
type GoJSON struct{}

// Marshal encodes v without HTML escaping, keeping species labels such as
// "Na+<aq>" readable in exported curves.
func (GoJSON) Marshal(v any) ([]byte, error) {
	return gojson.MarshalWithOption(v, gojson.DisableHTMLEscape())
}

// Unmarshal decodes a snapshot payload into v.
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

// Name is the codec name stored in snapshot headers.
func (GoJSON) Name() string { return "go-json" }
