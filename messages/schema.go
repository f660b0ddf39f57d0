package messages

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed envelope.schema.json
var envelopeSchema []byte

const envelopeSchemaURL = "https://breach.local/schemas/envelope.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(envelopeSchemaURL, bytes.NewReader(envelopeSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(envelopeSchemaURL)
	})
	return schema, schemaErr
}

// Decode validates raw against the client message schema and returns the
// envelope
func Decode(raw []byte) (*Envelope, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// DecodePayload unmarshals the envelope payload into v. A missing payload
// leaves v untouched.
func (e *Envelope) DecodePayload(v interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, v)
}
