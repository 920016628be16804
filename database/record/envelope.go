package record

import (
	"encoding/json"
	"fmt"
)

// TypeField is the wire-only discriminator field that names the model a
// stored record belongs to.
const TypeField = "_type"

// Envelope is the wire form of a record: the domain fields tagged with the
// name of the model they belong to.
type Envelope struct {
	Type   string
	Fields map[string]interface{}
}

// ForDB wraps the given fields for writing them as a record of the given model.
func ForDB(modelName string, fields map[string]interface{}) *Envelope {
	e := &Envelope{
		Type:   modelName,
		Fields: make(map[string]interface{}, len(fields)),
	}
	for key, value := range fields {
		switch key {
		case TypeField, IDField:
		default:
			e.Fields[key] = value
		}
	}
	return e
}

// ParseEnvelope reads the wire form as returned from the tree.
func ParseEnvelope(value interface{}) (*Envelope, error) {
	fields, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotAnObject, value)
	}

	e := &Envelope{
		Fields: make(map[string]interface{}, len(fields)),
	}
	for key, value := range fields {
		if key == TypeField {
			e.Type, _ = value.(string)
			continue
		}
		e.Fields[key] = value
	}
	return e, nil
}

// FromDB reads the wire form of the record with the given id and strips the
// discriminator.
func FromDB(id string, value interface{}) (*Record, error) {
	e, err := ParseEnvelope(value)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	return e.Record(id), nil
}

// Record returns the record held by the envelope.
func (e *Envelope) Record(id string) *Record {
	return New(id, e.Fields)
}

// Wire returns the value to store in the tree.
func (e *Envelope) Wire() map[string]interface{} {
	wire := make(map[string]interface{}, len(e.Fields)+1)
	for key, value := range e.Fields {
		wire[key] = value
	}
	wire[TypeField] = e.Type
	return wire
}

// MarshalJSON implements json.Marshaler.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	parsed, err := ParseEnvelope(value)
	if err != nil {
		return err
	}
	*e = *parsed
	return nil
}
