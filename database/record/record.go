package record

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"

	"github.com/safing/treebase/database/accessor"
	"github.com/safing/treebase/formats/dsd"
)

// IDField is the name under which the record id is visible to queries and
// in the JSON form of a record.
const IDField = "id"

// Record is the caller facing form of a stored record: an id plus the domain
// fields. The type discriminator of the wire form never appears here.
type Record struct {
	ID     string
	Fields map[string]interface{}
}

// New returns a new record with a copy of the given fields. An "id" entry in
// the fields is moved into the ID, if no explicit id is given.
func New(id string, fields map[string]interface{}) *Record {
	r := &Record{
		ID:     id,
		Fields: make(map[string]interface{}, len(fields)),
	}
	for key, value := range fields {
		if key == IDField {
			if s, ok := value.(string); ok && r.ID == "" {
				r.ID = s
			}
			continue
		}
		r.Fields[key] = value
	}
	return r
}

// FromStruct creates a record from a struct by taking its JSON form as fields.
func FromStruct(id string, v interface{}) (*Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("record: failed to marshal %T: %w", v, err)
	}
	fields := make(map[string]interface{})
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %T", ErrNotAnObject, v)
	}
	return New(id, fields), nil
}

// Get returns the field with the given name.
func (r *Record) Get(key string) (value interface{}, ok bool) {
	if key == IDField {
		return r.ID, r.ID != ""
	}
	value, ok = r.Fields[key]
	return
}

// Set sets the field with the given name.
func (r *Record) Set(key string, value interface{}) {
	if key == IDField {
		if s, ok := value.(string); ok {
			r.ID = s
		}
		return
	}
	if r.Fields == nil {
		r.Fields = make(map[string]interface{})
	}
	r.Fields[key] = value
}

// Clone returns a shallow copy of the record.
func (r *Record) Clone() *Record {
	fields := maps.Clone(r.Fields)
	if fields == nil {
		fields = make(map[string]interface{})
	}
	return &Record{
		ID:     r.ID,
		Fields: fields,
	}
}

// Flat returns the fields together with the id in a single map.
func (r *Record) Flat() map[string]interface{} {
	flat := make(map[string]interface{}, len(r.Fields)+1)
	for key, value := range r.Fields {
		flat[key] = value
	}
	if r.ID != "" {
		flat[IDField] = r.ID
	}
	return flat
}

// MarshalJSON implements json.Marshaler.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Flat())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := make(map[string]interface{})
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = *New("", fields)
	return nil
}

// Unmarshal decodes the record (including its id) into the given struct.
func (r *Record) Unmarshal(v interface{}) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Marshal serializes the record with the given format.
func (r *Record) Marshal(format dsd.SerializationFormat) ([]byte, error) {
	return dsd.Dump(r.Flat(), format)
}

// GetAccessor returns an accessor over the JSON form of the record, for
// matching it against queries.
func (r *Record) GetAccessor() accessor.Accessor {
	data, err := r.MarshalJSON()
	if err != nil {
		empty := "{}"
		return accessor.NewJSONAccessor(&empty)
	}
	s := string(data)
	return accessor.NewJSONAccessor(&s)
}
