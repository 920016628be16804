package dsd

// dynamic structured data
// check here for some benchmarks: https://github.com/alecthomas/go_serialization_benchmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/safing/treebase/formats/varint"
)

var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("dsd: failed to create cbor decoder: %s", err))
	}
}

// Load loads an dsd structured data blob into the given interface.
func Load(data []byte, t interface{}) (format SerializationFormat, err error) {
	if len(data) < 2 {
		return 0, ErrNoMoreSpace
	}

	f, read, err := varint.Unpack8(data)
	if err != nil {
		return 0, err
	}
	format = SerializationFormat(f)
	if len(data) <= read {
		return format, ErrNoMoreSpace
	}

	return format, LoadAsFormat(data[read:], format, t)
}

// LoadAsFormat loads a data blob into the interface using the specified format.
func LoadAsFormat(data []byte, format SerializationFormat, t interface{}) (err error) {
	switch format {
	case RAW:
		return ErrIsRaw
	case JSON:
		err = json.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack json: %w, data: %s", err, string(data))
		}
		return nil
	case CBOR:
		err = cborDecMode.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack cbor: %w", err)
		}
		return nil
	case MsgPack:
		err = msgpack.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack msgpack: %w", err)
		}
		return nil
	default:
		return ErrIncompatibleFormat
	}
}

// Dump stores the interface as a dsd formatted data structure.
func Dump(t interface{}, format SerializationFormat) ([]byte, error) {
	data, format, err := DumpWithoutIdentifier(t, format)
	if err != nil {
		return nil, err
	}

	return append(varint.Pack8(uint8(format)), data...), nil
}

// DumpWithoutIdentifier stores the interface as a data structure, without
// format identifier, but returns the format used.
func DumpWithoutIdentifier(t interface{}, format SerializationFormat) ([]byte, SerializationFormat, error) {
	format, ok := format.ValidateSerializationFormat()
	if !ok {
		return nil, 0, ErrIncompatibleFormat
	}

	var data []byte
	var err error
	switch format {
	case RAW:
		var ok bool
		data, ok = t.([]byte)
		if !ok {
			return nil, 0, ErrIncompatibleFormat
		}
	case JSON:
		buf := &bytes.Buffer{}
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		err = enc.Encode(t)
		if err != nil {
			return nil, 0, fmt.Errorf("dsd: failed to pack json: %w", err)
		}
		data = bytes.TrimRight(buf.Bytes(), "\n")
	case CBOR:
		data, err = cbor.Marshal(t)
		if err != nil {
			return nil, 0, fmt.Errorf("dsd: failed to pack cbor: %w", err)
		}
	case MsgPack:
		data, err = msgpack.Marshal(t)
		if err != nil {
			return nil, 0, fmt.Errorf("dsd: failed to pack msgpack: %w", err)
		}
	default:
		return nil, 0, ErrIncompatibleFormat
	}

	return data, format, nil
}
