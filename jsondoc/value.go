package jsondoc

import (
	"fmt"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is a parsed JSON value: nil, bool, Number, string, []Value or *Object.
type Value any

// Number keeps the literal as it appeared in the source.
type Number string

// Object is a JSON object with insertion-ordered keys.
type Object = orderedmap.OrderedMap[string, Value]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, Value]()
}

// Parse decodes text into an order-preserving Value tree.
func Parse(text string) (Value, error) {
	if err := check(text); err != nil {
		return nil, err
	}
	data, typ, _, err := jsonparser.Get([]byte(embedSurrogates(text)))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return decode(data, typ)
}

func decode(data []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(data)
	case jsonparser.Number:
		return Number(data), nil
	case jsonparser.String:
		return jsonparser.ParseString(data)
	case jsonparser.Array:
		return decodeArray(data)
	case jsonparser.Object:
		return decodeObject(data)
	default:
		return nil, fmt.Errorf("unexpected value %q", data)
	}
}

func decodeArray(data []byte) (Value, error) {
	out := []Value{}
	var walkErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if walkErr != nil {
			return
		}
		if err != nil {
			walkErr = err
			return
		}
		v, err := decode(value, typ)
		if err != nil {
			walkErr = err
			return
		}
		out = append(out, v)
	})
	if err != nil {
		return nil, fmt.Errorf("read array: %w", err)
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

func decodeObject(data []byte) (Value, error) {
	obj := NewObject()
	// ObjectEach hands over keys already unescaped.
	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		v, err := decode(value, typ)
		if err != nil {
			return err
		}
		obj.Set(string(key), v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return obj, nil
}
