// Package decode reads loosely-typed JSON documents field by field.
//
// Documents are parsed with json.Number so integers and floats stay
// distinguishable. Readers never fail hard: a missing or mistyped field is
// reported through the bool result, and list decoders drop elements whose
// required fields are unusable instead of building partial records.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

// ErrNotListLike is returned by Parse when the document is a JSON scalar.
var ErrNotListLike = errors.New("json document is not an object or array")

// Parse decodes body into an untyped value. Only objects and arrays are accepted.
func Parse(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after json document")
	}
	if !IsListLike(value) {
		return nil, ErrNotListLike
	}
	return value, nil
}

// IsListLike reports whether v is a JSON object or array.
func IsListLike(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// Elements returns the elements of a JSON array, or nil for anything else.
func Elements(v any) []any {
	items, _ := v.([]any)
	return items
}

// Object is a decoded JSON object.
type Object map[string]any

// AsObject converts v into an Object when it is a JSON object.
func AsObject(v any) (Object, bool) {
	switch typed := v.(type) {
	case map[string]any:
		return Object(typed), true
	case Object:
		return typed, true
	}
	return nil, false
}

// Lookup walks nested objects along path. A JSON null counts as absent.
func (o Object) Lookup(path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	current := o
	for i, key := range path {
		value, ok := current[key]
		if !ok || value == nil {
			return nil, false
		}
		if i == len(path)-1 {
			return value, true
		}
		next, ok := AsObject(value)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Object returns the nested object at path.
func (o Object) Object(path ...string) (Object, bool) {
	value, ok := o.Lookup(path...)
	if !ok {
		return nil, false
	}
	return AsObject(value)
}

// Int returns the integer at path. Floats and numeric strings are rejected.
func (o Object) Int(path ...string) (int, bool) {
	value, ok := o.Lookup(path...)
	if !ok {
		return 0, false
	}
	return asInt(value)
}

// String returns the string at path.
func (o Object) String(path ...string) (string, bool) {
	value, ok := o.Lookup(path...)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// Time parses the string at path as a timestamp.
func (o Object) Time(path ...string) (time.Time, bool) {
	s, ok := o.String(path...)
	if !ok {
		return time.Time{}, false
	}
	return ParseTime(s)
}

// Truthy coerces the value at path to a boolean. Absent, null, false, zero,
// empty strings, "0" and empty collections are false.
func (o Object) Truthy(path ...string) bool {
	value, ok := o.Lookup(path...)
	if !ok {
		return false
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case json.Number:
		f, err := typed.Float64()
		return err == nil && f != 0
	case float64:
		return typed != 0
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case string:
		return typed != "" && typed != "0"
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	}
	return true
}

// OptInt returns a pointer to the integer at path, or nil.
func (o Object) OptInt(path ...string) *int {
	if v, ok := o.Int(path...); ok {
		return &v
	}
	return nil
}

// OptString returns a pointer to the string at path, or nil.
func (o Object) OptString(path ...string) *string {
	if v, ok := o.String(path...); ok {
		return &v
	}
	return nil
}

// OptTime returns a pointer to the timestamp at path, or nil.
func (o Object) OptTime(path ...string) *time.Time {
	if v, ok := o.Time(path...); ok {
		return &v
	}
	return nil
}

// Objects returns the object elements of the array at path. Other elements
// are skipped; a missing or non-array value yields an empty slice.
func (o Object) Objects(path ...string) []Object {
	value, _ := o.Lookup(path...)
	items := Elements(value)
	out := make([]Object, 0, len(items))
	for _, item := range items {
		if obj, ok := AsObject(item); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Required reads mandatory fields and remembers the ones that were unusable.
type Required struct {
	obj     Object
	missing []string
}

// Require starts reading mandatory fields of o.
func Require(o Object) *Required {
	return &Required{obj: o}
}

// Int reads a mandatory integer.
func (r *Required) Int(path ...string) int {
	v, ok := r.obj.Int(path...)
	if !ok {
		r.fail(path)
	}
	return v
}

// String reads a mandatory string.
func (r *Required) String(path ...string) string {
	v, ok := r.obj.String(path...)
	if !ok {
		r.fail(path)
	}
	return v
}

// Object reads a mandatory nested object.
func (r *Required) Object(path ...string) Object {
	v, ok := r.obj.Object(path...)
	if !ok {
		r.fail(path)
	}
	return v
}

// OK reports whether every mandatory field was usable.
func (r *Required) OK() bool {
	return len(r.missing) == 0
}

// Missing lists the dotted paths of unusable mandatory fields.
func (r *Required) Missing() []string {
	return append([]string(nil), r.missing...)
}

func (r *Required) fail(path []string) {
	r.missing = append(r.missing, strings.Join(path, "."))
}

// Func decodes one object into a record, reporting whether it was usable.
type Func[T any] func(Object) (T, bool)

// One decodes a single document with fn.
func One[T any](raw any, fn Func[T]) (T, bool) {
	obj, ok := AsObject(raw)
	if !ok {
		var zero T
		return zero, false
	}
	return fn(obj)
}

// List decodes every element of a JSON array with fn, dropping elements that
// are not objects or that fn rejects. Order is preserved.
func List[T any](raw any, fn Func[T]) []T {
	items := Elements(raw)
	out := make([]T, 0, len(items))
	for _, item := range items {
		obj, ok := AsObject(item)
		if !ok {
			continue
		}
		if record, ok := fn(obj); ok {
			out = append(out, record)
		}
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses the timestamp formats emitted by the API. Timestamps without
// an offset are read as UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asInt(value any) (int, bool) {
	switch typed := value.(type) {
	case json.Number:
		n, err := strconv.ParseInt(typed.String(), 10, 0)
		if err != nil {
			return 0, false
		}
		return int(n), true
	case int:
		return typed, true
	case int64:
		return int(typed), true
	}
	return 0, false
}
