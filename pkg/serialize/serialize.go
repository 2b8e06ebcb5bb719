// Package serialize renders arbitrary values for logs and user display
// without ever raising. The upstream generation process hands back opaque
// objects (messages, search results, provider payloads); rendering them must
// never be able to crash the pipeline.
package serialize

import (
	"fmt"
	"reflect"
)

// maxDepth bounds recursion so cyclic structures cannot hang serialization.
const maxDepth = 8

// Serialize converts any value into a display-safe shape: a string, a slice
// of serialized elements, or a map of stringified keys to serialized values.
//
// Message-like values render as "[<type>] <content>" when they carry a
// content field, or "[<type>] role: <role>" when they only carry a role.
// Sequences and maps recurse; everything else falls back to its default
// textual representation. Any panic during inspection is caught and rendered
// as a string naming the original type and the failure.
func Serialize(v interface{}) (result interface{}) {
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("[%s] serialization error: %v", typeName(v), r)
		}
	}()
	return serializeValue(v, 0)
}

// String flattens Serialize's result into a single log-ready string.
func String(v interface{}) string {
	return safeSprint(Serialize(v))
}

func serializeValue(v interface{}, depth int) interface{} {
	if v == nil {
		return "<nil>"
	}
	if depth >= maxDepth {
		return safeSprint(v)
	}

	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return "<nil>"
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		if rendered, ok := renderMessageLike(v, val); ok {
			return rendered
		}
		return safeSprint(v)

	case reflect.Slice, reflect.Array:
		// byte slices render as text, not element-wise
		if val.Kind() == reflect.Slice && val.Type().Elem().Kind() == reflect.Uint8 {
			return string(val.Bytes())
		}
		elements := make([]interface{}, val.Len())
		for i := 0; i < val.Len(); i++ {
			elements[i] = serializeValue(val.Index(i).Interface(), depth+1)
		}
		return elements

	case reflect.Map:
		mapped := make(map[string]interface{}, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			mapped[safeSprint(iter.Key().Interface())] = serializeValue(iter.Value().Interface(), depth+1)
		}
		return mapped

	default:
		return safeSprint(v)
	}
}

// renderMessageLike renders structs exposing a content or role field.
func renderMessageLike(original interface{}, val reflect.Value) (string, bool) {
	if content, ok := stringField(val, "Content"); ok {
		return fmt.Sprintf("[%s] %s", typeName(original), content), true
	}
	if role, ok := stringField(val, "Role"); ok {
		return fmt.Sprintf("[%s] role: %s", typeName(original), role), true
	}
	return "", false
}

// stringField extracts an exported field's textual value if present.
func stringField(val reflect.Value, name string) (string, bool) {
	field := val.FieldByName(name)
	if !field.IsValid() || !field.CanInterface() {
		return "", false
	}
	return safeSprint(field.Interface()), true
}

// safeSprint formats a value, converting any panic from a hostile String or
// Format method into a descriptive string instead of propagating it.
func safeSprint(v interface{}) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("[%s] serialization error: %v", typeName(v), r)
		}
	}()
	return fmt.Sprintf("%v", v)
}

// typeName names a value's dynamic type without risking a panic.
func typeName(v interface{}) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
