package node

import (
	"reflect"

	"recordkit/primitive"
)

// DispatcherEnum classifies the shape of a raw input value.
type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherPrimitive
	DispatcherInterface
	DispatcherSlice
	DispatcherMap
	DispatcherStruct

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)

// Dispatch reports the shape of a raw value type. Pointers are looked through.
func Dispatch(t reflect.Type) DispatcherEnum {
	if t == nil {
		return DispatcherUnknown
	}

	_, t = ptrDepthAndBase(t)

	if primitive.FromReflectType(t) != 0 {
		return DispatcherPrimitive
	}

	switch t.Kind() {
	default:
		return DispatcherUnknown
	case reflect.Interface:
		return DispatcherInterface
	case reflect.Slice, reflect.Array:
		return DispatcherSlice
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return DispatcherMap
		}

		return DispatcherUnknown
	case reflect.Struct:
		return DispatcherStruct
	}
}

// DispatchValue is Dispatch applied to the dynamic type of v.
func DispatchValue(v any) DispatcherEnum {
	if v == nil {
		return DispatcherUnknown
	}

	return Dispatch(reflect.TypeOf(v))
}

// Elements returns the elements of a slice or array value, looking through pointers.
func Elements(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, true
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}

	return out, true
}

// Entries returns the entries of a string-keyed map value, looking through pointers.
func Entries(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}

		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}

	return out, true
}
