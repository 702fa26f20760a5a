package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// KeySeparator joins the segments of a memo key.
const KeySeparator = "::"

// KeySerializer turns a call's arguments into a stable string so that
// arguments which are not comparable (slices, maps) can still key a cache.
type KeySerializer interface {
	SerializeKey(name string, args ...any) string
}

type reflectSerializer struct{}

// NewKeySerializer returns the reflection based serializer used by default.
// Map keys are sorted; pointers are followed; unexported struct fields are skipped.
func NewKeySerializer() KeySerializer {
	return reflectSerializer{}
}

func (s reflectSerializer) SerializeKey(name string, args ...any) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		parts = append(parts, s.value(reflect.ValueOf(arg)))
	}
	return strings.Join(parts, KeySeparator)
}

func (s reflectSerializer) value(rv reflect.Value) string {
	if !rv.IsValid() {
		return "nil"
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return s.value(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return "[]nil"
		}
		return s.list(rv)
	case reflect.Array:
		return s.list(rv)
	case reflect.Map:
		if rv.IsNil() {
			return "{}nil"
		}
		return s.mapping(rv)
	case reflect.Struct:
		return s.record(rv)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%s:%#x", rv.Kind(), rv.Pointer())
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("%q", fmt.Sprint(rv.Interface()))
	}

	if rv.CanInterface() {
		if data, err := json.Marshal(rv.Interface()); err == nil {
			return "json:" + string(data)
		}
	}
	return "type:" + rv.Type().String()
}

func (s reflectSerializer) list(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = s.value(rv.Index(i))
	}
	return fmt.Sprintf("[%d]{%s}", len(parts), strings.Join(parts, ","))
}

func (s reflectSerializer) mapping(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, s.value(iter.Key())+"="+s.value(iter.Value()))
	}
	sort.Strings(pairs)
	return fmt.Sprintf("map[%d]{%s}", len(pairs), strings.Join(pairs, ","))
}

func (s reflectSerializer) record(rv reflect.Value) string {
	rt := rv.Type()
	parts := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		parts = append(parts, f.Name+":"+s.value(rv.Field(i)))
	}
	return rt.Name() + "{" + strings.Join(parts, ",") + "}"
}
