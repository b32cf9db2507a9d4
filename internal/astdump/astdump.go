// Package astdump renders AST nodes as stable, sorted-key JSON for the
// --print-ast / --print-ast-spans CLI flags and golden tests, plus a
// deep-structure dump for interactive debugging.
package astdump

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// ToDebugData converts any AST node (or slice/primitive) into a
// JSON-marshalable tree: structs become {"node": TypeName, field: ...} maps,
// with the span field ("Sp") omitted unless includeSpans is set.
func ToDebugData(node any, includeSpans bool) any {
	if node == nil {
		return nil
	}
	return valueToDebugData(reflect.ValueOf(node), includeSpans)
}

func valueToDebugData(v reflect.Value, includeSpans bool) any {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil
	}

	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok && isIntKind(v.Kind()) {
			return s.String()
		}
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Slice, reflect.Array:
		n := v.Len()
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, valueToDebugData(v.Index(i), includeSpans))
		}
		return out
	case reflect.Map:
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprintf("%v", iter.Key().Interface())] = valueToDebugData(iter.Value(), includeSpans)
		}
		return out
	case reflect.Struct:
		t := v.Type()
		result := map[string]any{"node": t.Name()}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			key := lowerFirst(f.Name)
			if !includeSpans && key == "sp" {
				continue
			}
			result[key] = valueToDebugData(v.Field(i), includeSpans)
		}
		return result
	default:
		if v.CanInterface() {
			return fmt.Sprintf("%v", v.Interface())
		}
		return nil
	}
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// ToDebugJSON renders node as indented JSON with sorted object keys
// (encoding/json sorts map[string]any keys by default).
func ToDebugJSON(node any, includeSpans bool) (string, error) {
	data := ToDebugData(node, includeSpans)
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DeepDump renders node with go-spew, for debugging where the JSON view is
// too lossy (pointer identity, unexported bookkeeping). No CLI flag calls
// it; --print-ast-spans uses ToDebugJSON.
func DeepDump(node any) string {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, SortKeys: true}
	return cfg.Sdump(node)
}
