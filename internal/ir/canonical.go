package ir

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON.
// This is the only serialization used for checksums.
//
// Differences from encoding/json:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping, U+2028/U+2029 left literal
//  3. Strings are NFC normalized
//  4. No floats and no null (returns error)
//
// Accepted inputs: string, bool, int, int64, uint32, uint64, []any,
// []string, map[string]any and *ComponentInterface.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		writeCanonicalString(buf, val)
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	case []string:
		buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, s)
		}
		buf.WriteByte(']')
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		return writeCanonicalObject(buf, val)
	case *ComponentInterface:
		return writeCanonicalObject(buf, interfaceObject(val))
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

func writeCanonicalObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	// RFC 8785 orders by UTF-16 code units, which differs from Go's
	// byte-wise string ordering outside the BMP.
	slices.SortFunc(keys, compareKeysRFC8785)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, k)
		buf.WriteByte(':')
		if err := writeCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeCanonicalString escapes only quote, backslash and control characters.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// interfaceObject flattens the model into canonical-JSON-safe values.
// Types are rendered with their canonical text form.
func interfaceObject(ci *ComponentInterface) map[string]any {
	enums := make([]any, len(ci.Enums))
	for i, e := range ci.Enums {
		enums[i] = map[string]any{
			"name":     e.Name,
			"variants": append([]string{}, e.Variants...),
		}
	}

	records := make([]any, len(ci.Records))
	for i, r := range ci.Records {
		fields := make([]any, len(r.Fields))
		for j, f := range r.Fields {
			fields[j] = map[string]any{"name": f.Name, "type": typeString(f.Type)}
		}
		records[i] = map[string]any{"name": r.Name, "fields": fields}
	}

	functions := make([]any, len(ci.Functions))
	for i, fn := range ci.Functions {
		functions[i] = callableObject(fn.Name, fn.Arguments, fn.ReturnType, fn.FFIFunc)
	}

	objects := make([]any, len(ci.Objects))
	for i, obj := range ci.Objects {
		ctors := make([]any, len(obj.Constructors))
		for j, c := range obj.Constructors {
			ctors[j] = callableObject(c.Name, c.Arguments, nil, c.FFIFunc)
		}
		methods := make([]any, len(obj.Methods))
		for j, m := range obj.Methods {
			methods[j] = callableObject(m.Name, m.Arguments, m.ReturnType, m.FFIFunc)
		}
		objects[i] = map[string]any{
			"name":         obj.Name,
			"constructors": ctors,
			"methods":      methods,
		}
	}

	return map[string]any{
		"namespace": ci.Namespace,
		"enums":     enums,
		"records":   records,
		"functions": functions,
		"objects":   objects,
	}
}

func callableObject(name string, args []Argument, ret Type, ffi FFIFunction) map[string]any {
	obj := map[string]any{
		"name":      name,
		"arguments": argsList(args),
		"ffi": map[string]any{
			"name":      ffi.Name,
			"arguments": argsList(ffi.Arguments),
		},
	}
	if ret != nil {
		obj["returns"] = ret.String()
	}
	if ffi.ReturnType != nil {
		obj["ffi"].(map[string]any)["returns"] = ffi.ReturnType.String()
	}
	return obj
}

func argsList(args []Argument) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = map[string]any{"name": a.Name, "type": typeString(a.Type)}
	}
	return out
}
