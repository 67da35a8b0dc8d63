package codec

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/bindgen/internal/ir"
)

// ValueOf converts loosely typed data, as produced by a YAML or JSON
// decoder, into a Value of type t.
//
// Accepted shapes:
//
//	integers      any Go integer type, or a float with no fractional part
//	floats        any Go integer or float type
//	boolean       bool
//	enum          variant name as a string
//	record        map[string]any with exactly the declared fields
//	optional      nil for absent, otherwise the inner shape
//	object        integer handle
//	bytes         hex string or []byte
func ValueOf(ci *ir.ComponentInterface, t ir.Type, raw any) (Value, error) {
	switch tt := t.(type) {
	case ir.U32:
		n, err := toUint(raw, math.MaxUint32)
		if err != nil {
			return nil, fmt.Errorf("u32: %w", err)
		}
		return U32(n), nil
	case ir.U64:
		n, err := toUint(raw, math.MaxUint64)
		if err != nil {
			return nil, fmt.Errorf("u64: %w", err)
		}
		return U64(n), nil
	case ir.Object:
		n, err := toUint(raw, math.MaxUint64)
		if err != nil {
			return nil, fmt.Errorf("%s handle: %w", tt.Name, err)
		}
		return Handle(n), nil
	case ir.Float:
		f, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("float: %w", err)
		}
		if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("float: %w: %v out of range", ErrTypeMismatch, f)
		}
		return Float(f), nil
	case ir.Double:
		f, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("double: %w", err)
		}
		return Double(f), nil
	case ir.Boolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: boolean from %T", ErrTypeMismatch, raw)
		}
		return Bool(b), nil
	case ir.Bytes:
		switch b := raw.(type) {
		case []byte:
			return Bytes(append([]byte(nil), b...)), nil
		case string:
			data, err := hex.DecodeString(b)
			if err != nil {
				return nil, fmt.Errorf("bytes: %w", err)
			}
			return Bytes(data), nil
		}
		return nil, fmt.Errorf("%w: bytes from %T", ErrTypeMismatch, raw)
	case ir.Enum:
		def, ok := ci.Enum(tt.Name)
		if !ok {
			return nil, fmt.Errorf("%w: enum %s", ErrUndefined, tt.Name)
		}
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s variant from %T", ErrTypeMismatch, def.Name, raw)
		}
		if _, ok := def.Ordinal(name); !ok {
			return nil, fmt.Errorf("%w: %s has no variant %q", ErrTypeMismatch, def.Name, name)
		}
		return Variant{Enum: def.Name, Name: name}, nil
	case ir.Record:
		def, ok := ci.Record(tt.Name)
		if !ok {
			return nil, fmt.Errorf("%w: record %s", ErrUndefined, tt.Name)
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s from %T", ErrTypeMismatch, def.Name, raw)
		}
		if len(m) != len(def.Fields) {
			return nil, fmt.Errorf("%w: %s expects %d fields, got %d", ErrTypeMismatch, def.Name, len(def.Fields), len(m))
		}
		rec := Record{Name: def.Name, Fields: make(map[string]Value, len(def.Fields))}
		for _, f := range def.Fields {
			fraw, ok := m[f.Name]
			if !ok {
				return nil, fmt.Errorf("%w: %s missing field %s", ErrTypeMismatch, def.Name, f.Name)
			}
			fv, err := ValueOf(ci, f.Type, fraw)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", def.Name, f.Name, err)
			}
			rec.Fields[f.Name] = fv
		}
		return rec, nil
	case ir.Optional:
		// nil cannot tell None from Some(None).
		if _, nested := tt.Inner.(ir.Optional); nested {
			return nil, ir.NewUnsupportedType("value", t)
		}
		if raw == nil {
			return None, nil
		}
		inner, err := ValueOf(ci, tt.Inner, raw)
		if err != nil {
			return nil, err
		}
		return Some(inner), nil
	default:
		return nil, ir.NewUnsupportedType("value", t)
	}
}

// Native converts v back to plain data suitable for YAML or JSON encoding.
// Optionals flatten to their payload or nil, so a nested Some(None) reads
// back as nil; its String form stays exact.
func Native(v Value) any {
	switch x := v.(type) {
	case nil:
		return nil
	case U32:
		return uint64(x)
	case U64:
		return uint64(x)
	case Handle:
		return uint64(x)
	case Float:
		f, _ := strconv.ParseFloat(x.String(), 64)
		return f
	case Double:
		return float64(x)
	case Bool:
		return bool(x)
	case Bytes:
		return hex.EncodeToString(x)
	case Variant:
		return x.Name
	case Record:
		m := make(map[string]any, len(x.Fields))
		for k, fv := range x.Fields {
			m[k] = Native(fv)
		}
		return m
	case Optional:
		return Native(x.Value)
	default:
		return nil
	}
}

func toUint(raw any, limit uint64) (uint64, error) {
	var n uint64
	switch v := raw.(type) {
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrTypeMismatch, v)
		}
		n = uint64(v)
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrTypeMismatch, v)
		}
		n = uint64(v)
	case int32:
		if v < 0 {
			return 0, fmt.Errorf("%w: negative value %d", ErrTypeMismatch, v)
		}
		n = uint64(v)
	case uint:
		n = uint64(v)
	case uint32:
		n = uint64(v)
	case uint64:
		n = v
	case float64:
		// float64(math.MaxUint64) rounds up to 2^64.
		if v < 0 || v != math.Trunc(v) || v >= 0x1p64 || v > float64(limit) {
			return 0, fmt.Errorf("%w: %v is not an unsigned integer", ErrTypeMismatch, v)
		}
		n = uint64(v)
	default:
		return 0, fmt.Errorf("%w: integer from %T", ErrTypeMismatch, raw)
	}
	if n > limit {
		return 0, fmt.Errorf("%w: %d out of range", ErrTypeMismatch, n)
	}
	return n, nil
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: float from %T", ErrTypeMismatch, raw)
	}
}
