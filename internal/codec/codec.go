package codec

import (
	"fmt"

	"github.com/roach88/bindgen/internal/ir"
)

// Operation names reported in ir.UnsupportedTypeError.Op.
const (
	OpSize   = "size"
	OpEncode = "encode"
	OpDecode = "decode"
)

// Codec encodes and decodes values of the types declared by one interface.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	ci *ir.ComponentInterface
}

// New returns a codec that resolves enum and record names against ci.
func New(ci *ir.ComponentInterface) *Codec {
	return &Codec{ci: ci}
}

// Wire is a value in the form it crosses the native boundary: either a
// machine scalar or a buffer.
type Wire struct {
	Scalar Value   // U32, U64, Float, Double, Bool or Handle
	Buf    *Buffer // for bytes, records and optionals
}

// SizeOf returns the exact number of bytes v occupies inside a buffer.
func (c *Codec) SizeOf(t ir.Type, v Value) (int, error) {
	if size, ok := ir.WireSize(t); ok {
		if err := checkKind(t, v); err != nil {
			return 0, err
		}
		return size, nil
	}
	switch tt := t.(type) {
	case ir.Record:
		def, rec, err := c.record(tt, v)
		if err != nil {
			return 0, err
		}
		total := 0
		for _, f := range def.Fields {
			n, err := c.SizeOf(f.Type, rec.Fields[f.Name])
			if err != nil {
				return 0, fmt.Errorf("%s.%s: %w", def.Name, f.Name, err)
			}
			total += n
		}
		return total, nil
	case ir.Optional:
		opt, ok := v.(Optional)
		if !ok {
			return 0, mismatch(t, v)
		}
		if opt.Value == nil {
			if err := c.encodable(tt.Inner, OpSize); err != nil {
				return 0, err
			}
			return ir.TagSize, nil
		}
		n, err := c.SizeOf(tt.Inner, opt.Value)
		if err != nil {
			return 0, err
		}
		return ir.TagSize + n, nil
	default:
		return 0, ir.NewUnsupportedType(OpSize, t)
	}
}

// WriteTo writes v at the cursor's offset.
func (c *Codec) WriteTo(cur *Cursor, t ir.Type, v Value) error {
	if err := checkKind(t, v); err != nil {
		return err
	}
	switch tt := t.(type) {
	case ir.U32:
		return cur.PutU32(uint32(v.(U32)))
	case ir.U64:
		return cur.PutU64(uint64(v.(U64)))
	case ir.Float:
		return cur.PutFloat(float32(v.(Float)))
	case ir.Double:
		return cur.PutDouble(float64(v.(Double)))
	case ir.Boolean:
		return cur.PutBool(bool(v.(Bool)))
	case ir.Enum:
		ord, err := c.ordinal(tt, v.(Variant))
		if err != nil {
			return err
		}
		return cur.PutU32(ord)
	case ir.Record:
		def, rec, err := c.record(tt, v)
		if err != nil {
			return err
		}
		for _, f := range def.Fields {
			if err := c.WriteTo(cur, f.Type, rec.Fields[f.Name]); err != nil {
				return fmt.Errorf("%s.%s: %w", def.Name, f.Name, err)
			}
		}
		return nil
	case ir.Optional:
		opt := v.(Optional)
		if opt.Value == nil {
			return cur.PutU8(0)
		}
		if err := cur.PutU8(1); err != nil {
			return err
		}
		return c.WriteTo(cur, tt.Inner, opt.Value)
	default:
		return ir.NewUnsupportedType(OpEncode, t)
	}
}

// ReadFrom reads a value of type t at the cursor's offset.
func (c *Codec) ReadFrom(cur *Cursor, t ir.Type) (Value, error) {
	switch tt := t.(type) {
	case ir.U32:
		v, err := cur.GetU32()
		return U32(v), err
	case ir.U64:
		v, err := cur.GetU64()
		return U64(v), err
	case ir.Float:
		v, err := cur.GetFloat()
		return Float(v), err
	case ir.Double:
		v, err := cur.GetDouble()
		return Double(v), err
	case ir.Boolean:
		v, err := cur.GetBool()
		return Bool(v), err
	case ir.Enum:
		ord, err := cur.GetU32()
		if err != nil {
			return nil, err
		}
		return c.variant(tt, ord)
	case ir.Record:
		def, ok := c.ci.Record(tt.Name)
		if !ok {
			return nil, fmt.Errorf("%w: record %s", ErrUndefined, tt.Name)
		}
		rec := Record{Name: def.Name, Fields: make(map[string]Value, len(def.Fields))}
		for _, f := range def.Fields {
			fv, err := c.ReadFrom(cur, f.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", def.Name, f.Name, err)
			}
			rec.Fields[f.Name] = fv
		}
		return rec, nil
	case ir.Optional:
		if err := c.encodable(tt.Inner, OpDecode); err != nil {
			return nil, err
		}
		tag, err := cur.GetU8()
		if err != nil {
			return nil, err
		}
		if tag == 0 {
			return None, nil
		}
		inner, err := c.ReadFrom(cur, tt.Inner)
		if err != nil {
			return nil, err
		}
		return Some(inner), nil
	default:
		return nil, ir.NewUnsupportedType(OpDecode, t)
	}
}

// Lower converts v to its boundary form. Buffer-carried values are written
// into a single allocation sized by SizeOf.
func (c *Codec) Lower(t ir.Type, v Value) (Wire, error) {
	switch tt := t.(type) {
	case ir.U32, ir.U64, ir.Float, ir.Double, ir.Boolean:
		if err := checkKind(t, v); err != nil {
			return Wire{}, err
		}
		return Wire{Scalar: v}, nil
	case ir.Enum:
		if err := checkKind(t, v); err != nil {
			return Wire{}, err
		}
		ord, err := c.ordinal(tt, v.(Variant))
		if err != nil {
			return Wire{}, err
		}
		return Wire{Scalar: U32(ord)}, nil
	case ir.Object:
		h, ok := v.(Handle)
		if !ok {
			return Wire{}, mismatch(t, v)
		}
		return Wire{Scalar: h}, nil
	case ir.Bytes:
		b, ok := v.(Bytes)
		if !ok {
			return Wire{}, mismatch(t, v)
		}
		return Wire{Buf: BufferFrom(append([]byte(nil), b...))}, nil
	case ir.Record, ir.Optional:
		size, err := c.SizeOf(t, v)
		if err != nil {
			return Wire{}, err
		}
		buf, err := NewBuffer(size)
		if err != nil {
			return Wire{}, err
		}
		cur := NewCursor(buf)
		if err := c.WriteTo(cur, t, v); err != nil {
			return Wire{}, err
		}
		if err := cur.Finish(); err != nil {
			return Wire{}, fmt.Errorf("size pass predicted %d bytes: %w", size, err)
		}
		return Wire{Buf: buf}, nil
	default:
		return Wire{}, ir.NewUnsupportedType(OpEncode, t)
	}
}

// Lift converts a boundary value back to a Value. A buffer must be consumed
// exactly.
func (c *Codec) Lift(t ir.Type, w Wire) (Value, error) {
	switch tt := t.(type) {
	case ir.U32, ir.U64, ir.Float, ir.Double, ir.Boolean:
		if err := checkKind(t, w.Scalar); err != nil {
			return nil, err
		}
		return w.Scalar, nil
	case ir.Enum:
		ord, ok := w.Scalar.(U32)
		if !ok {
			return nil, mismatch(ir.U32{}, w.Scalar)
		}
		return c.variant(tt, uint32(ord))
	case ir.Object:
		switch h := w.Scalar.(type) {
		case Handle:
			return h, nil
		case U64:
			return Handle(h), nil
		}
		return nil, mismatch(t, w.Scalar)
	case ir.Bytes:
		if w.Buf == nil {
			return nil, fmt.Errorf("%w: bytes without buffer", ErrTypeMismatch)
		}
		return Bytes(append([]byte(nil), w.Buf.Bytes()...)), nil
	case ir.Record, ir.Optional:
		if w.Buf == nil {
			return nil, fmt.Errorf("%w: %s without buffer", ErrTypeMismatch, t)
		}
		cur := NewCursor(w.Buf)
		v, err := c.ReadFrom(cur, t)
		if err != nil {
			return nil, err
		}
		if err := cur.Finish(); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, ir.NewUnsupportedType(OpDecode, t)
	}
}

// Encode lowers v into a standalone buffer, the way a record field or
// optional payload would be laid out. Fixed-size kinds are accepted too.
func (c *Codec) Encode(t ir.Type, v Value) ([]byte, error) {
	size, err := c.SizeOf(t, v)
	if err != nil {
		return nil, err
	}
	buf, err := NewBuffer(size)
	if err != nil {
		return nil, err
	}
	cur := NewCursor(buf)
	if err := c.WriteTo(cur, t, v); err != nil {
		return nil, err
	}
	if err := cur.Finish(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a value of type t that must fill data exactly.
func (c *Codec) Decode(t ir.Type, data []byte) (Value, error) {
	cur := NewCursor(BufferFrom(data))
	v, err := c.ReadFrom(cur, t)
	if err != nil {
		return nil, err
	}
	if err := cur.Finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// encodable reports whether t has an in-buffer encoding, without a value.
func (c *Codec) encodable(t ir.Type, op string) error {
	switch tt := t.(type) {
	case ir.U32, ir.U64, ir.Float, ir.Double, ir.Boolean:
		return nil
	case ir.Enum:
		if _, ok := c.ci.Enum(tt.Name); !ok {
			return fmt.Errorf("%w: enum %s", ErrUndefined, tt.Name)
		}
		return nil
	case ir.Record:
		if _, ok := c.ci.Record(tt.Name); !ok {
			return fmt.Errorf("%w: record %s", ErrUndefined, tt.Name)
		}
		return nil
	case ir.Optional:
		return c.encodable(tt.Inner, op)
	default:
		return ir.NewUnsupportedType(op, t)
	}
}

func (c *Codec) record(t ir.Record, v Value) (*ir.RecordDefinition, Record, error) {
	def, ok := c.ci.Record(t.Name)
	if !ok {
		return nil, Record{}, fmt.Errorf("%w: record %s", ErrUndefined, t.Name)
	}
	rec, ok := v.(Record)
	if !ok || rec.Name != def.Name {
		return nil, Record{}, mismatch(t, v)
	}
	for _, f := range def.Fields {
		if _, ok := rec.Fields[f.Name]; !ok {
			return nil, Record{}, fmt.Errorf("%w: %s missing field %s", ErrTypeMismatch, def.Name, f.Name)
		}
	}
	if len(rec.Fields) != len(def.Fields) {
		return nil, Record{}, fmt.Errorf("%w: %s has unknown fields", ErrTypeMismatch, def.Name)
	}
	return def, rec, nil
}

func (c *Codec) ordinal(t ir.Enum, v Variant) (uint32, error) {
	def, ok := c.ci.Enum(t.Name)
	if !ok {
		return 0, fmt.Errorf("%w: enum %s", ErrUndefined, t.Name)
	}
	if v.Enum != def.Name {
		return 0, mismatch(t, v)
	}
	ord, ok := def.Ordinal(v.Name)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no variant %q", ErrTypeMismatch, def.Name, v.Name)
	}
	return ord, nil
}

func (c *Codec) variant(t ir.Enum, ord uint32) (Value, error) {
	def, ok := c.ci.Enum(t.Name)
	if !ok {
		return nil, fmt.Errorf("%w: enum %s", ErrUndefined, t.Name)
	}
	name, ok := def.Variant(ord)
	if !ok {
		return nil, fmt.Errorf("%w: %d for %s", ErrInvalidOrdinal, ord, def.Name)
	}
	return Variant{Enum: def.Name, Name: name}, nil
}

// checkKind verifies that v is the Go representation of a fixed-size kind.
func checkKind(t ir.Type, v Value) error {
	var ok bool
	switch t.(type) {
	case ir.U32:
		_, ok = v.(U32)
	case ir.U64:
		_, ok = v.(U64)
	case ir.Float:
		_, ok = v.(Float)
	case ir.Double:
		_, ok = v.(Double)
	case ir.Boolean:
		_, ok = v.(Bool)
	case ir.Enum:
		_, ok = v.(Variant)
	case ir.Record:
		_, ok = v.(Record)
	case ir.Optional:
		_, ok = v.(Optional)
	default:
		return ir.NewUnsupportedType(OpEncode, t)
	}
	if !ok {
		return mismatch(t, v)
	}
	return nil
}

func mismatch(t ir.Type, v Value) error {
	if v == nil {
		return fmt.Errorf("%w: expected %s, got nothing", ErrTypeMismatch, t)
	}
	return fmt.Errorf("%w: expected %s, got %s %s", ErrTypeMismatch, t, v.Kind(), v)
}
