package codec

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
)

// Runtime sentinels. Use errors.Is to classify codec failures.
var (
	ErrOutOfBounds    = errors.New("access past end of buffer")
	ErrTrailingBytes  = errors.New("trailing bytes after value")
	ErrTypeMismatch   = errors.New("value does not match type")
	ErrInvalidOrdinal = errors.New("invalid enum ordinal")
	ErrUndefined      = errors.New("undefined type name")
)

// OutOfBoundsError reports an access that would cross the end of a buffer.
type OutOfBoundsError struct {
	Op     string // "read" or "write"
	Offset int
	Need   int
	Len    int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%s past end of buffer: need %d bytes at offset %d, buffer length %d",
		e.Op, e.Need, e.Offset, e.Len)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// Buffer is a fixed-length byte region. It is never resized.
type Buffer struct {
	data []byte
}

// NewBuffer allocates a zeroed buffer of n bytes.
func NewBuffer(n int) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative buffer size %d", n)
	}
	return &Buffer{data: make([]byte, n)}, nil
}

// BufferFrom wraps b without copying.
func BufferFrom(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Len is the buffer length as carried in the native struct's len field.
func (b *Buffer) Len() int64 {
	return int64(len(b.data))
}

// Bytes returns the underlying bytes.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Hex returns the contents as lowercase hex.
func (b *Buffer) Hex() string {
	return hex.EncodeToString(b.data)
}

// Cursor reads or writes a Buffer at a monotonically advancing offset.
// A Cursor is not safe for concurrent use.
type Cursor struct {
	buf *Buffer
	off int
	err error
}

// NewCursor returns a cursor positioned at the start of b.
func NewCursor(b *Buffer) *Cursor {
	return &Cursor{buf: b}
}

// Offset is the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.off }

// Remaining is the number of bytes left after the offset.
func (c *Cursor) Remaining() int { return len(c.buf.data) - c.off }

// Err returns the error that poisoned the cursor, if any.
func (c *Cursor) Err() error { return c.err }

// Finish checks that the cursor ended exactly at the end of the buffer.
func (c *Cursor) Finish() error {
	if c.err != nil {
		return c.err
	}
	if rem := c.Remaining(); rem > 0 {
		return fmt.Errorf("%w: %d of %d bytes unread", ErrTrailingBytes, rem, len(c.buf.data))
	}
	return nil
}

func (c *Cursor) take(n int, op string) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if n > c.Remaining() {
		c.err = &OutOfBoundsError{Op: op, Offset: c.off, Need: n, Len: len(c.buf.data)}
		return nil, c.err
	}
	b := c.buf.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *Cursor) GetU8() (uint8, error) {
	b, err := c.take(1, "read")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) PutU8(v uint8) error {
	b, err := c.take(1, "write")
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

// GetBool reads one byte; any non-zero value is true.
func (c *Cursor) GetBool() (bool, error) {
	v, err := c.GetU8()
	return v != 0, err
}

func (c *Cursor) PutBool(v bool) error {
	if v {
		return c.PutU8(1)
	}
	return c.PutU8(0)
}

func (c *Cursor) GetU32() (uint32, error) {
	b, err := c.take(4, "read")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *Cursor) PutU32(v uint32) error {
	b, err := c.take(4, "write")
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b, v)
	return nil
}

func (c *Cursor) GetU64() (uint64, error) {
	b, err := c.take(8, "read")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (c *Cursor) PutU64(v uint64) error {
	b, err := c.take(8, "write")
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint64(b, v)
	return nil
}

func (c *Cursor) GetFloat() (float32, error) {
	v, err := c.GetU32()
	return math.Float32frombits(v), err
}

func (c *Cursor) PutFloat(v float32) error {
	return c.PutU32(math.Float32bits(v))
}

func (c *Cursor) GetDouble() (float64, error) {
	v, err := c.GetU64()
	return math.Float64frombits(v), err
}

func (c *Cursor) PutDouble(v float64) error {
	return c.PutU64(math.Float64bits(v))
}
