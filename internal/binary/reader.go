// Package binary provides low-level sequential binary I/O for Shot files.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	// ErrUnexpectedEndOfStream is returned when fewer bytes remain than a read requires.
	ErrUnexpectedEndOfStream = errors.New("unexpected end of stream")

	// ErrUnsupportedType is returned for a type name outside the recognized set.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrValueType is returned when a written value does not match the named type.
	ErrValueType = errors.New("value does not match type")
)

// Config holds stream configuration.
type Config struct {
	ByteOrder binary.ByteOrder
}

// DefaultConfig returns the little-endian configuration used by Shot files.
func DefaultConfig() Config {
	return Config{ByteOrder: binary.LittleEndian}
}

// Reader reads fixed-width scalars from a sequential byte source.
type Reader struct {
	r     io.Reader
	order binary.ByteOrder
	pos   int64
}

// NewReader creates a binary reader with the given configuration.
func NewReader(r io.Reader, cfg Config) *Reader {
	if cfg.ByteOrder == nil {
		cfg.ByteOrder = binary.LittleEndian
	}
	return &Reader{
		r:     r,
		order: cfg.ByteOrder,
	}
}

// Open opens the named file for sequential reading.
// The caller must Close the returned reader.
func Open(path string, cfg Config) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewReader(f, cfg), nil
}

// Close closes the underlying source if it is an io.Closer.
func (r *Reader) Close() error {
	if c, ok := r.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	if n <= smallRead {
		buf := make([]byte, n)
		got, err := io.ReadFull(r.r, buf)
		return r.checkRead(buf, got, n, err)
	}
	// Length prefixes come from the file; grow with the data instead of
	// trusting them with one allocation.
	buf, err := io.ReadAll(io.LimitReader(r.r, int64(n)))
	return r.checkRead(buf, len(buf), n, err)
}

const smallRead = 1 << 16

func (r *Reader) checkRead(buf []byte, got, n int, err error) ([]byte, error) {
	r.pos += int64(got)
	if got != n {
		if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
				ErrUnexpectedEndOfStream, n, r.pos-int64(got), got)
		}
		return nil, err
	}
	return buf, nil
}

// ReadRemaining reads every byte left in the stream.
func (r *Reader) ReadRemaining() ([]byte, error) {
	buf, err := io.ReadAll(r.r)
	r.pos += int64(len(buf))
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Read reads one scalar of the named type. Integer and float types are
// returned as their Go counterparts; "char" is returned as a byte.
func (r *Reader) Read(typeName string) (any, error) {
	t, err := LookupType(typeName)
	if err != nil {
		return nil, err
	}
	buf, err := r.ReadBytes(t.Size)
	if err != nil {
		return nil, err
	}
	return r.decode(t, buf), nil
}

func (r *Reader) decode(t Type, buf []byte) any {
	switch t.Name {
	case TypeInt8:
		return int8(buf[0])
	case TypeUint8:
		return buf[0]
	case TypeInt16:
		return int16(r.order.Uint16(buf))
	case TypeUint16:
		return r.order.Uint16(buf)
	case TypeInt32:
		return int32(r.order.Uint32(buf))
	case TypeUint32:
		return r.order.Uint32(buf)
	case TypeInt64:
		return int64(r.order.Uint64(buf))
	case TypeUint64:
		return r.order.Uint64(buf)
	case TypeFloat32:
		return math.Float32frombits(r.order.Uint32(buf))
	case TypeFloat64:
		return math.Float64frombits(r.order.Uint64(buf))
	default: // TypeChar
		return buf[0]
	}
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadInt8 reads a signed 8-bit integer.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(buf), nil
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(buf), nil
}

// ReadInt64 reads a signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE-754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE-754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}

// Int16s decodes buf as consecutive 16-bit samples. len(buf) must be even.
func Int16s(order binary.ByteOrder, buf []byte) []int16 {
	out := make([]int16, len(buf)/2)
	for i := range out {
		out[i] = int16(order.Uint16(buf[2*i:]))
	}
	return out
}
