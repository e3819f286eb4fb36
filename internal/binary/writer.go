package binary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Writer writes fixed-width scalars to a sequential byte sink.
type Writer struct {
	w      io.Writer
	buf    *bufio.Writer
	closer io.Closer
	order  binary.ByteOrder
	pos    int64
}

// NewWriter creates a binary writer with the given configuration.
func NewWriter(w io.Writer, cfg Config) *Writer {
	if cfg.ByteOrder == nil {
		cfg.ByteOrder = binary.LittleEndian
	}
	return &Writer{
		w:     w,
		order: cfg.ByteOrder,
	}
}

// Create creates (or truncates) the named file and returns a buffered
// writer over it. The caller must Close the returned writer.
func Create(path string, cfg Config) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	w := NewWriter(bw, cfg)
	w.buf = bw
	w.closer = f
	return w, nil
}

// Pos returns the number of bytes written so far.
func (w *Writer) Pos() int64 {
	return w.pos
}

// Flush flushes buffered data to the underlying file, if any.
func (w *Writer) Flush() error {
	if w.buf == nil {
		return nil
	}
	return w.buf.Flush()
}

// Sync flushes and commits the underlying file to stable storage.
func (w *Writer) Sync() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if s, ok := w.closer.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

// Close flushes and closes the underlying file. The file is closed
// even when the flush fails.
func (w *Writer) Close() error {
	err := w.Flush()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
		w.closer = nil
	}
	return err
}

// WriteBytes writes data at the current position.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	n, err := w.w.Write(data)
	w.pos += int64(n)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}

// Write writes value encoded as the named type. The Go type of value must
// match: int8 for "int8", float64 for "float64", byte for "char", and so on.
func (w *Writer) Write(typeName string, value any) error {
	t, err := LookupType(typeName)
	if err != nil {
		return err
	}
	buf := make([]byte, t.Size)
	ok := true
	switch t.Name {
	case TypeInt8:
		var v int8
		if v, ok = value.(int8); ok {
			buf[0] = byte(v)
		}
	case TypeUint8, TypeChar:
		var v uint8
		if v, ok = value.(uint8); ok {
			buf[0] = v
		}
	case TypeInt16:
		var v int16
		if v, ok = value.(int16); ok {
			w.order.PutUint16(buf, uint16(v))
		}
	case TypeUint16:
		var v uint16
		if v, ok = value.(uint16); ok {
			w.order.PutUint16(buf, v)
		}
	case TypeInt32:
		var v int32
		if v, ok = value.(int32); ok {
			w.order.PutUint32(buf, uint32(v))
		}
	case TypeUint32:
		var v uint32
		if v, ok = value.(uint32); ok {
			w.order.PutUint32(buf, v)
		}
	case TypeInt64:
		var v int64
		if v, ok = value.(int64); ok {
			w.order.PutUint64(buf, uint64(v))
		}
	case TypeUint64:
		var v uint64
		if v, ok = value.(uint64); ok {
			w.order.PutUint64(buf, v)
		}
	case TypeFloat32:
		var v float32
		if v, ok = value.(float32); ok {
			w.order.PutUint32(buf, math.Float32bits(v))
		}
	case TypeFloat64:
		var v float64
		if v, ok = value.(float64); ok {
			w.order.PutUint64(buf, math.Float64bits(v))
		}
	}
	if !ok {
		return fmt.Errorf("%w: %T for %s", ErrValueType, value, t.Name)
	}
	return w.WriteBytes(buf)
}

// WriteUint8 writes an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) error {
	return w.WriteBytes([]byte{v})
}

// WriteInt8 writes a signed 8-bit integer.
func (w *Writer) WriteInt8(v int8) error {
	return w.WriteUint8(uint8(v))
}

// WriteUint16 writes an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) error {
	buf := make([]byte, 2)
	w.order.PutUint16(buf, v)
	return w.WriteBytes(buf)
}

// WriteInt16 writes a signed 16-bit integer.
func (w *Writer) WriteInt16(v int16) error {
	return w.WriteUint16(uint16(v))
}

// WriteUint32 writes an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	buf := make([]byte, 4)
	w.order.PutUint32(buf, v)
	return w.WriteBytes(buf)
}

// WriteInt32 writes a signed 32-bit integer.
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

// WriteUint64 writes an unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) error {
	buf := make([]byte, 8)
	w.order.PutUint64(buf, v)
	return w.WriteBytes(buf)
}

// WriteInt64 writes a signed 64-bit integer.
func (w *Writer) WriteInt64(v int64) error {
	return w.WriteUint64(uint64(v))
}

// WriteFloat32 writes an IEEE-754 single.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes an IEEE-754 double.
func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteUint64(math.Float64bits(v))
}

// WriteInt16s writes samples back to back.
func (w *Writer) WriteInt16s(samples []int16) error {
	return w.WriteBytes(PutInt16s(w.order, samples))
}

// ByteOrder returns the configured byte order.
func (w *Writer) ByteOrder() binary.ByteOrder {
	return w.order
}

// PutInt16s encodes samples into a new buffer.
func PutInt16s(order binary.ByteOrder, samples []int16) []byte {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		order.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}
