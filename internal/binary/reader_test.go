package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestReaderReadUint8(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x42, 0xFF}), DefaultConfig())

	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x42 {
		t.Errorf("expected 0x42, got 0x%02x", v)
	}

	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0xFF {
		t.Errorf("expected 0xFF, got 0x%02x", v)
	}
}

func TestReaderReadUint16(t *testing.T) {
	// Little-endian: 0x0102 stored as [0x02, 0x01]
	r := NewReader(bytes.NewReader([]byte{0x02, 0x01, 0xFF, 0xFF}), DefaultConfig())

	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v)
	}

	s, err := r.ReadInt16()
	if err != nil {
		t.Fatalf("ReadInt16 failed: %v", err)
	}
	if s != -1 {
		t.Errorf("expected -1, got %d", s)
	}
}

func TestReaderReadInt32(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(-123456))
	binary.Write(&buf, binary.LittleEndian, uint32(0xDEADBEEF))

	r := NewReader(&buf, DefaultConfig())

	v, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if v != -123456 {
		t.Errorf("expected -123456, got %d", v)
	}

	u, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if u != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got 0x%08x", u)
	}
	if r.Pos() != 8 {
		t.Errorf("expected position 8, got %d", r.Pos())
	}
}

func TestReaderReadFloats(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, float32(1.5))
	binary.Write(&buf, binary.LittleEndian, math.Pi)

	r := NewReader(&buf, DefaultConfig())

	f, err := r.ReadFloat32()
	if err != nil {
		t.Fatalf("ReadFloat32 failed: %v", err)
	}
	if f != 1.5 {
		t.Errorf("expected 1.5, got %v", f)
	}

	d, err := r.ReadFloat64()
	if err != nil {
		t.Fatalf("ReadFloat64 failed: %v", err)
	}
	if d != math.Pi {
		t.Errorf("expected pi, got %v", d)
	}
}

func TestReaderReadByName(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int8(-2))
	binary.Write(&buf, binary.LittleEndian, uint16(513))
	binary.Write(&buf, binary.LittleEndian, int64(-9))
	binary.Write(&buf, binary.LittleEndian, uint64(1<<40))
	binary.Write(&buf, binary.LittleEndian, float64(2.25))
	buf.WriteByte('Z')

	r := NewReader(&buf, DefaultConfig())

	tests := []struct {
		typeName string
		expected any
	}{
		{"int8", int8(-2)},
		{"UINT16", uint16(513)},
		{"int64", int64(-9)},
		{"uint64", uint64(1 << 40)},
		{"float64", float64(2.25)},
		{"char", byte('Z')},
	}

	for _, tt := range tests {
		v, err := r.Read(tt.typeName)
		if err != nil {
			t.Fatalf("Read(%q) failed: %v", tt.typeName, err)
		}
		if v != tt.expected {
			t.Errorf("Read(%q): expected %v (%T), got %v (%T)", tt.typeName, tt.expected, tt.expected, v, v)
		}
	}
}

func TestReaderReadUnsupportedType(t *testing.T) {
	r := NewReader(bytes.NewReader(make([]byte, 16)), DefaultConfig())

	for _, name := range []string{"int128", "double", "", "string"} {
		_, err := r.Read(name)
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Read(%q): expected ErrUnsupportedType, got %v", name, err)
		}
	}
	if r.Pos() != 0 {
		t.Errorf("unsupported reads must not consume input, position %d", r.Pos())
	}
}

func TestReaderShortRead(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		typeName string
	}{
		{"empty int8", nil, "int8"},
		{"one byte int16", []byte{0x01}, "int16"},
		{"three bytes int32", []byte{0x01, 0x02, 0x03}, "int32"},
		{"seven bytes float64", make([]byte, 7), "float64"},
		{"empty char", nil, "char"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(tt.data), DefaultConfig())
			v, err := r.Read(tt.typeName)
			if !errors.Is(err, ErrUnexpectedEndOfStream) {
				t.Fatalf("expected ErrUnexpectedEndOfStream, got %v", err)
			}
			if v != nil {
				t.Errorf("expected no value on short read, got %v", v)
			}
		})
	}
}

func TestReaderReadBytes(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("header-bytes-rest")), DefaultConfig())

	b, err := r.ReadBytes(12)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if string(b) != "header-bytes" {
		t.Errorf("expected %q, got %q", "header-bytes", b)
	}

	if _, err := r.ReadBytes(10); !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("expected ErrUnexpectedEndOfStream, got %v", err)
	}

	b, err = r.ReadBytes(0)
	if err != nil || len(b) != 0 {
		t.Errorf("ReadBytes(0) = %v, %v", b, err)
	}

	if _, err := r.ReadBytes(-1); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestReaderReadRemaining(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 0, 2, 0, 3, 0}), DefaultConfig())
	if _, err := r.ReadUint16(); err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}

	rest, err := r.ReadRemaining()
	if err != nil {
		t.Fatalf("ReadRemaining failed: %v", err)
	}
	samples := Int16s(r.ByteOrder(), rest)
	if len(samples) != 2 || samples[0] != 2 || samples[1] != 3 {
		t.Errorf("unexpected samples %v", samples)
	}
	if r.Pos() != 6 {
		t.Errorf("expected position 6, got %d", r.Pos())
	}
}

func TestOpenClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.bin")
	if err := os.WriteFile(path, []byte{0x2A, 0x00, 0x00, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path, DefaultConfig())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	v, err := r.ReadInt32()
	if err != nil {
		t.Fatalf("ReadInt32 failed: %v", err)
	}
	if v != 42 {
		t.Errorf("expected 42, got %d", v)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.bin"), DefaultConfig()); err == nil {
		t.Error("expected error opening missing file")
	}
}

func TestReaderBigEndian(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x12, 0x34}), Config{ByteOrder: binary.BigEndian})
	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x1234 {
		t.Errorf("expected 0x1234, got 0x%04x", v)
	}
}

func TestReadBytesLargeShort(t *testing.T) {
	r := NewReader(bytes.NewReader(make([]byte, 100)), DefaultConfig())

	_, err := r.ReadBytes(1 << 30)
	if !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("expected ErrUnexpectedEndOfStream, got %v", err)
	}
	if r.Pos() != 100 {
		t.Errorf("expected position 100, got %d", r.Pos())
	}
}

func TestReadBytesLarge(t *testing.T) {
	data := make([]byte, smallRead+10)
	data[len(data)-1] = 0xAB
	r := NewReader(bytes.NewReader(data), DefaultConfig())

	got, err := r.ReadBytes(len(data))
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if len(got) != len(data) || got[len(got)-1] != 0xAB {
		t.Errorf("unexpected result of %d bytes", len(got))
	}
}
