package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteUint16(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultConfig())

	if err := w.WriteUint16(0x1234); err != nil {
		t.Fatalf("WriteUint16 failed: %v", err)
	}

	expected := []byte{0x34, 0x12}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %v, got %v", expected, buf.Bytes())
	}
}

func TestWriteInt32(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultConfig())

	if err := w.WriteInt32(-2); err != nil {
		t.Fatalf("WriteInt32 failed: %v", err)
	}

	expected := []byte{0xFE, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %v, got %v", expected, buf.Bytes())
	}
	if w.Pos() != 4 {
		t.Errorf("expected position 4, got %d", w.Pos())
	}
}

func TestWriteByName(t *testing.T) {
	values := []struct {
		typeName string
		value    any
	}{
		{"int8", int8(-5)},
		{"uint8", uint8(250)},
		{"int16", int16(-300)},
		{"uint16", uint16(60000)},
		{"int32", int32(-70000)},
		{"uint32", uint32(4000000000)},
		{"int64", int64(-1 << 40)},
		{"uint64", uint64(1 << 63)},
		{"float32", float32(-0.5)},
		{"Float64", math.E},
		{"char", byte('q')},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultConfig())
	size := 0
	for _, v := range values {
		if err := w.Write(v.typeName, v.value); err != nil {
			t.Fatalf("Write(%q) failed: %v", v.typeName, err)
		}
		n, _ := SizeOf(v.typeName)
		size += n
	}
	if buf.Len() != size {
		t.Fatalf("expected %d bytes, got %d", size, buf.Len())
	}

	r := NewReader(&buf, DefaultConfig())
	for _, v := range values {
		got, err := r.Read(v.typeName)
		if err != nil {
			t.Fatalf("Read(%q) failed: %v", v.typeName, err)
		}
		if got != v.value {
			t.Errorf("%s: expected %v, got %v", v.typeName, v.value, got)
		}
	}
}

func TestWriteUnsupportedType(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultConfig())

	if err := w.Write("complex64", complex64(1)); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %d bytes", buf.Len())
	}
}

func TestWriteValueTypeMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultConfig())

	tests := []struct {
		typeName string
		value    any
	}{
		{"int16", int32(1)},
		{"float64", float32(1)},
		{"uint8", "x"},
		{"int32", 7},
	}
	for _, tt := range tests {
		if err := w.Write(tt.typeName, tt.value); !errors.Is(err, ErrValueType) {
			t.Errorf("Write(%q, %T): expected ErrValueType, got %v", tt.typeName, tt.value, err)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %d bytes", buf.Len())
	}
}

func TestTypeSizes(t *testing.T) {
	expected := map[string]int{
		"int8": 1, "uint8": 1, "int16": 2, "uint16": 2,
		"int32": 4, "uint32": 4, "int64": 8, "uint64": 8,
		"float32": 4, "float64": 8, "char": 1,
	}
	for name, size := range expected {
		got, err := SizeOf(name)
		if err != nil {
			t.Fatalf("SizeOf(%q) failed: %v", name, err)
		}
		if got != size {
			t.Errorf("SizeOf(%q): expected %d, got %d", name, size, got)
		}
	}
	if len(types) != len(expected) {
		t.Errorf("expected %d recognized types, got %d", len(expected), len(types))
	}
}

func TestWriteInt16s(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, DefaultConfig())

	samples := []int16{0, 1, -1, math.MaxInt16, math.MinInt16}
	if err := w.WriteInt16s(samples); err != nil {
		t.Fatalf("WriteInt16s failed: %v", err)
	}
	if buf.Len() != 2*len(samples) {
		t.Fatalf("expected %d bytes, got %d", 2*len(samples), buf.Len())
	}

	got := Int16s(binary.LittleEndian, buf.Bytes())
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d: expected %d, got %d", i, samples[i], got[i])
		}
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return len(p) - 1, nil
}

func TestWriteShort(t *testing.T) {
	w := NewWriter(shortWriter{}, DefaultConfig())
	if err := w.WriteUint32(1); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("expected io.ErrShortWrite, got %v", err)
	}
}

func TestCreateClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	w, err := Create(path, DefaultConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.WriteInt32(7); err != nil {
		t.Fatalf("WriteInt32 failed: %v", err)
	}
	if err := w.WriteBytes([]byte("abc")); err != nil {
		t.Fatalf("WriteBytes failed: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{7, 0, 0, 0, 'a', 'b', 'c'}
	if !bytes.Equal(data, expected) {
		t.Errorf("expected %v, got %v", expected, data)
	}
}

func TestWriterBigEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Config{ByteOrder: binary.BigEndian})

	w.WriteUint32(0x12345678)

	// Big-endian: high byte first
	expected := []byte{0x12, 0x34, 0x56, 0x78}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("expected %v, got %v", expected, buf.Bytes())
	}
}
