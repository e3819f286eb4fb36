package shot

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-shot/internal/binary"
)

// Shot is one decoded Shot file.
type Shot struct {
	Header       *Header
	HeaderLength int32
	DataSize     int32 // declared payload size in bytes
	Ascans       *Grid
}

// Samples returns the flat payload.
func (s *Shot) Samples() []int16 {
	return s.Ascans.Data()
}

// Read decodes a Shot from r, which must be positioned at the start of the file.
func Read(r io.Reader, opts ...ReadOption) (*Shot, error) {
	options := defaultReadOptions()
	for _, opt := range opts {
		opt(options)
	}
	return read(binary.NewReader(r, binary.DefaultConfig()), options)
}

// ReadFile opens, decodes and closes the named Shot file.
func ReadFile(path string, opts ...ReadOption) (*Shot, error) {
	options := defaultReadOptions()
	for _, opt := range opts {
		opt(options)
	}

	r, err := binary.Open(path, binary.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer r.Close()

	s, err := read(r, options)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s, nil
}

func read(r *binary.Reader, o *readOptions) (*Shot, error) {
	headerLen, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading header length: %w", err)
	}
	if headerLen < 0 {
		return nil, fmt.Errorf("%w: negative header length %d", ErrCorrupt, headerLen)
	}

	raw, err := r.ReadBytes(int(headerLen))
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	header, err := UnmarshalHeader(raw, o.encoding)
	if err != nil {
		return nil, err
	}

	dataSize, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("reading data size: %w", err)
	}

	payload, err := r.ReadRemaining()
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("%w: payload ends inside a sample (%d bytes)",
			ErrUnexpectedEndOfStream, len(payload))
	}
	if !o.lenient {
		if dataSize < 0 {
			return nil, fmt.Errorf("%w: negative data size %d", ErrCorrupt, dataSize)
		}
		if int64(len(payload)) < int64(dataSize) {
			return nil, fmt.Errorf("%w: payload declares %d bytes, file holds %d",
				ErrUnexpectedEndOfStream, dataSize, len(payload))
		}
	}

	grid, err := Reshape(binary.Int16s(r.ByteOrder(), payload), o.channels)
	if err != nil {
		return nil, err
	}

	return &Shot{
		Header:       header,
		HeaderLength: headerLen,
		DataSize:     dataSize,
		Ascans:       grid,
	}, nil
}
