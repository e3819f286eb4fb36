package shot

import (
	"fmt"
	"io"
	"math"

	"github.com/robert-malhotra/go-shot/internal/binary"
)

// Layout describes what Encode wrote.
type Layout struct {
	HeaderLength int32
	PayloadSize  int32  // bytes
	Checksum     uint32 // Fletcher-32 of the payload bytes
}

// Size returns the total number of bytes written.
func (l Layout) Size() int64 {
	return 4 + int64(l.HeaderLength) + 4 + int64(l.PayloadSize)
}

// Encode writes h and samples to w in the Shot layout:
//
//	int32  header length
//	[]byte header document
//	int32  payload size in bytes
//	[]int16 payload, little endian
func Encode(w io.Writer, h *Header, samples []int16, opts ...WriteOption) (Layout, error) {
	options := defaultWriteOptions()
	for _, opt := range opts {
		opt(options)
	}
	return encode(binary.NewWriter(w, binary.DefaultConfig()), h, samples, options)
}

func encode(bw *binary.Writer, h *Header, samples []int16, o *writeOptions) (Layout, error) {
	if h == nil {
		return Layout{}, fmt.Errorf("nil header")
	}
	doc, err := MarshalHeader(h, o.encoding)
	if err != nil {
		return Layout{}, err
	}
	if len(doc) > math.MaxInt32 {
		return Layout{}, fmt.Errorf("%w: header of %d bytes", ErrTooLarge, len(doc))
	}
	if int64(len(samples))*2 > math.MaxInt32 {
		return Layout{}, fmt.Errorf("%w: payload of %d samples", ErrTooLarge, len(samples))
	}
	payload := binary.PutInt16s(bw.ByteOrder(), samples)

	if err := bw.WriteInt32(int32(len(doc))); err != nil {
		return Layout{}, fmt.Errorf("writing header length: %w", err)
	}
	if err := bw.WriteBytes(doc); err != nil {
		return Layout{}, fmt.Errorf("writing header: %w", err)
	}
	if err := bw.WriteInt32(int32(len(payload))); err != nil {
		return Layout{}, fmt.Errorf("writing data size: %w", err)
	}
	if err := bw.WriteBytes(payload); err != nil {
		return Layout{}, fmt.Errorf("writing payload: %w", err)
	}

	return Layout{
		HeaderLength: int32(len(doc)),
		PayloadSize:  int32(len(payload)),
		Checksum:     binary.Fletcher32(payload),
	}, nil
}

// encodeFile writes a complete Shot file at path and syncs it to disk.
func encodeFile(path string, h *Header, samples []int16, o *writeOptions) (Layout, error) {
	bw, err := binary.Create(path, binary.DefaultConfig())
	if err != nil {
		return Layout{}, err
	}
	layout, err := encode(bw, h, samples, o)
	if err != nil {
		bw.Close()
		return Layout{}, err
	}
	if err := bw.Sync(); err != nil {
		bw.Close()
		return Layout{}, fmt.Errorf("syncing: %w", err)
	}
	if err := bw.Close(); err != nil {
		return Layout{}, fmt.Errorf("closing: %w", err)
	}
	return layout, nil
}
