// Package export renders decoded shots in formats other tools understand.
package export

import (
	"fmt"
	"io"
	"math"

	wav "github.com/youpy/go-wav"

	"github.com/robert-malhotra/go-shot/internal/binary"
	"github.com/robert-malhotra/go-shot/shot"
)

const bitsPerSample = 16

// Channel returns channel ch of g as a single-channel grid.
func Channel(g *shot.Grid, ch int) (*shot.Grid, error) {
	if ch < 0 || ch >= g.Channels() {
		return nil, fmt.Errorf("channel %d out of range [0, %d)", ch, g.Channels())
	}
	return shot.Reshape(g.Channel(ch), 1)
}

// Interleave converts the channel-major grid into frame-major PCM, one
// sample per channel per frame.
func Interleave(g *shot.Grid) []int16 {
	channels, frames := g.Shape()
	out := make([]int16, 0, channels*frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			out = append(out, g.At(ch, i))
		}
	}
	return out
}

// PCM returns the interleaved little-endian 16-bit bytes of g.
func PCM(g *shot.Grid) []byte {
	return binary.PutInt16s(binary.DefaultConfig().ByteOrder, Interleave(g))
}

// WriteWAV writes g as 16-bit PCM WAV with one WAV channel per grid channel.
func WriteWAV(w io.Writer, g *shot.Grid, sampleRate int) error {
	return WritePCM(w, PCM(g), g.Channels(), sampleRate)
}

// WritePCM writes interleaved little-endian 16-bit samples as a WAV stream.
func WritePCM(w io.Writer, pcm []byte, channels, sampleRate int) error {
	if channels <= 0 || channels > math.MaxUint16 {
		return fmt.Errorf("invalid channel count %d", channels)
	}
	if sampleRate <= 0 || int64(sampleRate) > math.MaxUint32 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	frameSize := channels * bitsPerSample / 8
	if len(pcm)%frameSize != 0 {
		return fmt.Errorf("%d bytes is not a whole number of %d-channel frames", len(pcm), channels)
	}
	numFrames := len(pcm) / frameSize

	wavWriter := wav.NewWriter(w, uint32(numFrames), uint16(channels), uint32(sampleRate), bitsPerSample)
	if _, err := wavWriter.Write(pcm); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return nil
}
