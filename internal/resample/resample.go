// Package resample converts interleaved 16-bit PCM between sample rates.
package resample

import (
	"bufio"
	"bytes"
	"fmt"

	soxr "github.com/zaf/resample"
)

// Int16 resamples interleaved little-endian 16-bit PCM from one rate to
// another using SoXR. The input is returned unchanged when the rates match.
func Int16(pcm []byte, fromRate, toRate, channels int) ([]byte, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", fromRate, toRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if fromRate == toRate {
		return pcm, nil
	}

	var out bytes.Buffer
	bw := bufio.NewWriter(&out)

	resampler, err := soxr.New(bw, float64(fromRate), float64(toRate), channels, soxr.I16, soxr.HighQ)
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	if _, err := resampler.Write(pcm); err != nil {
		resampler.Close()
		return nil, fmt.Errorf("failed to resample: %w", err)
	}
	if err := resampler.Close(); err != nil {
		return nil, fmt.Errorf("failed to close resampler: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush buffer: %w", err)
	}
	return out.Bytes(), nil
}
