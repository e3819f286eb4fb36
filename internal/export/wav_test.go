package export

import (
	"bytes"
	"reflect"
	"testing"

	wav "github.com/youpy/go-wav"

	"github.com/robert-malhotra/go-shot/shot"
)

func testGrid(t *testing.T) *shot.Grid {
	t.Helper()
	// Two channels of three samples.
	g, err := shot.Reshape([]int16{1, 2, 3, -1, -2, -3}, 2)
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	return g
}

func TestInterleave(t *testing.T) {
	got := Interleave(testGrid(t))
	want := []int16{1, -1, 2, -2, 3, -3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestChannel(t *testing.T) {
	g := testGrid(t)

	mono, err := Channel(g, 1)
	if err != nil {
		t.Fatalf("Channel failed: %v", err)
	}
	if ch, n := mono.Shape(); ch != 1 || n != 3 {
		t.Errorf("expected shape (1, 3), got (%d, %d)", ch, n)
	}
	if !reflect.DeepEqual(mono.Data(), []int16{-1, -2, -3}) {
		t.Errorf("unexpected samples %v", mono.Data())
	}

	for _, ch := range []int{-1, 2} {
		if _, err := Channel(g, ch); err == nil {
			t.Errorf("Channel(%d): expected error", ch)
		}
	}
}

func TestWriteWAV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWAV(&buf, testGrid(t), 8000); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	// RIFF header, fmt chunk and data chunk, then 3 frames of 2 samples.
	if want := 44 + 12; buf.Len() != want {
		t.Errorf("expected %d bytes, got %d", want, buf.Len())
	}

	r := wav.NewReader(bytes.NewReader(buf.Bytes()))
	format, err := r.Format()
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if format.AudioFormat != wav.AudioFormatPCM {
		t.Errorf("expected PCM, got %d", format.AudioFormat)
	}
	if format.NumChannels != 2 {
		t.Errorf("expected 2 channels, got %d", format.NumChannels)
	}
	if format.SampleRate != 8000 {
		t.Errorf("expected 8000 Hz, got %d", format.SampleRate)
	}
	if format.BitsPerSample != 16 {
		t.Errorf("expected 16 bits, got %d", format.BitsPerSample)
	}
	if format.BlockAlign != 4 {
		t.Errorf("expected block align 4, got %d", format.BlockAlign)
	}

	pcm := buf.Bytes()[44:]
	want := []byte{0x01, 0x00, 0xFF, 0xFF, 0x02, 0x00, 0xFE, 0xFF, 0x03, 0x00, 0xFD, 0xFF}
	if !bytes.Equal(pcm, want) {
		t.Errorf("data chunk: expected % x, got % x", want, pcm)
	}
}

func TestWritePCMErrors(t *testing.T) {
	tests := []struct {
		name       string
		pcm        []byte
		channels   int
		sampleRate int
	}{
		{"no channels", []byte{0, 0}, 0, 8000},
		{"zero rate", []byte{0, 0}, 1, 0},
		{"partial frame", []byte{0, 0, 0}, 1, 8000},
		{"partial stereo frame", []byte{0, 0}, 2, 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePCM(&buf, tt.pcm, tt.channels, tt.sampleRate); err == nil {
				t.Error("expected error")
			}
			if buf.Len() != 0 {
				t.Errorf("expected nothing written, got %d bytes", buf.Len())
			}
		})
	}
}
