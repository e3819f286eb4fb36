package shot

import "fmt"

// Grid is a payload reshaped into channels × samples-per-channel, row major.
type Grid struct {
	channels int
	samples  int
	data     []int16
}

// Reshape splits samples into channels rows of equal length.
func Reshape(samples []int16, channels int) (*Grid, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count %d", ErrShapeMismatch, channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not divide into %d channels",
			ErrShapeMismatch, len(samples), channels)
	}
	return &Grid{
		channels: channels,
		samples:  len(samples) / channels,
		data:     samples,
	}, nil
}

// Shape returns (channels, samples per channel).
func (g *Grid) Shape() (int, int) {
	return g.channels, g.samples
}

// Channels returns the number of rows.
func (g *Grid) Channels() int {
	return g.channels
}

// SamplesPerChannel returns the row length.
func (g *Grid) SamplesPerChannel() int {
	return g.samples
}

// Channel returns row ch. The slice aliases the grid.
func (g *Grid) Channel(ch int) []int16 {
	return g.data[ch*g.samples : (ch+1)*g.samples]
}

// At returns sample i of channel ch.
func (g *Grid) At(ch, i int) int16 {
	return g.data[ch*g.samples+i]
}

// Data returns the flat, row-major samples.
func (g *Grid) Data() []int16 {
	return g.data
}
