// Package shot reads and writes Shot container files: a length-prefixed XML
// header document followed by a length-prefixed payload of 16-bit samples.
package shot

import (
	"errors"

	"github.com/robert-malhotra/go-shot/internal/binary"
)

// Common errors
var (
	ErrUnexpectedEndOfStream = binary.ErrUnexpectedEndOfStream
	ErrHeaderParse           = errors.New("malformed shot header")
	ErrHeaderEncoding        = errors.New("shot header cannot be encoded")
	ErrShapeMismatch         = errors.New("payload shape mismatch")
	ErrCorrupt               = errors.New("corrupt shot file")
	ErrTooLarge              = errors.New("exceeds 32-bit length prefix")
	ErrInvalidName           = errors.New("invalid shot file name")
	ErrCatalog               = errors.New("catalog operation failed")
	ErrPartialWrite          = errors.New("catalog and file system out of step")
	ErrClosed                = errors.New("writer is closed")
)

// DefaultChannels is the channel count assumed when reading without WithChannels.
const DefaultChannels = 256
