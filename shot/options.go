package shot

import "log/slog"

// Defaults written into catalog records.
const (
	DefaultVersion      = 131072000
	DefaultConnectionID = 135
)

// ReadOption configures how a shot file is read.
type ReadOption func(*readOptions)

type readOptions struct {
	channels int
	encoding string
	lenient  bool
}

func defaultReadOptions() *readOptions {
	return &readOptions{
		channels: DefaultChannels,
		encoding: "utf-8",
	}
}

// WithChannels sets the number of rows the payload is reshaped into.
// The channel count is not stored in the file.
func WithChannels(n int) ReadOption {
	return func(o *readOptions) {
		o.channels = n
	}
}

// WithDefaultEncoding sets the text encoding assumed for header documents
// without an XML declaration. Declared encodings always take precedence.
func WithDefaultEncoding(name string) ReadOption {
	return func(o *readOptions) {
		if name != "" {
			o.encoding = name
		}
	}
}

// WithLenientPayload accepts payloads shorter than the declared data size
// and reads whatever the file holds. Some writers recorded a doubled size.
func WithLenientPayload() ReadOption {
	return func(o *readOptions) {
		o.lenient = true
	}
}

// WriteOption configures Encode and Writer sessions.
type WriteOption func(*writeOptions)

type writeOptions struct {
	encoding     string
	version      int64
	connectionID int
	logger       *slog.Logger
}

func defaultWriteOptions() *writeOptions {
	return &writeOptions{
		encoding:     "utf-8",
		version:      DefaultVersion,
		connectionID: DefaultConnectionID,
		logger:       slog.Default(),
	}
}

// WithHeaderEncoding sets the text encoding of the header document. The
// name is resolved through the IANA registry and declared in the document.
func WithHeaderEncoding(name string) WriteOption {
	return func(o *writeOptions) {
		if name != "" {
			o.encoding = name
		}
	}
}

// WithVersion sets the format version recorded in the catalog.
func WithVersion(v int64) WriteOption {
	return func(o *writeOptions) {
		o.version = v
	}
}

// WithConnectionID sets the connection id recorded in the catalog.
func WithConnectionID(id int) WriteOption {
	return func(o *writeOptions) {
		o.connectionID = id
	}
}

// WithLogger sets the logger used by a Writer session.
func WithLogger(l *slog.Logger) WriteOption {
	return func(o *writeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
