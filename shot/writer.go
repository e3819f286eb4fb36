package shot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/robert-malhotra/go-shot/catalog"
)

// Range is the start, end and step of one scan axis.
type Range struct {
	Start int
	End   int
	Step  int
}

// Writer is a session that writes Shot files into one directory and
// catalogs each of them. It owns its catalog until Close and is not safe
// for concurrent use.
type Writer struct {
	dir     string
	catalog catalog.Catalog
	options *writeOptions
	log     *slog.Logger
	closed  bool
}

// NewWriter starts a session writing into dir, which is created if needed.
func NewWriter(dir string, cat catalog.Catalog, opts ...WriteOption) (*Writer, error) {
	if cat == nil {
		return nil, fmt.Errorf("nil catalog")
	}
	options := defaultWriteOptions()
	for _, opt := range opts {
		opt(options)
	}
	// Fail early on an unusable header encoding.
	if _, _, err := lookupEncoding(options.encoding); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderEncoding, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}
	return &Writer{
		dir:     dir,
		catalog: cat,
		options: options,
		log:     options.logger.With("dir", dir),
	}, nil
}

// Dir returns the directory shot files are written to.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteAxisInfo records the scan and index axis bounds, committing after each.
func (w *Writer) WriteAxisInfo(scan, index Range) error {
	if w.closed {
		return ErrClosed
	}
	axes := []catalog.Axis{
		{ID: catalog.ScanAxisID, Start: scan.Start, End: scan.End, Step: scan.Step},
		{ID: catalog.IndexAxisID, Start: index.Start, End: index.End, Step: index.Step},
	}
	for _, a := range axes {
		if err := w.catalog.UpdateAxisBounds(a); err != nil {
			return w.abort(fmt.Errorf("%w: updating axis %d: %w", ErrCatalog, a.ID, err))
		}
		if err := w.catalog.Commit(); err != nil {
			return w.abort(fmt.Errorf("%w: committing axis %d: %w", ErrCatalog, a.ID, err))
		}
	}
	w.log.Debug("Axis info written",
		"scan", fmt.Sprintf("%d:%d:%d", scan.Start, scan.End, scan.Step),
		"index", fmt.Sprintf("%d:%d:%d", index.Start, index.End, index.Step))
	return nil
}

// Write creates the Shot file name in the session directory and inserts
// its catalog record.
//
// The file is written to a temporary name, then cataloged and committed,
// then renamed into place. A catalog failure removes the temporary file and
// returns an error wrapping ErrCatalog; nothing is left behind and the
// session can continue. A rename failure after the commit returns an error
// wrapping ErrPartialWrite: the record exists but the file does not.
func (w *Writer) Write(name string, h *Header, samples []int16) error {
	if w.closed {
		return ErrClosed
	}
	if err := validName(name); err != nil {
		return err
	}

	final := filepath.Join(w.dir, name)
	tmp := filepath.Join(w.dir, "."+name+".partial")

	layout, err := encodeFile(tmp, h, samples, w.options)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", name, err)
	}

	rec := catalog.Record{
		Origin:       h.Origin,
		Scale:        h.Spacing,
		DataSize:     int64(layout.PayloadSize),
		StartPos:     0,
		ConnectionID: w.options.connectionID,
		Version:      w.options.version,
		UddString:    h.UddString,
		IsFileSystem: true,
		FileName:     name,
		Checksum:     layout.Checksum,
		HasChecksum:  true,
	}
	if err := w.catalog.InsertFileRecord(rec); err != nil {
		os.Remove(tmp)
		return w.abort(fmt.Errorf("%w: inserting %s: %w", ErrCatalog, name, err))
	}
	if err := w.catalog.Commit(); err != nil {
		os.Remove(tmp)
		return w.abort(fmt.Errorf("%w: committing %s: %w", ErrCatalog, name, err))
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %s cataloged but not written: %w", ErrPartialWrite, name, err)
	}

	w.log.Debug("Shot written",
		"file", name,
		"header_bytes", layout.HeaderLength,
		"payload_bytes", layout.PayloadSize,
		"checksum", fmt.Sprintf("%08x", layout.Checksum))
	return nil
}

// abort rolls back the pending catalog unit and returns err, joined with
// the rollback error if there is one.
func (w *Writer) abort(err error) error {
	if rbErr := w.catalog.Rollback(); rbErr != nil {
		return errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
	}
	return err
}

// Close finalizes the catalog. Calling Close more than once returns nil.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.catalog.CloseAndCompact(); err != nil {
		return fmt.Errorf("%w: closing: %w", ErrCatalog, err)
	}
	w.log.Debug("Writer closed")
	return nil
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
