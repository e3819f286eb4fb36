package shot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robert-malhotra/go-shot/catalog"
	"github.com/robert-malhotra/go-shot/internal/binary"
)

// MismatchKind classifies a disagreement between catalog and directory.
type MismatchKind int

const (
	MissingFile      MismatchKind = iota // record without a file
	MissingRecord                        // file without a record
	SizeMismatch                         // record DataSize differs from the file
	ChecksumMismatch                     // payload fingerprint differs
	Unreadable                           // file exists but does not decode
)

func (k MismatchKind) String() string {
	switch k {
	case MissingFile:
		return "missing file"
	case MissingRecord:
		return "missing record"
	case SizeMismatch:
		return "size mismatch"
	case ChecksumMismatch:
		return "checksum mismatch"
	case Unreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("MismatchKind(%d)", int(k))
	}
}

// Mismatch is one finding of Reconcile.
type Mismatch struct {
	FileName string
	Kind     MismatchKind
	Detail   string
}

func (m Mismatch) String() string {
	if m.Detail == "" {
		return fmt.Sprintf("%s: %s", m.FileName, m.Kind)
	}
	return fmt.Sprintf("%s: %s (%s)", m.FileName, m.Kind, m.Detail)
}

// Reconcile compares the catalog's records with the Shot files in dir.
// Leftover temporary files from interrupted writes are reported as
// missing records. Findings are sorted by file name.
func Reconcile(dir string, l catalog.Lister, opts ...ReadOption) ([]Mismatch, error) {
	records, err := l.Records()
	if err != nil {
		return nil, fmt.Errorf("%w: listing records: %w", ErrCatalog, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	onDisk := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			onDisk[e.Name()] = true
		}
	}

	// The payload shape is irrelevant here; one channel always divides.
	opts = append(append([]ReadOption{}, opts...), WithChannels(1))

	var found []Mismatch
	for _, rec := range records {
		if !onDisk[rec.FileName] {
			found = append(found, Mismatch{FileName: rec.FileName, Kind: MissingFile})
			continue
		}
		delete(onDisk, rec.FileName)

		s, err := ReadFile(filepath.Join(dir, rec.FileName), opts...)
		if err != nil {
			found = append(found, Mismatch{FileName: rec.FileName, Kind: Unreadable, Detail: err.Error()})
			continue
		}
		payload := binary.PutInt16s(binary.DefaultConfig().ByteOrder, s.Samples())
		if int64(len(payload)) != rec.DataSize {
			found = append(found, Mismatch{
				FileName: rec.FileName,
				Kind:     SizeMismatch,
				Detail:   fmt.Sprintf("catalog %d bytes, file %d bytes", rec.DataSize, len(payload)),
			})
			continue
		}
		if rec.HasChecksum {
			if sum := binary.Fletcher32(payload); sum != rec.Checksum {
				found = append(found, Mismatch{
					FileName: rec.FileName,
					Kind:     ChecksumMismatch,
					Detail:   fmt.Sprintf("catalog %08x, file %08x", rec.Checksum, sum),
				})
			}
		}
	}

	for name := range onDisk {
		detail := ""
		if strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".partial") {
			detail = "interrupted write"
		}
		found = append(found, Mismatch{FileName: name, Kind: MissingRecord, Detail: detail})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].FileName < found[j].FileName
	})
	return found, nil
}
