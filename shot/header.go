package shot

import "fmt"

// Point is a 3-component coordinate (X, Y, Z).
type Point [3]float64

// Field is a header tag the codec does not decode by name. Value holds the
// element text, or its inner XML when XML is set.
type Field struct {
	Name  string
	Value string
	XML   bool
}

// Header is the in-memory form of the header document.
type Header struct {
	ScalarDataType string
	Origin         Point
	Spacing        Point
	Dimensions     [3]int // shape hint, not the payload shape
	UddString      string
	UddBinary      []byte // nil when absent
	IsModified     bool
	AutoCreateMask bool

	// Extra holds every other tag in document order, e.g. NoOfComponents,
	// UnitX/UnitY/UnitZ and ConnectionID.
	Extra []Field
}

// NewHeader returns a header with the defaults the acquisition software
// writes: Short samples, unit spacing, both flags set.
func NewHeader() *Header {
	return &Header{
		ScalarDataType: "Short",
		Spacing:        Point{1, 1, 1},
		Dimensions:     [3]int{1, 1, 1},
		IsModified:     true,
		AutoCreateMask: true,
	}
}

// Lookup returns the text of a tag kept in Extra.
func (h *Header) Lookup(name string) (string, bool) {
	for _, f := range h.Extra {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set stores a text tag in Extra, replacing an existing one of the same
// name. Tags with a typed field (Origin, IsModified, ...) cannot be set here.
func (h *Header) Set(name, value string) error {
	if err := checkTagName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrHeaderEncoding, err)
	}
	if _, ok := headerFields[name]; ok {
		return fmt.Errorf("header tag %q has a typed field", name)
	}
	h.setExtra(Field{Name: name, Value: value})
	return nil
}

func (h *Header) setExtra(f Field) {
	for i := range h.Extra {
		if h.Extra[i].Name == f.Name {
			h.Extra[i] = f
			return
		}
	}
	h.Extra = append(h.Extra, f)
}
