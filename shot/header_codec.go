package shot

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

const rootTag = "LucidImage"

// fieldCodec decodes and encodes one recognized header tag.
type fieldCodec struct {
	decode func(h *Header, n *node) error
	encode func(buf *bytes.Buffer, h *Header) error
}

// Encoding order of the recognized tags.
var headerOrder = []string{
	"ScalarDataType",
	"Origin",
	"UddString",
	"UddBinary",
	"IsModified",
	"Spacing",
	"Dimensions",
	"AutoCreateMask",
}

// Tags missing here are captured generically into Header.Extra.
var headerFields = map[string]fieldCodec{
	"ScalarDataType": textField("ScalarDataType", func(h *Header) *string { return &h.ScalarDataType }),
	"Origin":         pointField("Origin", func(h *Header) *Point { return &h.Origin }),
	"UddString":      textField("UddString", func(h *Header) *string { return &h.UddString }),
	"UddBinary":      bytesField("UddBinary", func(h *Header) *[]byte { return &h.UddBinary }),
	"IsModified":     boolField("IsModified", func(h *Header) *bool { return &h.IsModified }),
	"Spacing":        pointField("Spacing", func(h *Header) *Point { return &h.Spacing }),
	"Dimensions":     dimsField("Dimensions", func(h *Header) *[3]int { return &h.Dimensions }),
	"AutoCreateMask": boolField("AutoCreateMask", func(h *Header) *bool { return &h.AutoCreateMask }),
}

// node is a generic element tree.
type node struct {
	XMLName  xml.Name
	Text     string `xml:",chardata"`
	Inner    string `xml:",innerxml"`
	Children []node `xml:",any"`
}

func textField(tag string, get func(*Header) *string) fieldCodec {
	return fieldCodec{
		decode: func(h *Header, n *node) error {
			*get(h) = n.Text
			return nil
		},
		encode: func(buf *bytes.Buffer, h *Header) error {
			return writeTextElement(buf, tag, *get(h))
		},
	}
}

func boolField(tag string, get func(*Header) *bool) fieldCodec {
	return fieldCodec{
		decode: func(h *Header, n *node) error {
			s := strings.TrimSpace(n.Text)
			if s == "" {
				*get(h) = false
				return nil
			}
			v, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("%s: %q is not a boolean", tag, s)
			}
			*get(h) = v
			return nil
		},
		encode: func(buf *bytes.Buffer, h *Header) error {
			return writeTextElement(buf, tag, strconv.FormatBool(*get(h)))
		},
	}
}

func bytesField(tag string, get func(*Header) *[]byte) fieldCodec {
	return fieldCodec{
		decode: func(h *Header, n *node) error {
			s := strings.TrimSpace(n.Text)
			if s == "" {
				*get(h) = nil
				return nil
			}
			v, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return fmt.Errorf("%s: %v", tag, err)
			}
			*get(h) = v
			return nil
		},
		encode: func(buf *bytes.Buffer, h *Header) error {
			v := *get(h)
			if len(v) == 0 {
				writeEmptyElement(buf, tag)
				return nil
			}
			return writeTextElement(buf, tag, base64.StdEncoding.EncodeToString(v))
		},
	}
}

func pointField(tag string, get func(*Header) *Point) fieldCodec {
	return fieldCodec{
		decode: func(h *Header, n *node) error {
			if len(n.Children) != 3 {
				return fmt.Errorf("%s: expected 3 components, got %d", tag, len(n.Children))
			}
			var p Point
			for i, c := range n.Children {
				v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
				if err != nil {
					return fmt.Errorf("%s[%d]: %q is not a number", tag, i, c.Text)
				}
				p[i] = v
			}
			*get(h) = p
			return nil
		},
		encode: func(buf *bytes.Buffer, h *Header) error {
			p := *get(h)
			buf.WriteString("<" + tag + ">")
			for _, v := range p {
				writeTextElement(buf, "double", strconv.FormatFloat(v, 'g', -1, 64))
			}
			buf.WriteString("</" + tag + ">")
			return nil
		},
	}
}

func dimsField(tag string, get func(*Header) *[3]int) fieldCodec {
	return fieldCodec{
		decode: func(h *Header, n *node) error {
			if len(n.Children) != 3 {
				return fmt.Errorf("%s: expected 3 components, got %d", tag, len(n.Children))
			}
			var d [3]int
			for i, c := range n.Children {
				v, err := strconv.Atoi(strings.TrimSpace(c.Text))
				if err != nil {
					return fmt.Errorf("%s[%d]: %q is not an integer", tag, i, c.Text)
				}
				d[i] = v
			}
			*get(h) = d
			return nil
		},
		encode: func(buf *bytes.Buffer, h *Header) error {
			d := *get(h)
			buf.WriteString("<" + tag + ">")
			for _, v := range d {
				writeTextElement(buf, "int", strconv.Itoa(v))
			}
			buf.WriteString("</" + tag + ">")
			return nil
		},
	}
}

// genericField captures an unrecognized tag as text, or as inner XML when
// the element has children.
func genericField(n *node) Field {
	if len(n.Children) > 0 {
		return Field{Name: n.XMLName.Local, Value: n.Inner, XML: true}
	}
	return Field{Name: n.XMLName.Local, Value: n.Text}
}

// MarshalHeader serializes h as a header document in the named encoding,
// starting with an XML declaration that names it.
func MarshalHeader(h *Header, encodingName string) ([]byte, error) {
	enc, canonical, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderEncoding, err)
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="` + canonical + `"?>`)
	buf.WriteString("<" + rootTag + ">")
	for _, tag := range headerOrder {
		if err := headerFields[tag].encode(&buf, h); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHeaderEncoding, err)
		}
	}
	for _, f := range h.Extra {
		if _, ok := headerFields[f.Name]; ok || f.Name == "" {
			continue
		}
		if err := writeExtra(&buf, f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHeaderEncoding, err)
		}
	}
	buf.WriteString("</" + rootTag + ">")

	if isUTF8(canonical) {
		return buf.Bytes(), nil
	}
	out, err := enc.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: as %s: %v", ErrHeaderEncoding, canonical, err)
	}
	return out, nil
}

// UnmarshalHeader parses a header document. The encoding named in the XML
// declaration is honored; without one the document is decoded with
// defaultEncoding and must be valid in it.
func UnmarshalHeader(raw []byte, defaultEncoding string) (*Header, error) {
	data := raw
	if !hasDeclaration(raw) {
		enc, name, err := lookupEncoding(defaultEncoding)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHeaderParse, err)
		}
		if isUTF8(name) {
			if !utf8.Valid(raw) {
				return nil, fmt.Errorf("%w: header is not valid UTF-8", ErrHeaderParse)
			}
		} else {
			data, err = enc.NewDecoder().Bytes(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: decoding header as %s: %v", ErrHeaderParse, name, err)
			}
		}
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var root node
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderParse, err)
	}
	if err := expectEnd(dec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderParse, err)
	}

	h := &Header{}
	for i := range root.Children {
		n := &root.Children[i]
		codec, ok := headerFields[n.XMLName.Local]
		if !ok {
			h.setExtra(genericField(n))
			continue
		}
		if err := codec.decode(h, n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHeaderParse, err)
		}
	}
	return h, nil
}

// expectEnd rejects content after the root element.
func expectEnd(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("element <%s> after document element", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("text after document element")
			}
		}
	}
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, _, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}

func lookupEncoding(name string) (encoding.Encoding, string, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, "", fmt.Errorf("unknown encoding %q", name)
	}
	if enc == nil {
		return nil, "", fmt.Errorf("unsupported encoding %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	return enc, canonical, nil
}

func isUTF8(canonical string) bool {
	return strings.EqualFold(canonical, "UTF-8")
}

func hasDeclaration(raw []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(raw, " \t\r\n"), []byte("<?xml"))
}

func writeExtra(buf *bytes.Buffer, f Field) error {
	if err := checkTagName(f.Name); err != nil {
		return err
	}
	if !f.XML {
		return writeTextElement(buf, f.Name, f.Value)
	}
	if err := checkFragment(f.Value); err != nil {
		return fmt.Errorf("%s: %v", f.Name, err)
	}
	buf.WriteString("<" + f.Name + ">" + f.Value + "</" + f.Name + ">")
	return nil
}

// checkTagName accepts names the decoder reads back as the same element:
// a letter or underscore, then letters, digits, '_', '-' or '.'. Colons
// are excluded so no namespace prefix is implied.
func checkTagName(name string) error {
	if name == "" {
		return fmt.Errorf("empty tag name")
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return fmt.Errorf("invalid tag name %q", name)
		}
	}
	return nil
}

// checkFragment verifies that inner is well-formed element content that
// stays inside its wrapper.
func checkFragment(inner string) error {
	if !utf8.ValidString(inner) {
		return fmt.Errorf("invalid UTF-8")
	}
	dec := xml.NewDecoder(strings.NewReader("<f>" + inner + "</f>"))
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("malformed XML content: %v", err)
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 && dec.InputOffset() > 3 {
				return fmt.Errorf("content closes its element")
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.ProcInst, xml.Directive:
			if depth == 0 {
				return fmt.Errorf("content closes its element")
			}
		}
	}
}

func writeTextElement(buf *bytes.Buffer, tag, text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%s: invalid UTF-8", tag)
	}
	if text == "" {
		writeEmptyElement(buf, tag)
		return nil
	}
	buf.WriteString("<" + tag + ">")
	if err := escapeText(buf, text); err != nil {
		return fmt.Errorf("%s: %v", tag, err)
	}
	buf.WriteString("</" + tag + ">")
	return nil
}

func writeEmptyElement(buf *bytes.Buffer, tag string) {
	buf.WriteString("<" + tag + " />")
}

// escapeText escapes only &, < and >, which keeps quotes inside UDD
// strings byte-identical to what the acquisition software writes.
func escapeText(buf *bytes.Buffer, s string) error {
	for _, r := range s {
		switch {
		case r == '&':
			buf.WriteString("&amp;")
		case r == '<':
			buf.WriteString("&lt;")
		case r == '>':
			buf.WriteString("&gt;")
		case r == '\r':
			buf.WriteString("&#xD;")
		case !isXMLChar(r):
			return fmt.Errorf("character %U not allowed in XML", r)
		default:
			buf.WriteRune(r)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
