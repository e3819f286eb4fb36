package binary

import (
	"fmt"
	"strings"
)

// Recognized type names.
const (
	TypeInt8    = "int8"
	TypeUint8   = "uint8"
	TypeInt16   = "int16"
	TypeUint16  = "uint16"
	TypeInt32   = "int32"
	TypeUint32  = "uint32"
	TypeInt64   = "int64"
	TypeUint64  = "uint64"
	TypeFloat32 = "float32"
	TypeFloat64 = "float64"
	TypeChar    = "char" // one raw byte
)

// Type describes a recognized scalar.
type Type struct {
	Name string
	Size int
}

// The length-prefix arithmetic in the shot codec relies on these widths.
var types = map[string]Type{
	TypeInt8:    {TypeInt8, 1},
	TypeUint8:   {TypeUint8, 1},
	TypeInt16:   {TypeInt16, 2},
	TypeUint16:  {TypeUint16, 2},
	TypeInt32:   {TypeInt32, 4},
	TypeUint32:  {TypeUint32, 4},
	TypeInt64:   {TypeInt64, 8},
	TypeUint64:  {TypeUint64, 8},
	TypeFloat32: {TypeFloat32, 4},
	TypeFloat64: {TypeFloat64, 8},
	TypeChar:    {TypeChar, 1},
}

// LookupType resolves a type name, ignoring case.
func LookupType(name string) (Type, error) {
	t, ok := types[strings.ToLower(name)]
	if !ok {
		return Type{}, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
	}
	return t, nil
}

// SizeOf returns the byte width of the named type.
func SizeOf(name string) (int, error) {
	t, err := LookupType(name)
	if err != nil {
		return 0, err
	}
	return t.Size, nil
}
