package ply

import "fmt"

// Element names that mesh-bearing PLY files use by convention.
const (
	VertexElement = "vertex"
	FaceElement   = "face"
)

// Format is the body encoding declared on the header's format line.
type Format uint8

const (
	FormatASCII Format = iota
	FormatBinaryLittleEndian
	FormatBinaryBigEndian
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinaryLittleEndian:
		return "binary_little_endian"
	case FormatBinaryBigEndian:
		return "binary_big_endian"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// DataType is a PLY scalar type. The header may spell each one the
// classic way (uchar) or the sized way (uint8); both parse to the same
// DataType.
type DataType uint8

const (
	TypeNone DataType = iota
	TypeChar
	TypeUChar
	TypeShort
	TypeUShort
	TypeInt
	TypeUInt
	TypeFloat
	TypeDouble
)

// Size returns the encoded byte width of the type.
func (t DataType) Size() int {
	switch t {
	case TypeChar, TypeUChar:
		return 1
	case TypeShort, TypeUShort:
		return 2
	case TypeInt, TypeUInt, TypeFloat:
		return 4
	case TypeDouble:
		return 8
	}
	return 0
}

// String returns the classic header spelling of the type.
func (t DataType) String() string {
	switch t {
	case TypeChar:
		return "char"
	case TypeUChar:
		return "uchar"
	case TypeShort:
		return "short"
	case TypeUShort:
		return "ushort"
	case TypeInt:
		return "int"
	case TypeUInt:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	}
	return "none"
}

func (t DataType) integer() bool {
	switch t {
	case TypeChar, TypeUChar, TypeShort, TypeUShort, TypeInt, TypeUInt:
		return true
	}
	return false
}

func parseDataType(word string) (DataType, bool) {
	switch word {
	case "char", "int8":
		return TypeChar, true
	case "uchar", "uint8":
		return TypeUChar, true
	case "short", "int16":
		return TypeShort, true
	case "ushort", "uint16":
		return TypeUShort, true
	case "int", "int32":
		return TypeInt, true
	case "uint", "uint32":
		return TypeUInt, true
	case "float", "float32":
		return TypeFloat, true
	case "double", "float64":
		return TypeDouble, true
	}
	return TypeNone, false
}

// Property is one column of an element. List properties carry a per-row
// count of CountType followed by that many values of Type; scalar
// properties have CountType == TypeNone.
type Property struct {
	Name      string
	Type      DataType
	CountType DataType
}

// IsList reports whether the property is a variable-length list.
func (p *Property) IsList() bool { return p.CountType != TypeNone }

// Element is the schema of one element block: its name, row count, and
// properties in declaration order.
type Element struct {
	Name       string
	Count      int
	Properties []Property
}

// FindProperty returns the position of the named property.
func (e *Element) FindProperty(name string) (int, bool) {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// findNamed resolves a group of property names all-or-nothing, requiring
// each to be a scalar property.
func (e *Element) findNamed(names ...string) ([]int, bool) {
	idxs := make([]int, len(names))
	for i, name := range names {
		pos, ok := e.FindProperty(name)
		if !ok || e.Properties[pos].IsList() {
			return nil, false
		}
		idxs[i] = pos
	}
	return idxs, true
}

// FindPos returns the positions of the x, y, z properties.
func (e *Element) FindPos() ([]int, bool) {
	return e.findNamed("x", "y", "z")
}

// FindNormal returns the positions of the nx, ny, nz properties.
func (e *Element) FindNormal() ([]int, bool) {
	return e.findNamed("nx", "ny", "nz")
}

// FindTexCoord returns the positions of the texture coordinate pair,
// trying the common naming variants in order.
func (e *Element) FindTexCoord() ([]int, bool) {
	for _, pair := range [][2]string{{"u", "v"}, {"s", "t"}, {"texture_u", "texture_v"}, {"tu", "tv"}} {
		if idxs, ok := e.findNamed(pair[0], pair[1]); ok {
			return idxs, true
		}
	}
	return nil, false
}

// FindColorRGBA returns the positions of the four color channels, trying
// the common naming variants in order.
func (e *Element) FindColorRGBA() ([]int, bool) {
	for _, quad := range [][4]string{{"r", "g", "b", "a"}, {"red", "green", "blue", "alpha"}} {
		if idxs, ok := e.findNamed(quad[0], quad[1], quad[2], quad[3]); ok {
			return idxs, true
		}
	}
	return nil, false
}

// FindIndices returns the position of the face index list, accepting the
// vertex_indices and vertex_index spellings. Only list properties qualify.
func (e *Element) FindIndices() (int, bool) {
	for _, name := range []string{"vertex_indices", "vertex_index"} {
		if pos, ok := e.FindProperty(name); ok && e.Properties[pos].IsList() {
			return pos, true
		}
	}
	return 0, false
}

// fixedRowSize returns the byte size of one binary row when the element
// has no list properties.
func (e *Element) fixedRowSize() (int, bool) {
	size := 0
	for i := range e.Properties {
		if e.Properties[i].IsList() {
			return 0, false
		}
		size += e.Properties[i].Type.Size()
	}
	return size, true
}
