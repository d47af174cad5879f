// Package ply reads PLY polygon files, ASCII or binary, and hands their
// element data out through typed extraction calls. The header describes
// every element up front; the reader then visits elements in file order,
// decoding the ones a caller loads and stepping over the rest.
package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Reader decodes one PLY file. Navigation is strictly forward: the
// current element must be loaded or skipped before the next one is
// reachable.
type Reader struct {
	f        *os.File
	br       *bufio.Reader
	words    *bufio.Scanner // ASCII body tokens, created on first use
	fileSize int64

	format   Format
	version  string
	comments []string
	elements []*Element

	cur      int
	loaded   *elementData // decoded rows of the current element
	consumed bool         // current element's bytes taken from the stream
}

// Open parses the header of the named PLY file and positions the reader
// at its first element. The caller must Close the reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ply: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ply: stat %s: %w", path, err)
	}
	r := &Reader{f: f, br: bufio.NewReaderSize(f, 64*1024), fileSize: info.Size()}
	if err := r.parseHeader(); err != nil {
		f.Close()
		return nil, fmt.Errorf("ply: parse %s: %w", path, err)
	}
	return r, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Format reports the body encoding declared in the header.
func (r *Reader) Format() Format { return r.format }

// Version reports the version string from the format line.
func (r *Reader) Version() string { return r.version }

// Comments returns the comment and obj_info lines in header order.
func (r *Reader) Comments() []string { return r.comments }

// Elements returns every element schema in file order.
func (r *Reader) Elements() []*Element { return r.elements }

// HasElement reports whether an element remains to visit.
func (r *Reader) HasElement() bool {
	return r.cur < len(r.elements)
}

// Element returns the current element's schema, or nil past the last one.
func (r *Reader) Element() *Element {
	if !r.HasElement() {
		return nil
	}
	return r.elements[r.cur]
}

// ElementIs reports whether the current element has the given name.
func (r *Reader) ElementIs(name string) bool {
	return r.HasElement() && r.elements[r.cur].Name == name
}

// FindElement returns the first element with the given name anywhere in
// the file, or nil if there is none.
func (r *Reader) FindElement(name string) *Element {
	for _, e := range r.elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// NumRows returns the row count of the current element.
func (r *Reader) NumRows() int {
	if !r.HasElement() {
		return 0
	}
	return r.elements[r.cur].Count
}

// LoadElement decodes every row of the current element into memory.
// Loading an already loaded element is a no-op.
func (r *Reader) LoadElement() error {
	if !r.HasElement() {
		return fmt.Errorf("ply: no element to load")
	}
	if r.loaded != nil {
		return nil
	}
	elem := r.elements[r.cur]
	var data *elementData
	var err error
	if r.format == FormatASCII {
		data, err = r.loadASCII(elem)
	} else {
		data, err = r.loadBinary(elem)
	}
	if err != nil {
		return fmt.Errorf("ply: load element %s: %w", elem.Name, err)
	}
	r.loaded = data
	r.consumed = true
	return nil
}

// NextElement advances to the next element, stepping over the current
// element's rows if they were never loaded.
func (r *Reader) NextElement() error {
	if !r.HasElement() {
		return nil
	}
	if !r.consumed {
		if err := r.skipElement(r.elements[r.cur]); err != nil {
			return fmt.Errorf("ply: skip element %s: %w", r.elements[r.cur].Name, err)
		}
	}
	r.cur++
	r.loaded = nil
	r.consumed = false
	return nil
}

// headerLine returns the next header line, trimmed of surrounding
// whitespace including any carriage return.
func (r *Reader) headerLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *Reader) parseHeader() error {
	magic, err := r.headerLine()
	if err != nil {
		return err
	}
	if magic != "ply" {
		return fmt.Errorf("not a PLY file (leads with %q)", magic)
	}

	sawFormat := false
	for {
		line, err := r.headerLine()
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "end_header":
			if !sawFormat {
				return fmt.Errorf("header has no format line")
			}
			return nil
		case "format":
			if len(fields) != 3 {
				return fmt.Errorf("malformed format line %q", line)
			}
			switch fields[1] {
			case "ascii":
				r.format = FormatASCII
			case "binary_little_endian":
				r.format = FormatBinaryLittleEndian
			case "binary_big_endian":
				r.format = FormatBinaryBigEndian
			default:
				return fmt.Errorf("unknown format %q", fields[1])
			}
			r.version = fields[2]
			sawFormat = true
		case "comment", "obj_info":
			r.comments = append(r.comments, strings.TrimSpace(strings.TrimPrefix(line, fields[0])))
		case "element":
			if len(fields) != 3 {
				return fmt.Errorf("malformed element line %q", line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return fmt.Errorf("bad element count in %q", line)
			}
			r.elements = append(r.elements, &Element{Name: fields[1], Count: count})
		case "property":
			if len(r.elements) == 0 {
				return fmt.Errorf("property before any element: %q", line)
			}
			prop, err := parseProperty(fields, line)
			if err != nil {
				return err
			}
			elem := r.elements[len(r.elements)-1]
			elem.Properties = append(elem.Properties, prop)
		default:
			return fmt.Errorf("unknown header keyword %q", fields[0])
		}
	}
}

func parseProperty(fields []string, line string) (Property, error) {
	if len(fields) >= 2 && fields[1] == "list" {
		if len(fields) != 5 {
			return Property{}, fmt.Errorf("malformed list property %q", line)
		}
		countType, ok := parseDataType(fields[2])
		if !ok || !countType.integer() {
			return Property{}, fmt.Errorf("bad list count type in %q", line)
		}
		valueType, ok := parseDataType(fields[3])
		if !ok {
			return Property{}, fmt.Errorf("bad list value type in %q", line)
		}
		return Property{Name: fields[4], Type: valueType, CountType: countType}, nil
	}
	if len(fields) != 3 {
		return Property{}, fmt.Errorf("malformed property %q", line)
	}
	t, ok := parseDataType(fields[1])
	if !ok {
		return Property{}, fmt.Errorf("unknown property type in %q", line)
	}
	return Property{Name: fields[2], Type: t}, nil
}

// column holds one property's decoded values for every row of a loaded
// element. Scalar columns keep one value per row. List columns keep all
// values back to back, with counts and prefix-sum offsets per row.
// Every PLY scalar fits a float64 without loss.
type column struct {
	vals    []float64
	counts  []uint32 // nil for scalar columns
	offsets []int    // rows+1 prefix sums into vals
	fixed   int      // uniform width set by ConvertListToFixedSize
}

func (c *column) isList() bool { return c.counts != nil }

type elementData struct {
	rows    int
	columns []column
}

func newElementData(elem *Element) *elementData {
	// Capacity is a hint only; a bogus row count must fail on read, not on make.
	hint := elem.Count
	if hint > 1<<20 {
		hint = 1 << 20
	}
	data := &elementData{rows: elem.Count, columns: make([]column, len(elem.Properties))}
	for i := range elem.Properties {
		c := &data.columns[i]
		if elem.Properties[i].IsList() {
			c.counts = make([]uint32, 0, hint)
			c.vals = make([]float64, 0, hint*4)
		} else {
			c.vals = make([]float64, 0, hint)
		}
	}
	return data
}

func (d *elementData) buildOffsets() {
	for i := range d.columns {
		c := &d.columns[i]
		if c.counts == nil {
			continue
		}
		c.offsets = make([]int, len(c.counts)+1)
		for row, n := range c.counts {
			c.offsets[row+1] = c.offsets[row] + int(n)
		}
	}
}

func (r *Reader) nextToken() (string, error) {
	if r.words == nil {
		r.words = bufio.NewScanner(r.br)
		r.words.Split(bufio.ScanWords)
	}
	if !r.words.Scan() {
		if err := r.words.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return r.words.Text(), nil
}

func (r *Reader) asciiValue() (float64, error) {
	tok, err := r.nextToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q", tok)
	}
	return v, nil
}

func (r *Reader) asciiCount() (int, error) {
	tok, err := r.nextToken()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad list count %q", tok)
	}
	return n, nil
}

func (r *Reader) loadASCII(elem *Element) (*elementData, error) {
	data := newElementData(elem)
	for row := 0; row < elem.Count; row++ {
		for i := range elem.Properties {
			p := &elem.Properties[i]
			c := &data.columns[i]
			if !p.IsList() {
				v, err := r.asciiValue()
				if err != nil {
					return nil, err
				}
				c.vals = append(c.vals, v)
				continue
			}
			n, err := r.asciiCount()
			if err != nil {
				return nil, err
			}
			c.counts = append(c.counts, uint32(n))
			for k := 0; k < n; k++ {
				v, err := r.asciiValue()
				if err != nil {
					return nil, err
				}
				c.vals = append(c.vals, v)
			}
		}
	}
	data.buildOffsets()
	return data, nil
}

func (r *Reader) loadBinary(elem *Element) (*elementData, error) {
	bo := r.byteOrder()
	data := newElementData(elem)

	if rowSize, ok := elem.fixedRowSize(); ok {
		need := int64(rowSize) * int64(elem.Count)
		if need > r.fileSize {
			return nil, fmt.Errorf("element %s needs %d bytes, file has %d", elem.Name, need, r.fileSize)
		}
		body := make([]byte, need)
		if _, err := io.ReadFull(r.br, body); err != nil {
			return nil, err
		}
		for row := 0; row < elem.Count; row++ {
			off := row * rowSize
			for i := range elem.Properties {
				t := elem.Properties[i].Type
				data.columns[i].vals = append(data.columns[i].vals, decodeValue(body[off:], t, bo))
				off += t.Size()
			}
		}
		data.buildOffsets()
		return data, nil
	}

	var scratch [8]byte
	var listBuf []byte
	for row := 0; row < elem.Count; row++ {
		for i := range elem.Properties {
			p := &elem.Properties[i]
			c := &data.columns[i]
			if !p.IsList() {
				if _, err := io.ReadFull(r.br, scratch[:p.Type.Size()]); err != nil {
					return nil, err
				}
				c.vals = append(c.vals, decodeValue(scratch[:], p.Type, bo))
				continue
			}
			if _, err := io.ReadFull(r.br, scratch[:p.CountType.Size()]); err != nil {
				return nil, err
			}
			n := int(decodeValue(scratch[:], p.CountType, bo))
			if n < 0 {
				return nil, fmt.Errorf("negative list count %d in row %d", n, row)
			}
			sz := p.Type.Size()
			if int64(n)*int64(sz) > r.fileSize {
				return nil, fmt.Errorf("list of %d values in row %d exceeds file size", n, row)
			}
			if cap(listBuf) < n*sz {
				listBuf = make([]byte, n*sz)
			}
			buf := listBuf[:n*sz]
			if _, err := io.ReadFull(r.br, buf); err != nil {
				return nil, err
			}
			c.counts = append(c.counts, uint32(n))
			for k := 0; k < n; k++ {
				c.vals = append(c.vals, decodeValue(buf[k*sz:], p.Type, bo))
			}
		}
	}
	data.buildOffsets()
	return data, nil
}

func (r *Reader) skipElement(elem *Element) error {
	if r.format == FormatASCII {
		return r.skipASCII(elem)
	}
	return r.skipBinary(elem)
}

func (r *Reader) skipASCII(elem *Element) error {
	for row := 0; row < elem.Count; row++ {
		for i := range elem.Properties {
			if !elem.Properties[i].IsList() {
				if _, err := r.nextToken(); err != nil {
					return err
				}
				continue
			}
			n, err := r.asciiCount()
			if err != nil {
				return err
			}
			for k := 0; k < n; k++ {
				if _, err := r.nextToken(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Reader) skipBinary(elem *Element) error {
	bo := r.byteOrder()
	if rowSize, ok := elem.fixedRowSize(); ok {
		_, err := r.br.Discard(rowSize * elem.Count)
		return err
	}
	var scratch [8]byte
	for row := 0; row < elem.Count; row++ {
		for i := range elem.Properties {
			p := &elem.Properties[i]
			if !p.IsList() {
				if _, err := r.br.Discard(p.Type.Size()); err != nil {
					return err
				}
				continue
			}
			if _, err := io.ReadFull(r.br, scratch[:p.CountType.Size()]); err != nil {
				return err
			}
			n := int(decodeValue(scratch[:], p.CountType, bo))
			if n < 0 {
				return fmt.Errorf("negative list count %d in row %d", n, row)
			}
			if _, err := r.br.Discard(n * p.Type.Size()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Reader) byteOrder() binary.ByteOrder {
	if r.format == FormatBinaryBigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func decodeValue(b []byte, t DataType, bo binary.ByteOrder) float64 {
	switch t {
	case TypeChar:
		return float64(int8(b[0]))
	case TypeUChar:
		return float64(b[0])
	case TypeShort:
		return float64(int16(bo.Uint16(b)))
	case TypeUShort:
		return float64(bo.Uint16(b))
	case TypeInt:
		return float64(int32(bo.Uint32(b)))
	case TypeUInt:
		return float64(bo.Uint32(b))
	case TypeFloat:
		return float64(math.Float32frombits(bo.Uint32(b)))
	case TypeDouble:
		return math.Float64frombits(bo.Uint64(b))
	}
	return 0
}
