package ply

import "golang.org/x/exp/constraints"

// Value covers the Go numeric types extraction can target. Values convert
// through float64, which holds every PLY scalar exactly.
type Value interface {
	constraints.Integer | constraints.Float
}

func (r *Reader) columnFor(propIdx int) *column {
	if r.loaded == nil || propIdx < 0 || propIdx >= len(r.loaded.columns) {
		return nil
	}
	return &r.loaded.columns[propIdx]
}

// ExtractProperties copies the given columns of the loaded element into
// dst row by row, interleaved in the order of propIdxs. List columns
// qualify only after ConvertListToFixedSize and contribute their fixed
// width per row. It reports false if the element is not loaded, a column
// is missing or still variable length, or dst is too short.
func ExtractProperties[T Value](r *Reader, propIdxs []int, dst []T) bool {
	data := r.loaded
	if data == nil {
		return false
	}
	width := 0
	for _, pi := range propIdxs {
		if pi < 0 || pi >= len(data.columns) {
			return false
		}
		c := &data.columns[pi]
		switch {
		case !c.isList():
			width++
		case c.fixed > 0:
			width += c.fixed
		default:
			return false
		}
	}
	if len(dst) < data.rows*width {
		return false
	}
	k := 0
	for row := 0; row < data.rows; row++ {
		for _, pi := range propIdxs {
			c := &data.columns[pi]
			if !c.isList() {
				dst[k] = T(c.vals[row])
				k++
				continue
			}
			base := c.offsets[row]
			for j := 0; j < c.fixed; j++ {
				dst[k] = T(c.vals[base+j])
				k++
			}
		}
	}
	return true
}

// ExtractListProperty flattens one list column into dst in row order.
// Size dst with SumOfListCounts.
func ExtractListProperty[T Value](r *Reader, propIdx int, dst []T) bool {
	c := r.columnFor(propIdx)
	if c == nil || !c.isList() || len(dst) < len(c.vals) {
		return false
	}
	for i, v := range c.vals {
		dst[i] = T(v)
	}
	return true
}

// ExtractTriangles decomposes the loaded list column into a triangle
// soup, three indices per triangle. Each polygon fans out from its first
// vertex, so a quad 0 1 2 3 yields 0 1 2 and 0 2 3; rows shorter than
// three contribute nothing. Size dst with 3*NumTriangles. The positions
// argument suits extractors that split polygons by geometry; the fan
// reads only the indices.
func ExtractTriangles[T Value](r *Reader, propIdx int, positions []float32, dst []T) bool {
	c := r.columnFor(propIdx)
	if c == nil || !c.isList() {
		return false
	}
	need := 0
	for _, n := range c.counts {
		if n > 2 {
			need += 3 * (int(n) - 2)
		}
	}
	if len(dst) < need {
		return false
	}
	k := 0
	for row, n := range c.counts {
		base := c.offsets[row]
		for i := 1; i+1 < int(n); i++ {
			dst[k] = T(c.vals[base])
			dst[k+1] = T(c.vals[base+i])
			dst[k+2] = T(c.vals[base+i+1])
			k += 3
		}
	}
	return true
}

// RequiresTriangulation reports whether any row of the list column holds
// a count other than 3.
func (r *Reader) RequiresTriangulation(propIdx int) bool {
	c := r.columnFor(propIdx)
	if c == nil || !c.isList() {
		return false
	}
	for _, n := range c.counts {
		if n != 3 {
			return true
		}
	}
	return false
}

// NumTriangles returns how many triangles a fan decomposition of the
// list column produces: max(count-2, 0) per row.
func (r *Reader) NumTriangles(propIdx int) int {
	c := r.columnFor(propIdx)
	if c == nil || !c.isList() {
		return 0
	}
	total := 0
	for _, n := range c.counts {
		if n > 2 {
			total += int(n) - 2
		}
	}
	return total
}

// SumOfListCounts returns the total value count across every row of the
// list column.
func (r *Reader) SumOfListCounts(propIdx int) int {
	c := r.columnFor(propIdx)
	if c == nil || !c.isList() {
		return 0
	}
	return len(c.vals)
}

// ConvertListToFixedSize records that every row of the list column holds
// exactly width values, after which ExtractProperties accepts the column.
// It reports false and leaves the column variable if any row disagrees.
func (r *Reader) ConvertListToFixedSize(propIdx, width int) bool {
	c := r.columnFor(propIdx)
	if c == nil || !c.isList() || width <= 0 {
		return false
	}
	for _, n := range c.counts {
		if int(n) != width {
			return false
		}
	}
	c.fixed = width
	return true
}
