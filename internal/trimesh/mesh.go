// Package trimesh builds a validated triangle mesh from a PLY file. One
// call to Extract produces one TriMesh; the mesh owns its buffers and is
// never shared between extractions.
package trimesh

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Topology tells how the index buffer encodes triangles.
type Topology uint8

const (
	// TopologySoup: every 3 consecutive indices form an independent triangle.
	TopologySoup Topology = iota
	// TopologyStrip: index i forms a triangle with indices i-1 and i-2.
	TopologyStrip
	// TopologyFan: index i forms a triangle with index i-1 and the first
	// index of the current fan.
	TopologyFan
)

func (t Topology) String() string {
	switch t {
	case TopologySoup:
		return "soup"
	case TopologyStrip:
		return "strip"
	case TopologyFan:
		return "fan"
	}
	return fmt.Sprintf("Topology(%d)", uint8(t))
}

// TriMesh is the extraction result. Positions and Indices are always set
// on a valid mesh; Normals, UVs and Colors are nil when the file carries
// no such attribute. For strip and fan topologies an optional Terminator
// value marks where one strip/fan ends and the next begins; it is nil
// for soup meshes and for files packed without a sentinel.
type TriMesh struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // nil, or 3 per vertex
	UVs       []float32 // nil, or 2 per vertex
	Colors    []uint8   // nil, or 4 per vertex (RGBA)

	Indices    []int32
	Topology   Topology
	Terminator *int32
}

// VertexCount returns the number of vertices held in Positions.
func (m *TriMesh) VertexCount() int {
	return len(m.Positions) / 3
}

// terminatorActive reports whether index values equal to the terminator
// must be read as strip/fan boundaries. A terminator that collides with
// a valid vertex index is ignored, same as having none.
func (m *TriMesh) terminatorActive() bool {
	if m.Topology == TopologySoup || m.Terminator == nil {
		return false
	}
	t := *m.Terminator
	return t < 0 || int(t) >= m.VertexCount()
}

// Validate checks every mesh invariant: attribute buffers fully sized,
// soup index count divisible by 3, and every index naming a real vertex
// unless it is an active terminator.
func (m *TriMesh) Validate() error {
	verts := m.VertexCount()
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("trimesh: position buffer holds %d values, not a multiple of 3", len(m.Positions))
	}
	if m.Normals != nil && len(m.Normals) != verts*3 {
		return fmt.Errorf("trimesh: normal buffer holds %d values, want %d", len(m.Normals), verts*3)
	}
	if m.UVs != nil && len(m.UVs) != verts*2 {
		return fmt.Errorf("trimesh: uv buffer holds %d values, want %d", len(m.UVs), verts*2)
	}
	if m.Colors != nil && len(m.Colors) != verts*4 {
		return fmt.Errorf("trimesh: color buffer holds %d values, want %d", len(m.Colors), verts*4)
	}
	if m.Topology == TopologySoup && len(m.Indices)%3 != 0 {
		return fmt.Errorf("trimesh: soup index count %d is not a multiple of 3", len(m.Indices))
	}
	checkTerm := m.terminatorActive()
	for i, idx := range m.Indices {
		if checkTerm && idx == *m.Terminator {
			continue
		}
		if idx < 0 || int(idx) >= verts {
			return fmt.Errorf("trimesh: index %d at position %d outside [0, %d): %w", idx, i, verts, ErrBadIndex)
		}
	}
	return nil
}

// TriangleCount returns the number of triangles the index buffer
// describes. Strips and fans yield max(run-2, 0) triangles per
// terminator-delimited run.
func (m *TriMesh) TriangleCount() int {
	if m.Topology == TopologySoup {
		return len(m.Indices) / 3
	}
	splitRuns := m.terminatorActive()
	total, run := 0, 0
	for _, idx := range m.Indices {
		if splitRuns && idx == *m.Terminator {
			if run > 2 {
				total += run - 2
			}
			run = 0
			continue
		}
		run++
	}
	if run > 2 {
		total += run - 2
	}
	return total
}

// Bounds returns the axis-aligned bounding box of the positions. A mesh
// with no vertices reports a zero box.
func (m *TriMesh) Bounds() (min, max [3]float32) {
	if len(m.Positions) < 3 {
		return
	}
	copy(min[:], m.Positions[:3])
	copy(max[:], m.Positions[:3])
	for i := 3; i+2 < len(m.Positions); i += 3 {
		for k := 0; k < 3; k++ {
			min[k] = math32.Min(min[k], m.Positions[i+k])
			max[k] = math32.Max(max[k], m.Positions[i+k])
		}
	}
	return
}
