package trimesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plybench/internal/trimesh"
)

func term(v int32) *int32 { return &v }

func flatQuad() *trimesh.TriMesh {
	return &trimesh.TriMesh{
		Positions: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:   []int32{0, 1, 2, 0, 2, 3},
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, flatQuad().Validate())
}

func TestValidateBadIndex(t *testing.T) {
	m := flatQuad()
	m.Indices[4] = 4 // one past the last vertex
	err := m.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, trimesh.ErrBadIndex)

	m.Indices[4] = -1
	assert.ErrorIs(t, m.Validate(), trimesh.ErrBadIndex)
}

func TestValidateSoupIndexCount(t *testing.T) {
	m := flatQuad()
	m.Indices = m.Indices[:5]
	assert.Error(t, m.Validate())
}

func TestValidateAttributeLengths(t *testing.T) {
	m := flatQuad()
	m.Normals = make([]float32, 12)
	m.UVs = make([]float32, 8)
	m.Colors = make([]uint8, 16)
	assert.NoError(t, m.Validate())

	m.Normals = m.Normals[:9]
	assert.Error(t, m.Validate())
	m.Normals = nil
	m.UVs = m.UVs[:7]
	assert.Error(t, m.Validate())
	m.UVs = nil
	m.Colors = append(m.Colors, 0)
	assert.Error(t, m.Validate())
}

func TestValidateStripTerminator(t *testing.T) {
	m := &trimesh.TriMesh{
		Positions:  []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:    []int32{0, 1, 2, 3, -1, 3, 2, 1},
		Topology:   trimesh.TopologyStrip,
		Terminator: term(-1),
	}
	assert.NoError(t, m.Validate())

	// Without the terminator the -1 is just a bad index.
	m.Terminator = nil
	assert.ErrorIs(t, m.Validate(), trimesh.ErrBadIndex)
}

func TestValidateTerminatorCollidingWithVertex(t *testing.T) {
	// A terminator naming a real vertex is ignored; indices equal to it
	// are ordinary references and stay valid.
	m := &trimesh.TriMesh{
		Positions:  []float32{0, 0, 0, 1, 0, 0, 1, 1, 0},
		Indices:    []int32{0, 1, 2},
		Topology:   trimesh.TopologyStrip,
		Terminator: term(1),
	}
	assert.NoError(t, m.Validate())
}

func TestTriangleCountSoup(t *testing.T) {
	assert.Equal(t, 2, flatQuad().TriangleCount())
}

func TestTriangleCountStripRuns(t *testing.T) {
	m := &trimesh.TriMesh{
		Positions:  make([]float32, 6*3),
		Indices:    []int32{0, 1, 2, 3, -1, 2, 3, 4, 5, -1, 0, 1},
		Topology:   trimesh.TopologyStrip,
		Terminator: term(-1),
	}
	// Runs of 4, 4 and 2 indices: 2 + 2 + 0 triangles.
	assert.Equal(t, 4, m.TriangleCount())

	m.Terminator = nil
	m.Indices = []int32{0, 1, 2, 3, 4, 5}
	assert.Equal(t, 4, m.TriangleCount())
}

func TestBounds(t *testing.T) {
	m := &trimesh.TriMesh{Positions: []float32{-1, 2, 0, 3, -4, 5, 0, 0, -2}}
	min, max := m.Bounds()
	assert.Equal(t, [3]float32{-1, -4, -2}, min)
	assert.Equal(t, [3]float32{3, 2, 5}, max)

	empty := &trimesh.TriMesh{}
	min, max = empty.Bounds()
	assert.Equal(t, [3]float32{}, min)
	assert.Equal(t, [3]float32{}, max)
}

func TestTopologyString(t *testing.T) {
	assert.Equal(t, "soup", trimesh.TopologySoup.String())
	assert.Equal(t, "strip", trimesh.TopologyStrip.String())
	assert.Equal(t, "fan", trimesh.TopologyFan.String())
}
