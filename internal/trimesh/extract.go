package trimesh

import (
	"errors"
	"fmt"

	"plybench/internal/ply"
)

// Distinct failure kinds. Callers that only care about pass/fail can
// branch on err != nil; tests pick them apart with errors.Is.
var (
	// ErrMissingElement: the file ran out of elements before both a
	// vertex and a face (or tristrips) element were found.
	ErrMissingElement = errors.New("vertex or face element missing")
	// ErrBadIndex: an index named a vertex outside the position buffer.
	ErrBadIndex = errors.New("index out of range")
	// ErrFacesBeforeVerts: polygon faces needing triangulation appeared
	// before any vertex positions were available to triangulate with.
	ErrFacesBeforeVerts = errors.New("face data needing triangulation precedes vertex data")
)

const stripElement = "tristrips"

// Extract opens the named PLY file and builds a triangle mesh from it.
//
// assumeTriangles is a hint that every face row already holds exactly 3
// indices, allowing a cheaper fixed-width extraction. The hint is
// verified against the file: when no face element exists or some row
// has a different length, extraction silently falls back to the general
// path instead of failing.
//
// Extraction succeeds only if a vertex element with positions and a
// face or tristrips element were both found and every index survives
// validation; no partial mesh is ever returned.
func Extract(path string, assumeTriangles bool) (*TriMesh, error) {
	r, err := ply.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// Fast-path precheck against the header. Demote, never fail: a file
	// without a face element may still carry tristrips.
	faceIdx := 0
	if assumeTriangles {
		faceElem := r.FindElement(ply.FaceElement)
		if faceElem == nil {
			assumeTriangles = false
		} else if idx, ok := faceElem.FindIndices(); ok {
			faceIdx = idx
		} else {
			assumeTriangles = false
		}
	}

	mesh := &TriMesh{Topology: TopologySoup}
	gotVerts, gotFaces := false, false

scan:
	for r.HasElement() && (!gotVerts || !gotFaces) {
		switch {
		case r.ElementIs(ply.VertexElement):
			if err := r.LoadElement(); err != nil {
				return nil, err
			}
			elem := r.Element()
			pos, ok := elem.FindPos()
			if !ok {
				break scan
			}
			verts := r.NumRows()
			mesh.Positions = make([]float32, verts*3)
			ply.ExtractProperties(r, pos, mesh.Positions)
			if idxs, ok := elem.FindNormal(); ok {
				mesh.Normals = make([]float32, verts*3)
				ply.ExtractProperties(r, idxs, mesh.Normals)
			}
			if idxs, ok := elem.FindTexCoord(); ok {
				mesh.UVs = make([]float32, verts*2)
				ply.ExtractProperties(r, idxs, mesh.UVs)
			}
			if idxs, ok := elem.FindColorRGBA(); ok {
				mesh.Colors = make([]uint8, verts*4)
				ply.ExtractProperties(r, idxs, mesh.Colors)
			}
			gotVerts = true

		case !gotFaces && r.ElementIs(ply.FaceElement):
			if err := r.LoadElement(); err != nil {
				return nil, err
			}
			if assumeTriangles && r.ConvertListToFixedSize(faceIdx, 3) {
				mesh.Indices = make([]int32, r.NumRows()*3)
				ply.ExtractProperties(r, []int{faceIdx}, mesh.Indices)
				gotFaces = true
				break
			}
			idx, ok := r.Element().FindIndices()
			if !ok {
				break scan
			}
			if r.RequiresTriangulation(idx) {
				if !gotVerts {
					return nil, fmt.Errorf("trimesh: %s: %w", path, ErrFacesBeforeVerts)
				}
				mesh.Indices = make([]int32, r.NumTriangles(idx)*3)
				ply.ExtractTriangles(r, idx, mesh.Positions, mesh.Indices)
			} else {
				mesh.Indices = make([]int32, r.NumRows()*3)
				ply.ExtractListProperty(r, idx, mesh.Indices)
			}
			gotFaces = true

		case !gotFaces && r.ElementIs(stripElement):
			if err := r.LoadElement(); err != nil {
				return nil, err
			}
			idx, ok := r.Element().FindProperty("vertex_indices")
			if !ok {
				return nil, fmt.Errorf("trimesh: %s: %s element has no vertex_indices property", path, stripElement)
			}
			mesh.Indices = make([]int32, r.SumOfListCounts(idx))
			ply.ExtractListProperty(r, idx, mesh.Indices)
			mesh.Topology = TopologyStrip
			term := int32(-1)
			mesh.Terminator = &term
			gotFaces = true
		}
		if err := r.NextElement(); err != nil {
			return nil, err
		}
	}

	if !gotVerts || !gotFaces {
		return nil, fmt.Errorf("trimesh: %s: %w", path, ErrMissingElement)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}
