// plyinspect dumps the header and mesh statistics of PLY files: the
// declared elements and properties, then the extracted geometry counts,
// topology and bounding box.
package main

import (
	"fmt"
	"os"

	"plybench/internal/ply"
	"plybench/internal/trimesh"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s file.ply [file.ply ...]\n", os.Args[0])
		os.Exit(2)
	}
	failed := 0
	for _, arg := range os.Args[1:] {
		if err := inspect(arg); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func inspect(path string) error {
	r, err := ply.Open(path)
	if err != nil {
		return err
	}
	fmt.Printf("\n=== %s (%s %s) ===\n", path, r.Format(), r.Version())
	for _, c := range r.Comments() {
		fmt.Printf("comment %s\n", c)
	}
	for _, e := range r.Elements() {
		fmt.Printf("element %s: %d rows\n", e.Name, e.Count)
		for _, p := range e.Properties {
			if p.IsList() {
				fmt.Printf("  property list %s %s %s\n", p.CountType, p.Type, p.Name)
			} else {
				fmt.Printf("  property %s %s\n", p.Type, p.Name)
			}
		}
	}
	r.Close()

	mesh, err := trimesh.Extract(path, false)
	if err != nil {
		return err
	}
	fmt.Printf("verts=%d tris=%d topology=%s", mesh.VertexCount(), mesh.TriangleCount(), mesh.Topology)
	if mesh.Normals != nil {
		fmt.Printf(" normals")
	}
	if mesh.UVs != nil {
		fmt.Printf(" uvs")
	}
	if mesh.Colors != nil {
		fmt.Printf(" colors")
	}
	fmt.Println()
	min, max := mesh.Bounds()
	fmt.Printf("bounds min=(%g %g %g) max=(%g %g %g)\n", min[0], min[1], min[2], max[0], max[1], max[2])
	return nil
}
