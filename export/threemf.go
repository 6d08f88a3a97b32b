package export

import (
	"os"

	"github.com/deadsy/meshadapt/mesh"
	"github.com/hpinc/go3mf"
)

// WriteThreeMF writes m's surface as a 3MF mesh object: a 2D mesh is
// written directly (its triangles are already the surface); a 3D mesh
// is reduced to its boundary triangles first, via the TRI-TET upward
// adjacency (a boundary triangle has exactly one incident tet).
// go3mf's OPC container is handled by the encoder.
func WriteThreeMF(m *mesh.Mesh, path string) error {
	tris, err := surfaceTriangles(m)
	if err != nil {
		return err
	}

	model := new(go3mf.Model)
	model.Units = go3mf.UnitMillimeter

	mesh3mf := new(go3mf.Mesh)
	coords := m.Coords()
	d := m.Dim()
	for v := 0; v < m.Nents(mesh.VERT); v++ {
		x := float32(coords[v*d])
		y := float32(coords[v*d+1])
		z := float32(0)
		if d == 3 {
			z = float32(coords[v*d+2])
		}
		mesh3mf.Vertices.Vertex = append(mesh3mf.Vertices.Vertex, go3mf.Point3D{x, y, z})
	}
	for _, t := range tris {
		mesh3mf.Triangles.Triangle = append(mesh3mf.Triangles.Triangle, go3mf.Triangle{
			V1: uint32(t[0]), V2: uint32(t[1]), V3: uint32(t[2]),
		})
	}

	obj := &go3mf.Object{ID: 1, Mesh: mesh3mf}
	model.Resources.Objects = append(model.Resources.Objects, obj)
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: 1})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := go3mf.NewEncoder(f)
	return enc.Encode(model)
}

// surfaceTriangles returns the mesh's surface triangles as vertex-id
// triples. For a 2D mesh this is every TRI; for a 3D mesh it is the
// boundary TRIs of the TET upward adjacency.
func surfaceTriangles(m *mesh.Mesh) ([][3]int32, error) {
	switch m.Dim() {
	case 2:
		verts := m.VertsOf(mesh.TRI)
		n := m.Nents(mesh.TRI)
		out := make([][3]int32, n)
		for i := 0; i < n; i++ {
			out[i] = [3]int32{verts[i*3], verts[i*3+1], verts[i*3+2]}
		}
		return out, nil
	case 3:
		up := m.AskUp(mesh.TRI, mesh.TET)
		verts := m.VertsOf(mesh.TRI)
		nTri := m.Nents(mesh.TRI)
		var out [][3]int32
		for t := 0; t < nTri; t++ {
			degree := up.A2Ab[t+1] - up.A2Ab[t]
			if degree == 1 {
				out = append(out, [3]int32{verts[t*3], verts[t*3+1], verts[t*3+2]})
			}
		}
		return out, nil
	default:
		return nil, mesh.Fatalf("export.surfaceTriangles", "unsupported mesh dim %d", m.Dim())
	}
}
