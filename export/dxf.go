package export

import (
	"github.com/deadsy/meshadapt/mesh"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
)

// WriteDXF writes a 2D mesh as DXF LINE entities, one per triangle
// edge (three per triangle). 3D meshes are flattened to their boundary faces as 3DFACE
// entities, same surface extraction used by WriteThreeMF.
func WriteDXF(m *mesh.Mesh, path string) error {
	d := dxf.NewDrawing()
	d.AddLayer("MESH", dxf.DefaultColor, dxf.DefaultLineType, true)

	switch m.Dim() {
	case 2:
		if err := writeDXFTriangles(d, m); err != nil {
			return err
		}
	case 3:
		if err := writeDXFSurface(d, m); err != nil {
			return err
		}
	default:
		return mesh.Fatalf("export.WriteDXF", "unsupported mesh dim %d", m.Dim())
	}

	return d.SaveAs(path)
}

func writeDXFTriangles(d *drawing.Drawing, m *mesh.Mesh) error {
	coords := m.Coords()
	verts := m.VertsOf(mesh.TRI)
	n := m.Nents(mesh.TRI)
	for i := 0; i < n; i++ {
		a, b, c := verts[i*3], verts[i*3+1], verts[i*3+2]
		pts := [3]int32{a, b, c}
		for e := 0; e < 3; e++ {
			p0 := pts[e]
			p1 := pts[(e+1)%3]
			d.Line(coords[p0*2], coords[p0*2+1], 0, coords[p1*2], coords[p1*2+1], 0)
		}
	}
	return nil
}

func writeDXFSurface(d *drawing.Drawing, m *mesh.Mesh) error {
	tris, err := surfaceTriangles(m)
	if err != nil {
		return err
	}
	coords := m.Coords()
	for _, t := range tris {
		a, b, c := t[0], t[1], t[2]
		d.ThreeDFace([][]float64{
			{coords[a*3], coords[a*3+1], coords[a*3+2]},
			{coords[b*3], coords[b*3+1], coords[b*3+2]},
			{coords[c*3], coords[c*3+1], coords[c*3+2]},
			{coords[c*3], coords[c*3+1], coords[c*3+2]},
		})
	}
	return nil
}
