package quality

import (
	"math"

	"github.com/deadsy/meshadapt/la"
	"github.com/deadsy/meshadapt/mesh"
)

// TriArea returns the (unsigned) physical area of a triangle.
func TriArea(p [3]la.Vec2) float64 {
	return 0.5 * math.Abs(la.Cross2(p[1].Sub(p[0]), p[2].Sub(p[0])))
}

// TetVolume returns the (unsigned) physical volume of a tetrahedron.
func TetVolume(p [4]la.Vec3) float64 {
	return math.Abs(la.Determinant3(la.Mat3{
		p[1].Sub(p[0]),
		p[2].Sub(p[0]),
		p[3].Sub(p[0]),
	})) / 6.0
}

// ElementMeasure returns the physical area (2D) or volume (3D) of the
// element with the given vertex ids, which need not exist in the mesh's
// connectivity yet. The conservative transfer policy weighs donor and
// product contributions by this measure.
func ElementMeasure(m *mesh.Mesh, elemDim int, verts []int32) float64 {
	if elemDim == mesh.TRI {
		var p [3]la.Vec2
		for j, v := range verts {
			p[j] = VertCoord2(m, v)
		}
		return TriArea(p)
	}
	var p [4]la.Vec3
	for j, v := range verts {
		p[j] = VertCoord3(m, v)
	}
	return TetVolume(p)
}

// ElementMeasures returns the measure of every element in m.
func ElementMeasures(m *mesh.Mesh) []float64 {
	elemDim := mesh.TRI
	if m.Dim() == 3 {
		elemDim = mesh.TET
	}
	n := m.Nents(elemDim)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = ElementMeasure(m, elemDim, m.EntVerts(elemDim, i))
	}
	return out
}
