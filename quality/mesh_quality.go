package quality

import (
	"github.com/deadsy/meshadapt/la"
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/metric"
	"github.com/deadsy/meshadapt/parallel"
)

// VertMetric2 reads the packed metric tensor at vertex v.
func VertMetric2(m *mesh.Mesh, v int32) metric.Sym2 {
	t, err := m.GetTag(mesh.VERT, mesh.MetricTagName)
	if err != nil {
		panic(err)
	}
	var c [3]float64
	copy(c[:], t.F64[v*3:v*3+3])
	return metric.Unpack2(c)
}

// VertMetric3 reads the packed metric tensor at vertex v.
func VertMetric3(m *mesh.Mesh, v int32) metric.Sym3 {
	t, err := m.GetTag(mesh.VERT, mesh.MetricTagName)
	if err != nil {
		panic(err)
	}
	var c [6]float64
	copy(c[:], t.F64[v*6:v*6+6])
	return metric.Unpack3(c)
}

// VertCoord2 reads vertex v's coordinates from the mesh's coord tag.
func VertCoord2(m *mesh.Mesh, v int32) la.Vec2 {
	c := m.Coords()
	return la.Vec2{c[v*2], c[v*2+1]}
}

// VertCoord3 reads vertex v's coordinates from the mesh's coord tag.
func VertCoord3(m *mesh.Mesh, v int32) la.Vec3 {
	c := m.Coords()
	return la.Vec3{c[v*3], c[v*3+1], c[v*3+2]}
}

// AverageMetricAt2 averages the metric tensor over an entity's verts.
func AverageMetricAt2(m *mesh.Mesh, verts []int32) metric.Sym2 {
	ms := make([]metric.Sym2, len(verts))
	for i, v := range verts {
		ms[i] = VertMetric2(m, v)
	}
	return metric.Average2(ms)
}

// AverageMetricAt3 averages the metric tensor over an entity's verts.
func AverageMetricAt3(m *mesh.Mesh, verts []int32) metric.Sym3 {
	ms := make([]metric.Sym3, len(verts))
	for i, v := range verts {
		ms[i] = VertMetric3(m, v)
	}
	return metric.Average3(ms)
}

// ElementQualities2 returns the shape quality of every triangle in m.
func ElementQualities2(m *mesh.Mesh) []float64 {
	n := m.Nents(mesh.TRI)
	out := make([]float64, n)
	parallel.For(n, func(i int) {
		verts := m.EntVerts(mesh.TRI, i)
		var p [3]la.Vec2
		for j, v := range verts {
			p[j] = VertCoord2(m, v)
		}
		avg := AverageMetricAt2(m, verts)
		out[i] = Triangle2(p, avg)
	})
	return out
}

// ElementQualities3 returns the shape quality of every tetrahedron in m.
func ElementQualities3(m *mesh.Mesh) []float64 {
	n := m.Nents(mesh.TET)
	out := make([]float64, n)
	parallel.For(n, func(i int) {
		verts := m.EntVerts(mesh.TET, i)
		var p [4]la.Vec3
		for j, v := range verts {
			p[j] = VertCoord3(m, v)
		}
		avg := AverageMetricAt3(m, verts)
		out[i] = Tet3(p, avg)
	})
	return out
}

// ElementQualityTri returns the shape quality of the existing triangle
// tid, by its current connectivity.
func ElementQualityTri(m *mesh.Mesh, tid int32) float64 {
	return ElementQualityTriVerts(m, [3]int32(m.EntVerts(mesh.TRI, int(tid))))
}

// ElementQualityTriVerts returns the shape quality a triangle with the
// given vertex ids would have, without requiring the triangle to exist
// in the mesh yet; used to evaluate swap candidates before committing.
func ElementQualityTriVerts(m *mesh.Mesh, verts [3]int32) float64 {
	var p [3]la.Vec2
	for j, v := range verts {
		p[j] = VertCoord2(m, v)
	}
	avg := AverageMetricAt2(m, verts[:])
	return Triangle2(p, avg)
}

// ElementQualityTet returns the shape quality of the existing
// tetrahedron tid, by its current connectivity.
func ElementQualityTet(m *mesh.Mesh, tid int32) float64 {
	return ElementQualityTetVerts(m, [4]int32(m.EntVerts(mesh.TET, int(tid))))
}

// ElementQualityTetVerts is ElementQualityTriVerts specialized to
// tetrahedra.
func ElementQualityTetVerts(m *mesh.Mesh, verts [4]int32) float64 {
	var p [4]la.Vec3
	for j, v := range verts {
		p[j] = VertCoord3(m, v)
	}
	avg := AverageMetricAt3(m, verts[:])
	return Tet3(p, avg)
}

// ElementQualities dispatches on m.Dim().
func ElementQualities(m *mesh.Mesh) []float64 {
	if m.Dim() == 2 {
		return ElementQualities2(m)
	}
	return ElementQualities3(m)
}

// EdgeLengths returns the metric-length of every edge in m. Requires
// EDGE adjacency (ask_down(TRI or TET, EDGE)) to already
// make sense, so it works for both 2D and 3D meshes identically: edges
// are dimension-independent once derived.
func EdgeLengths(m *mesh.Mesh) []float64 {
	highDim := m.Dim()
	topDim := mesh.TRI
	if highDim == 3 {
		topDim = mesh.TET
	}
	// force edge derivation
	m.AskDown(topDim, mesh.EDGE)
	n := m.Nents(mesh.EDGE)
	out := make([]float64, n)
	ev := m.VertsOf(mesh.EDGE)
	parallel.For(n, func(e int) {
		a, b := ev[e*2], ev[e*2+1]
		if highDim == 2 {
			out[e] = EdgeLength2(VertMetric2(m, a), VertMetric2(m, b), VertCoord2(m, a), VertCoord2(m, b))
		} else {
			out[e] = EdgeLength3(VertMetric3(m, a), VertMetric3(m, b), VertCoord3(m, a), VertCoord3(m, b))
		}
	})
	return out
}

// SliverFloor is the default quality floor below which an element is a
// "sliver".
const SliverFloor = 0.3

// IsSliver reports, for each element id, whether its quality in
// qualities is below floor.
func IsSliver(qualities []float64, floor float64) []bool {
	out := make([]bool, len(qualities))
	for i, q := range qualities {
		out[i] = q < floor
	}
	return out
}

// MarkSliverLayers expands the initial sliver set by nlayers of
// adjacency dilation through shared vertices, producing the swap
// candidate set.
func MarkSliverLayers(m *mesh.Mesh, floor float64, nlayers int) []bool {
	qualities := ElementQualities(m)
	marked := IsSliver(qualities, floor)

	elemDim := mesh.TRI
	if m.Dim() == 3 {
		elemDim = mesh.TET
	}
	vertUp := m.AskUp(mesh.VERT, elemDim)

	for layer := 0; layer < nlayers; layer++ {
		next := append([]bool(nil), marked...)
		for e, isMarked := range marked {
			if !isMarked {
				continue
			}
			for _, v := range m.EntVerts(elemDim, e) {
				for k := vertUp.A2Ab[v]; k < vertUp.A2Ab[v+1]; k++ {
					next[vertUp.Ab2B[k]] = true
				}
			}
		}
		marked = next
	}
	return marked
}
