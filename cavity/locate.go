package cavity

import (
	"github.com/dhconnelly/rtreego"

	"github.com/deadsy/meshadapt/la"
	"github.com/deadsy/meshadapt/mesh"
)

// degenerateEps is the half-width given to a point's bounding box so
// rtreego (which requires positive extent on every axis) accepts it.
const degenerateEps = 1e-9

// vertexEntry adapts a mesh vertex to rtreego.Spatial.
type vertexEntry struct {
	id    int32
	point rtreego.Point
}

func (v *vertexEntry) Bounds() *rtreego.Rect {
	lengths := make([]float64, len(v.point))
	for i := range lengths {
		lengths[i] = 2 * degenerateEps
	}
	origin := make(rtreego.Point, len(v.point))
	for i, c := range v.point {
		origin[i] = c - degenerateEps
	}
	r, err := rtreego.NewRect(origin, lengths)
	if err != nil {
		panic(err)
	}
	return r
}

// VertexLocator answers nearest-vertex queries over a mesh's current
// coordinates, for callers probing an adapted mesh at physical points
// (field sampling, picking a seed vertex for a cavity walk). A fixed
// voxel grid would need one cell size for the whole mesh; an R-tree
// stays balanced however anisotropically the vertex density varies.
type VertexLocator struct {
	tree *rtreego.Rtree
	dim  int
}

// NewVertexLocator indexes every vertex of m by its current coordinates.
func NewVertexLocator(m *mesh.Mesh) *VertexLocator {
	dim := m.Dim()
	tree := rtreego.NewTree(dim, 25, 50)
	coords := m.Coords()
	n := m.Nents(mesh.VERT)
	for v := 0; v < n; v++ {
		p := make(rtreego.Point, dim)
		for k := 0; k < dim; k++ {
			p[k] = coords[v*dim+k]
		}
		tree.Insert(&vertexEntry{id: int32(v), point: p})
	}
	return &VertexLocator{tree: tree, dim: dim}
}

// Nearest returns the id of the vertex closest to p, excluding exclude
// itself when it appears among the candidates.
func (l *VertexLocator) Nearest(p la.Vec3, exclude int32) (int32, bool) {
	q := make(rtreego.Point, l.dim)
	q[0], q[1] = p[0], p[1]
	if l.dim == 3 {
		q[2] = p[2]
	}
	results := l.tree.NearestNeighbors(4, q)
	for _, r := range results {
		ve, ok := r.(*vertexEntry)
		if ok && ve.id != exclude {
			return ve.id, true
		}
	}
	return 0, false
}

// Nearest2 is Nearest specialized for 2D coordinates.
func (l *VertexLocator) Nearest2(p la.Vec2, exclude int32) (int32, bool) {
	return l.Nearest(la.Vec3{p[0], p[1], 0}, exclude)
}
