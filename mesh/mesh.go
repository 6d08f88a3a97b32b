// Package mesh implements the entity/adjacency/tag data model the
// adaptation operators work on: dense integer ids per entity dimension,
// CSR upward adjacency, downward adjacency as fixed-width vertex
// arrays, and tags carrying per-entity data with a declared transfer
// policy. The mesh owns all of its arrays; adjacency is immutable once
// derived and rebuilt rather than patched when connectivity changes.
package mesh

import "sync"

// Entity dimension constants.
const (
	VERT = 0
	EDGE = 1
	TRI  = 2
	TET  = 3
)

// Mesh is an immutable-once-published collection of entities, their
// downward adjacency (verts-of-entity), lazily materialized upward
// adjacency, and tags. Arena storage throughout: entities only ever
// reference each other by integer id, never by pointer.
type Mesh struct {
	dim int

	// nents[k] is the entity count at dimension k.
	nents [4]int

	// vertsOf[k] has length nents[k]*(k+1) for k>0; vertsOf[0] is unused
	// (vertices have no downward adjacency of their own).
	vertsOf [4][]int32

	// tags[k] maps a tag name to its storage for entity dimension k.
	tags [4]map[string]*Tag

	adjMu sync.Mutex
	// up[[2]int{low,high}] caches a materialized upward adjacency graph.
	up map[[2]int]*Adj
	// downs[[2]int{high,low}] caches a derived high->low sub-entity relation.
	downs map[[2]int]*Down
}

// New creates an empty mesh of the given topological dimension (2 or
// 3). Use SetVertsOf and AddTag to populate it, or UnitSquare /
// UnitCube in this package for common fixtures.
func New(dim int) *Mesh {
	if dim != 2 && dim != 3 {
		panic(Fatalf("mesh.New", "unsupported dimension %d", dim))
	}
	m := &Mesh{dim: dim}
	for k := 0; k <= dim; k++ {
		m.tags[k] = make(map[string]*Tag)
	}
	m.up = make(map[[2]int]*Adj)
	return m
}

// Dim returns the mesh's topological dimension (2 or 3).
func (m *Mesh) Dim() int { return m.dim }

// Nents returns the number of entities at dimension dim.
func (m *Mesh) Nents(dim int) int { return m.nents[dim] }

// SetNents directly sets the entity count at dimension dim. Used by
// mesh builders before installing tags and adjacency.
func (m *Mesh) SetNents(dim, n int) { m.nents[dim] = n }

// VertsOf returns the flat (k+1)-wide downward adjacency array for
// dimension dim: entity i's vertices are VertsOf(dim)[i*(dim+1) : i*(dim+1)+dim+1].
func (m *Mesh) VertsOf(dim int) []int32 { return m.vertsOf[dim] }

// SetVertsOf installs the downward adjacency array for dim and sets the
// corresponding entity count. len(verts) must be a multiple of dim+1.
func (m *Mesh) SetVertsOf(dim int, verts []int32) {
	width := dim + 1
	if len(verts)%width != 0 {
		panic(Fatalf("mesh.SetVertsOf", "length %d is not a multiple of width %d", len(verts), width))
	}
	m.vertsOf[dim] = verts
	m.nents[dim] = len(verts) / width
	// invalidate any cached adjacency touching this dimension
	m.adjMu.Lock()
	for k := range m.up {
		if k[0] == dim || k[1] == dim {
			delete(m.up, k)
		}
	}
	for k := range m.downs {
		if k[0] == dim || k[1] == dim {
			delete(m.downs, k)
		}
	}
	m.adjMu.Unlock()
}

// EntVerts returns the vertex ids of entity i at dimension dim.
func (m *Mesh) EntVerts(dim int, i int) []int32 {
	width := dim + 1
	return m.vertsOf[dim][i*width : i*width+width]
}

// Coords returns the VERT dimension's "coord" tag data as a flat
// x0,y0,(z0),x1,y1,(z1)... array; it is simply the F64 VERT tag named
// "coord" with ncomps = mesh dimension, kept as an ordinary tag so the
// transfer pipeline handles it uniformly with every other per-vertex
// field.
func (m *Mesh) Coords() []float64 {
	t, ok := m.tags[VERT]["coord"]
	if !ok {
		panic(Fatalf("mesh.Coords", "mesh has no coord tag"))
	}
	return t.F64
}

// SetCoords installs the VERT coord tag; ncomps must equal m.Dim().
// Coordinates carry the LinearInterp policy so a refinement midpoint
// lands exactly at the mean of its edge's endpoints.
func (m *Mesh) SetCoords(coords []float64) {
	err := m.AddTag(VERT, "coord", m.dim, TypeF64, LinearInterp, true, coords)
	if err != nil {
		panic(err)
	}
}

// Clone returns a shallow copy of m's topology and tag set (new maps,
// shared backing arrays) suitable as a starting point for an operator
// that replaces most, but not all, entities at a dimension.
func (m *Mesh) Clone() *Mesh {
	c := New(m.dim)
	c.nents = m.nents
	c.vertsOf = m.vertsOf
	for k := 0; k <= m.dim; k++ {
		for name, tag := range m.tags[k] {
			cp := *tag
			c.tags[k][name] = &cp
		}
	}
	return c
}
