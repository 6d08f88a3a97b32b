package mesh

import "sort"

// Adj is a CSR upward-adjacency graph: for a low-high dimension pair,
// A2Ab are offsets of length nLow+1, Ab2B are the high-entity
// neighbors, and Codes encode, per neighbor, which sub-entity of the
// high entity equals the low entity and the rotation/orientation
// relating the two.
type Adj struct {
	A2Ab  []int32
	Ab2B  []int32
	Codes []int32
}

// Down is the downward sub-entity relation from a high-dimension entity
// to its lowDim sub-entities, one fixed-width row per high entity (e.g.
// a tet's 6 edges or 4 faces), together with the same which_down /
// rotation codes used on the upward side.
type Down struct {
	Width int
	Ents  []int32
	Codes []int32
}

// MakeCode packs a which_down index and a rotation index into one code:
// low 3 bits = which_down, remaining bits = rotation.
func MakeCode(whichDown, rotation int) int32 {
	return int32(whichDown&0x7) | int32(rotation<<3)
}

// CodeWhichDown extracts the which_down field of a code.
func CodeWhichDown(c int32) int { return int(c & 0x7) }

// CodeRotation extracts the rotation field of a code.
func CodeRotation(c int32) int { return int(c >> 3) }

// Canonical simplex templates: sub-entity i is opposite local vertex i.
var edgeOfTri = [3][2]int{{1, 2}, {2, 0}, {0, 1}}
var edgeOfTet = [6][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}}
var triOfTet = [4][3]int{{1, 2, 3}, {0, 3, 2}, {0, 1, 3}, {0, 2, 1}}

// OppositeVertOfTriEdge returns the local vertex of a triangle opposite
// its edge i (the template rule that 2D swap topology construction
// relies on).
func OppositeVertOfTriEdge(edgeIdx int) int { return edgeIdx }

// EdgeOfTriLocal returns the two local vertex indices of a triangle's
// local edge e (0..2), for callers that need to rebuild local
// connectivity around a split or flipped edge.
func EdgeOfTriLocal(e int) [2]int { return edgeOfTri[e] }

// EdgeOfTetLocal returns the two local vertex indices of a
// tetrahedron's local edge e (0..5).
func EdgeOfTetLocal(e int) [2]int { return edgeOfTet[e] }

// TriOfTetLocal returns the three local vertex indices of a
// tetrahedron's local face f (0..3).
func TriOfTetLocal(f int) [3]int { return triOfTet[f] }

func subTemplate(high, low int) [][]int {
	switch {
	case high == TRI && low == EDGE:
		return sliceOf2(edgeOfTri[:])
	case high == TET && low == EDGE:
		return sliceOf2(edgeOfTet[:])
	case high == TET && low == TRI:
		return sliceOf3(triOfTet[:])
	}
	panic(Fatalf("mesh.subTemplate", "no template for high=%d low=%d", high, low))
}

func sliceOf2(a [][2]int) [][]int {
	out := make([][]int, len(a))
	for i, v := range a {
		out[i] = []int{v[0], v[1]}
	}
	return out
}

func sliceOf3(a [][3]int) [][]int {
	out := make([][]int, len(a))
	for i, v := range a {
		out[i] = []int{v[0], v[1], v[2]}
	}
	return out
}

// downKey returns an order-independent string key built from the sorted
// vertex ids, used to deduplicate sub-entities.
func downKey(verts []int32) string {
	sorted := append([]int32(nil), verts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b := make([]byte, 0, len(sorted)*5)
	for _, v := range sorted {
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24), ',')
	}
	return string(b)
}

// rotationOf finds the rotation index of `local` (the vertex ids as
// seen from inside this particular high entity) relative to
// `canonical` (the order recorded the first time this low entity was
// discovered). Width 2: 0 = same order, 1 = reversed. Width 3: 0-2 are
// cyclic rotations of canonical, 3-5 are cyclic rotations of canonical
// reversed.
func rotationOf(canonical, local []int32) int {
	n := len(canonical)
	if n == 2 {
		if local[0] == canonical[0] {
			return 0
		}
		return 1
	}
	for r := 0; r < n; r++ {
		match := true
		for i := 0; i < n; i++ {
			if local[i] != canonical[(i+r)%n] {
				match = false
				break
			}
		}
		if match {
			return r
		}
	}
	rev := make([]int32, n)
	for i, v := range canonical {
		rev[n-1-i] = v
	}
	for r := 0; r < n; r++ {
		match := true
		for i := 0; i < n; i++ {
			if local[i] != rev[(i+r)%n] {
				match = false
				break
			}
		}
		if match {
			return n + r
		}
	}
	panic(Fatalf("mesh.rotationOf", "local entity is not a permutation of canonical"))
}

// ensureLow derives dimension `low`'s entities (deduplicated) from
// dimension `high`'s verts-of array if they are not already present,
// and caches the high->low Down relation used to invert into up
// adjacency. low must be EDGE or TRI; high must be strictly greater.
func (m *Mesh) ensureLow(high, low int) *Down {
	m.adjMu.Lock()
	defer m.adjMu.Unlock()
	if d, ok := m.downCache(high, low); ok {
		return d
	}

	tmpl := subTemplate(high, low)
	width := len(tmpl)
	highVerts := m.vertsOf[high]
	highWidth := high + 1
	nHigh := m.nents[high]

	firstSeen := make(map[string][]int32)
	order := make(map[string]int32)
	var lowVertsFlat []int32
	ents := make([]int32, nHigh*width)
	codes := make([]int32, nHigh*width)

	for h := 0; h < nHigh; h++ {
		hv := highVerts[h*highWidth : h*highWidth+highWidth]
		for slot, localIdx := range tmpl {
			local := make([]int32, len(localIdx))
			for i, li := range localIdx {
				local[i] = hv[li]
			}
			key := downKey(local)
			id, ok := order[key]
			if !ok {
				id = int32(len(order))
				order[key] = id
				firstSeen[key] = local
				lowVertsFlat = append(lowVertsFlat, local...)
			}
			canonical := firstSeen[key]
			rot := rotationOf(canonical, local)
			ents[h*width+slot] = id
			codes[h*width+slot] = MakeCode(slot, rot)
		}
	}

	m.vertsOf[low] = lowVertsFlat
	m.nents[low] = len(order)

	d := &Down{Width: width, Ents: ents, Codes: codes}
	m.setDownCache(high, low, d)
	return d
}

func (m *Mesh) downCacheKey(high, low int) [2]int { return [2]int{high, low} }

func (m *Mesh) downCache(high, low int) (*Down, bool) {
	if m.downs == nil {
		return nil, false
	}
	d, ok := m.downs[m.downCacheKey(high, low)]
	return d, ok
}

func (m *Mesh) setDownCache(high, low int, d *Down) {
	if m.downs == nil {
		m.downs = make(map[[2]int]*Down)
	}
	m.downs[m.downCacheKey(high, low)] = d
}

// AskDown returns the downward sub-entity relation from dimension high
// to dimension low (low < high), constructing and caching dimension
// low's entities on first use if low is not VERT.
func (m *Mesh) AskDown(high, low int) *Down {
	if low == VERT {
		width := high + 1
		hv := m.vertsOf[high]
		codes := make([]int32, len(hv))
		for i := range codes {
			codes[i] = MakeCode(i%width, 0)
		}
		return &Down{Width: width, Ents: hv, Codes: codes}
	}
	return m.ensureLow(high, low)
}

// AskUp returns the upward CSR adjacency graph from dimension low to
// dimension high (low < high), materializing and caching it on first
// request behind the mesh's single-writer gate.
func (m *Mesh) AskUp(low, high int) *Adj {
	key := [2]int{low, high}
	m.adjMu.Lock()
	if a, ok := m.up[key]; ok {
		m.adjMu.Unlock()
		return a
	}
	m.adjMu.Unlock()

	down := m.AskDown(high, low)
	nLow := m.nents[low]
	nHigh := m.nents[high]
	width := down.Width

	counts := make([]int32, nLow+1)
	for i := 0; i < nHigh*width; i++ {
		counts[down.Ents[i]+1]++
	}
	for i := 0; i < nLow; i++ {
		counts[i+1] += counts[i]
	}
	a2ab := counts
	ab2b := make([]int32, nHigh*width)
	codes := make([]int32, nHigh*width)
	cursor := append([]int32(nil), a2ab...)
	for h := 0; h < nHigh; h++ {
		for slot := 0; slot < width; slot++ {
			lowID := down.Ents[h*width+slot]
			pos := cursor[lowID]
			ab2b[pos] = int32(h)
			codes[pos] = down.Codes[h*width+slot]
			cursor[lowID]++
		}
	}

	a := &Adj{A2Ab: a2ab, Ab2B: ab2b, Codes: codes}
	m.adjMu.Lock()
	m.up[key] = a
	m.adjMu.Unlock()
	return a
}
