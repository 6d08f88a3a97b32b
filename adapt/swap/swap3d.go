package swap

import (
	"math"

	"github.com/deadsy/meshadapt/cavity"
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/quality"
	"github.com/deadsy/meshadapt/transfer"
)

// MaxRingSize caps the ring sizes considered for a 3D swap. The number
// of candidate triangulations is the Catalan number of the ring size,
// and rings this large are rare enough that skipping them costs little.
const MaxRingSize = 7

// ByQuality3D performs one round of edge swapping on a tet mesh: every
// interior edge whose surrounding ring of tets contains a marked
// element is re-triangulated as a triangulation of its ring loop, each
// ring triangle capped by the edge's two endpoints, and the
// best triangulation (by dynamic programming over the binary trees on
// the loop, maximizing the minimum product quality) replaces the ring
// when it beats the ring's old minimum quality.
func ByQuality3D(m *mesh.Mesh, opts Options) (int, error) {
	if m.Dim() != 3 {
		return 0, mesh.Fatalf("swap.ByQuality3D", "mesh is not 3D")
	}
	marked := quality.MarkSliverLayers(m, opts.QualityFloor, opts.NLayers)

	up := m.AskUp(mesh.EDGE, mesh.TET)
	ev := m.VertsOf(mesh.EDGE)
	tv := m.VertsOf(mesh.TET)

	type flip struct {
		tets  []int32
		prods [][4]int32
	}
	var flips []flip
	var cands []cavity.Candidate

	nEdges := m.Nents(mesh.EDGE)
	for e := 0; e < nEdges; e++ {
		lo, hi := up.A2Ab[e], up.A2Ab[e+1]
		n := int(hi - lo)
		if n < 3 || n > MaxRingSize {
			continue
		}
		tets := make([]int32, n)
		anyMarked := false
		for i := 0; i < n; i++ {
			tets[i] = up.Ab2B[lo+int32(i)]
			if marked[tets[i]] {
				anyMarked = true
			}
		}
		if !anyMarked {
			continue
		}

		a, b := ev[e*2], ev[e*2+1]
		ring, ok := orderRing(tv, tets, a, b)
		if !ok {
			continue // open or irregular ring: boundary edge, no swap
		}

		oldMin := math.Inf(1)
		for _, t := range tets {
			q := quality.ElementQualityTet(m, t)
			if q < oldMin {
				oldMin = q
			}
		}

		newMin, tris := ringTriangulate(m, a, b, ring)
		if !cavity.AcceptQuality(newMin, oldMin, opts.Strict) {
			continue
		}

		prods := make([][4]int32, 0, 2*(n-2))
		for _, tri := range tris {
			vi, vk, vj := ring[tri[0]], ring[tri[1]], ring[tri[2]]
			prods = append(prods, [4]int32{a, vi, vk, vj}, [4]int32{b, vj, vk, vi})
		}

		flips = append(flips, flip{tets: tets, prods: prods})
		cands = append(cands, cavity.Candidate{
			Key:      int32(e),
			Domains:  tets,
			Priority: newMin - oldMin,
		})
	}
	if len(cands) == 0 {
		return 0, nil
	}
	accepted := cavity.SelectIndependent(cands)
	if len(accepted) == 0 {
		return 0, nil
	}

	oldMeasures := quality.ElementMeasures(m)

	drop := make(map[int32]bool)
	for _, idx := range accepted {
		for _, t := range flips[idx].tets {
			drop[t] = true
		}
	}

	nOld := m.Nents(mesh.TET)
	keep := make([]int32, 0, nOld)
	for t := 0; t < nOld; t++ {
		if !drop[int32(t)] {
			keep = append(keep, int32(t))
		}
	}

	// products land after the kept rows; each product's tag row is
	// seeded from its ring's first donor (CompactTags duplicates that
	// donor row), then Conserve tags are overwritten with the cavity's
	// redistributed density below.
	type tagFix struct {
		rows    []int32
		density map[string][]float64 // Conserve: redistributed density
		mean    map[string][]float64 // Pointwise: cavity average
	}
	var fixes []tagFix

	rows := append([]int32(nil), keep...)
	prodBase := int32(len(keep))
	finalVerts := make([]int32, 0, (len(keep))*4)
	for _, t := range keep {
		finalVerts = append(finalVerts, tv[t*4:t*4+4]...)
	}
	for _, idx := range accepted {
		f := flips[idx]

		fix := tagFix{density: make(map[string][]float64), mean: make(map[string][]float64)}
		donorMeas := make([]float64, len(f.tets))
		for i, d := range f.tets {
			donorMeas[i] = oldMeasures[d]
		}
		var totalProdMeas float64
		for _, p := range f.prods {
			totalProdMeas += quality.ElementMeasure(m, mesh.TET, p[:])
		}
		for _, name := range m.TagNames(mesh.TET) {
			tag, err := m.GetTag(mesh.TET, name)
			if err != nil {
				return 0, err
			}
			if tag.Type != mesh.TypeF64 {
				continue
			}
			nc := tag.Ncomps
			switch tag.Policy {
			case mesh.Conserve:
				if totalProdMeas <= 0 {
					continue
				}
				density := make([]float64, nc)
				for i, d := range f.tets {
					row := tag.F64[int(d)*nc : (int(d)+1)*nc]
					for c := range density {
						density[c] += donorMeas[i] * row[c]
					}
				}
				for c := range density {
					density[c] /= totalProdMeas
				}
				fix.density[name] = density
			case mesh.Pointwise:
				mean := make([]float64, nc)
				for _, d := range f.tets {
					row := tag.F64[int(d)*nc : (int(d)+1)*nc]
					for c := range mean {
						mean[c] += row[c]
					}
				}
				for c := range mean {
					mean[c] /= float64(len(f.tets))
				}
				fix.mean[name] = mean
			}
		}

		for _, p := range f.prods {
			fix.rows = append(fix.rows, prodBase)
			rows = append(rows, f.tets[0])
			finalVerts = append(finalVerts, p[:]...)
			prodBase++
		}
		fixes = append(fixes, fix)
	}

	if err := transfer.CompactTags(m, mesh.TET, rows); err != nil {
		return 0, err
	}
	for _, fix := range fixes {
		for _, vals := range []map[string][]float64{fix.density, fix.mean} {
			for name, row := range vals {
				tag, err := m.GetTag(mesh.TET, name)
				if err != nil {
					return 0, err
				}
				nc := tag.Ncomps
				for _, r := range fix.rows {
					copy(tag.F64[int(r)*nc:(int(r)+1)*nc], row)
				}
			}
		}
	}

	m.SetVertsOf(mesh.TET, finalVerts)
	if err := quality.RefreshTags(m); err != nil {
		return 0, err
	}
	return len(accepted), nil
}

// orderRing orders the non-edge vertices of the tets sharing edge (a,b)
// into a closed loop. Each tet contributes two ring vertices; ring-
// adjacent tets share exactly one. Returns false when the walk does not
// close (a boundary edge) or revisits a vertex (an irregular
// configuration this operator leaves alone).
func orderRing(tv []int32, tets []int32, a, b int32) ([]int32, bool) {
	n := len(tets)
	type pair struct{ x, y int32 }
	pairs := make([]pair, n)
	adj := make(map[int32][]int, n)
	for i, t := range tets {
		var others []int32
		for _, v := range tv[t*4 : t*4+4] {
			if v != a && v != b {
				others = append(others, v)
			}
		}
		if len(others) != 2 {
			return nil, false
		}
		pairs[i] = pair{others[0], others[1]}
		adj[others[0]] = append(adj[others[0]], i)
		adj[others[1]] = append(adj[others[1]], i)
	}
	if len(adj) != n {
		return nil, false
	}
	for _, ts := range adj {
		if len(ts) != 2 {
			return nil, false
		}
	}

	ring := make([]int32, 0, n)
	used := make([]bool, n)
	ring = append(ring, pairs[0].x)
	used[0] = true
	next := pairs[0].y
	for len(ring) < n {
		ring = append(ring, next)
		advanced := false
		for _, ti := range adj[next] {
			if used[ti] {
				continue
			}
			used[ti] = true
			if pairs[ti].x == next {
				next = pairs[ti].y
			} else {
				next = pairs[ti].x
			}
			advanced = true
			break
		}
		if !advanced {
			return nil, false
		}
	}
	if next != ring[0] {
		return nil, false
	}
	return ring, true
}

// ringTriangulate picks, by dynamic programming over the Catalan set of
// triangulations of the ring loop, the one maximizing the minimum
// quality of the 2(n-2) product tets (each loop triangle capped by a
// and by b). Subproblem value f(i,j) is the best achievable minimum
// over the sub-loop i..j; f(i,j) = max over k in (i,j) of
// min(capQuality(i,k,j), f(i,k), f(k,j)). Returns the achieved minimum
// and the chosen triangles as index triples into ring.
func ringTriangulate(m *mesh.Mesh, a, b int32, ring []int32) (float64, [][3]int) {
	n := len(ring)
	f := make([][]float64, n)
	choice := make([][]int, n)
	for i := range f {
		f[i] = make([]float64, n)
		choice[i] = make([]int, n)
		for j := range f[i] {
			f[i][j] = math.Inf(1)
			choice[i][j] = -1
		}
	}

	capQuality := func(i, k, j int) float64 {
		vi, vk, vj := ring[i], ring[k], ring[j]
		return minf(
			quality.ElementQualityTetVerts(m, [4]int32{a, vi, vk, vj}),
			quality.ElementQualityTetVerts(m, [4]int32{b, vj, vk, vi}),
		)
	}

	for gap := 2; gap < n; gap++ {
		for i := 0; i+gap < n; i++ {
			j := i + gap
			best, bestK := math.Inf(-1), -1
			for k := i + 1; k < j; k++ {
				v := minf(capQuality(i, k, j), minf(f[i][k], f[k][j]))
				if v > best {
					best, bestK = v, k
				}
			}
			f[i][j] = best
			choice[i][j] = bestK
		}
	}

	var tris [][3]int
	var walk func(i, j int)
	walk = func(i, j int) {
		if j-i < 2 {
			return
		}
		k := choice[i][j]
		tris = append(tris, [3]int{i, k, j})
		walk(i, k)
		walk(k, j)
	}
	walk(0, n-1)
	return f[0][n-1], tris
}

// ByQuality3DToConvergence repeatedly applies ByQuality3D until a round
// swaps nothing or maxRounds is reached.
func ByQuality3DToConvergence(m *mesh.Mesh, opts Options, maxRounds int) (int, error) {
	total := 0
	for r := 0; r < maxRounds; r++ {
		n, err := ByQuality3D(m, opts)
		if err != nil {
			return total, err
		}
		total += n
		if n == 0 {
			break
		}
	}
	return total, nil
}
