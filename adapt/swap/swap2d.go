// Package swap implements edge/face-swap topology: a quad (two
// triangles sharing an edge) flips its diagonal, or, in 3D, a ring of
// tetrahedra around a shared edge is re-triangulated, whenever doing so
// raises the minimum shape quality among the elements touched. The 2D
// product topology comes straight from the adjacency codes: for a key
// edge shared by exactly two triangles, the two triangles' vertices
// opposite that edge become the new diagonal.
package swap

import (
	"github.com/deadsy/meshadapt/cavity"
	"github.com/deadsy/meshadapt/la"
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/quality"
	"github.com/deadsy/meshadapt/transfer"
)

// Options controls one round of quality-driven swapping.
type Options struct {
	// QualityFloor is the quality below which an element is a swap
	// candidate (dilated by NLayers of vertex adjacency).
	QualityFloor float64
	NLayers      int
	// Strict selects cavity.AcceptQuality's '>' rule instead of '>='.
	Strict bool
}

// DefaultOptions swaps around slivers with one layer of dilation.
func DefaultOptions() Options {
	return Options{QualityFloor: quality.SliverFloor, NLayers: 1, Strict: true}
}

// ByQuality2D performs one round of edge-flip swapping over a triangle
// mesh, returning the number of edges flipped.
func ByQuality2D(m *mesh.Mesh, opts Options) (int, error) {
	if m.Dim() != 2 {
		return 0, mesh.Fatalf("swap.ByQuality2D", "mesh is not 2D")
	}
	marked := quality.MarkSliverLayers(m, opts.QualityFloor, opts.NLayers)

	m.AskDown(mesh.TRI, mesh.EDGE)
	up := m.AskUp(mesh.EDGE, mesh.TRI)
	ev := m.VertsOf(mesh.EDGE)
	tv := m.VertsOf(mesh.TRI)

	type flip struct {
		t0, t1  int32
		newRow0 [3]int32
		newRow1 [3]int32
	}
	var flips []flip
	var cands []cavity.Candidate

	nEdges := m.Nents(mesh.EDGE)
	for e := 0; e < nEdges; e++ {
		lo, hi := up.A2Ab[e], up.A2Ab[e+1]
		if hi-lo != 2 {
			continue // boundary edge, nothing to swap with
		}
		t0raw, t1raw := up.Ab2B[lo], up.Ab2B[lo+1]
		if !marked[t0raw] && !marked[t1raw] {
			continue
		}

		var ov [2]int32
		var tByRot [2]int32
		for k := lo; k < hi; k++ {
			code := up.Codes[k]
			tte := mesh.CodeWhichDown(code)
			rot := mesh.CodeRotation(code)
			tid := up.Ab2B[k]
			tByRot[rot] = tid
			ov[rot] = tv[tid*3+int32(tte)]
		}
		t0, t1 := tByRot[0], tByRot[1]
		ev0, ev1 := ev[e*2], ev[e*2+1]

		row0 := [3]int32{ev1, ov[0], ov[1]}
		row1 := [3]int32{ev0, ov[1], ov[0]}

		oldQ0 := quality.ElementQualityTri(m, t0)
		oldQ1 := quality.ElementQualityTri(m, t1)
		oldMin := minf(oldQ0, oldQ1)

		newQ0 := quality.ElementQualityTriVerts(m, row0)
		newQ1 := quality.ElementQualityTriVerts(m, row1)
		newMin := minf(newQ0, newQ1)

		if !cavity.AcceptQuality(newMin, oldMin, opts.Strict) {
			continue
		}

		flips = append(flips, flip{t0: t0, t1: t1, newRow0: row0, newRow1: row1})
		cands = append(cands, cavity.Candidate{
			Key:      int32(e),
			Domains:  []int32{t0, t1},
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

	newVerts := append([]int32(nil), tv...)
	for _, idx := range accepted {
		f := flips[idx]
		copy(newVerts[f.t0*3:f.t0*3+3], f.newRow0[:])
		copy(newVerts[f.t1*3:f.t1*3+3], f.newRow1[:])
	}

	for _, name := range m.TagNames(mesh.TRI) {
		tag, err := m.GetTag(mesh.TRI, name)
		if err != nil {
			return 0, err
		}
		switch tag.Policy {
		case mesh.Conserve:
			for _, idx := range accepted {
				f := flips[idx]
				pair := []int32{f.t0, f.t1}
				donorMeas := []float64{oldMeasures[f.t0], oldMeasures[f.t1]}
				productMeas := []float64{
					quality.TriArea(triCoords(m, f.newRow0)),
					quality.TriArea(triCoords(m, f.newRow1)),
				}
				transfer.ConserveCavity(tag, pair, pair, donorMeas, productMeas)
			}
		case mesh.Pointwise:
			// swap transfers pointwise quantities by cavity average
			for _, idx := range accepted {
				f := flips[idx]
				pair := []int32{f.t0, f.t1}
				transfer.PointwiseCavity(tag, pair, pair, nil, nil, false)
			}
		}
	}

	m.SetVertsOf(mesh.TRI, newVerts)
	if err := quality.RefreshTags(m); err != nil {
		return 0, err
	}
	return len(accepted), nil
}

func triCoords(m *mesh.Mesh, row [3]int32) [3]la.Vec2 {
	var p [3]la.Vec2
	for j, v := range row {
		p[j] = quality.VertCoord2(m, v)
	}
	return p
}

// ByQuality2DToConvergence repeatedly swaps until a round flips nothing
// or maxRounds is reached.
func ByQuality2DToConvergence(m *mesh.Mesh, opts Options, maxRounds int) (int, error) {
	total := 0
	for r := 0; r < maxRounds; r++ {
		n, err := ByQuality2D(m, opts)
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

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
