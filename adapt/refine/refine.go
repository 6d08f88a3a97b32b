// Package refine implements edge-bisection refinement: split every
// long edge (judged by metric length) whose cavity does not conflict
// with another selected edge this round, replacing each adjacent
// triangle or tetrahedron with two children that exactly partition it.
// An independent set of one edge per element per round keeps cavities
// disjoint without the recursive longest-edge propagation a general
// Rivara scheme needs to chase a non-conforming neighbor's edge.
package refine

import (
	"github.com/deadsy/meshadapt/cavity"
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/quality"
	"github.com/deadsy/meshadapt/transfer"
)

// Options controls one round of length-based refinement.
type Options struct {
	// LengthFloor is the metric length above which an edge is split.
	LengthFloor float64
	// MinChildLength skips an edge whose halves would measure shorter
	// than this, so refinement never feeds the next coarsening pass.
	MinChildLength float64
}

// DefaultOptions returns the quality package's published refine floor.
func DefaultOptions() Options {
	return Options{LengthFloor: quality.RefineLengthFloor}
}

// ByLength runs one round of edge-bisection refinement over m in
// place, splitting every metric-long edge whose adjacent elements don't
// conflict with another edge's this round. It returns the number of
// edges split. Call repeatedly until it returns 0 to converge on a
// mesh with no edge longer than opts.LengthFloor.
func ByLength(m *mesh.Mesh, opts Options) (int, error) {
	topDim := mesh.TRI
	if m.Dim() == 3 {
		topDim = mesh.TET
	}

	m.AskDown(topDim, mesh.EDGE)
	lengths := quality.EdgeLengths(m)
	up := m.AskUp(mesh.EDGE, topDim)

	var cands []cavity.Candidate
	for e, l := range lengths {
		if l <= opts.LengthFloor {
			continue
		}
		if opts.MinChildLength > 0 && l/2 < opts.MinChildLength {
			continue
		}
		var domains []int32
		for k := up.A2Ab[e]; k < up.A2Ab[e+1]; k++ {
			domains = append(domains, up.Ab2B[k])
		}
		if len(domains) == 0 {
			continue
		}
		cands = append(cands, cavity.Candidate{Key: int32(e), Domains: domains, Priority: l})
	}
	if len(cands) == 0 {
		return 0, nil
	}
	accepted := cavity.SelectIndependent(cands)
	if len(accepted) == 0 {
		return 0, nil
	}

	edgeVerts := m.VertsOf(mesh.EDGE)
	nOldVerts := m.Nents(mesh.VERT)
	nOldElems := m.Nents(topDim)
	newVertBase := int32(nOldVerts)

	m.SetNents(mesh.VERT, nOldVerts+len(accepted))
	m.GrowVertTags(nOldVerts + len(accepted))

	midOf := make(map[int32]int32, len(accepted)) // edge id -> new vertex id
	for i, idx := range accepted {
		e := cands[idx].Key
		a, b := edgeVerts[e*2], edgeVerts[e*2+1]
		newID := newVertBase + int32(i)
		midOf[e] = newID
		for _, name := range m.TagNames(mesh.VERT) {
			if err := transfer.ApplyVertex(m, name, newID, []transfer.Contribution{
				{From: a, Weight: 0.5}, {From: b, Weight: 0.5},
			}); err != nil {
				return 0, err
			}
		}
		// a midpoint lies on whatever model entity its edge does
		if m.HasTag(mesh.VERT, mesh.ClassDimTag) && m.HasTag(mesh.VERT, mesh.ClassIDTag) &&
			m.HasTag(mesh.EDGE, mesh.ClassDimTag) && m.HasTag(mesh.EDGE, mesh.ClassIDTag) {
			vd, _ := m.GetTag(mesh.VERT, mesh.ClassDimTag)
			vi, _ := m.GetTag(mesh.VERT, mesh.ClassIDTag)
			ed, _ := m.GetTag(mesh.EDGE, mesh.ClassDimTag)
			ei, _ := m.GetTag(mesh.EDGE, mesh.ClassIDTag)
			vd.I8[newID] = ed.I8[e]
			vi.I32[newID] = ei.I32[e]
		}
	}

	width := topDim + 1
	oldVerts := m.VertsOf(topDim)
	newVerts := append([]int32(nil), oldVerts...)

	splitOf := make(map[int32]int32) // element id -> the accepted edge id splitting it
	for _, idx := range accepted {
		e := cands[idx].Key
		for k := up.A2Ab[e]; k < up.A2Ab[e+1]; k++ {
			splitOf[up.Ab2B[k]] = e
		}
	}

	var extraElems [][]int32
	for elem := 0; elem < nOldElems; elem++ {
		e, isSplit := splitOf[int32(elem)]
		if !isSplit {
			continue
		}
		local := append([]int32(nil), newVerts[elem*width:elem*width+width]...)
		a, b := edgeVerts[e*2], edgeVerts[e*2+1]
		mid := midOf[e]
		pLocal, qLocal := -1, -1
		for i, v := range local {
			if v == a {
				pLocal = i
			}
			if v == b {
				qLocal = i
			}
		}
		childA := append([]int32(nil), local...)
		childA[pLocal] = mid
		childB := append([]int32(nil), local...)
		childB[qLocal] = mid

		copy(newVerts[elem*width:elem*width+width], childA)
		extraElems = append(extraElems, childB)
	}

	for _, child := range extraElems {
		newVerts = append(newVerts, child...)
	}

	nNewElems := nOldElems + len(extraElems)
	m.GrowElemTags(topDim, nNewElems)
	// duplicate element tags from parent onto its second child, in
	// element-append order matching extraElems above.
	i := nOldElems
	for elem := 0; elem < nOldElems; elem++ {
		if _, isSplit := splitOf[int32(elem)]; !isSplit {
			continue
		}
		for _, name := range m.TagNames(topDim) {
			// weight 1 / scale 1: each child inherits its parent's value,
			// which for Conserve tags (densities) keeps the parent's
			// integral intact since the children partition its measure.
			if err := transfer.ApplyElement(m, topDim, name, int32(i), []transfer.Contribution{{From: int32(elem), Weight: 1}}, 1.0); err != nil {
				return 0, err
			}
		}
		i++
	}

	m.SetVertsOf(topDim, newVerts)
	if err := quality.RefreshTags(m); err != nil {
		return 0, err
	}
	return len(accepted), nil
}

// ByLengthToConvergence repeatedly calls ByLength until no edge
// exceeds the floor or maxRounds is reached, returning the total number
// of edges split.
func ByLengthToConvergence(m *mesh.Mesh, opts Options, maxRounds int) (int, error) {
	total := 0
	for r := 0; r < maxRounds; r++ {
		n, err := ByLength(m, opts)
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
