// Package coarsen implements vertex-collapse coarsening: every short
// edge (judged by metric length) is a candidate to collapse one
// endpoint onto the other, removing the two elements that degenerate to
// zero measure and re-pointing every other element touching the
// removed vertex at the surviving one. The classification constraint
// picks the direction: a vertex only collapses onto a neighbor whose
// class_dim is at least its own (same model entity when equal), and the
// collapse is only accepted if it does not lower the minimum quality
// among the elements it reshapes.
//
// Collapsed vertices are left as unreferenced entries rather than
// compacted out of the VERT dimension: renumbering every tag and
// element array to close the gap is a whole-mesh pass this package
// does not perform. A caller that needs a dense vertex range should
// compact afterward.
package coarsen

import (
	"math"

	"github.com/deadsy/meshadapt/cavity"
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/quality"
	"github.com/deadsy/meshadapt/transfer"
)

// Options controls one round of length-based coarsening.
type Options struct {
	// LengthFloor is the metric length below which an edge is a
	// collapse candidate.
	LengthFloor float64
	// MaxLength rejects a collapse if any surviving edge at the kept
	// vertex would exceed this metric length.
	MaxLength float64
	// MinQuality rejects a collapse whose reshaped elements would fall
	// below this quality, even when that still beats the old minimum.
	MinQuality float64
	// Strict selects cavity.AcceptQuality's '>' rule instead of '>='.
	Strict bool
}

// DefaultOptions returns the quality package's published coarsen floor,
// capping surviving edges at the refinement threshold so coarsening
// never manufactures work for the next refinement pass.
func DefaultOptions() Options {
	return Options{
		LengthFloor: quality.CoarsenLengthFloor,
		MaxLength:   quality.RefineLengthFloor,
		Strict:      false,
	}
}

// ByLength runs one round of vertex-collapse coarsening over m in
// place, returning the number of vertices collapsed.
func ByLength(m *mesh.Mesh, opts Options) (int, error) {
	elemDim := mesh.TRI
	if m.Dim() == 3 {
		elemDim = mesh.TET
	}
	width := elemDim + 1

	m.AskDown(elemDim, mesh.EDGE)
	lengths := quality.EdgeLengths(m)
	edgeVerts := m.VertsOf(mesh.EDGE)
	vertUp := m.AskUp(mesh.VERT, elemDim)
	elemVerts := m.VertsOf(elemDim)

	type collapse struct {
		from, to  int32
		survivors []int32 // element ids whose row gets `from` replaced by `to`
		dead      []int32 // element ids removed outright (degenerate cavity)
	}
	var collapses []collapse
	var cands []cavity.Candidate

	for e, l := range lengths {
		if l >= opts.LengthFloor {
			continue
		}
		a, b := edgeVerts[e*2], edgeVerts[e*2+1]
		from, to, ok := collapseDirection(m, a, b)
		if !ok {
			continue
		}

		var survivors, dead []int32
		var domains []int32
		oldMin, newMin := math.Inf(1), math.Inf(1)
		tooLong := false
		for k := vertUp.A2Ab[from]; k < vertUp.A2Ab[from+1]; k++ {
			elem := vertUp.Ab2B[k]
			domains = append(domains, elem)
			row := elemVerts[elem*int32(width) : elem*int32(width)+int32(width)]
			hasTo := false
			for _, v := range row {
				if v == to {
					hasTo = true
				}
			}
			if hasTo {
				dead = append(dead, elem)
				continue
			}
			survivors = append(survivors, elem)
			oldQ := elemQuality(m, elemDim, row)
			newRow := append([]int32(nil), row...)
			for i, v := range newRow {
				if v == from {
					newRow[i] = to
				}
			}
			newQ := elemQuality(m, elemDim, newRow)
			if oldQ < oldMin {
				oldMin = oldQ
			}
			if newQ < newMin {
				newMin = newQ
			}
			if opts.MaxLength > 0 && longestEdgeAt(m, to, newRow) > opts.MaxLength {
				tooLong = true
			}
		}
		if tooLong {
			continue
		}
		if len(survivors) > 0 {
			if !cavity.AcceptQuality(newMin, oldMin, opts.Strict) {
				continue
			}
			if newMin < opts.MinQuality {
				continue
			}
		}

		collapses = append(collapses, collapse{from: from, to: to, survivors: survivors, dead: dead})
		cands = append(cands, cavity.Candidate{
			Key:      int32(e),
			Domains:  domains,
			Priority: -l, // shortest edges collapse first
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

	newElemVerts := append([]int32(nil), elemVerts...)
	dropElems := make(map[int32]bool)
	for _, idx := range accepted {
		c := collapses[idx]
		for _, elem := range c.survivors {
			row := newElemVerts[elem*int32(width) : elem*int32(width)+int32(width)]
			for i, v := range row {
				if v == c.from {
					row[i] = c.to
				}
			}
		}
		for _, elem := range c.dead {
			dropElems[elem] = true
		}
	}

	// redistribute conservative element tags over each cavity before the
	// dead donor rows disappear: the cavity's integral moves onto its
	// reshaped survivors, weighted by their post-collapse measures.
	for _, name := range m.TagNames(elemDim) {
		tag, err := m.GetTag(elemDim, name)
		if err != nil {
			return 0, err
		}
		if tag.Policy != mesh.Conserve {
			continue
		}
		for _, idx := range accepted {
			c := collapses[idx]
			donors := append(append([]int32(nil), c.survivors...), c.dead...)
			donorMeas := make([]float64, len(donors))
			for i, d := range donors {
				donorMeas[i] = oldMeasures[d]
			}
			productMeas := make([]float64, len(c.survivors))
			for i, s := range c.survivors {
				row := newElemVerts[s*int32(width) : s*int32(width)+int32(width)]
				productMeas[i] = quality.ElementMeasure(m, elemDim, row)
			}
			transfer.ConserveCavity(tag, donors, c.survivors, donorMeas, productMeas)
		}
	}

	// pointwise element tags: interior cavities get a linear fit of the
	// donor centroid values, boundary cavities the donor mean; which
	// applies is decided by the collapsed vertex's model dimension.
	for _, name := range m.TagNames(elemDim) {
		tag, err := m.GetTag(elemDim, name)
		if err != nil {
			return 0, err
		}
		if tag.Policy != mesh.Pointwise {
			continue
		}
		for _, idx := range accepted {
			c := collapses[idx]
			donors := append(append([]int32(nil), c.survivors...), c.dead...)
			donorXY := make([][]float64, len(donors))
			for i, d := range donors {
				donorXY[i] = centroid(m, elemVerts[d*int32(width):d*int32(width)+int32(width)])
			}
			productXY := make([][]float64, len(c.survivors))
			for i, s := range c.survivors {
				productXY[i] = centroid(m, newElemVerts[s*int32(width):s*int32(width)+int32(width)])
			}
			cd := m.ClassDim(mesh.VERT, int(c.from))
			interior := cd < 0 || int(cd) == m.Dim()
			transfer.PointwiseCavity(tag, donors, c.survivors, donorXY, productXY, interior)
		}
	}

	nOld := m.Nents(elemDim)
	keep := make([]int32, 0, nOld-len(dropElems))
	finalVerts := make([]int32, 0, (nOld-len(dropElems))*width)
	for t := 0; t < nOld; t++ {
		if dropElems[int32(t)] {
			continue
		}
		keep = append(keep, int32(t))
		finalVerts = append(finalVerts, newElemVerts[t*width:t*width+width]...)
	}
	if err := transfer.CompactTags(m, elemDim, keep); err != nil {
		return 0, err
	}
	m.SetVertsOf(elemDim, finalVerts)
	if err := quality.RefreshTags(m); err != nil {
		return 0, err
	}
	return len(accepted), nil
}

// centroid returns the mean of an element row's vertex coordinates.
func centroid(m *mesh.Mesh, row []int32) []float64 {
	d := m.Dim()
	coords := m.Coords()
	out := make([]float64, d)
	for _, v := range row {
		for k := 0; k < d; k++ {
			out[k] += coords[int(v)*d+k]
		}
	}
	for k := range out {
		out[k] /= float64(len(row))
	}
	return out
}

// longestEdgeAt returns the longest metric length among row's edges
// incident on vertex v.
func longestEdgeAt(m *mesh.Mesh, v int32, row []int32) float64 {
	longest := 0.0
	for _, w := range row {
		if w == v {
			continue
		}
		var l float64
		if m.Dim() == 2 {
			l = quality.EdgeLength2(
				quality.VertMetric2(m, v), quality.VertMetric2(m, w),
				quality.VertCoord2(m, v), quality.VertCoord2(m, w))
		} else {
			l = quality.EdgeLength3(
				quality.VertMetric3(m, v), quality.VertMetric3(m, w),
				quality.VertCoord3(m, v), quality.VertCoord3(m, w))
		}
		if l > longest {
			longest = l
		}
	}
	return longest
}

// ByLengthToConvergence repeatedly calls ByLength until a round
// collapses nothing or maxRounds is reached; edges below the floor whose
// collapses are all rejected can remain.
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

// collapseDirection decides which endpoint is removed: a vertex may
// only collapse onto a neighbor whose class_dim is at least its own,
// so the more tightly classified endpoint (lower class_dim) is the one
// that goes. Equal class_dim requires the same model entity; ties are
// broken by lower id for reproducibility.
func collapseDirection(m *mesh.Mesh, a, b int32) (from, to int32, ok bool) {
	ca, cb := m.ClassDim(mesh.VERT, int(a)), m.ClassDim(mesh.VERT, int(b))
	switch {
	case ca < cb:
		return a, b, true
	case cb < ca:
		return b, a, true
	default:
		if m.ClassID(mesh.VERT, int(a)) != m.ClassID(mesh.VERT, int(b)) {
			return 0, 0, false
		}
		if a < b {
			return b, a, true
		}
		return a, b, true
	}
}

func elemQuality(m *mesh.Mesh, elemDim int, row []int32) float64 {
	if elemDim == mesh.TRI {
		return quality.ElementQualityTriVerts(m, [3]int32(row))
	}
	return quality.ElementQualityTetVerts(m, [4]int32(row))
}
