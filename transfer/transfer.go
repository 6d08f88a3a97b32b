// Package transfer implements the per-tag field transfer pipeline: once
// an operator decides which new vertices or elements to create from
// which old ones, this package fills in every tag's new entries
// according to the tag's declared policy, so operators never hand-roll
// interpolation logic themselves.
package transfer

import (
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/metric"
)

// Contribution is one old entity's weighted share of a new entity's
// value. Weights need not sum to 1 for Conserve (see ApplyElement).
type Contribution struct {
	From   int32
	Weight float64
}

// ApplyVertex fills tag's entry at newID from contribs, dispatching on
// the tag's declared policy.
func ApplyVertex(m *mesh.Mesh, tagName string, newID int32, contribs []Contribution) error {
	t, err := m.GetTag(mesh.VERT, tagName)
	if err != nil {
		return err
	}
	switch t.Policy {
	case mesh.DontTransfer:
		return nil
	case mesh.Inherit, mesh.Pointwise:
		copyComponents(t, dominant(contribs), int32(newID))
	case mesh.Metric:
		return applyMetricVertex(t, contribs, newID)
	default: // LinearInterp, Length, Quality, Conserve
		linearBlend(t, contribs, newID)
	}
	return nil
}

// ApplyElement fills tag's entry at newID (an element dimension tag,
// e.g. a per-triangle output quantity) from contribs. scale adjusts for
// Conserve policies where the new element's measure (area/volume)
// differs from what a naive sum of contributions would represent (e.g.
// splitting a parent into two children that each inherit half its
// extensive quantity).
func ApplyElement(m *mesh.Mesh, dim int, tagName string, newID int32, contribs []Contribution, scale float64) error {
	t, err := m.GetTag(dim, tagName)
	if err != nil {
		return err
	}
	switch t.Policy {
	case mesh.DontTransfer:
		return nil
	case mesh.Inherit:
		copyComponents(t, dominant(contribs), newID)
	case mesh.Conserve:
		conserveBlend(t, contribs, newID, scale)
	default:
		linearBlend(t, contribs, newID)
	}
	return nil
}

func dominant(contribs []Contribution) int32 {
	best := contribs[0]
	for _, c := range contribs[1:] {
		if c.Weight > best.Weight {
			best = c
		}
	}
	return best.From
}

func copyComponents(t *mesh.Tag, from, to int32) {
	n := t.Ncomps
	switch t.Type {
	case mesh.TypeI8:
		copy(t.I8[int(to)*n:int(to+1)*n], t.I8[int(from)*n:int(from+1)*n])
	case mesh.TypeI32:
		copy(t.I32[int(to)*n:int(to+1)*n], t.I32[int(from)*n:int(from+1)*n])
	case mesh.TypeI64:
		copy(t.I64[int(to)*n:int(to+1)*n], t.I64[int(from)*n:int(from+1)*n])
	case mesh.TypeF64:
		copy(t.F64[int(to)*n:int(to+1)*n], t.F64[int(from)*n:int(from+1)*n])
	}
}

// linearBlend weighted-sums float64 components; integer-typed tags
// fall back to Inherit from the highest-weight contributor since
// interpolating classification-style ids is meaningless.
func linearBlend(t *mesh.Tag, contribs []Contribution, to int32) {
	if t.Type != mesh.TypeF64 {
		copyComponents(t, dominant(contribs), to)
		return
	}
	n := t.Ncomps
	dst := t.F64[int(to)*n : int(to+1)*n]
	for i := range dst {
		dst[i] = 0
	}
	for _, c := range contribs {
		src := t.F64[int(c.From)*n : int(c.From+1)*n]
		for i := range dst {
			dst[i] += c.Weight * src[i]
		}
	}
}

func conserveBlend(t *mesh.Tag, contribs []Contribution, to int32, scale float64) {
	linearBlend(t, contribs, to)
	if t.Type != mesh.TypeF64 || scale == 1 {
		return
	}
	n := t.Ncomps
	dst := t.F64[int(to)*n : int(to+1)*n]
	for i := range dst {
		dst[i] *= scale
	}
}

func applyMetricVertex(t *mesh.Tag, contribs []Contribution, newID int32) error {
	switch t.Ncomps {
	case 3:
		var lin metric.Sym2
		for _, c := range contribs {
			var packed [3]float64
			copy(packed[:], t.F64[int(c.From)*3:int(c.From)*3+3])
			lin = lin.Add(metric.Linearize2(metric.Unpack2(packed)).Scale(c.Weight))
		}
		m := metric.Delinearize2(lin)
		p := metric.Pack2(m)
		copy(t.F64[int(newID)*3:int(newID)*3+3], p[:])
	case 6:
		var lin metric.Sym3
		for _, c := range contribs {
			var packed [6]float64
			copy(packed[:], t.F64[int(c.From)*6:int(c.From)*6+6])
			lin = lin.Add(metric.Linearize3(metric.Unpack3(packed)).Scale(c.Weight))
		}
		m := metric.Delinearize3(lin)
		p := metric.Pack3(m)
		copy(t.F64[int(newID)*6:int(newID)*6+6], p[:])
	}
	return nil
}
