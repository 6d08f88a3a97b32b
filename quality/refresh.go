package quality

import (
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/meshlog"
)

// RefreshTags recomputes every derived-from-geometry tag after an
// operator has rebuilt connectivity: element-dimension tags with the
// Quality policy are refilled from the current element qualities, and
// EDGE tags with the Length policy are refilled from the current
// metric edge lengths. Edge entities are derived from element
// connectivity, so their ids do not survive an operator; EDGE
// classification is re-derived from the element or vertex
// classification rather than wiped, and EDGE tags of any other policy
// are resized to the new edge count and zero-filled, since there is no
// donor edge to inherit from once the derivation has been redone.
func RefreshTags(m *mesh.Mesh) error {
	elemDim := mesh.TRI
	if m.Dim() == 3 {
		elemDim = mesh.TET
	}

	var quals []float64
	for _, name := range m.TagNames(elemDim) {
		t, err := m.GetTag(elemDim, name)
		if err != nil {
			return err
		}
		if t.Policy != mesh.Quality || t.Type != mesh.TypeF64 || t.Ncomps != 1 {
			continue
		}
		if quals == nil {
			quals = ElementQualities(m)
		}
		if err := m.SetTag(elemDim, name, append([]float64(nil), quals...)); err != nil {
			return err
		}
	}

	if m.Ntags(mesh.EDGE) == 0 {
		return nil
	}
	lengths := EdgeLengths(m) // also re-derives the EDGE dimension
	nEdges := m.Nents(mesh.EDGE)
	classRebuilt := false
	for _, name := range m.TagNames(mesh.EDGE) {
		t, err := m.GetTag(mesh.EDGE, name)
		if err != nil {
			return err
		}
		if t.Policy == mesh.Length && t.Type == mesh.TypeF64 && t.Ncomps == 1 {
			if err := m.SetTag(mesh.EDGE, name, append([]float64(nil), lengths...)); err != nil {
				return err
			}
			continue
		}
		if name == mesh.ClassDimTag || name == mesh.ClassIDTag {
			// edge ids do not survive an operator, but classification is
			// recoverable: re-derive it instead of wiping it.
			if !classRebuilt {
				if err := rebuildEdgeClassification(m, elemDim); err != nil {
					return err
				}
				classRebuilt = true
			}
			continue
		}
		if t.Len() != nEdges {
			meshlog.Log.Debug().Str("tag", name).Msg("edge tag reset: edge ids do not survive an operator")
			if err := resizeTag(m, mesh.EDGE, t, nEdges); err != nil {
				return err
			}
		}
	}
	return nil
}

// rebuildEdgeClassification reconstructs the EDGE classification for a
// freshly re-derived edge dimension. When the elements carry
// classification it is projected down through the closure; otherwise it
// is lifted from the endpoints: an edge shares its endpoints' model
// entity when they agree, lies on the higher-dimension endpoint's
// entity when they differ, and is interior when its endpoints sit on
// two distinct entities of equal dimension.
func rebuildEdgeClassification(m *mesh.Mesh, elemDim int) error {
	if m.HasTag(elemDim, mesh.ClassDimTag) && m.HasTag(elemDim, mesh.ClassIDTag) {
		return m.ProjectClassification(mesh.EDGE, elemDim)
	}
	nEdges := m.Nents(mesh.EDGE)
	classDim := make([]int8, nEdges)
	classID := make([]int32, nEdges)
	if !m.HasTag(mesh.VERT, mesh.ClassDimTag) || !m.HasTag(mesh.VERT, mesh.ClassIDTag) {
		return m.SetClassification(mesh.EDGE, classDim, classID)
	}
	ev := m.VertsOf(mesh.EDGE)
	for e := 0; e < nEdges; e++ {
		a, b := ev[e*2], ev[e*2+1]
		da, db := m.ClassDim(mesh.VERT, int(a)), m.ClassDim(mesh.VERT, int(b))
		ia, ib := m.ClassID(mesh.VERT, int(a)), m.ClassID(mesh.VERT, int(b))
		switch {
		case da < db:
			classDim[e], classID[e] = db, ib
		case db < da:
			classDim[e], classID[e] = da, ia
		case ia == ib:
			classDim[e], classID[e] = da, ia
		default:
			// distinct entities of equal dimension: the edge between them
			// can only lie on the model interior
			classDim[e], classID[e] = int8(m.Dim()), 0
		}
	}
	return m.SetClassification(mesh.EDGE, classDim, classID)
}

func resizeTag(m *mesh.Mesh, dim int, t *mesh.Tag, n int) error {
	want := n * t.Ncomps
	switch t.Type {
	case mesh.TypeI8:
		return m.SetTag(dim, t.Name, make([]int8, want))
	case mesh.TypeI32:
		return m.SetTag(dim, t.Name, make([]int32, want))
	case mesh.TypeI64:
		return m.SetTag(dim, t.Name, make([]int64, want))
	default:
		return m.SetTag(dim, t.Name, make([]float64, want))
	}
}
