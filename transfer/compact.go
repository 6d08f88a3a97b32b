package transfer

import (
	"github.com/deadsy/meshadapt/mesh"
)

// CompactTags rewrites every tag on dim so that row i of the new arrays
// holds what row keep[i] held before: the surviving-entity side of the
// same_ents2old_ents mapping every operator produces. Call it with the
// same keep order used to rebuild the dimension's connectivity, before
// or after SetVertsOf (it touches only tag storage, not topology).
func CompactTags(m *mesh.Mesh, dim int, keep []int32) error {
	for _, name := range m.TagNames(dim) {
		t, err := m.GetTag(dim, name)
		if err != nil {
			return err
		}
		n := t.Ncomps
		switch t.Type {
		case mesh.TypeI8:
			out := make([]int8, len(keep)*n)
			for i, old := range keep {
				copy(out[i*n:(i+1)*n], t.I8[int(old)*n:(int(old)+1)*n])
			}
			t.I8 = out
		case mesh.TypeI32:
			out := make([]int32, len(keep)*n)
			for i, old := range keep {
				copy(out[i*n:(i+1)*n], t.I32[int(old)*n:(int(old)+1)*n])
			}
			t.I32 = out
		case mesh.TypeI64:
			out := make([]int64, len(keep)*n)
			for i, old := range keep {
				copy(out[i*n:(i+1)*n], t.I64[int(old)*n:(int(old)+1)*n])
			}
			t.I64 = out
		case mesh.TypeF64:
			out := make([]float64, len(keep)*n)
			for i, old := range keep {
				copy(out[i*n:(i+1)*n], t.F64[int(old)*n:(int(old)+1)*n])
			}
			t.F64 = out
		}
	}
	return nil
}

// ConserveCavity redistributes a Conserve tag over one cavity: the
// integral of the tag over the donor elements (value times donor
// measure) is spread uniformly in density over the product elements, so
// the cavity's integral is preserved exactly. donorMeas is aligned with
// donors and holds pre-operator measures; productMeas is aligned with
// products and holds post-operator measures. Donor values are read
// before any product row is written, so donors and products may share
// element ids (operators reuse storage rows).
func ConserveCavity(t *mesh.Tag, donors, products []int32, donorMeas, productMeas []float64) {
	if t.Type != mesh.TypeF64 || t.Policy != mesh.Conserve {
		return
	}
	n := t.Ncomps
	integral := make([]float64, n)
	for i, d := range donors {
		row := t.F64[int(d)*n : (int(d)+1)*n]
		for c := range integral {
			integral[c] += donorMeas[i] * row[c]
		}
	}
	var total float64
	for _, pm := range productMeas {
		total += pm
	}
	if total <= 0 {
		return
	}
	for c := range integral {
		integral[c] /= total
	}
	for _, p := range products {
		copy(t.F64[int(p)*n:(int(p)+1)*n], integral)
	}
}
