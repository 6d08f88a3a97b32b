package mesh

// GrowVertTags extends every tag currently installed on VERT so its
// backing array covers newN vertices, zero-filling the new entries.
// Operators call this after raising Nents(VERT) via SetNents so that
// newly created vertices (refinement midpoints) have storage for
// coordinates, the metric tensor, and classification before the
// caller fills those entries in directly.
func (m *Mesh) GrowVertTags(newN int) {
	for _, t := range m.tags[VERT] {
		want := newN * t.Ncomps
		switch t.Type {
		case TypeI8:
			t.I8 = growI8(t.I8, want)
		case TypeI32:
			t.I32 = growI32(t.I32, want)
		case TypeI64:
			t.I64 = growI64(t.I64, want)
		case TypeF64:
			t.F64 = growF64(t.F64, want)
		}
	}
}

func growF64(s []float64, want int) []float64 {
	if len(s) >= want {
		return s
	}
	out := make([]float64, want)
	copy(out, s)
	return out
}

func growI8(s []int8, want int) []int8 {
	if len(s) >= want {
		return s
	}
	out := make([]int8, want)
	copy(out, s)
	return out
}

func growI32(s []int32, want int) []int32 {
	if len(s) >= want {
		return s
	}
	out := make([]int32, want)
	copy(out, s)
	return out
}

func growI64(s []int64, want int) []int64 {
	if len(s) >= want {
		return s
	}
	out := make([]int64, want)
	copy(out, s)
	return out
}

// GrowElemTags extends every tag on dimension dim (other than VERT) to
// cover newN entities, zero-filling new entries. Used when an operator
// rebuilds a dimension's connectivity with more entities than before
// (e.g. refine's element split) and wants to carry forward tag storage
// for the caller to fill via a transfer policy.
func (m *Mesh) GrowElemTags(dim, newN int) {
	for _, t := range m.tags[dim] {
		want := newN * t.Ncomps
		switch t.Type {
		case TypeI8:
			t.I8 = growI8(t.I8, want)
		case TypeI32:
			t.I32 = growI32(t.I32, want)
		case TypeI64:
			t.I64 = growI64(t.I64, want)
		case TypeF64:
			t.F64 = growF64(t.F64, want)
		}
	}
}
