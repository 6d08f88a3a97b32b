package mesh

// Classification tag names.
const (
	ClassDimTag = "class_dim"
	ClassIDTag  = "class_id"
)

// SetClassification installs the class_dim (i8) and class_id (i32) tags
// on dimension dim. Both inherit across operators: a product entity is
// classified where its donor was.
func (m *Mesh) SetClassification(dim int, classDim []int8, classID []int32) error {
	if err := m.AddTag(dim, ClassDimTag, 1, TypeI8, Inherit, false, classDim); err != nil {
		return err
	}
	return m.AddTag(dim, ClassIDTag, 1, TypeI32, Inherit, false, classID)
}

// ClassDim returns the class_dim of entity i at dimension dim, or -1 if
// the mesh carries no classification.
func (m *Mesh) ClassDim(dim, i int) int8 {
	t, ok := m.tags[dim][ClassDimTag]
	if !ok {
		return -1
	}
	return t.I8[i]
}

// ClassID returns the class_id of entity i at dimension dim.
func (m *Mesh) ClassID(dim, i int) int32 {
	t, ok := m.tags[dim][ClassIDTag]
	if !ok {
		return -1
	}
	return t.I32[i]
}

// ProjectClassification propagates a closed model entity's
// classification down onto its sub-entities. At a junction where a
// low-dimension entity (e.g. a vertex) touches several distinct model
// entities, it is classified on the minimal dimension present, ties
// broken by the lowest class_id so the result is reproducible across
// runs and partitions.
func (m *Mesh) ProjectClassification(lowDim, highDim int) error {
	if !m.HasTag(highDim, ClassDimTag) {
		return Fatalf("mesh.ProjectClassification", "dimension %d has no classification", highDim)
	}
	down := m.AskDown(highDim, lowDim)
	nLow := m.nents[lowDim]
	bestDim := make([]int8, nLow)
	bestID := make([]int32, nLow)
	seen := make([]bool, nLow)
	for i := range bestDim {
		bestDim[i] = int8(m.dim + 1)
	}

	hiClassDim, _ := m.GetTag(highDim, ClassDimTag)
	hiClassID, _ := m.GetTag(highDim, ClassIDTag)

	for h := 0; h < m.nents[highDim]; h++ {
		cd := hiClassDim.I8[h]
		cid := hiClassID.I32[h]
		for slot := 0; slot < down.Width; slot++ {
			lid := down.Ents[h*down.Width+slot]
			if !seen[lid] || cd < bestDim[lid] || (cd == bestDim[lid] && cid < bestID[lid]) {
				bestDim[lid] = cd
				bestID[lid] = cid
				seen[lid] = true
			}
		}
	}
	return m.SetClassification(lowDim, bestDim, bestID)
}
