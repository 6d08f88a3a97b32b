package mesh

// MetricTagName is the conventional name of the per-vertex metric
// tensor tag, carried with policy Metric.
const MetricTagName = "metric"

// ElemType is the scalar storage type of a tag's array.
type ElemType int

const (
	TypeI8 ElemType = iota
	TypeI32
	TypeI64
	TypeF64
)

// TransferPolicy is the per-tag rule the field-transfer pipeline
// dispatches on after every operator.
type TransferPolicy int

const (
	DontTransfer TransferPolicy = iota
	Inherit
	LinearInterp
	Metric
	Length
	Quality
	Pointwise
	Conserve
)

// Tag is a named per-entity array for one entity dimension. Exactly one
// of the four backing slices is populated, selected by Type: a tagged
// variant dispatched on by pattern match rather than an interface, so
// transfer kernels can switch on Type once per tag instead of per
// element.
type Tag struct {
	Name   string
	Dim    int
	Ncomps int
	Type   ElemType
	Policy TransferPolicy
	Output bool

	I8  []int8
	I32 []int32
	I64 []int64
	F64 []float64
}

// Len returns the number of entities this tag's array currently covers
// (len(array) / Ncomps).
func (t *Tag) Len() int {
	switch t.Type {
	case TypeI8:
		return len(t.I8) / t.Ncomps
	case TypeI32:
		return len(t.I32) / t.Ncomps
	case TypeI64:
		return len(t.I64) / t.Ncomps
	default:
		return len(t.F64) / t.Ncomps
	}
}

// AddTag installs a new tag on entity dimension dim. data's length must
// equal ncomps * Nents(dim); its concrete type must match typ.
func (m *Mesh) AddTag(dim int, name string, ncomps int, typ ElemType, policy TransferPolicy, output bool, data interface{}) error {
	want := ncomps * m.nents[dim]
	tag := &Tag{Name: name, Dim: dim, Ncomps: ncomps, Type: typ, Policy: policy, Output: output}
	switch typ {
	case TypeI8:
		v, ok := data.([]int8)
		if !ok || len(v) != want {
			return Fatalf("mesh.AddTag", "tag %q: expected []int8 of length %d", name, want)
		}
		tag.I8 = v
	case TypeI32:
		v, ok := data.([]int32)
		if !ok || len(v) != want {
			return Fatalf("mesh.AddTag", "tag %q: expected []int32 of length %d", name, want)
		}
		tag.I32 = v
	case TypeI64:
		v, ok := data.([]int64)
		if !ok || len(v) != want {
			return Fatalf("mesh.AddTag", "tag %q: expected []int64 of length %d", name, want)
		}
		tag.I64 = v
	case TypeF64:
		v, ok := data.([]float64)
		if !ok || len(v) != want {
			return Fatalf("mesh.AddTag", "tag %q: expected []float64 of length %d", name, want)
		}
		tag.F64 = v
	default:
		return Fatalf("mesh.AddTag", "unknown element type %d", typ)
	}
	m.tags[dim][name] = tag
	return nil
}

// GetTag returns the named tag on dimension dim, or an error if it is
// missing (a precondition violation).
func (m *Mesh) GetTag(dim int, name string) (*Tag, error) {
	t, ok := m.tags[dim][name]
	if !ok {
		return nil, Fatalf("mesh.GetTag", "no tag %q on dimension %d", name, dim)
	}
	return t, nil
}

// HasTag reports whether dimension dim carries a tag named name.
func (m *Mesh) HasTag(dim int, name string) bool {
	_, ok := m.tags[dim][name]
	return ok
}

// SetTag overwrites the data of an existing tag.
func (m *Mesh) SetTag(dim int, name string, data interface{}) error {
	t, err := m.GetTag(dim, name)
	if err != nil {
		return err
	}
	return m.AddTag(dim, name, t.Ncomps, t.Type, t.Policy, t.Output, data)
}

// RemoveTag deletes a tag.
func (m *Mesh) RemoveTag(dim int, name string) {
	delete(m.tags[dim], name)
}

// Ntags returns the number of tags installed on dimension dim.
func (m *Mesh) Ntags(dim int) int { return len(m.tags[dim]) }

// TagNames returns the names of every tag on dimension dim, for
// iteration by the transfer pipeline.
func (m *Mesh) TagNames(dim int) []string {
	names := make([]string, 0, len(m.tags[dim]))
	for name := range m.tags[dim] {
		names = append(names, name)
	}
	return names
}
