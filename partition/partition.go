// Package partition specifies the contract the adaptation operators
// require from a distributed-mesh communication layer, and provides the
// single-rank implementation used by every non-distributed build. The
// operators themselves never know whether a mesh is partitioned; the
// adapt driver asserts OwnersHaveAllUpward before operating, which is
// trivial on a serial mesh. No operator calls SyncArray.
package partition

// ReduceOp selects the combining operation of Allreduce.
type ReduceOp int

const (
	OpSum ReduceOp = iota
	OpMin
	OpMax
)

// Comm is the communication contract of a partition layer. A
// distributed implementation must guarantee that owners of an entity
// hold all of its upward adjacency up to the mesh dimension, and that
// SyncArray returns the owner's value at every replica.
type Comm interface {
	// Allreduce combines x across every rank with op and returns the
	// result on all ranks.
	Allreduce(x float64, op ReduceOp) float64

	// SyncArray returns, for a per-entity array on dimension dim with
	// ncomps components per entity, the owning rank's value at every
	// replicated entity. Non-replicated entries are returned unchanged.
	SyncArray(dim int, data []float64, ncomps int) []float64

	// OwnersHaveAllUpward reports whether every owned entity at
	// dimension dim has its complete upward adjacency locally. Operators
	// refuse to commit when this is false.
	OwnersHaveAllUpward(dim int) bool
}

// Serial is the one-rank Comm: every entity is owned locally, nothing
// is replicated.
type Serial struct{}

// Allreduce returns x unchanged.
func (Serial) Allreduce(x float64, op ReduceOp) float64 { return x }

// SyncArray returns data unchanged.
func (Serial) SyncArray(dim int, data []float64, ncomps int) []float64 { return data }

// OwnersHaveAllUpward is always true on a single rank.
func (Serial) OwnersHaveAllUpward(dim int) bool { return true }
