// Package adapt is the driver over the three local operators: one
// adaptation pass runs refinement, then coarsening, then swapping, and
// passes repeat until no operator changes the mesh or the pass cap is
// reached. The operators themselves live in the refine, coarsen and
// swap subpackages; this package only owns their ordering, the
// partition-safety assertion, and the boolean did-anything-change
// results the outer drivers report.
package adapt

import (
	"github.com/deadsy/meshadapt/adapt/coarsen"
	"github.com/deadsy/meshadapt/adapt/refine"
	"github.com/deadsy/meshadapt/adapt/swap"
	"github.com/deadsy/meshadapt/cavity"
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/meshlog"
	"github.com/deadsy/meshadapt/partition"
	"github.com/deadsy/meshadapt/quality"
)

// Options bundles the thresholds of one full adaptation run.
type Options struct {
	// RefineAbove is the metric length above which an edge is bisected.
	RefineAbove float64
	// CoarsenBelow is the metric length below which an edge is a
	// collapse candidate.
	CoarsenBelow float64
	// QualityFloor marks elements below it as slivers for swapping.
	QualityFloor float64
	// SliverLayers dilates the sliver set before swapping.
	SliverLayers int
	// MaxPasses caps the refine/coarsen/swap cycles.
	MaxPasses int
	// Verbose raises the log level for the duration of the run.
	Verbose bool
	// Comm is the partition layer; nil means a serial mesh.
	Comm partition.Comm
}

// DefaultOptions mirrors the quality package's published thresholds.
func DefaultOptions() Options {
	return Options{
		RefineAbove:  quality.RefineLengthFloor,
		CoarsenBelow: quality.CoarsenLengthFloor,
		QualityFloor: quality.SliverFloor,
		SliverLayers: 1,
		MaxPasses:    20,
	}
}

func (o Options) comm() partition.Comm {
	if o.Comm == nil {
		return partition.Serial{}
	}
	return o.Comm
}

// Adapt runs full adaptation passes (refine, then coarsen, then swap)
// until a pass changes nothing or opts.MaxPasses is reached, reporting
// whether any pass changed the mesh.
func Adapt(m *mesh.Mesh, opts Options) (bool, error) {
	if opts.Verbose {
		meshlog.SetLevel(true)
		defer meshlog.SetLevel(false)
	}
	if err := assertPartitionSafe(m, opts.comm()); err != nil {
		return false, err
	}

	changed := false
	for pass := 0; pass < opts.MaxPasses; pass++ {
		nRefined, err := refine.ByLengthToConvergence(m, refine.Options{
			LengthFloor:    opts.RefineAbove,
			MinChildLength: opts.CoarsenBelow,
		}, maxRounds)
		if err != nil {
			return changed, err
		}
		nCoarsened, err := coarsen.ByLengthToConvergence(m, coarsen.Options{
			LengthFloor: opts.CoarsenBelow,
			MaxLength:   opts.RefineAbove,
			MinQuality:  0,
		}, maxRounds)
		if err != nil {
			return changed, err
		}
		nSwapped, err := swapOnce(m, swap.Options{
			QualityFloor: opts.QualityFloor,
			NLayers:      opts.SliverLayers,
			Strict:       true,
		})
		if err != nil {
			return changed, err
		}

		meshlog.Log.Debug().
			Int("pass", pass).
			Int("refined", nRefined).
			Int("coarsened", nCoarsened).
			Int("swapped", nSwapped).
			Msg("adaptation pass")

		if nRefined+nCoarsened+nSwapped == 0 {
			break
		}
		changed = true
	}
	return changed, nil
}

// RefineBySize bisects edges until none measures longer than
// refineAbove, skipping edges whose halves would fall below
// coarsenBelow, reporting whether any edge was split.
func RefineBySize(m *mesh.Mesh, refineAbove, coarsenBelow float64, verbose bool) (bool, error) {
	if verbose {
		meshlog.SetLevel(true)
		defer meshlog.SetLevel(false)
	}
	if err := assertPartitionSafe(m, partition.Serial{}); err != nil {
		return false, err
	}
	n, err := refine.ByLengthToConvergence(m, refine.Options{
		LengthFloor:    refineAbove,
		MinChildLength: coarsenBelow,
	}, maxRounds)
	return n > 0, err
}

// CoarsenBySize collapses short edges, refusing any collapse that would
// drop element quality below minQual or stretch a surviving edge past
// maxLen, reporting whether any vertex was removed.
func CoarsenBySize(m *mesh.Mesh, minQual, maxLen float64, verbose bool) (bool, error) {
	if verbose {
		meshlog.SetLevel(true)
		defer meshlog.SetLevel(false)
	}
	if err := assertPartitionSafe(m, partition.Serial{}); err != nil {
		return false, err
	}
	n, err := coarsen.ByLengthToConvergence(m, coarsen.Options{
		LengthFloor: quality.CoarsenLengthFloor,
		MaxLength:   maxLen,
		MinQuality:  minQual,
	}, maxRounds)
	return n > 0, err
}

// SwapEdges swaps around slivers below qualFloor (dilated by nlayers)
// until no swap improves the mesh, reporting whether any swap landed.
func SwapEdges(m *mesh.Mesh, qualFloor float64, nlayers int, verbose bool) (bool, error) {
	if verbose {
		meshlog.SetLevel(true)
		defer meshlog.SetLevel(false)
	}
	if err := assertPartitionSafe(m, partition.Serial{}); err != nil {
		return false, err
	}
	opts := swap.Options{QualityFloor: qualFloor, NLayers: nlayers, Strict: true}
	total := 0
	for r := 0; r < maxRounds; r++ {
		n, err := swapOnce(m, opts)
		if err != nil {
			return total > 0, err
		}
		total += n
		if n == 0 {
			break
		}
	}
	return total > 0, nil
}

const maxRounds = 50

func swapOnce(m *mesh.Mesh, opts swap.Options) (int, error) {
	if m.Dim() == 2 {
		return swap.ByQuality2D(m, opts)
	}
	return swap.ByQuality3D(m, opts)
}

func assertPartitionSafe(m *mesh.Mesh, comm partition.Comm) error {
	for dim := 0; dim <= m.Dim(); dim++ {
		if err := cavity.AssertOwnersHaveAllUpward(comm.OwnersHaveAllUpward(dim), dim); err != nil {
			return err
		}
	}
	return nil
}
