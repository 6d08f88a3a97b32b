// Package quality implements the per-element shape-quality and
// per-edge metric-length measurements the adaptation operators depend
// on. The shape quality is a metric-aware mean-ratio measure: every
// element maps through the square root of its vertex-averaged metric
// into a space where ordinary Euclidean mean-ratio quality applies, so
// an element that is equilateral under its local metric always scores
// 1.0 regardless of how anisotropic that metric is.
package quality

import (
	"math"

	"github.com/deadsy/meshadapt/la"
	"github.com/deadsy/meshadapt/metric"
)

const sqrt3 = 1.7320508075688772

// Triangle2 returns the mean-ratio shape quality in [0,1] of a triangle
// with corner coordinates p, under the metric m averaged over its
// vertices.
func Triangle2(p [3]la.Vec2, m metric.Sym2) float64 {
	l := metric.Sqrt2(m)
	e0 := l.MulVec(p[1].Sub(p[0]))
	e1 := l.MulVec(p[2].Sub(p[1]))
	e2 := l.MulVec(p[0].Sub(p[2]))
	sumSq := e0.Dot(e0) + e1.Dot(e1) + e2.Dot(e2)
	if sumSq <= 0 {
		return 0
	}
	area := 0.5 * math.Abs(la.Cross2(l.MulVec(p[1].Sub(p[0])), l.MulVec(p[2].Sub(p[0]))))
	q := 4 * sqrt3 * area / sumSq
	return clamp01(q)
}

// Tet3 returns the mean-ratio shape quality in [0,1] of a tetrahedron
// with corner coordinates p, under the metric m averaged over its
// vertices.
func Tet3(p [4]la.Vec3, m metric.Sym3) float64 {
	l := metric.Sqrt3(m)
	e0 := l.MulVec(p[1].Sub(p[0]))
	e1 := l.MulVec(p[2].Sub(p[0]))
	e2 := l.MulVec(p[3].Sub(p[0]))
	edges := [6]la.Vec3{
		e0, e1, e2,
		l.MulVec(p[2].Sub(p[1])),
		l.MulVec(p[3].Sub(p[1])),
		l.MulVec(p[3].Sub(p[2])),
	}
	var sumSq float64
	for _, e := range edges {
		sumSq += e.Dot(e)
	}
	if sumSq <= 0 {
		return 0
	}
	vol := math.Abs(la.Determinant3(la.Mat3{e0, e1, e2})) / 6.0
	q := 12 * math.Pow(3*vol, 2.0/3.0) / sumSq
	return clamp01(q)
}

func clamp01(q float64) float64 {
	if q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}

// EdgeLength2 returns the approximate metric-length of an edge with
// endpoint metrics ma, mb: an integral approximation that reduces to
// length((Mu+Mv)/2, v-u), which is exactly what is computed here.
func EdgeLength2(ma, mb metric.Sym2, a, b la.Vec2) float64 {
	avg := ma.Add(mb).Scale(0.5)
	return metric.Length2(avg, b.Sub(a))
}

// EdgeLength3 is EdgeLength2 specialized to 3D.
func EdgeLength3(ma, mb metric.Sym3, a, b la.Vec3) float64 {
	avg := ma.Add(mb).Scale(0.5)
	return metric.Length3(avg, b.Sub(a))
}

// Default refinement/coarsening length thresholds.
const (
	RefineLengthFloor  = 1.5
	CoarsenLengthFloor = 0.47
)
