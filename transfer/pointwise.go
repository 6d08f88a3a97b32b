package transfer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/deadsy/meshadapt/mesh"
)

// PointwiseCavity fills the product rows of a Pointwise tag from one
// cavity's donors. Interior cavities fit a linear polynomial to the
// donor centroid values (a least-squares Vandermonde solve, one QR
// factorization per cavity) and evaluate it at each product centroid,
// so pointwise quantities are reconstructed without averaging
// artifacts. Boundary cavities, and interior cavities whose stencil is
// too small or degenerate for a fit, take the arithmetic donor mean.
// donorXY and productXY are the element centroids aligned with donors
// and products; they are only consulted on the fit path.
func PointwiseCavity(t *mesh.Tag, donors, products []int32, donorXY, productXY [][]float64, interior bool) {
	if t.Type != mesh.TypeF64 || t.Policy != mesh.Pointwise || len(donors) == 0 || len(products) == 0 {
		return
	}
	nc := t.Ncomps

	if !interior || len(donorXY) == 0 || len(donorXY) < len(donorXY[0])+1 {
		donorMean(t, donors, products)
		return
	}

	cols := len(donorXY[0]) + 1
	a := mat.NewDense(len(donors), cols, nil)
	for i, xy := range donorXY {
		a.Set(i, 0, 1)
		for k, c := range xy {
			a.Set(i, k+1, c)
		}
	}
	var qr mat.QR
	qr.Factorize(a)

	for c := 0; c < nc; c++ {
		b := mat.NewVecDense(len(donors), nil)
		for i, d := range donors {
			b.SetVec(i, t.F64[int(d)*nc+c])
		}
		var x mat.VecDense
		if err := qr.SolveVecTo(&x, false, b); err != nil {
			donorMeanComponent(t, donors, products, c)
			continue
		}
		for pi, p := range products {
			v := x.AtVec(0)
			for k, coord := range productXY[pi] {
				v += x.AtVec(k+1) * coord
			}
			t.F64[int(p)*nc+c] = v
		}
	}
}

func donorMean(t *mesh.Tag, donors, products []int32) {
	for c := 0; c < t.Ncomps; c++ {
		donorMeanComponent(t, donors, products, c)
	}
}

func donorMeanComponent(t *mesh.Tag, donors, products []int32, c int) {
	nc := t.Ncomps
	var sum float64
	for _, d := range donors {
		sum += t.F64[int(d)*nc+c]
	}
	mean := sum / float64(len(donors))
	for _, p := range products {
		t.F64[int(p)*nc+c] = mean
	}
}
