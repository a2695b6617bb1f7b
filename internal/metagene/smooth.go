package metagene

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SavitzkyGolay smooths y with a least-squares polynomial filter of the
// given odd window size and polynomial order. Edge points are handled by
// fitting the first (or last) full window and evaluating the polynomial at
// the off-center offset, so the output has the same length as the input and
// polynomials up to the given order pass through unchanged.
func SavitzkyGolay(y []float64, window, order int) ([]float64, error) {
	if window < 3 || window%2 == 0 {
		return nil, fmt.Errorf("savitzky-golay: window must be odd and >= 3, got %d", window)
	}
	if order < 0 || order >= window {
		return nil, fmt.Errorf("savitzky-golay: order %d invalid for window %d", order, window)
	}
	if len(y) < window {
		return nil, fmt.Errorf("savitzky-golay: input length %d shorter than window %d", len(y), window)
	}

	pinv, err := designPseudoInverse(window, order)
	if err != nil {
		return nil, err
	}

	h := window / 2
	n := len(y)
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		// Window start and the evaluation offset within it.
		start := i - h
		t := 0
		if start < 0 {
			t = start // evaluate left of center in the first window
			start = 0
		} else if start+window > n {
			t = start + window - n
			start = n - window
		}

		w := evalWeights(pinv, order, t)
		sum := 0.0
		for j := 0; j < window; j++ {
			sum += w[j] * y[start+j]
		}
		out[i] = sum
	}

	return out, nil
}

// designPseudoInverse computes (AᵀA)⁻¹Aᵀ for the Vandermonde design matrix
// over offsets -h..h.
func designPseudoInverse(window, order int) (*mat.Dense, error) {
	h := window / 2
	a := mat.NewDense(window, order+1, nil)
	for i := 0; i < window; i++ {
		x := float64(i - h)
		v := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		return nil, fmt.Errorf("savitzky-golay: singular design matrix: %w", err)
	}

	var pinv mat.Dense
	pinv.Mul(&inv, a.T())
	return &pinv, nil
}

// evalWeights returns the convolution weights for evaluating the fitted
// polynomial at offset t from the window center.
func evalWeights(pinv *mat.Dense, order, t int) []float64 {
	_, cols := pinv.Dims()
	w := make([]float64, cols)
	tv := 1.0
	for j := 0; j <= order; j++ {
		row := pinv.RawRowView(j)
		for i := range w {
			w[i] += tv * row[i]
		}
		tv *= float64(t)
	}
	return w
}
