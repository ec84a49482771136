/*
DESCRIPTION
  parabola.go fits y = ax^2 + bx + c to a set of (x, y) samples by ordinary
  least squares, using gonum's matrix solver. This is the kernel the
  spectrum analyzer uses to turn per-column line centers into a distortion
  polynomial.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package numeric

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Polynomial is the ordered triplet (A, B, C) of y = Ax^2 + Bx + C.
type Polynomial struct {
	A, B, C float64
}

// Eval returns the polynomial's value at x.
func (p Polynomial) Eval(x float64) float64 {
	return p.A*x*x + p.B*x + p.C
}

// ErrDegenerateFit is returned by FitParabola when fewer than three samples
// are supplied; a parabola is underdetermined below that.
var ErrDegenerateFit = errors.New("numeric: need at least 3 samples to fit a parabola")

// FitParabola performs ordinary least squares of y = Ax^2 + Bx + C over the
// given samples and returns the fitted coefficients together with the
// residual variance (mean squared error) of the fit.
func FitParabola(xs, ys []float64) (Polynomial, float64, error) {
	n := len(xs)
	if n != len(ys) {
		return Polynomial{}, 0, errors.New("numeric: xs and ys length mismatch")
	}
	if n < 3 {
		return Polynomial{}, 0, ErrDegenerateFit
	}

	design := mat.NewDense(n, 3, nil)
	target := mat.NewVecDense(n, ys)
	for i, x := range xs {
		design.Set(i, 0, x*x)
		design.Set(i, 1, x)
		design.Set(i, 2, 1)
	}

	var coeffs mat.VecDense
	if err := coeffs.SolveVec(design, target); err != nil {
		return Polynomial{}, 0, err
	}

	p := Polynomial{A: coeffs.AtVec(0), B: coeffs.AtVec(1), C: coeffs.AtVec(2)}

	var sumSq float64
	for i, x := range xs {
		d := p.Eval(x) - ys[i]
		sumSq += d * d
	}
	return p, sumSq / float64(n), nil
}

// ParabolicPeak refines a discrete minimum found at index i (with i-1, i+1
// in range) into a sub-pixel offset from i using three-point parabolic
// interpolation of (i-1, v0), (i, v1), (i+1, v2). It returns NaN when the
// three samples lie on a straight line, since they then have no vertex.
func ParabolicPeak(v0, v1, v2 float64) float64 {
	denom := v0 - 2*v1 + v2
	if denom == 0 {
		return math.NaN()
	}
	return 0.5 * (v0 - v2) / denom
}
