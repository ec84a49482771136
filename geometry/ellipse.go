/*
DESCRIPTION
  ellipse.go defines Ellipse, the fitted solar-disk boundary, and the
  least-squares conic fit that produces one from a set of edge pixels.

AUTHORS
  Theo Santamaria <theo@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package geometry implements the geometry-correction stage: a Canny-like
// edge pre-filter and least-squares ellipse fit on the reconstructed solar
// disk, followed by tilt rotation, xy-ratio rescale, and optional mirrors.
package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Ellipse is a fitted conic section: center (Cx, Cy), semi-axes (SemiA,
// SemiB), and orientation Angle in radians.
type Ellipse struct {
	Cx, Cy float64
	SemiA  float64
	SemiB  float64
	Angle  float64
}

// Ratio returns the ellipse's semi-axis ratio, always >= 1.
func (e Ellipse) Ratio() float64 {
	a, b := e.SemiA, e.SemiB
	if a < b {
		a, b = b, a
	}
	if b == 0 {
		return math.Inf(1)
	}
	return a / b
}

// Contains reports whether (x, y) lies within e.
func (e Ellipse) Contains(x, y float64) bool {
	dx, dy := x-e.Cx, y-e.Cy
	cosA, sinA := math.Cos(-e.Angle), math.Sin(-e.Angle)
	u := cosA*dx - sinA*dy
	v := sinA*dx + cosA*dy
	if e.SemiA == 0 || e.SemiB == 0 {
		return false
	}
	return (u*u)/(e.SemiA*e.SemiA)+(v*v)/(e.SemiB*e.SemiB) <= 1
}

// minRatio and maxRatio bound an acceptable semi-axis ratio: outside this
// range the fit is almost certainly noise, not a solar disk.
const (
	minRatio = 0.5
	maxRatio = 2.0
)

// ErrRatioOutOfRange is returned by fitEllipse when the fitted semi-axis
// ratio falls outside [minRatio, maxRatio].
var ErrRatioOutOfRange = errors.New("geometry: fitted ellipse ratio out of range")

// ErrCenterOffImage is returned when the fitted center falls outside the
// image bounds.
var ErrCenterOffImage = errors.New("geometry: fitted ellipse center is off-image")

// ErrTooFewPoints is returned when fewer than 5 edge points are supplied;
// a general conic needs at least 5 to be determined.
var ErrTooFewPoints = errors.New("geometry: need at least 5 edge points to fit an ellipse")

// fitEllipse performs a direct least-squares fit of the general conic
// Ax^2+Bxy+Cy^2+Dx+Ey+F=0 to the given edge points, then recovers the
// ellipse parameters. width and height bound the image the points were
// taken from, for the off-image-center rejection.
func fitEllipse(xs, ys []float64, width, height int) (Ellipse, error) {
	n := len(xs)
	if n != len(ys) {
		return Ellipse{}, errors.New("geometry: xs and ys length mismatch")
	}
	if n < 5 {
		return Ellipse{}, ErrTooFewPoints
	}

	// Solve for (A,B,C,D,E) with F fixed at -1: a direct least-squares
	// conic fit, adequate for the near-circular, well-separated edge
	// points the pre-filter produces.
	design := mat.NewDense(n, 5, nil)
	target := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		design.Set(i, 0, x*x)
		design.Set(i, 1, x*y)
		design.Set(i, 2, y*y)
		design.Set(i, 3, x)
		design.Set(i, 4, y)
		target.SetVec(i, 1)
	}

	var coeffs mat.VecDense
	if err := coeffs.SolveVec(design, target); err != nil {
		return Ellipse{}, err
	}
	A, B, C, D, E := coeffs.AtVec(0), coeffs.AtVec(1), coeffs.AtVec(2), coeffs.AtVec(3), coeffs.AtVec(4)
	F := -1.0

	e, err := conicToEllipse(A, B, C, D, E, F)
	if err != nil {
		return Ellipse{}, err
	}

	ratio := e.Ratio()
	if ratio < minRatio || ratio > maxRatio {
		return Ellipse{}, ErrRatioOutOfRange
	}
	if e.Cx < 0 || e.Cx >= float64(width) || e.Cy < 0 || e.Cy >= float64(height) {
		return Ellipse{}, ErrCenterOffImage
	}
	return e, nil
}

// conicToEllipse recovers center, semi-axes, and orientation from the
// general conic Ax^2+Bxy+Cy^2+Dx+Ey+F=0.
func conicToEllipse(A, B, C, D, E, F float64) (Ellipse, error) {
	denom := B*B - 4*A*C
	if denom == 0 {
		return Ellipse{}, errors.New("geometry: degenerate conic (zero discriminant)")
	}

	cx := (2*C*D - B*E) / denom
	cy := (2*A*E - B*D) / denom

	num := 2 * (A*E*E + C*D*D + F*B*B - B*D*E - 4*A*C*F)
	common := math.Sqrt((A-C)*(A-C) + B*B)

	semiA2 := num * ((A + C) + common) / (denom * denom)
	semiB2 := num * ((A + C) - common) / (denom * denom)
	if semiA2 < 0 || semiB2 < 0 {
		return Ellipse{}, errors.New("geometry: degenerate conic (negative axis length)")
	}

	var angle float64
	if B == 0 {
		if A < C {
			angle = 0
		} else {
			angle = math.Pi / 2
		}
	} else {
		angle = math.Atan2(C-A-common, B)
	}

	semiA, semiB := math.Sqrt(semiA2), math.Sqrt(semiB2)
	if semiA < semiB {
		semiA, semiB = semiB, semiA
		angle += math.Pi / 2
	}

	return Ellipse{Cx: cx, Cy: cy, SemiA: semiA, SemiB: semiB, Angle: angle}, nil
}
