/*
DESCRIPTION
  banding.go implements the row-wise flat-field banding corrector: for each
  row it estimates a brightness level from the pixels lying outside the
  solar ellipse (or, absent an ellipse, the whole row), smooths the
  per-row levels with a moving average over bandWidth rows, and subtracts
  each row's deviation from that smoothed level in place. Repeating the pass several times knocks down
  residual low-frequency row stripes a single pass leaves behind.

AUTHORS
  Theo Santamaria <theo@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package banding implements the row-wise flat-field banding correction
// applied to a reconstructed image before the ellipse fit and geometry
// correction.
package banding

import (
	"github.com/solexcore/jsolex/geometry"
	"github.com/solexcore/jsolex/numeric"
)

// Correct subtracts from each row of img, in place, the offset between the
// row's brightness level and the moving average of the levels around it,
// repeated passes times. Rows are scored from pixels outside ellipse; if
// ellipse is nil the full row is used instead.
func Correct(img *numeric.Image, ellipse *geometry.Ellipse, bandWidth, passes int) {
	if passes <= 0 || img.Height == 0 {
		return
	}

	raw := make([]float64, img.Height)
	smoothed := make([]float64, img.Height)

	for p := 0; p < passes; p++ {
		for y := 0; y < img.Height; y++ {
			raw[y] = rowOffset(img, ellipse, y)
		}
		movingAverage(raw, bandWidth, smoothed)
		for y := 0; y < img.Height; y++ {
			offset := raw[y] - smoothed[y]
			for x := 0; x < img.Width; x++ {
				v := img.At(x, y) - offset
				if v < numeric.MinSample {
					v = numeric.MinSample
				}
				if v > numeric.MaxSample {
					v = numeric.MaxSample
				}
				img.Set(x, y, v)
			}
		}
	}
}

// rowOffset returns the mean of row y's pixels that lie outside ellipse,
// or the mean of the whole row if ellipse is nil or no pixel in the row
// lies outside it.
func rowOffset(img *numeric.Image, ellipse *geometry.Ellipse, y int) float64 {
	var sum float64
	var n int
	for x := 0; x < img.Width; x++ {
		if ellipse != nil && ellipse.Contains(float64(x), float64(y)) {
			continue
		}
		sum += img.At(x, y)
		n++
	}
	if n == 0 {
		for x := 0; x < img.Width; x++ {
			sum += img.At(x, y)
		}
		n = img.Width
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// movingAverage fills out with the centered moving average of raw over
// indices i-width/2 .. i+width/2, clamping the window at the array's edges.
func movingAverage(raw []float64, width int, out []float64) {
	if width < 1 {
		width = 1
	}
	half := width / 2
	n := len(raw)
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= n {
			hi = n - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += raw[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
}
