/*
DESCRIPTION
  spectrum.go locates the absorption line in an average spectrum image and
  fits the degree-2 distortion polynomial y = ax^2+bx+c describing its
  vertical position across columns. Detection threshold escalates by 0.10
  on fit failure, up to 1.0, before giving up with ErrLineNotFound.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package spectrum locates the spectral absorption line in an average
// spectrum image and fits the distortion polynomial describing its
// curvature.
package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/solexcore/jsolex/numeric"
)

// DefaultCeiling is the default magnitude ceiling above which a pixel is
// not considered part of the absorption line.
const DefaultCeiling = 5000.0

// thresholdStep and thresholdMax bound the escalation loop: the detection
// threshold is raised by thresholdStep after every failed fit attempt, up
// to thresholdMax.
const (
	thresholdStep = 0.10
	thresholdMax  = 1.0
)

// residualToleranceFraction sets the maximum acceptable mean squared fit residual,
// expressed as a fraction of the image height squared, before a fit is
// considered too noisy and the threshold is escalated.
const residualToleranceFraction = 0.02

// ErrLineNotFound is returned when no threshold in [initial, 1.0] yields an
// acceptable fit.
var ErrLineNotFound = errors.New("spectrum: spectral line not found")

// Analyze locates the absorption line in avg and fits its distortion
// polynomial, starting from threshold and escalating by 0.10 on failure up
// to 1.0. ceiling bounds how bright a pixel may be and still be considered
// part of the line; pass spectrum.DefaultCeiling for the spec default.
func Analyze(avg *numeric.Image, threshold, ceiling float64) (numeric.Polynomial, error) {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	tolerance := residualToleranceFraction * float64(avg.Height) * float64(avg.Height)

	for t := threshold; t <= thresholdMax+1e-9; t += thresholdStep {
		xs, ys := lineCenters(avg, t, ceiling)
		if len(xs) < 3 {
			continue
		}
		poly, residual, err := numeric.FitParabola(xs, ys)
		if err != nil {
			continue
		}
		if residual <= tolerance {
			return poly, nil
		}
	}

	return numeric.Polynomial{}, fmt.Errorf("%w: no threshold in [%.2f, %.2f] yielded a stable fit", ErrLineNotFound, threshold, thresholdMax)
}

// LineCenters exposes lineCenters for diagnostics: callers that want to
// plot the raw per-column samples a given threshold produced, separately
// from the polynomial Analyze ultimately fits, can call it directly.
func LineCenters(avg *numeric.Image, threshold, ceiling float64) (xs, ys []float64) {
	return lineCenters(avg, threshold, ceiling)
}

// lineCenters returns, for each column where a valid absorption-line center
// was found, the column index and its sub-pixel row center.
func lineCenters(avg *numeric.Image, threshold, ceiling float64) (xs, ys []float64) {
	limit := threshold * ceiling

	for x := 0; x < avg.Width; x++ {
		runStart, runEnd, inRun := -1, -1, false
		bestStart, bestLen := -1, 0

		// Find the longest connected run of pixels at or below the
		// detection limit: the darkest connected run is the absorption
		// line.
		for y := 0; y < avg.Height; y++ {
			v := avg.At(x, y)
			if v <= limit {
				if !inRun {
					runStart = y
					inRun = true
				}
				runEnd = y
			} else {
				if inRun && runEnd-runStart+1 > bestLen {
					bestStart, bestLen = runStart, runEnd-runStart+1
				}
				inRun = false
			}
		}
		if inRun && runEnd-runStart+1 > bestLen {
			bestStart, bestLen = runStart, runEnd-runStart+1
		}
		if bestLen == 0 {
			continue
		}

		center := bestStart + bestLen/2
		if center <= 0 || center >= avg.Height-1 {
			continue
		}

		v0 := avg.At(x, center-1)
		v1 := avg.At(x, center)
		v2 := avg.At(x, center+1)
		sub := numeric.ParabolicPeak(v0, v1, v2)
		if math.IsNaN(sub) {
			continue
		}

		xs = append(xs, float64(x))
		ys = append(ys, float64(center)+sub)
	}
	return xs, ys
}
