/*
DESCRIPTION
  correct.go implements Correct: tilt rotation by the ellipse's (or a
  forced) orientation angle, xy-ratio rescale so the disk becomes
  circular, optional horizontal/vertical mirrors, and the resulting
  blackpoint and residual-error estimate.

AUTHORS
  Theo Santamaria <theo@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package geometry

import (
	"math"
	"sort"

	"github.com/solexcore/jsolex/numeric"
)

// CorrectionOptions controls the tilt/xy-ratio/mirror stages of Correct.
// ForcedTilt and ForcedXYRatio, if non-nil, override the values the fitted
// ellipse would otherwise supply.
type CorrectionOptions struct {
	ForcedTilt     *float64
	ForcedXYRatio  *float64
	HorizontalFlip bool
	VerticalFlip   bool
}

// Result is the output of a geometry correction pass.
type Result struct {
	Image      *numeric.Image
	Ellipse    Ellipse
	BlackPoint float64
	Residual   float64
}

// Correct rotates img by e's tilt angle (or opt.ForcedTilt), rescales the
// x axis so the disk becomes circular (using opt.ForcedXYRatio if set),
// applies the requested mirrors, and computes the resulting blackpoint and
// fit residual.
func Correct(img *numeric.Image, e Ellipse, opt CorrectionOptions) (Result, error) {
	angle := e.Angle
	if opt.ForcedTilt != nil {
		angle = *opt.ForcedTilt
	}

	rotated := numeric.Rotate(img.Data, img.Width, img.Height, angle, numeric.MinSample)

	ratio := e.Ratio()
	if opt.ForcedXYRatio != nil {
		ratio = *opt.ForcedXYRatio
	}

	width := img.Width
	if ratio > 1 {
		width = int(math.Round(float64(img.Width) * ratio))
	}
	rescaled := rotated
	if width != img.Width {
		rescaled = numeric.Rescale(rotated, img.Width, img.Height, width, img.Height)
	}

	if opt.HorizontalFlip {
		rescaled = numeric.FlipHorizontal(rescaled, width, img.Height)
	}
	if opt.VerticalFlip {
		rescaled = numeric.FlipVertical(rescaled, width, img.Height)
	}

	out := &numeric.Image{
		Width:    width,
		Height:   img.Height,
		Data:     rescaled,
		Metadata: make(map[numeric.MetaKey]any),
	}

	corrected := Ellipse{
		Cx:    e.Cx * float64(width) / float64(img.Width),
		Cy:    e.Cy,
		SemiA: e.SemiA * float64(width) / float64(img.Width),
		SemiB: e.SemiB,
		Angle: 0,
	}
	out.WithMeta(numeric.EllipseKey, corrected)

	blackPoint := blackPoint(out, corrected)
	residual := fitResidual(out, corrected)

	return Result{Image: out, Ellipse: corrected, BlackPoint: blackPoint, Residual: residual}, nil
}

// blackPoint returns the median sample value outside e, the background
// level the disk sits on.
func blackPoint(img *numeric.Image, e Ellipse) float64 {
	var background []float64
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			if !e.Contains(float64(x), float64(y)) {
				background = append(background, img.At(x, y))
			}
		}
	}
	if len(background) == 0 {
		return 0
	}
	sort.Float64s(background)
	mid := len(background) / 2
	if len(background)%2 == 0 {
		return (background[mid-1] + background[mid]) / 2
	}
	return background[mid]
}

// fitResidual estimates how well e matches the disk's actual gradient
// edge by averaging, over angular samples around e, the distance between
// e's boundary and the nearest strong-gradient pixel along that ray.
func fitResidual(img *numeric.Image, e Ellipse) float64 {
	mag := gradientMagnitude(img)
	var peak float64
	for _, m := range mag {
		if m > peak {
			peak = m
		}
	}
	if peak == 0 {
		return 0
	}
	threshold := gradientPercentile * peak

	const samples = 72
	var sumSq float64
	var n int
	for i := 0; i < samples; i++ {
		theta := 2 * math.Pi * float64(i) / samples
		ex := e.Cx + e.SemiA*math.Cos(theta)
		ey := e.Cy + e.SemiB*math.Sin(theta)

		bestDist := math.Inf(1)
		found := false
		for r := -5; r <= 5; r++ {
			dx := float64(r) * math.Cos(theta)
			dy := float64(r) * math.Sin(theta)
			px, py := int(math.Round(ex+dx)), int(math.Round(ey+dy))
			if px < 0 || px >= img.Width || py < 0 || py >= img.Height {
				continue
			}
			if mag[py*img.Width+px] >= threshold {
				d := math.Hypot(dx, dy)
				if d < bestDist {
					bestDist = d
					found = true
				}
			}
		}
		if found {
			sumSq += bestDist * bestDist
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(n))
}
