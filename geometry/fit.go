/*
DESCRIPTION
  fit.go implements Fit: a Canny-like gradient pre-filter that extracts
  candidate solar-limb edge pixels from a reconstructed image, followed by
  the least-squares ellipse fit in ellipse.go.

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

	"github.com/solexcore/jsolex/numeric"
)

// gradientPercentile sets the edge-pixel acceptance threshold as a
// fraction of the image's peak gradient magnitude.
const gradientPercentile = 0.6

// maxEdgePoints caps how many of the strongest edge pixels are handed to
// the least-squares solver; beyond this the extra points add cost without
// materially improving the fit.
const maxEdgePoints = 2000

// Fit locates the solar disk's limb in img by gradient-magnitude
// thresholding (a Canny-like pre-filter, without the hysteresis and
// thinning stages a full Canny implementation would add) and fits an
// ellipse to the surviving edge pixels.
func Fit(img *numeric.Image) (Ellipse, error) {
	mag := gradientMagnitude(img)

	var peak float64
	for _, m := range mag {
		if m > peak {
			peak = m
		}
	}
	if peak == 0 {
		return Ellipse{}, ErrTooFewPoints
	}
	threshold := gradientPercentile * peak

	type point struct {
		x, y float64
		mag  float64
	}
	var pts []point
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			m := mag[y*img.Width+x]
			if m >= threshold {
				pts = append(pts, point{float64(x), float64(y), m})
			}
		}
	}
	if len(pts) < 5 {
		return Ellipse{}, ErrTooFewPoints
	}

	if len(pts) > maxEdgePoints {
		// Keep the strongest edges: a partial selection sort on magnitude
		// is adequate since we only need the top maxEdgePoints.
		for i := 0; i < maxEdgePoints; i++ {
			best := i
			for j := i + 1; j < len(pts); j++ {
				if pts[j].mag > pts[best].mag {
					best = j
				}
			}
			pts[i], pts[best] = pts[best], pts[i]
		}
		pts = pts[:maxEdgePoints]
	}

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.x, p.y
	}
	return fitEllipse(xs, ys, img.Width, img.Height)
}

// gradientMagnitude returns the Sobel gradient magnitude of img, after a
// light Gaussian blur to suppress pixel noise before differentiating.
func gradientMagnitude(img *numeric.Image) []float64 {
	blurred := separableBlur(img.Data, img.Width, img.Height, numeric.GaussianKernel(1.0))

	out := make([]float64, img.Width*img.Height)
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= img.Width {
			x = img.Width - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= img.Height {
			y = img.Height - 1
		}
		return blurred[y*img.Width+x]
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			gx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
			gy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))
			out[y*img.Width+x] = math.Hypot(gx, gy)
		}
	}
	return out
}

// separableBlur convolves data (width x height) with kernel independently
// along rows then columns, clamping at the edges.
func separableBlur(data []float64, width, height int, kernel []float64) []float64 {
	radius := len(kernel) / 2
	tmp := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sx := x + k
				if sx < 0 {
					sx = 0
				}
				if sx >= width {
					sx = width - 1
				}
				sum += data[y*width+sx] * kernel[k+radius]
			}
			tmp[y*width+x] = sum
		}
	}

	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sy := y + k
				if sy < 0 {
					sy = 0
				}
				if sy >= height {
					sy = height - 1
				}
				sum += tmp[sy*width+x] * kernel[k+radius]
			}
			out[y*width+x] = sum
		}
	}
	return out
}
