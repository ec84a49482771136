/*
DESCRIPTION
  sample.go provides bilinear sampling and the image rotate/rescale
  primitives used by geometry correction, plus the Gaussian kernel used by
  the geometry corrector's edge pre-filter.

AUTHORS
  Theo Santamaria <theo@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package numeric

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// BilinearSample returns the bilinearly interpolated sample of data (a
// width x height buffer) at the fractional coordinate (x, y). Coordinates
// outside [0, width) x [0, height) are clamped to the nearest edge.
func BilinearSample(data []float64, width, height int, x, y float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > float64(width-1) {
		x = float64(width - 1)
	}
	if y < 0 {
		y = 0
	}
	if y > float64(height-1) {
		y = float64(height - 1)
	}

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	if x1 > width-1 {
		x1 = width - 1
	}
	y1 := y0 + 1
	if y1 > height-1 {
		y1 = height - 1
	}

	fx := x - float64(x0)
	fy := y - float64(y0)

	v00 := data[y0*width+x0]
	v10 := data[y0*width+x1]
	v01 := data[y1*width+x0]
	v11 := data[y1*width+x1]

	top := v00 + fx*(v10-v00)
	bottom := v01 + fx*(v11-v01)
	return top + fy*(bottom-top)
}

// GaussianKernel returns a normalized 1-D Gaussian kernel of the given
// sigma, sized to cover +/-3 sigma.
func GaussianKernel(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	radius := int(math.Ceil(3 * sigma))
	size := 2*radius + 1
	k := make([]float64, size)
	var sum float64
	for i := range k {
		d := float64(i - radius)
		v := math.Exp(-(d * d) / (2 * sigma * sigma))
		k[i] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// Rotate rotates the image held in data (width x height) by angle radians
// about its center, producing a new width x height buffer. Out-of-bounds
// samples after rotation are filled with fill.
func Rotate(data []float64, width, height int, angle, fill float64) []float64 {
	out := make([]float64, width*height)
	cx, cy := float64(width)/2, float64(height)/2
	cosA, sinA := math.Cos(-angle), math.Sin(-angle)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			srcX := cosA*dx - sinA*dy + cx
			srcY := sinA*dx + cosA*dy + cy
			if srcX < 0 || srcX > float64(width-1) || srcY < 0 || srcY > float64(height-1) {
				out[y*width+x] = fill
				continue
			}
			out[y*width+x] = BilinearSample(data, width, height, srcX, srcY)
		}
	}
	return out
}

// Rescale resizes the image held in data (width x height) to newWidth x
// newHeight using bilinear interpolation, via golang.org/x/image/draw so
// the xy-ratio correction stage shares its resampler with the rest of the
// Go image ecosystem rather than a hand-rolled resize.
func Rescale(data []float64, width, height, newWidth, newHeight int) []float64 {
	src := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := data[y*width+x]
			if v < MinSample {
				v = MinSample
			}
			if v > MaxSample {
				v = MaxSample
			}
			src.SetGray16(x, y, color.Gray16{Y: uint16(v)})
		}
	}

	dst := image.NewGray16(image.Rect(0, 0, newWidth, newHeight))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out := make([]float64, newWidth*newHeight)
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			out[y*newWidth+x] = float64(dst.Gray16At(x, y).Y)
		}
	}
	return out
}
