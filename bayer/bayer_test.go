/*
DESCRIPTION
  bayer_test.go exercises the demosaic border and green-value invariants,
  and the mono/RGB conversion paths.

AUTHORS
  Theo Santamaria <theo@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package bayer

import (
	"testing"

	"github.com/solexcore/jsolex/ser"
)

func TestDemosaicBordersAreZero(t *testing.T) {
	const w, h = 6, 6
	raster := make([]float64, w*h)
	for i := range raster {
		raster[i] = float64(i + 1)
	}

	rgb := demosaic(raster, w, h, ser.BayerRGGB)

	for x := 0; x < w; x++ {
		for _, y := range []int{0, h - 1} {
			idx := (y*w + x) * 3
			for c := 0; c < 3; c++ {
				if rgb[idx+c] != 0 {
					t.Fatalf("border pixel (%d,%d) channel %d not zero: %v", x, y, c, rgb[idx+c])
				}
			}
		}
	}
	for y := 0; y < h; y++ {
		for _, x := range []int{0, w - 1} {
			idx := (y*w + x) * 3
			for c := 0; c < 3; c++ {
				if rgb[idx+c] != 0 {
					t.Fatalf("border pixel (%d,%d) channel %d not zero: %v", x, y, c, rgb[idx+c])
				}
			}
		}
	}
}

// TestDemosaicRedOnlyCheckerboardGreenMatchesMean feeds a red-only pattern
// (red sites non-zero, everything else zero) and checks that green at every
// interior red site equals the mean of its 4 green neighbors. Those
// neighbors are all zero here, so the check also shows that no red value
// leaks into the green channel.
func TestDemosaicRedOnlyCheckerboardGreenMatchesMean(t *testing.T) {
	const w, h = 8, 8
	tile := tiles[ser.BayerRGGB]
	raster := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if colorAt(tile, x, y) == chanR {
				raster[y*w+x] = float64((x+1)*10 + y)
			}
		}
	}

	rgb := demosaic(raster, w, h, ser.BayerRGGB)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if colorAt(tile, x, y) != chanR {
				continue
			}
			idx := (y*w + x) * 3
			wantGreen := (raster[(y-1)*w+x] + raster[(y+1)*w+x] + raster[y*w+x-1] + raster[y*w+x+1]) / 4
			if rgb[idx+chanG] != wantGreen {
				t.Errorf("at (%d,%d): green = %v, want mean-of-4-neighbors %v", x, y, rgb[idx+chanG], wantGreen)
			}
		}
	}
}

func TestMonoConverter(t *testing.T) {
	g := ser.Geometry{Width: 2, Height: 2, BitsPerPixel: 8, ColorMode: ser.Mono}
	raw := []byte{10, 20, 30, 40}
	out := MonoConverter{}.CreateBuffer(g)
	if err := (MonoConverter{}).Convert(0, raw, g, out); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := []float64{10, 20, 30, 40}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestRGBConverterLuminance(t *testing.T) {
	g := ser.Geometry{Width: 1, Height: 1, BitsPerPixel: 8, ColorMode: ser.RGB}
	raw := []byte{100, 150, 200}
	out := RGBConverter{}.CreateBuffer(g)
	if err := (RGBConverter{}).Convert(0, raw, g, out); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := lumaR*100 + lumaG*150 + lumaB*200
	if out[0] != want {
		t.Errorf("out[0] = %v, want %v", out[0], want)
	}
}
