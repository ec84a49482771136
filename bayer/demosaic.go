/*
DESCRIPTION
  demosaic.go implements the bilinear Bayer demosaic: a 4-neighbor average
  at R and B sites (for the missing green channel, and for the opposite of
  red/blue via the diagonal neighbors), and a 2-neighbor average at green
  sites for the two missing red/blue channels. Borders are left at zero, as
  documented: the pipeline only ever consumes the resulting luminance, which
  discards the border artifact along with everything else outside the
  reconstructed disk.

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

import "github.com/solexcore/jsolex/ser"

const (
	chanR = 0
	chanG = 1
	chanB = 2
)

// tile holds the 2x2 CFA layout for a pattern, indexed [y%2][x%2].
var tiles = map[ser.ColorMode][2][2]int{
	ser.BayerRGGB: {{chanR, chanG}, {chanG, chanB}},
	ser.BayerBGGR: {{chanB, chanG}, {chanG, chanR}},
	ser.BayerGBRG: {{chanG, chanB}, {chanR, chanG}},
	ser.BayerGRBG: {{chanG, chanR}, {chanB, chanG}},
}

func colorAt(tile [2][2]int, x, y int) int {
	return tile[y&1][x&1]
}

// demosaic returns an interleaved (R,G,B) float triple per pixel, raster
// being a width x height single-channel CFA sample buffer. The first/last
// row and column are left at zero for every channel.
func demosaic(raster []float64, width, height int, pattern ser.ColorMode) []float64 {
	tile := tiles[pattern]
	out := make([]float64, width*height*3)

	at := func(x, y int) float64 { return raster[y*width+x] }

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			native := colorAt(tile, x, y)
			idx := (y*width + x) * 3
			out[idx+native] = at(x, y)

			switch native {
			case chanR, chanB:
				// Missing green: 4-neighbor average of the cardinal sites,
				// all of which carry green in a standard CFA.
				green := at(x-1, y) + at(x+1, y) + at(x, y-1) + at(x, y+1)
				out[idx+chanG] = green / 4

				// Missing opposite color (B at an R site, R at a B site):
				// 4-neighbor average of the diagonal sites.
				opposite := at(x-1, y-1) + at(x+1, y-1) + at(x-1, y+1) + at(x+1, y+1)
				if native == chanR {
					out[idx+chanB] = opposite / 4
				} else {
					out[idx+chanR] = opposite / 4
				}

			case chanG:
				// Missing red and blue: each is a 2-neighbor average along
				// whichever axis carries that color at this G site.
				if colorAt(tile, x-1, y) == chanR || colorAt(tile, x+1, y) == chanR {
					out[idx+chanR] = (at(x-1, y) + at(x+1, y)) / 2
					out[idx+chanB] = (at(x, y-1) + at(x, y+1)) / 2
				} else {
					out[idx+chanB] = (at(x-1, y) + at(x+1, y)) / 2
					out[idx+chanR] = (at(x, y-1) + at(x, y+1)) / 2
				}
			}
		}
	}

	return out
}
