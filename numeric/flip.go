/*
DESCRIPTION
  flip.go provides the horizontal and vertical mirror operations used by
  geometry correction's optional flip stage.

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

// FlipHorizontal returns a new buffer with each row reversed.
func FlipHorizontal(data []float64, width, height int) []float64 {
	out := make([]float64, len(data))
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			out[row+x] = data[row+width-1-x]
		}
	}
	return out
}

// FlipVertical returns a new buffer with rows reversed top to bottom.
func FlipVertical(data []float64, width, height int) []float64 {
	out := make([]float64, len(data))
	for y := 0; y < height; y++ {
		copy(out[y*width:(y+1)*width], data[(height-1-y)*width:(height-y)*width])
	}
	return out
}
