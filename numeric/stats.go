/*
DESCRIPTION
  stats.go computes the order statistics (min, max, mean, median) recorded
  against an Image's StatsKey metadata entry, using gonum's floats and stat
  packages the same way edge.Detect already uses stat.Mean.

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
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComputeStats returns the basic order statistics of img's samples.
func ComputeStats(img *Image) Stats {
	if len(img.Data) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(img.Data))
	copy(sorted, img.Data)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return Stats{
		Min:    floats.Min(img.Data),
		Max:    floats.Max(img.Data),
		Mean:   stat.Mean(img.Data, nil),
		Median: median,
	}
}
