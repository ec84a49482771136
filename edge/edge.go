/*
DESCRIPTION
  edge.go implements the magnitude-based sun-edge detector: it consumes
  every SER frame once to build the average spectrum image and a per-frame
  magnitude series, then locates the first and last frame whose magnitude
  exceeds a relative threshold, padding the result by 40 frames on each
  side.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package edge implements the sun-edge detector: a single pass over every
// SER frame that produces the average spectrum image and the scan's
// start/end frame indices.
package edge

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"

	"github.com/solexcore/jsolex/bayer"
	"github.com/solexcore/jsolex/numeric"
	"github.com/solexcore/jsolex/ser"
)

// Pad is the number of frames the detected edge range is extended by on
// each side, clamped to the file's frame count.
const Pad = 40

// FrameSource is the subset of ser.Reader's API the detector needs; it is
// satisfied structurally by *ser.Reader so tests can supply a fake.
type FrameSource interface {
	FrameCount() int
	Seek(i int) error
	NextFrame() ([]byte, error)
}

// Result holds the average spectrum image, per-frame magnitudes, and the
// detected scan range.
type Result struct {
	Average       *numeric.Image
	Magnitudes    []float64
	MeanMagnitude float64
	Start, End    int // [Start, End), end-exclusive.
	HasEdges      bool
}

// Detect consumes every frame of src once. floor is the brightness floor a
// pixel must exceed to contribute to a frame's magnitude; relThreshold is
// the fraction of the peak magnitude a frame must reach to count as inside
// the sun's sweep.
func Detect(src FrameSource, g ser.Geometry, conv bayer.Converter, floor, relThreshold float64) (Result, error) {
	count := src.FrameCount()
	if count == 0 {
		return Result{}, fmt.Errorf("edge: SER file has no frames")
	}

	if err := src.Seek(0); err != nil {
		return Result{}, fmt.Errorf("edge: could not seek to start: %w", err)
	}

	sum := make([]float64, g.Width*g.Height)
	magnitudes := make([]float64, count)
	buf := conv.CreateBuffer(g)

	for i := 0; i < count; i++ {
		raw, err := src.NextFrame()
		if err != nil {
			if err == io.EOF {
				return Result{}, fmt.Errorf("edge: unexpected end of file at frame %d of %d", i, count)
			}
			return Result{}, fmt.Errorf("edge: could not read frame %d: %w", i, err)
		}
		if err := conv.Convert(i, raw, g, buf); err != nil {
			return Result{}, fmt.Errorf("edge: could not convert frame %d: %w", i, err)
		}

		var mag float64
		for j, v := range buf {
			sum[j] += v
			if v > floor {
				mag += v - floor
			}
		}
		magnitudes[i] = mag
	}

	avg := numeric.NewImage(g.Width, g.Height)
	invCount := 1 / float64(count)
	for j := range sum {
		avg.Data[j] = sum[j] * invCount
	}

	mean := stat.Mean(magnitudes, nil)

	var peak float64
	for _, m := range magnitudes {
		if m > peak {
			peak = m
		}
	}
	threshold := relThreshold * peak

	start, end, found := -1, -1, false
	for i, m := range magnitudes {
		if m >= threshold {
			if start == -1 {
				start = i
			}
			end = i + 1
			found = true
		}
	}

	res := Result{Average: avg, Magnitudes: magnitudes, MeanMagnitude: mean}
	if !found {
		res.Start, res.End, res.HasEdges = 0, count, false
		return res, nil
	}

	start -= Pad
	if start < 0 {
		start = 0
	}
	end += Pad
	if end > count {
		end = count
	}

	res.Start, res.End, res.HasEdges = start, end, true
	return res, nil
}
