/*
DESCRIPTION
  diagnostics.go renders debug charts — the per-frame magnitude curve the
  edge detector produces, and the spectral line centers against their
  fitted polynomial — as PNGs via gonum.org/v1/plot, for the pipeline's
  DEBUG image kind.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package diagnostics renders optional debug charts for a reconstruction
// run: the edge detector's magnitude curve and the spectrum analyzer's
// fitted polynomial overlay. These are not part of the reconstruction
// math; they exist purely so a user can see why edge detection or
// polynomial fitting picked the range or curve it did.
package diagnostics

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/solexcore/jsolex/numeric"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// PlotMagnitudes renders the per-frame magnitude series, with a horizontal
// reference line at meanMagnitude, to path.
func PlotMagnitudes(path string, magnitudes []float64, meanMagnitude float64) error {
	p := plot.New()
	p.Title.Text = "Frame magnitude"
	p.X.Label.Text = "frame index"
	p.Y.Label.Text = "magnitude"

	series := make(plotter.XYs, len(magnitudes))
	for i, m := range magnitudes {
		series[i].X, series[i].Y = float64(i), m
	}
	line, err := plotter.NewLine(series)
	if err != nil {
		return fmt.Errorf("diagnostics: could not build magnitude line: %w", err)
	}
	p.Add(line)

	mean := make(plotter.XYs, 2)
	mean[0].X, mean[0].Y = 0, meanMagnitude
	mean[1].X, mean[1].Y = float64(len(magnitudes)-1), meanMagnitude
	meanLine, err := plotter.NewLine(mean)
	if err != nil {
		return fmt.Errorf("diagnostics: could not build mean reference line: %w", err)
	}
	meanLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(meanLine)

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("diagnostics: could not save magnitude chart: %w", err)
	}
	return nil
}

// PlotSpectrumFit renders the per-column line-center samples (xs, ys) as
// scattered points, overlaid with poly evaluated across [0, width), to
// path.
func PlotSpectrumFit(path string, xs, ys []float64, poly numeric.Polynomial, width int) error {
	p := plot.New()
	p.Title.Text = "Spectral line fit"
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row"

	samples := make(plotter.XYs, len(xs))
	for i := range xs {
		samples[i].X, samples[i].Y = xs[i], ys[i]
	}
	scatter, err := plotter.NewScatter(samples)
	if err != nil {
		return fmt.Errorf("diagnostics: could not build line-center scatter: %w", err)
	}
	p.Add(scatter)

	fitted := make(plotter.XYs, width)
	for x := 0; x < width; x++ {
		fitted[x].X = float64(x)
		fitted[x].Y = poly.Eval(float64(x))
	}
	fit, err := plotter.NewLine(fitted)
	if err != nil {
		return fmt.Errorf("diagnostics: could not build fit overlay: %w", err)
	}
	p.Add(fit)

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("diagnostics: could not save spectrum fit chart: %w", err)
	}
	return nil
}
