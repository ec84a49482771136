/*
DESCRIPTION
  diagnostics_test.go verifies that both chart renderers produce a
  non-empty PNG file for representative input.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solexcore/jsolex/numeric"
)

func TestPlotMagnitudesWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mag.png")
	magnitudes := make([]float64, 50)
	for i := range magnitudes {
		magnitudes[i] = float64(i % 10)
	}

	if err := PlotMagnitudes(path, magnitudes, 4.5); err != nil {
		t.Fatalf("PlotMagnitudes: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func TestPlotSpectrumFitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fit.png")
	xs := []float64{0, 10, 20, 30}
	ys := []float64{15, 15.5, 16, 16.5}
	poly := numeric.Polynomial{A: 0, B: 0.05, C: 15}

	if err := PlotSpectrumFit(path, xs, ys, poly, 40); err != nil {
		t.Fatalf("PlotSpectrumFit: %v", err)
	}
	assertNonEmptyFile(t, path)
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", path)
	}
}
