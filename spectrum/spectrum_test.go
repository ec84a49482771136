/*
DESCRIPTION
  spectrum_test.go verifies polynomial recovery on a synthetic average
  image with a known parabolic absorption line, and the threshold
  escalation failure path.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package spectrum

import (
	"math"
	"testing"

	"github.com/solexcore/jsolex/numeric"
)

// buildSyntheticAverage builds a width x height average image whose
// absorption line follows poly, with a dark dip of the given depth at the
// line center and a bright background elsewhere.
func buildSyntheticAverage(width, height int, poly numeric.Polynomial, depth, background float64) *numeric.Image {
	img := numeric.NewImage(width, height)
	for x := 0; x < width; x++ {
		lineY := poly.Eval(float64(x))
		for y := 0; y < height; y++ {
			d := float64(y) - lineY
			v := background - depth*math.Exp(-(d*d)/2)
			img.Set(x, y, v)
		}
	}
	return img
}

func TestAnalyzeRecoversFlatLine(t *testing.T) {
	want := numeric.Polynomial{A: 0, B: 0, C: 15}
	avg := buildSyntheticAverage(32, 32, want, 4000, 4500)

	got, err := Analyze(avg, 0.2, DefaultCeiling)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if math.Abs(got.A-want.A) > 0.05 || math.Abs(got.B-want.B) > 0.05 || math.Abs(got.C-want.C) > 0.5 {
		t.Errorf("got %+v, want close to %+v", got, want)
	}
}

func TestAnalyzeRecoversCurvedLine(t *testing.T) {
	want := numeric.Polynomial{A: 0.01, B: -0.3, C: 20}
	avg := buildSyntheticAverage(64, 64, want, 3500, 4000)

	got, err := Analyze(avg, 0.2, DefaultCeiling)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if math.Abs(got.A-want.A) > 0.01 || math.Abs(got.B-want.B) > 0.1 || math.Abs(got.C-want.C) > 1 {
		t.Errorf("got %+v, want close to %+v", got, want)
	}
}

func TestAnalyzeFailsWhenNoLinePresent(t *testing.T) {
	img := numeric.NewImage(16, 16)
	for i := range img.Data {
		img.Data[i] = 4500
	}

	_, err := Analyze(img, 0.2, DefaultCeiling)
	if err == nil {
		t.Fatal("expected ErrLineNotFound for a flat, lineless image")
	}
}
