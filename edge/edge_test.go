/*
DESCRIPTION
  edge_test.go verifies the detector against a synthetic magnitude envelope
  that ramps 0 -> 1 -> 0, reproducing the end-to-end scenario from the
  design documentation.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package edge

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/solexcore/jsolex/bayer"
	"github.com/solexcore/jsolex/ser"
)

// fakeSource is a minimal FrameSource backed by an in-memory slice of
// pre-encoded mono 16-bit frames.
type fakeSource struct {
	frames [][]byte
	pos    int
}

func (f *fakeSource) FrameCount() int { return len(f.frames) }

func (f *fakeSource) Seek(i int) error {
	f.pos = i - 1
	return nil
}

func (f *fakeSource) NextFrame() ([]byte, error) {
	next := f.pos + 1
	if next >= len(f.frames) {
		return nil, io.EOF
	}
	f.pos = next
	return f.frames[next], nil
}

func encodeMono16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func TestDetectRampingEnvelope(t *testing.T) {
	const n = 400
	frames := make([][]byte, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		// Triangular envelope peaking at the midpoint.
		v := 1 - math.Abs(2*t-1)
		frames[i] = encodeMono16(uint16(v * 60000))
	}

	src := &fakeSource{frames: frames}
	g := ser.Geometry{Width: 1, Height: 1, BitsPerPixel: 16, ColorMode: ser.Mono, LittleEndian: true}

	res, err := Detect(src, g, bayer.MonoConverter{}, 0, 0.5)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !res.HasEdges {
		t.Fatal("expected edges to be detected")
	}

	threshold := 0.5 * maxOf(res.Magnitudes)
	unpaddedStart, unpaddedEnd := -1, -1
	for i, m := range res.Magnitudes {
		if m >= threshold {
			if unpaddedStart == -1 {
				unpaddedStart = i
			}
			unpaddedEnd = i + 1
		}
	}

	wantStart := unpaddedStart - Pad
	if wantStart < 0 {
		wantStart = 0
	}
	wantEnd := unpaddedEnd + Pad
	if wantEnd > n {
		wantEnd = n
	}

	if res.Start != wantStart || res.End != wantEnd {
		t.Fatalf("got range [%d,%d), want [%d,%d)", res.Start, res.End, wantStart, wantEnd)
	}
	if res.Magnitudes[res.Start] < 0 {
		t.Fatalf("magnitude at padded start is negative: %v", res.Magnitudes[res.Start])
	}
}

func maxOf(xs []float64) float64 {
	var m float64
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

func TestDetectNoEdgesWhenBelowThreshold(t *testing.T) {
	const n = 10
	frames := make([][]byte, n)
	for i := range frames {
		frames[i] = encodeMono16(100)
	}
	src := &fakeSource{frames: frames}
	g := ser.Geometry{Width: 1, Height: 1, BitsPerPixel: 16, ColorMode: ser.Mono, LittleEndian: true}

	res, err := Detect(src, g, bayer.MonoConverter{}, 0, 1.5)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.HasEdges {
		t.Fatal("expected no edges when threshold unreachable")
	}
	if res.Start != 0 || res.End != n {
		t.Fatalf("got range [%d,%d), want whole file [0,%d)", res.Start, res.End, n)
	}
}
