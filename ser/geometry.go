/*
DESCRIPTION
  geometry.go defines the frame geometry and color-mode types shared by the
  SER reader and the Bayer/mono converter.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package ser provides a sequential, single-owner reader for SER v3 video
// files, the wire format Sol'Ex spectrograph recordings are stored in.
package ser

// ColorMode identifies how a frame's raw bytes should be interpreted.
type ColorMode int

// Color modes recognised by the SER format's color-id field.
const (
	Mono ColorMode = iota
	RGB
	BayerRGGB
	BayerBGGR
	BayerGBRG
	BayerGRBG
)

// Bayer reports whether m is one of the four CFA patterns.
func (m ColorMode) Bayer() bool {
	switch m {
	case BayerRGGB, BayerBGGR, BayerGBRG, BayerGRBG:
		return true
	default:
		return false
	}
}

// Geometry describes the shape of every frame in a SER file: identical for
// all frames by the format's own guarantee.
type Geometry struct {
	Width, Height int
	BitsPerPixel  int // 8 or 16, per-plane pixel depth from the header.
	ColorMode     ColorMode
	LittleEndian  bool
}

// BytesPerPixel returns the number of bytes one pixel sample occupies,
// accounting for 8 vs 16-bit depth and mono vs RGB/Bayer planes.
func (g Geometry) BytesPerPixel() int {
	sampleBytes := 1
	if g.BitsPerPixel > 8 {
		sampleBytes = 2
	}
	planes := 1
	if g.ColorMode == RGB {
		planes = 3
	}
	return sampleBytes * planes
}

// FrameSize returns the number of bytes in one raw frame.
func (g Geometry) FrameSize() int {
	return g.Width * g.Height * g.BytesPerPixel()
}
