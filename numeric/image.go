/*
DESCRIPTION
  image.go provides Image, the shared float-pixel buffer with typed metadata
  that every reconstruction stage passes between itself and the next.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package numeric provides the image representation and the numeric kernels
// (FFT, parabola fit, bilinear sampling, rotate/rescale) that the rest of the
// reconstruction pipeline is built on.
package numeric

import "fmt"

// MetaKey identifies an entry in an Image's metadata map. Using a distinct
// type per purpose gives typed lookup without reflection.
type MetaKey int

// Metadata keys recognised by the pipeline. Consumers that don't know about
// a key simply never set or read it.
const (
	EllipseKey MetaKey = iota
	PixelShiftKey
	BlackPointKey
	StatsKey
)

// MinSample and MaxSample bound every float sample written into a
// reconstructed buffer; see Image.CheckRange.
const (
	MinSample = 0
	MaxSample = 65535
)

// Image is a width x height buffer of float64 samples in [MinSample,
// MaxSample], with a small typed side-table of metadata. Images are passed
// by move between pipeline stages; in-place mutation of Data is only safe
// while a stage exclusively owns the Image.
type Image struct {
	Width, Height int
	Data          []float64
	Metadata      map[MetaKey]any
}

// NewImage allocates a zeroed Image of the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Data:     make([]float64, width*height),
		Metadata: make(map[MetaKey]any),
	}
}

// At returns the sample at (x, y).
func (img *Image) At(x, y int) float64 {
	return img.Data[y*img.Width+x]
}

// Set writes value at (x, y).
func (img *Image) Set(x, y int, value float64) {
	img.Data[y*img.Width+x] = value
}

// Clone returns a deep copy of img, including a copy of the metadata map.
func (img *Image) Clone() *Image {
	out := &Image{
		Width:    img.Width,
		Height:   img.Height,
		Data:     make([]float64, len(img.Data)),
		Metadata: make(map[MetaKey]any, len(img.Metadata)),
	}
	copy(out.Data, img.Data)
	for k, v := range img.Metadata {
		out.Metadata[k] = v
	}
	return out
}

// WithMeta sets a metadata entry and returns img for chaining.
func (img *Image) WithMeta(key MetaKey, value any) *Image {
	img.Metadata[key] = value
	return img
}

// Meta returns a metadata entry and whether it was present.
func (img *Image) Meta(key MetaKey) (any, bool) {
	v, ok := img.Metadata[key]
	return v, ok
}

// CheckRange asserts that every sample in img lies within [MinSample,
// MaxSample]. A violation is a programmer error: the reconstruction
// invariant guarantees this never happens for correctly derived data, so
// callers should treat a non-nil return as a fail-fast condition, not a
// recoverable user error.
func (img *Image) CheckRange() error {
	for i, v := range img.Data {
		if v < MinSample || v > MaxSample {
			return fmt.Errorf("sample %d out of range [0,65535]: %v", i, v)
		}
	}
	return nil
}

// Stats holds basic order statistics over an Image, stored under StatsKey.
type Stats struct {
	Min, Max, Mean, Median float64
}
