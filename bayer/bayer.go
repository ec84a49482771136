/*
DESCRIPTION
  bayer.go implements the Bayer/mono converter: mapping raw SER frame bytes
  to single-channel float buffers, demosaicing Bayer-pattern frames by
  bilinear interpolation first.

AUTHORS
  Theo Santamaria <theo@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package bayer converts raw SER frame bytes (mono, RGB, or one of the four
// Bayer CFA patterns) into the float buffers the rest of the pipeline
// operates on.
package bayer

import (
	"encoding/binary"
	"fmt"

	"github.com/solexcore/jsolex/ser"
)

// Converter maps raw frame bytes to a float buffer.
type Converter interface {
	// CreateBuffer allocates an output buffer sized for geometry g.
	CreateBuffer(g ser.Geometry) []float64

	// Convert decodes frame frameIndex's raw bytes into out, which must
	// have been created by CreateBuffer for the same geometry.
	Convert(frameIndex int, raw []byte, g ser.Geometry, out []float64) error
}

// NewConverter returns the Converter appropriate for g's color mode.
func NewConverter(g ser.Geometry) (Converter, error) {
	switch {
	case g.ColorMode == ser.Mono:
		return MonoConverter{}, nil
	case g.ColorMode == ser.RGB:
		return RGBConverter{}, nil
	case g.ColorMode.Bayer():
		return BayerConverter{Pattern: g.ColorMode}, nil
	default:
		return nil, fmt.Errorf("bayer: unsupported color mode %v", g.ColorMode)
	}
}

func sampleAt(raw []byte, idx, bytesPerSample int, littleEndian bool) float64 {
	off := idx * bytesPerSample
	if bytesPerSample == 1 {
		return float64(raw[off])
	}
	if littleEndian {
		return float64(binary.LittleEndian.Uint16(raw[off:]))
	}
	return float64(binary.BigEndian.Uint16(raw[off:]))
}

// MonoConverter copies 8- or 16-bit monochrome samples directly to float.
type MonoConverter struct{}

func (MonoConverter) CreateBuffer(g ser.Geometry) []float64 {
	return make([]float64, g.Width*g.Height)
}

func (MonoConverter) Convert(_ int, raw []byte, g ser.Geometry, out []float64) error {
	sampleBytes := 1
	if g.BitsPerPixel > 8 {
		sampleBytes = 2
	}
	n := g.Width * g.Height
	if len(raw) < n*sampleBytes {
		return fmt.Errorf("bayer: mono frame too short: have %d bytes, want %d", len(raw), n*sampleBytes)
	}
	for i := 0; i < n; i++ {
		out[i] = sampleAt(raw, i, sampleBytes, g.LittleEndian)
	}
	return nil
}

// luminance weights, ITU-R BT.601.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// RGBConverter reduces an interleaved RGB frame to a weighted-luminance
// float buffer.
type RGBConverter struct{}

func (RGBConverter) CreateBuffer(g ser.Geometry) []float64 {
	return make([]float64, g.Width*g.Height)
}

func (RGBConverter) Convert(_ int, raw []byte, g ser.Geometry, out []float64) error {
	sampleBytes := 1
	if g.BitsPerPixel > 8 {
		sampleBytes = 2
	}
	n := g.Width * g.Height
	if len(raw) < n*3*sampleBytes {
		return fmt.Errorf("bayer: RGB frame too short: have %d bytes, want %d", len(raw), n*3*sampleBytes)
	}
	for i := 0; i < n; i++ {
		r := sampleAt(raw, i*3, sampleBytes, g.LittleEndian)
		gc := sampleAt(raw, i*3+1, sampleBytes, g.LittleEndian)
		b := sampleAt(raw, i*3+2, sampleBytes, g.LittleEndian)
		out[i] = lumaR*r + lumaG*gc + lumaB*b
	}
	return nil
}

// BayerConverter demosaics a Bayer-pattern frame by bilinear interpolation,
// then reduces the interpolated RGB triple to luminance. Pattern selects
// which of the four site layouts the sensor used.
type BayerConverter struct {
	Pattern ser.ColorMode
}

func (BayerConverter) CreateBuffer(g ser.Geometry) []float64 {
	return make([]float64, g.Width*g.Height)
}

func (c BayerConverter) Convert(_ int, raw []byte, g ser.Geometry, out []float64) error {
	sampleBytes := 1
	if g.BitsPerPixel > 8 {
		sampleBytes = 2
	}
	n := g.Width * g.Height
	if len(raw) < n*sampleBytes {
		return fmt.Errorf("bayer: CFA frame too short: have %d bytes, want %d", len(raw), n*sampleBytes)
	}

	raster := make([]float64, n)
	for i := 0; i < n; i++ {
		raster[i] = sampleAt(raw, i, sampleBytes, g.LittleEndian)
	}

	rgb := demosaic(raster, g.Width, g.Height, c.Pattern)
	for i := 0; i < n; i++ {
		r, gc, b := rgb[i*3], rgb[i*3+1], rgb[i*3+2]
		out[i] = lumaR*r + lumaG*gc + lumaB*b
	}
	return nil
}
