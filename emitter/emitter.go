/*
DESCRIPTION
  emitter.go defines Emitter, the image/file output collaborator the core
  invokes with in-memory buffers; the core never encodes or persists a file
  itself. NullEmitter and DirEmitter are the two concrete collaborators
  provided here: a no-op for tests, and a directory-based PNG writer for a
  runnable CLI.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package emitter defines the ImageEmitter contract: the core hands it
// in-memory float buffers and delegates rendering and persistence.
package emitter

import (
	"github.com/solexcore/jsolex/config"
	"github.com/solexcore/jsolex/numeric"
)

// ColorPainter paints a pixel's RGB value given its coordinates; used by
// NewColorImage for composites the core builds from more than one
// monochrome plane (e.g. a doppler red/blue composite).
type ColorPainter func(x, y int) (r, g, b uint16)

// Emitter is the output collaborator. The core never writes destination
// files directly: every generated artifact passes through one of these
// methods.
type Emitter interface {
	// NewMonoImage emits a single-channel image. transform, if non-nil, is
	// applied to each sample before emission (e.g. a stretch curve); the
	// core does not specify its signature, only that the emitter accepts
	// one.
	NewMonoImage(kind config.ImageKind, category, title, name string, img *numeric.Image, transform func(float64) float64) error

	// NewColorImage emits a composite color image of the given size,
	// painted by paint.
	NewColorImage(kind config.ImageKind, category, title, name string, width, height int, paint ColorPainter) error

	// NewGenericFile registers a non-image output file already written to
	// path (e.g. a FITS export) under the given kind/category/title/name.
	NewGenericFile(kind config.ImageKind, category, title, name, path string) error
}
