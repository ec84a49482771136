/*
DESCRIPTION
  workflow.go defines WorkflowState, the per-pixel-shift reconstruction
  buffer and its typed stage-result side-table, and StageTag, the key into
  that table.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package reconstruct implements the reconstruction engine: for each frame
// in the detected scan range and each requested pixel shift, it samples one
// output row by interpolating along the distortion polynomial offset by
// the shift.
package reconstruct

import "github.com/solexcore/jsolex/numeric"

// StageTag identifies a pipeline stage's cached result on a WorkflowState.
type StageTag int

// Stage tags a WorkflowState's result table may hold.
const (
	StageRaw StageTag = iota
	StageGeometryCorrected
	StageBandingFixed
)

// StageResult is one stage's cached output image for a WorkflowState.
type StageResult struct {
	Image *numeric.Image
}

// WorkflowState is the per-pixel-shift reconstruction state: one is created
// per requested shift before reconstruction begins and lives until the
// pipeline drains. Internal shifts (Internal == true) participate in
// computation but are never emitted.
type WorkflowState struct {
	PixelShift float64
	Width      int
	Height     int // end - start, the number of scan rows.
	Buffer     []float64
	Internal   bool
	Stages     map[StageTag]StageResult
}

// NewWorkflowState allocates a width x height reconstruction buffer for the
// given pixel shift. Buffers are allocated exactly once and filled exactly
// once per (row, shift), per the pipeline's invariant.
func NewWorkflowState(width, height int, pixelShift float64, internal bool) *WorkflowState {
	return &WorkflowState{
		PixelShift: pixelShift,
		Width:      width,
		Height:     height,
		Buffer:     make([]float64, width*height),
		Internal:   internal,
		Stages:     make(map[StageTag]StageResult),
	}
}

// Image wraps the reconstructed buffer as a numeric.Image, tagging it with
// its pixel shift metadata.
func (s *WorkflowState) Image() *numeric.Image {
	return (&numeric.Image{
		Width:    s.Width,
		Height:   s.Height,
		Data:     s.Buffer,
		Metadata: map[numeric.MetaKey]any{numeric.PixelShiftKey: s.PixelShift},
	})
}
