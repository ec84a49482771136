/*
DESCRIPTION
  event.go defines Event, a tagged variant covering every notification the
  pipeline can emit, and Listener, the fan-out target. A Java-style
  instance-of event hierarchy becomes a Kind tag plus one typed payload
  struct per variant; listeners switch exhaustively on Kind.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package broadcast provides the typed progress/notification event
// broadcaster the pipeline publishes to and the GUI (out of scope here)
// would subscribe to.
package broadcast

import (
	"time"

	"github.com/solexcore/jsolex/geometry"
	"github.com/solexcore/jsolex/numeric"
)

// Kind tags which payload field of Event is populated.
type Kind int

// Event kinds, one per spec-documented variant.
const (
	KindProcessingStart Kind = iota
	KindOutputImageDimensionsDetermined
	KindPartialReconstruction
	KindImageGenerated
	KindFileGenerated
	KindNotification
	KindSuggestion
	KindProgress
	KindVideoMetadata
	KindProcessingDone
	KindScriptExecutionResult
)

// Severity levels for Notification events.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Event is a tagged union: exactly the field matching Kind is populated.
type Event struct {
	Kind Kind

	OutputDimensions *OutputImageDimensions
	PartialRecon     *PartialReconstruction
	ImageGenerated   *ImageGenerated
	FileGenerated    *FileGenerated
	Notification     *Notification
	Suggestion       *Suggestion
	Progress         *Progress
	VideoMetadata    *VideoMetadata
	ProcessingDone   *ProcessingDone
	ScriptResult     *ScriptExecutionResult
}

// OutputImageDimensions reports the final width/height of the output once
// determined (after edge detection).
type OutputImageDimensions struct {
	Width, Height int
}

// PartialReconstruction reports that one row of one shift's plane has been
// written; the UI treats each (Row, Shift) as idempotent regardless of
// arrival order.
type PartialReconstruction struct {
	Row, Shift int
	Line       []float64
	Annotated  bool
}

// ImageGenerated reports a completed, in-memory image ready for the
// emitter.
type ImageGenerated struct {
	Kind, Category, Title, Path string
}

// FileGenerated reports a generic (non-image) output file.
type FileGenerated struct {
	Path string
}

// Notification is a user-facing message with a severity.
type Notification struct {
	Severity Severity
	Title    string
	Header   string
	Message  string
}

// Suggestion is a non-blocking recommendation to the user (e.g. "try a
// lower detection threshold").
type Suggestion struct {
	Message string
}

// Progress reports overall run completion.
type Progress struct {
	Fraction float64
	Task     string
}

// VideoMetadata carries SER-derived metadata (fps, frame count, geometry).
type VideoMetadata struct {
	FrameCount  int
	Width       int
	Height      int
	FPS         float64
	HasFPS      bool
}

// ProcessingDone marks the end of a run; broadcast only after the
// outermost Blocking scope returns. Ellipse and Stats are nil when the
// primary shift's geometry correction did not succeed; a non-nil Ellipse
// carries the same fitted ellipse geometry.Correct wrote into the
// corrected image's metadata.
type ProcessingDone struct {
	Timestamp   time.Time
	ShiftImages []int
	Ellipse     *geometry.Ellipse
	Stats       *numeric.Stats
}

// ScriptExecutionResult is out of scope for the reconstruction core but
// kept as a stable event slot other collaborators may populate.
type ScriptExecutionResult struct {
	Output string
	Err    error
}

// Listener receives broadcast events. Implementations must not block: a
// listener that needs to do slow work should hand the event to its own
// executor.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }
