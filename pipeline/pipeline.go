/*
DESCRIPTION
  pipeline.go wires the reconstruction core end-to-end: SER reader to
  converter, edge detector, spectrum analyzer, reconstruction engine,
  banding correction, ellipse fit, geometry correction, and finally the
  emitter collaborator — broadcasting progress and result events at each
  stage boundary. Modeled on revid/revid.go's Start/run lifecycle: one
  struct owns every long-lived collaborator and exposes a single blocking
  entry point.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package pipeline orchestrates a full reconstruction run: it is the glue
// between the core packages (ser, bayer, edge, spectrum, reconstruct,
// banding, geometry) and an Emitter, wiring them in the order the system's
// data flow specifies and broadcasting progress/result events throughout.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/solexcore/jsolex/banding"
	"github.com/solexcore/jsolex/bayer"
	"github.com/solexcore/jsolex/broadcast"
	"github.com/solexcore/jsolex/config"
	"github.com/solexcore/jsolex/diagnostics"
	"github.com/solexcore/jsolex/edge"
	"github.com/solexcore/jsolex/emitter"
	"github.com/solexcore/jsolex/geometry"
	"github.com/solexcore/jsolex/numeric"
	"github.com/solexcore/jsolex/reconstruct"
	"github.com/solexcore/jsolex/sched"
	"github.com/solexcore/jsolex/ser"
	"github.com/solexcore/jsolex/spectrum"
)

// Pipeline owns one reconstruction run's collaborators: its configuration,
// event broadcaster, and the two scheduling contexts every stage shares.
type Pipeline struct {
	Cfg  config.Config
	Pub  *broadcast.Broadcaster
	Emit emitter.Emitter
	Main *sched.Context
	IO   *sched.Context
}

// New returns a Pipeline ready to run, constructing Main with
// runtime.NumCPU() capacity and IO serialized to one reader at a time, per
// spec.md's scheduling model.
func New(cfg config.Config, pub *broadcast.Broadcaster, em emitter.Emitter) *Pipeline {
	if pub == nil {
		pub = broadcast.New()
	}
	if em == nil {
		em = emitter.NullEmitter{}
	}
	return &Pipeline{
		Cfg:  cfg,
		Pub:  pub,
		Emit: em,
		Main: sched.NewContext("main", runtime.NumCPU()),
		IO:   sched.NewContext("io", 1),
	}
}

// notify broadcasts a user-facing Notification at the given severity.
func (p *Pipeline) notify(sev broadcast.Severity, title, header, message string) {
	p.Pub.Broadcast(broadcast.Event{
		Kind: broadcast.KindNotification,
		Notification: &broadcast.Notification{
			Severity: sev, Title: title, Header: header, Message: message,
		},
	})
}

// Run performs the full reconstruction of the SER file at path: average +
// edge detection, polynomial fit, parallel reconstruction of every
// requested shift, banding correction, ellipse fit and geometry
// correction, and emission of every resulting image. It returns an error
// only for conditions spec.md's error design treats as run-aborting (I/O,
// format, or unrecovered numerical failure); ellipse-fit failure degrades
// to an uncorrected geometry path plus a Suggestion event instead.
func (p *Pipeline) Run(path string) error {
	if err := p.Cfg.Validate(); err != nil {
		return fmt.Errorf("pipeline: invalid configuration: %w", err)
	}

	p.Pub.Broadcast(broadcast.Event{Kind: broadcast.KindProcessingStart})

	reader, err := ser.Open(path, p.Cfg.Logger)
	if err != nil {
		p.notify(broadcast.SeverityError, "Could not open SER file", "I/O error", err.Error())
		return fmt.Errorf("pipeline: %w", err)
	}
	defer reader.Close()

	g := reader.Geometry()
	conv, err := bayer.NewConverter(g)
	if err != nil {
		p.notify(broadcast.SeverityError, "Unsupported frame format", "Format error", err.Error())
		return fmt.Errorf("pipeline: %w", err)
	}

	fps, hasFPS := reader.EstimateFPS()
	p.Pub.Broadcast(broadcast.Event{
		Kind: broadcast.KindVideoMetadata,
		VideoMetadata: &broadcast.VideoMetadata{
			FrameCount: reader.FrameCount(), Width: g.Width, Height: g.Height, FPS: fps, HasFPS: hasFPS,
		},
	})

	edgeRes, err := edge.Detect(reader, g, conv, 0, config.DefaultEdgeRelThreshold)
	if err != nil {
		p.notify(broadcast.SeverityError, "Edge detection failed", "I/O error", err.Error())
		return fmt.Errorf("pipeline: %w", err)
	}
	p.Pub.Broadcast(broadcast.Event{Kind: broadcast.KindProgress, Progress: &broadcast.Progress{Fraction: 0.25, Task: "edge detection"}})

	poly, err := spectrum.Analyze(edgeRes.Average, p.Cfg.Spectrum.DetectionThreshold, config.DefaultMagnitudeCeiling)
	if err != nil {
		p.notify(broadcast.SeverityError, "Spectral line not found", "Numerical error", err.Error())
		return fmt.Errorf("pipeline: %w", err)
	}

	if p.Cfg.Extra.DebugImages {
		p.emitDebugCharts(edgeRes, poly)
	}

	start, end := edgeRes.Start, edgeRes.End
	height := end - start
	p.Pub.Broadcast(broadcast.Event{
		Kind:             broadcast.KindOutputImageDimensionsDetermined,
		OutputDimensions: &broadcast.OutputImageDimensions{Width: g.Width, Height: height},
	})

	shifts, internal := p.requestedShifts()
	states := make([]*reconstruct.WorkflowState, 0, len(shifts)+len(internal))
	byShift := make(map[int]*reconstruct.WorkflowState, len(shifts)+len(internal))
	for _, s := range shifts {
		st := reconstruct.NewWorkflowState(g.Width, height, float64(s), false)
		states = append(states, st)
		byShift[s] = st
	}
	for _, s := range internal {
		if _, ok := byShift[s]; ok {
			continue
		}
		st := reconstruct.NewWorkflowState(g.Width, height, float64(s), true)
		states = append(states, st)
		byShift[s] = st
	}

	if err := reconstruct.Run(p.Main, p.IO, reader, conv, g, poly, start, end, states, p.Pub); err != nil {
		p.notify(broadcast.SeverityError, "Reconstruction failed", "Invariant error", err.Error())
		return fmt.Errorf("pipeline: %w", err)
	}
	p.Pub.Broadcast(broadcast.Event{Kind: broadcast.KindProgress, Progress: &broadcast.Progress{Fraction: 0.75, Task: "reconstruction"}})

	var primaryEllipse *geometry.Ellipse
	var primaryStats *numeric.Stats
	for _, s := range shifts {
		workflowState := byShift[s]
		ellipse, img := p.correctPlane(workflowState)
		if s == p.Cfg.Spectrum.PixelShift {
			primaryEllipse = ellipse
			if stats, ok := img.Meta(numeric.StatsKey); ok {
				st := stats.(numeric.Stats)
				primaryStats = &st
			}
		}
		if err := p.emitShift(s, img); err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
	}

	if err := p.emitDoppler(byShift); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	p.Pub.Broadcast(broadcast.Event{
		Kind: broadcast.KindProcessingDone,
		ProcessingDone: &broadcast.ProcessingDone{
			Timestamp:   time.Unix(0, 0),
			ShiftImages: shifts,
			Ellipse:     primaryEllipse,
			Stats:       primaryStats,
		},
	})
	return nil
}

// debugDir returns the directory debug charts should be written to: the
// emitter's own output directory when it is a *emitter.DirEmitter, or the
// process temp directory otherwise.
func (p *Pipeline) debugDir() string {
	if de, ok := p.Emit.(*emitter.DirEmitter); ok {
		return de.Dir
	}
	return os.TempDir()
}

// emitDebugCharts renders the magnitude-curve and spectrum-fit charts and
// registers them with the emitter under the DEBUG kind. Chart rendering
// failures are logged as warnings, not propagated: a missing debug chart
// should never abort a reconstruction run.
func (p *Pipeline) emitDebugCharts(edgeRes edge.Result, poly numeric.Polynomial) {
	dir := p.debugDir()
	ray := p.Cfg.Spectrum.Ray

	magPath := filepath.Join(dir, ray+"_magnitudes.png")
	if err := diagnostics.PlotMagnitudes(magPath, edgeRes.Magnitudes, edgeRes.MeanMagnitude); err != nil {
		p.Cfg.Logger.Warning("could not render magnitude debug chart", "error", err.Error())
	} else if err := p.Emit.NewGenericFile(config.KindDebug, "debug", "magnitude curve", ray+"_magnitudes", magPath); err != nil {
		p.Cfg.Logger.Warning("could not register magnitude debug chart", "error", err.Error())
	}

	xs, ys := spectrum.LineCenters(edgeRes.Average, p.Cfg.Spectrum.DetectionThreshold, config.DefaultMagnitudeCeiling)
	fitPath := filepath.Join(dir, ray+"_spectrum_fit.png")
	if err := diagnostics.PlotSpectrumFit(fitPath, xs, ys, poly, edgeRes.Average.Width); err != nil {
		p.Cfg.Logger.Warning("could not render spectrum fit debug chart", "error", err.Error())
	} else if err := p.Emit.NewGenericFile(config.KindDebug, "debug", "spectrum fit", ray+"_spectrum_fit", fitPath); err != nil {
		p.Cfg.Logger.Warning("could not register spectrum fit debug chart", "error", err.Error())
	}
}

// requestedShifts returns the visible and internal pixel shifts the
// configuration asks for, always including the primary spectrum shift
// among the visible set.
func (p *Pipeline) requestedShifts() (visible, internalShifts []int) {
	visible = append([]int{p.Cfg.Spectrum.PixelShift}, p.Cfg.Images.PixelShifts...)
	internalShifts = append(internalShifts, p.Cfg.Images.InternalShifts...)
	if p.Cfg.Spectrum.DopplerShift[0] != 0 || p.Cfg.Spectrum.DopplerShift[1] != 0 {
		internalShifts = append(internalShifts, p.Cfg.Spectrum.DopplerShift[0], p.Cfg.Spectrum.DopplerShift[1])
	}
	return dedupe(visible), dedupe(internalShifts)
}

func dedupe(xs []int) []int {
	seen := make(map[int]bool, len(xs))
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// correctPlane applies banding correction, then ellipse fit and geometry
// correction, to st's image in place, in the order spec.md's data flow
// specifies: a first banding pass with no known ellipse, then the fit,
// then the tilt/xy-ratio/mirror correction. Ellipse-fit failure is not
// fatal: the pipeline keeps the banded-but-uncorrected image and emits a
// Suggestion. Every stage's output is cached on st.Stages (the workflow
// state's resultSlots), and the final image's Metadata carries its
// ImageStats and, when an ellipse was fit, its BlackPoint — the typed
// metadata lookups spec.md §3 and §9 document. It returns the corrected
// ellipse that geometry.Correct derives from the fit (nil if fitting or
// correction failed) and the corrected image.
func (p *Pipeline) correctPlane(st *reconstruct.WorkflowState) (*geometry.Ellipse, *numeric.Image) {
	img := st.Image()
	banding.Correct(img, nil, p.Cfg.Banding.Width, p.Cfg.Banding.Passes)
	st.Stages[reconstruct.StageBandingFixed] = reconstruct.StageResult{Image: img.Clone()}

	ellipse, err := geometry.Fit(img)
	if err != nil {
		p.Pub.Broadcast(broadcast.Event{
			Kind:       broadcast.KindSuggestion,
			Suggestion: &broadcast.Suggestion{Message: "solar disk ellipse could not be fit; try a lower detection threshold or check the scan range"},
		})
		img.WithMeta(numeric.StatsKey, numeric.ComputeStats(img))
		st.Stages[reconstruct.StageRaw] = reconstruct.StageResult{Image: img}
		return nil, img
	}

	opt := geometry.CorrectionOptions{
		ForcedTilt:     p.Cfg.Geometry.ForcedTilt,
		ForcedXYRatio:  p.Cfg.Geometry.ForcedXYRatio,
		HorizontalFlip: p.Cfg.Geometry.HorizontalMirror,
		VerticalFlip:   p.Cfg.Geometry.VerticalMirror,
	}
	res, err := geometry.Correct(img, ellipse, opt)
	if err != nil {
		img.WithMeta(numeric.StatsKey, numeric.ComputeStats(img))
		st.Stages[reconstruct.StageRaw] = reconstruct.StageResult{Image: img}
		return nil, img
	}
	*img = *res.Image
	img.WithMeta(numeric.BlackPointKey, res.BlackPoint)
	img.WithMeta(numeric.StatsKey, numeric.ComputeStats(img))
	st.Stages[reconstruct.StageGeometryCorrected] = reconstruct.StageResult{Image: img}
	corrected := res.Ellipse
	return &corrected, img
}

// emitShift hands img to the emitter as the RECONSTRUCTION kind for shift
// s, and broadcasts the corresponding ImageGenerated event.
func (p *Pipeline) emitShift(s int, img *numeric.Image) error {
	name := fmt.Sprintf("%s_shift%+d", p.Cfg.Spectrum.Ray, s)
	if err := p.Emit.NewMonoImage(config.KindReconstruction, "reconstruction", name, name, img, nil); err != nil {
		return err
	}
	p.Pub.Broadcast(broadcast.Event{
		Kind:           broadcast.KindImageGenerated,
		ImageGenerated: &broadcast.ImageGenerated{Kind: "RECONSTRUCTION", Category: "reconstruction", Title: name, Path: name + ".png"},
	})
	return nil
}

// emitDoppler builds the red/blue composite from the two doppler shift
// planes, if configured, and hands it to the emitter as a color image.
func (p *Pipeline) emitDoppler(byShift map[int]*reconstruct.WorkflowState) error {
	d := p.Cfg.Spectrum.DopplerShift
	if d[0] == 0 && d[1] == 0 {
		return nil
	}
	redShift, blueShift := d[0], d[1]
	if p.Cfg.Spectrum.SwitchRedBlue {
		redShift, blueShift = blueShift, redShift
	}
	redState, blueState := byShift[redShift], byShift[blueShift]
	if redState == nil || blueState == nil {
		return nil
	}

	name := p.Cfg.Spectrum.Ray + "_doppler"
	paint := func(x, y int) (r, g, b uint16) {
		rv := redState.Buffer[y*redState.Width+x]
		bv := blueState.Buffer[y*blueState.Width+x]
		return uint16(rv), 0, uint16(bv)
	}
	if err := p.Emit.NewColorImage(config.KindDoppler, "doppler", name, name, redState.Width, redState.Height, paint); err != nil {
		return err
	}
	p.Pub.Broadcast(broadcast.Event{
		Kind:           broadcast.KindImageGenerated,
		ImageGenerated: &broadcast.ImageGenerated{Kind: "DOPPLER", Category: "doppler", Title: name, Path: name + ".png"},
	})
	return nil
}
