/*
DESCRIPTION
  config.go defines the structured process parameters that drive a
  reconstruction run: spectrum, observation, geometry, banding, requested
  images, and the extra/output knobs. Validate defaults and logs invalid
  fields the way revid's configuration layer does, rather than rejecting
  the whole config outright for a single bad value.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package config holds the structured input parameters for a jsolex
// reconstruction run.
package config

import (
	"errors"
	"time"

	"github.com/ausocean/utils/logging"
)

// ImageKind is one of the stable generated-image tags a run may request.
type ImageKind int

// Generated-image kinds, kept stable for consumers that persist them.
const (
	KindRaw ImageKind = iota
	KindGeometryCorrected
	KindBandingFixed
	KindDoppler
	KindContinuum
	KindColorized
	KindRedshift
	KindCropped
	KindReconstruction
	KindDebug
	KindTechnicalCard
)

// Default parameter values, applied when a caller leaves a field at its
// zero value.
const (
	DefaultDetectionThreshold = 0.2
	DefaultMagnitudeCeiling   = 5000.0
	DefaultEdgeRelThreshold   = 0.1
	DefaultEdgePad            = 40
	DefaultBandWidth          = 16
	DefaultBandingPasses      = 3
	DefaultContinuumShift     = 15
)

// SpectrumParams selects the spectral line and the shifts used to sample it.
type SpectrumParams struct {
	// Ray names the spectral line under analysis, e.g. "H-alpha".
	Ray string

	// DetectionThreshold is the initial darkness threshold used by the
	// spectrum analyzer; it escalates by 0.10 on fit failure up to 1.0.
	DetectionThreshold float64

	// PixelShift is the primary pixel-shift offset applied to the
	// distortion polynomial for the main reconstructed image.
	PixelShift int

	// DopplerShift is the pair of opposite pixel shifts used to build a
	// red/blue composite; DopplerShift[0] should be negative.
	DopplerShift [2]int

	// SwitchRedBlue swaps the assignment of the doppler shift pair to the
	// red and blue channels of the composite.
	SwitchRedBlue bool
}

// ObservationParams carries metadata about the observation, not consumed by
// the reconstruction math but threaded through to the emitter's technical
// card output.
type ObservationParams struct {
	Observer    string
	Coordinates string
	Date        time.Time
	Instrument  string
	Telescope   string
	FocalLength float64
	Aperture    float64
	Camera      string
}

// GeometryParams configures the geometry correction stage.
type GeometryParams struct {
	// ForcedTilt, if non-nil, overrides the ellipse-derived tilt angle
	// (radians).
	ForcedTilt *float64

	// ForcedXYRatio, if non-nil, overrides the ellipse-derived xy-ratio.
	ForcedXYRatio *float64

	HorizontalMirror     bool
	VerticalMirror       bool
	Sharpen              bool
	DisallowDownsampling bool
	AutocorrectAngleP    bool
}

// BandingParams configures the banding correction stage.
type BandingParams struct {
	// Width is the moving-average window (in rows) used to smooth the
	// per-row offset.
	Width int

	// Passes is the number of correction passes to repeat.
	Passes int
}

// ImageRequest selects which image kinds and pixel shifts a run produces.
type ImageRequest struct {
	Kinds          []ImageKind
	PixelShifts    []int
	InternalShifts []int
}

// ExtraParams covers the remaining output/behavior knobs.
type ExtraParams struct {
	Autosave    bool
	FilePattern string
	DebugImages bool
	FITS        bool
}

// Config is the full set of process parameters for one reconstruction run.
type Config struct {
	// Logger receives structured log messages for the whole run. For
	// historical reasons, per revid's convention, it also carries the log
	// level.
	Logger logging.Logger

	// LogLevel is one of logging.Debug, logging.Info, logging.Warning,
	// logging.Error, logging.Fatal.
	LogLevel int8

	Spectrum    SpectrumParams
	Observation ObservationParams
	Geometry    GeometryParams
	Banding     BandingParams
	Images      ImageRequest
	Extra       ExtraParams
}

// LogInvalidField logs that a field held an invalid value and a default was
// substituted, mirroring revid/config's LogInvalidField behavior.
func (c *Config) LogInvalidField(field string, usedDefault interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Warning("invalid config field, using default", "field", field, "default", usedDefault)
}

// Validate checks the config for required fields, defaulting optional
// numeric fields that were left at their zero value and logging each
// substitution. It returns an error only for conditions that cannot be
// sensibly defaulted.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("config: Logger must be set")
	}

	if c.Spectrum.Ray == "" {
		return errors.New("config: Spectrum.Ray must be set")
	}

	if c.Spectrum.DetectionThreshold <= 0 {
		c.LogInvalidField("Spectrum.DetectionThreshold", DefaultDetectionThreshold)
		c.Spectrum.DetectionThreshold = DefaultDetectionThreshold
	}
	if c.Spectrum.DetectionThreshold > 1 {
		return errors.New("config: Spectrum.DetectionThreshold must be <= 1.0")
	}

	if c.Banding.Width <= 0 {
		c.LogInvalidField("Banding.Width", DefaultBandWidth)
		c.Banding.Width = DefaultBandWidth
	}
	if c.Banding.Passes <= 0 {
		c.LogInvalidField("Banding.Passes", DefaultBandingPasses)
		c.Banding.Passes = DefaultBandingPasses
	}

	if len(c.Images.Kinds) == 0 {
		c.LogInvalidField("Images.Kinds", []ImageKind{KindRaw})
		c.Images.Kinds = []ImageKind{KindRaw}
	}

	return nil
}
