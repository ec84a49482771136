/*
DESCRIPTION
  config_test.go provides testing for Config.Validate.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidateDefaultsInvalidFields(t *testing.T) {
	dl := &dumbLogger{}
	c := Config{Logger: dl, Spectrum: SpectrumParams{Ray: "H-alpha"}}

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	want := Config{
		Logger: dl,
		Spectrum: SpectrumParams{
			Ray:                 "H-alpha",
			DetectionThreshold:  DefaultDetectionThreshold,
		},
		Banding: BandingParams{Width: DefaultBandWidth, Passes: DefaultBandingPasses},
		Images:  ImageRequest{Kinds: []ImageKind{KindRaw}},
	}

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRequiresLogger(t *testing.T) {
	c := Config{Spectrum: SpectrumParams{Ray: "H-alpha"}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing Logger, got nil")
	}
}

func TestValidateRequiresRay(t *testing.T) {
	c := Config{Logger: &dumbLogger{}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing Spectrum.Ray, got nil")
	}
}

func TestValidateRejectsThresholdAboveOne(t *testing.T) {
	c := Config{Logger: &dumbLogger{}, Spectrum: SpectrumParams{Ray: "H-alpha", DetectionThreshold: 1.5}}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for DetectionThreshold > 1.0, got nil")
	}
}
