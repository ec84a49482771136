/*
DESCRIPTION
  pipeline_test.go exercises Run end-to-end against a small synthetic SER
  file written to a temp directory: a flat absorption line at a known row,
  enough frames for edge detection to select the whole file, and a
  NullEmitter capturing no output.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package pipeline

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/solexcore/jsolex/broadcast"
	"github.com/solexcore/jsolex/config"
	"github.com/solexcore/jsolex/emitter"
)

type dumbLogger struct{}

func (dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dumbLogger) SetLevel(l int8)                         {}
func (dumbLogger) Debug(msg string, args ...interface{})   {}
func (dumbLogger) Info(msg string, args ...interface{})    {}
func (dumbLogger) Warning(msg string, args ...interface{}) {}
func (dumbLogger) Error(msg string, args ...interface{})   {}
func (dumbLogger) Fatal(msg string, args ...interface{})   {}

// writeSyntheticSER writes a mono 16-bit SER file at path with frameCount
// identical frames of size width x height, each carrying a Gaussian
// absorption dip centered at lineY.
func writeSyntheticSER(t *testing.T, path string, width, height, frameCount int, lineY, depth, background float64) {
	t.Helper()

	header := make([]byte, 178)
	copy(header[0:14], "LUCAM-RECORDER")
	le := binary.LittleEndian
	le.PutUint32(header[18:22], 0)           // ColorID: mono.
	le.PutUint32(header[22:26], 0)           // LittleEndian flag: 0 means true.
	le.PutUint32(header[26:30], uint32(width))
	le.PutUint32(header[30:34], uint32(height))
	le.PutUint32(header[34:38], 16) // PixelDepth.
	le.PutUint32(header[38:42], uint32(frameCount))

	frame := make([]byte, width*height*2)
	for y := 0; y < height; y++ {
		d := float64(y) - lineY
		v := background - depth*math.Exp(-(d*d)/2)
		if v < 0 {
			v = 0
		}
		for x := 0; x < width; x++ {
			off := (y*width + x) * 2
			le.PutUint16(frame[off:], uint16(v))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("could not create test SER file: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		t.Fatalf("could not write header: %v", err)
	}
	for i := 0; i < frameCount; i++ {
		if _, err := f.Write(frame); err != nil {
			t.Fatalf("could not write frame %d: %v", i, err)
		}
	}
}

func TestRunProducesProcessingDoneWithoutError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ser")
	writeSyntheticSER(t, path, 48, 32, 60, 16, 4000, 4500)

	var events []broadcast.Kind
	var done *broadcast.ProcessingDone
	pub := broadcast.New()
	pub.AddListener(broadcast.ListenerFunc(func(e broadcast.Event) {
		events = append(events, e.Kind)
		if e.Kind == broadcast.KindProcessingDone {
			done = e.ProcessingDone
		}
	}))

	cfg := config.Config{
		Logger: dumbLogger{},
		Spectrum: config.SpectrumParams{
			Ray:                "H-alpha",
			DetectionThreshold: 0.2,
			PixelShift:         0,
		},
		Banding: config.BandingParams{Width: 5, Passes: 2},
		Images:  config.ImageRequest{Kinds: []config.ImageKind{config.KindRaw}},
	}

	p := New(cfg, pub, emitter.NullEmitter{})
	if err := p.Run(path); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantSeen := map[broadcast.Kind]bool{
		broadcast.KindProcessingStart:                false,
		broadcast.KindVideoMetadata:                   false,
		broadcast.KindOutputImageDimensionsDetermined: false,
		broadcast.KindImageGenerated:                  false,
		broadcast.KindProcessingDone:                  false,
	}
	for _, k := range events {
		if _, ok := wantSeen[k]; ok {
			wantSeen[k] = true
		}
	}
	for k, seen := range wantSeen {
		if !seen {
			t.Errorf("expected event kind %v to have been broadcast", k)
		}
	}

	if done == nil {
		t.Fatal("expected a ProcessingDone event")
	}
	if done.Stats == nil {
		t.Error("expected ProcessingDone.Stats to be populated for the primary shift")
	}
}

func TestRunFailsValidationWithoutRay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ser")
	writeSyntheticSER(t, path, 16, 16, 5, 8, 4000, 4500)

	cfg := config.Config{Logger: dumbLogger{}}
	p := New(cfg, nil, nil)
	if err := p.Run(path); err == nil {
		t.Fatal("expected a validation error for a config missing Spectrum.Ray")
	}
}
