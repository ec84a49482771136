/*
DESCRIPTION
  dir.go provides DirEmitter, a directory-based Emitter: mono and color
  images are written as 16-bit grayscale/RGB PNGs via image/png, and a
  running technical-card summary is appended through a lumberjack-rotated
  log file, exactly as the cmd/ binaries in the teacher repo set up their
  file logging.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package emitter

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/solexcore/jsolex/config"
	"github.com/solexcore/jsolex/numeric"
)

// Default technical-card log rotation, matching the teacher's cmd/
// binaries' rotation sizes.
const (
	technicalCardLogMaxSize    = 5 // Megabytes.
	technicalCardLogMaxBackup = 3
	technicalCardLogMaxAge    = 28 // Days.
)

// DirEmitter writes every emission under Dir, named "<name>.png", and
// appends a one-line technical-card summary per image to a rotated log
// file under Dir.
type DirEmitter struct {
	Dir string

	card *lumberjack.Logger
}

// NewDirEmitter returns a DirEmitter rooted at dir, creating dir if needed.
func NewDirEmitter(dir string) (*DirEmitter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("emitter: could not create output dir: %w", err)
	}
	return &DirEmitter{
		Dir: dir,
		card: &lumberjack.Logger{
			Filename:   filepath.Join(dir, "technical-card.log"),
			MaxSize:    technicalCardLogMaxSize,
			MaxBackups: technicalCardLogMaxBackup,
			MaxAge:     technicalCardLogMaxAge,
		},
	}, nil
}

func (e *DirEmitter) record(kind config.ImageKind, category, title, name, path string) {
	fmt.Fprintf(e.card, "kind=%d category=%q title=%q name=%q path=%q\n", kind, category, title, name, path)
}

// NewMonoImage writes img as a 16-bit grayscale PNG.
func (e *DirEmitter) NewMonoImage(kind config.ImageKind, category, title, name string, img *numeric.Image, transform func(float64) float64) error {
	gray := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := img.At(x, y)
			if transform != nil {
				v = transform(v)
			}
			if v < 0 {
				v = 0
			}
			if v > numeric.MaxSample {
				v = numeric.MaxSample
			}
			gray.SetGray16(x, y, color.Gray16{Y: uint16(v)})
		}
	}

	path := filepath.Join(e.Dir, name+".png")
	if err := writePNG(path, gray); err != nil {
		return err
	}
	e.record(kind, category, title, name, path)
	return nil
}

// NewColorImage writes a width x height RGB PNG, painted pixel-by-pixel by
// paint.
func (e *DirEmitter) NewColorImage(kind config.ImageKind, category, title, name string, width, height int, paint ColorPainter) error {
	img := image.NewRGBA64(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := paint(x, y)
			img.SetRGBA64(x, y, color.RGBA64{R: r, G: g, B: b, A: 0xffff})
		}
	}

	path := filepath.Join(e.Dir, name+".png")
	if err := writePNG(path, img); err != nil {
		return err
	}
	e.record(kind, category, title, name, path)
	return nil
}

// NewGenericFile records a non-image file already written to path.
func (e *DirEmitter) NewGenericFile(kind config.ImageKind, category, title, name, path string) error {
	e.record(kind, category, title, name, path)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("emitter: could not create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("emitter: could not encode %s: %w", path, err)
	}
	return nil
}
