/*
DESCRIPTION
  jsolex-cli is a bare-bones batch driver for the reconstruction core: it
  parses a spectrum ray name, detection threshold, banding parameters, and
  pixel shifts from flags, reconstructs one SER file, and writes the
  resulting images under an output directory. With --watch, it uses
  fsnotify to reprocess any new .ser file dropped into the input
  directory, instead of exiting after the first one.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package main is the jsolex-cli batch driver: a single-shot (or
// watch-mode) command-line front end for the reconstruction pipeline.
// It is not a GUI; interactive tuning is explicitly out of scope.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/solexcore/jsolex/broadcast"
	"github.com/solexcore/jsolex/config"
	"github.com/solexcore/jsolex/emitter"
	"github.com/solexcore/jsolex/pipeline"
)

// Logging related constants, matching the rotation sizes the teacher's
// cmd/ binaries use for their own log files.
const (
	logMaxSize   = 5 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // Days.
)

func main() {
	var (
		ray          = flag.String("ray", "H-alpha", "spectral line name")
		threshold    = flag.Float64("threshold", config.DefaultDetectionThreshold, "initial spectral line detection threshold, 0-1")
		bandWidth    = flag.Int("band-width", config.DefaultBandWidth, "banding correction moving-average window, in rows")
		bandPasses   = flag.Int("band-passes", config.DefaultBandingPasses, "number of banding correction passes")
		shifts       = flag.String("shifts", "0", "comma-separated pixel shifts to reconstruct")
		outDir       = flag.String("out", "./out", "output directory for generated images and logs")
		watch        = flag.Bool("watch", false, "watch the input path's directory for new .ser files instead of processing one and exiting")
		logVerbosity = flag.Int("log-level", int(logging.Info), "log verbosity: 0=Debug 1=Info 2=Warning 3=Error 4=Fatal")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jsolex-cli [flags] <path-to.ser>")
		os.Exit(2)
	}
	input := flag.Arg(0)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "jsolex-cli: could not create output dir: %v\n", err)
		os.Exit(1)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(*outDir, "jsolex-cli.log"),
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer logFile.Close()
	log := logging.New(int8(*logVerbosity), logFile, true)

	pixelShifts, err := parseShifts(*shifts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsolex-cli: %v\n", err)
		os.Exit(2)
	}

	cfg := config.Config{
		Logger:   log,
		LogLevel: int8(*logVerbosity),
		Spectrum: config.SpectrumParams{
			Ray:                *ray,
			DetectionThreshold: *threshold,
			PixelShift:         pixelShifts[0],
		},
		Banding: config.BandingParams{Width: *bandWidth, Passes: *bandPasses},
		Images: config.ImageRequest{
			Kinds:       []config.ImageKind{config.KindReconstruction, config.KindRaw},
			PixelShifts: pixelShifts,
		},
	}

	em, err := emitter.NewDirEmitter(*outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jsolex-cli: %v\n", err)
		os.Exit(1)
	}

	pub := broadcast.New()
	pub.AddListener(broadcast.ListenerFunc(func(e broadcast.Event) {
		logEvent(log, e)
	}))

	if *watch {
		runWatch(cfg, pub, em, input, log)
		return
	}

	if err := pipeline.New(cfg, pub, em).Run(input); err != nil {
		log.Error("run failed", "path", input, "error", err.Error())
		os.Exit(1)
	}
}

// parseShifts parses a comma-separated list of integer pixel shifts.
func parseShifts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pixel shift %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		out = []int{0}
	}
	return out, nil
}

// runWatch watches input's directory for newly created .ser files and
// reconstructs each one, per cfg, until the process is killed.
func runWatch(cfg config.Config, pub *broadcast.Broadcaster, em emitter.Emitter, input string, log logging.Logger) {
	dir := filepath.Dir(input)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal("could not start file watcher", "error", err.Error())
		return
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		log.Fatal("could not watch directory", "dir", dir, "error", err.Error())
		return
	}

	log.Info("watching for new SER files", "dir", dir)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !strings.EqualFold(filepath.Ext(ev.Name), ".ser") {
				continue
			}
			log.Info("processing new SER file", "path", ev.Name)
			if err := pipeline.New(cfg, pub, em).Run(ev.Name); err != nil {
				log.Error("run failed", "path", ev.Name, "error", err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err.Error())
		}
	}
}

// logEvent translates a broadcast Event into a structured log line; the
// GUI this core was extracted from would instead render these, but a CLI
// has no such surface.
func logEvent(log logging.Logger, e broadcast.Event) {
	switch e.Kind {
	case broadcast.KindNotification:
		n := e.Notification
		switch n.Severity {
		case broadcast.SeverityError:
			log.Error(n.Message, "title", n.Title)
		case broadcast.SeverityWarning:
			log.Warning(n.Message, "title", n.Title)
		default:
			log.Info(n.Message, "title", n.Title)
		}
	case broadcast.KindSuggestion:
		log.Info("suggestion", "message", e.Suggestion.Message)
	case broadcast.KindProgress:
		log.Debug("progress", "fraction", e.Progress.Fraction, "task", e.Progress.Task)
	case broadcast.KindImageGenerated:
		log.Info("image generated", "title", e.ImageGenerated.Title, "path", e.ImageGenerated.Path)
	case broadcast.KindProcessingDone:
		log.Info("processing done", "shiftImages", e.ProcessingDone.ShiftImages, "hasEllipse", e.ProcessingDone.Ellipse != nil)
	}
}
