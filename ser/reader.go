/*
DESCRIPTION
  reader.go implements Reader, the sequential single-owner SER frame
  iterator the rest of the pipeline treats as its sole source of raw video
  data. Reader owns an exclusive position cursor; concurrent consumers must
  copy CurrentFrameBytes into a task-owned buffer before the reader is
  advanced again.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package ser

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
)

// Reader is a sequential reader over a SER file's frames. It is not safe
// for concurrent use: the core guarantees at most one active Reader per SER
// file, and callers that want to process frames in parallel must copy a
// frame's bytes out before advancing the Reader.
type Reader struct {
	f        *os.File
	log      logging.Logger
	header   Header
	geometry Geometry

	frameCount  int
	dataOffset  int64
	hasTrailer  bool
	timestamps  []time.Time

	mu      sync.Mutex
	pos     int
	current []byte
}

// Open opens the SER file at path, parses its header, and positions the
// reader before frame 0.
func Open(path string, log logging.Logger) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ser: could not open file: %w", err)
	}

	h, err := readHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	mode, err := colorModeFromID(h.ColorID)
	if err != nil {
		f.Close()
		return nil, err
	}

	g := Geometry{
		Width:        int(h.Width),
		Height:       int(h.Height),
		BitsPerPixel: int(h.PixelDepth),
		ColorMode:    mode,
		LittleEndian: h.LittleEndian,
	}
	if g.Width <= 0 || g.Height <= 0 {
		f.Close()
		return nil, fmt.Errorf("ser: invalid dimensions %dx%d", g.Width, g.Height)
	}

	r := &Reader{
		f:          f,
		log:        log,
		header:     h,
		geometry:   g,
		frameCount: int(h.FrameCount),
		dataOffset: headerSize,
		pos:        -1,
	}

	if err := r.loadTrailer(); err != nil {
		log.Warning("could not read SER timestamp trailer", "error", err.Error())
	}

	return r, nil
}

// loadTrailer attempts to read the optional per-frame timestamp trailer
// that follows the frame data, per the SER v3 format.
func (r *Reader) loadTrailer() error {
	trailerOff := r.dataOffset + int64(r.frameCount)*int64(r.geometry.FrameSize())
	info, err := r.f.Stat()
	if err != nil {
		return err
	}
	want := trailerOff + int64(r.frameCount)*timestampLen
	if info.Size() < want {
		return nil // No trailer present; not an error.
	}

	if _, err := r.f.Seek(trailerOff, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, timestampLen*r.frameCount)
	if _, err := io.ReadFull(r.f, buf); err != nil {
		return err
	}

	r.timestamps = make([]time.Time, r.frameCount)
	for i := 0; i < r.frameCount; i++ {
		ticks := int64(binary.LittleEndian.Uint64(buf[i*timestampLen:]))
		r.timestamps[i] = parseDotNetTicks(ticks)
	}
	r.hasTrailer = true
	return nil
}

// Header returns the parsed SER header.
func (r *Reader) Header() Header { return r.header }

// Geometry returns the frame geometry.
func (r *Reader) Geometry() Geometry { return r.geometry }

// FrameCount returns the number of frames in the file.
func (r *Reader) FrameCount() int { return r.frameCount }

// Timestamps returns the per-frame capture timestamps and true if the file
// carried a timestamp trailer.
func (r *Reader) Timestamps() ([]time.Time, bool) {
	return r.timestamps, r.hasTrailer
}

var errFrameIndexOutOfRange = errors.New("ser: frame index out of range")

// Seek positions the reader immediately before frame index i, such that the
// next NextFrame call reads frame i.
func (r *Reader) Seek(i int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= r.frameCount {
		return errFrameIndexOutOfRange
	}
	r.pos = i - 1
	return nil
}

// NextFrame reads and returns the next frame's raw bytes, advancing the
// cursor. The returned slice is owned by the Reader and is only valid until
// the next call to NextFrame or Seek; callers that need to retain it past
// that point must copy it.
func (r *Reader) NextFrame() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.pos + 1
	if next >= r.frameCount {
		return nil, io.EOF
	}

	size := r.geometry.FrameSize()
	offset := r.dataOffset + int64(next)*int64(size)
	if _, err := r.f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("ser: could not seek to frame %d: %w", next, err)
	}

	if cap(r.current) < size {
		r.current = make([]byte, size)
	} else {
		r.current = r.current[:size]
	}
	if _, err := io.ReadFull(r.f, r.current); err != nil {
		return nil, fmt.Errorf("ser: could not read frame %d: %w", next, err)
	}

	r.pos = next
	return r.current, nil
}

// CurrentFrameBytes returns the bytes of the most recently read frame.
func (r *Reader) CurrentFrameBytes() []byte { return r.current }

// EstimateFPS estimates the capture frame rate from the timestamp trailer,
// returning false if no trailer was present or there are too few frames.
func (r *Reader) EstimateFPS() (float64, bool) {
	if !r.hasTrailer || len(r.timestamps) < 2 {
		return 0, false
	}
	span := r.timestamps[len(r.timestamps)-1].Sub(r.timestamps[0])
	if span <= 0 {
		return 0, false
	}
	return float64(len(r.timestamps)-1) / span.Seconds(), true
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
