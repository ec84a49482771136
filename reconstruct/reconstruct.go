/*
DESCRIPTION
  reconstruct.go implements the reconstruction engine: a single sequential
  pass over the detected scan range that, for every frame, fans out one
  row-sampling task per requested pixel shift onto main, a CPU-bound
  sched.Context whose capacity equals the CPU count. The scan itself runs
  inside io, a serialized sched.Context, since ser.Reader allows only one
  reader cursor at a time; each frame's raw bytes are copied into a
  task-owned buffer before being handed to the fan-out, per Reader's
  single-owner contract.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package reconstruct

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/solexcore/jsolex/bayer"
	"github.com/solexcore/jsolex/broadcast"
	"github.com/solexcore/jsolex/numeric"
	"github.com/solexcore/jsolex/sched"
	"github.com/solexcore/jsolex/ser"
)

// FrameSource is the subset of ser.Reader's API reconstruction needs.
type FrameSource interface {
	Seek(i int) error
	NextFrame() ([]byte, error)
}

// Run reconstructs [start, end) of src into one plane per element of
// states, one output row per frame. main bounds the per-frame x per-shift
// fan-out to its configured capacity; io serializes the sequential frame
// read. pub, if non-nil, receives a PartialReconstruction event per row
// written to a non-internal state; internal states broadcast nothing.
//
// Only one reconstruction strategy is implemented: earlier iterations
// considered a second, GPU-oriented variant, but shipping two
// near-duplicate reconstructors was rejected in favor of this single,
// more complete implementation.
func Run(main, io_ *sched.Context, src FrameSource, conv bayer.Converter, g ser.Geometry, poly numeric.Polynomial, start, end int, states []*WorkflowState, pub *broadcast.Broadcaster) error {
	if start < 0 || end <= start {
		return fmt.Errorf("reconstruct: invalid range [%d,%d)", start, end)
	}
	for _, st := range states {
		if st.Width != g.Width || st.Height != end-start {
			return fmt.Errorf("reconstruct: state sized %dx%d does not match frame width %d x range %d", st.Width, st.Height, g.Width, end-start)
		}
	}

	if err := src.Seek(start); err != nil {
		return fmt.Errorf("reconstruct: could not seek to frame %d: %w", start, err)
	}

	var (
		mu      sync.Mutex
		runErr  error
		setErr  = func(err error) {
			mu.Lock()
			defer mu.Unlock()
			if runErr == nil {
				runErr = err
			}
		}
	)
	main.SetUncaughtExceptionHandler(setErr)

	io_.Blocking(func(_ *sched.Scope) {
		main.Blocking(func(scope *sched.Scope) {
			for i := start; i < end; i++ {
				raw, err := src.NextFrame()
				if err != nil {
					if err == io.EOF {
						setErr(fmt.Errorf("reconstruct: unexpected end of file at frame %d of %d", i, end))
					} else {
						setErr(fmt.Errorf("reconstruct: could not read frame %d: %w", i, err))
					}
					return
				}

				frame := conv.CreateBuffer(g)
				if err := conv.Convert(i, raw, g, frame); err != nil {
					setErr(fmt.Errorf("reconstruct: could not convert frame %d: %w", i, err))
					return
				}

				row := i - start
				for shiftIdx, st := range states {
					frame, st, shiftIdx := frame, st, shiftIdx
					scope.Async(func() error {
						return reconstructRow(frame, g, poly, st, row, shiftIdx, pub)
					})
				}
			}
		})
	})

	if runErr != nil {
		return runErr
	}
	return nil
}

// reconstructRow samples one output row of st from frame, following the
// distortion polynomial offset by st.PixelShift.
func reconstructRow(frame []float64, g ser.Geometry, poly numeric.Polynomial, st *WorkflowState, row, shiftIdx int, pub *broadcast.Broadcaster) error {
	height := g.Height
	out := st.Buffer[row*st.Width : (row+1)*st.Width]

	prevY := 0
	for x := 0; x < g.Width; x++ {
		yd := poly.Eval(float64(x)) + st.PixelShift
		yi := int(math.Floor(yd))
		if yi < 0 || yi >= height {
			// Out of range: reuse the previous column's clamped y rather
			// than fail the row.
			yi = prevY
			yd = float64(yi)
		}
		prevY = yi

		frac := yd - float64(yi)
		lo := frame[yi*g.Width+x]
		hiIdx := yi + 1
		if hiIdx >= height {
			hiIdx = height - 1
		}
		hi := frame[hiIdx*g.Width+x]
		value := lo + frac*(hi-lo)

		if value < numeric.MinSample || value > numeric.MaxSample {
			return fmt.Errorf("reconstruct: sample out of range at row %d col %d shift %.2f: %v", row, x, st.PixelShift, value)
		}
		out[x] = value
	}

	if pub != nil && !st.Internal {
		line := make([]float64, len(out))
		copy(line, out)
		pub.Broadcast(broadcast.Event{
			Kind: broadcast.KindPartialReconstruction,
			PartialRecon: &broadcast.PartialReconstruction{
				Row:   row,
				Shift: shiftIdx,
				Line:  line,
			},
		})
	}
	return nil
}
