/*
DESCRIPTION
  fft.go wraps go-dsp's FFT implementation as a numeric kernel. No pipeline
  stage calls it; the package tests exercise it with a round-trip check.

AUTHORS
  Mara Lindqvist <mara@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package numeric

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT returns the discrete Fourier transform of a real-valued signal x.
// Length need not be a power of two; go-dsp falls back to Bluestein's
// algorithm transparently in that case.
func FFT(x []float64) []complex128 {
	return fft.FFTReal(x)
}

// InverseFFT returns the inverse discrete Fourier transform of X. The
// result's imaginary parts are expected to be ~0 for a spectrum produced by
// FFT on a real signal.
func InverseFFT(x []complex128) []complex128 {
	return fft.IFFT(x)
}
