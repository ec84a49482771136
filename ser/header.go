/*
DESCRIPTION
  header.go parses the 178-byte SER v3 file header: magic, color-id,
  endianness flag, geometry, frame count, and the fixed-width observation
  metadata fields.

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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	magic        = "LUCAM-RECORDER"
	headerSize   = 178
	timestampLen = 8 // Little-endian UTC .NET ticks, 64-bit.

	fieldObserver   = 40
	fieldInstrument = 40
	fieldTelescope  = 40
)

// Header is the parsed SER file header.
type Header struct {
	ColorID      int32
	LittleEndian bool
	Width        int32
	Height       int32
	PixelDepth   int32
	FrameCount   int32
	Observer     string
	Instrument   string
	Telescope    string
	DateUTC      time.Time
	DateUTCLocal time.Time
}

// readHeader reads and validates the SER header from r, which must be
// positioned at the start of the file.
func readHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, fmt.Errorf("ser: could not read header: %w", err)
	}

	if string(buf[0:14]) != magic {
		return Header{}, fmt.Errorf("ser: bad magic %q, unsupported or truncated file", buf[0:14])
	}

	le := binary.LittleEndian
	var h Header
	h.ColorID = int32(le.Uint32(buf[18:22]))
	h.LittleEndian = le.Uint32(buf[22:26]) == 0
	h.Width = int32(le.Uint32(buf[26:30]))
	h.Height = int32(le.Uint32(buf[30:34]))
	h.PixelDepth = int32(le.Uint32(buf[34:38]))
	h.FrameCount = int32(le.Uint32(buf[38:42]))

	off := 42
	h.Observer = trimField(buf[off : off+fieldObserver])
	off += fieldObserver
	h.Instrument = trimField(buf[off : off+fieldInstrument])
	off += fieldInstrument
	h.Telescope = trimField(buf[off : off+fieldTelescope])
	off += fieldTelescope

	h.DateUTC = parseDotNetTicks(int64(le.Uint64(buf[off : off+8])))
	off += 8
	h.DateUTCLocal = parseDotNetTicks(int64(le.Uint64(buf[off : off+8])))

	return h, nil
}

func trimField(b []byte) string {
	return strings.TrimRight(string(bytes.TrimRight(b, "\x00")), " ")
}

// dotNetEpoch is 0001-01-01 in Go's time representation, the epoch .NET
// DateTime ticks are counted from.
var dotNetEpoch = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)

func parseDotNetTicks(ticks int64) time.Time {
	// One tick is 100ns.
	return dotNetEpoch.Add(time.Duration(ticks) * 100 * time.Nanosecond)
}

// colorModeFromID maps a SER color-id to our ColorMode.
func colorModeFromID(id int32) (ColorMode, error) {
	switch id {
	case 0:
		return Mono, nil
	case 8:
		return BayerRGGB, nil
	case 9:
		return BayerGRBG, nil
	case 10:
		return BayerGBRG, nil
	case 11:
		return BayerBGGR, nil
	case 100:
		return RGB, nil
	default:
		return 0, fmt.Errorf("ser: unsupported color-id %d", id)
	}
}
