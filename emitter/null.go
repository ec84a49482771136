/*
DESCRIPTION
  null.go provides NullEmitter, a no-op Emitter used by tests and by
  callers that only want the broadcaster's events, not any files on disk.

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
	"github.com/solexcore/jsolex/config"
	"github.com/solexcore/jsolex/numeric"
)

// NullEmitter discards every emission. It is useful for tests driving the
// pipeline that only care about broadcast events.
type NullEmitter struct{}

func (NullEmitter) NewMonoImage(config.ImageKind, string, string, string, *numeric.Image, func(float64) float64) error {
	return nil
}

func (NullEmitter) NewColorImage(config.ImageKind, string, string, string, int, int, ColorPainter) error {
	return nil
}

func (NullEmitter) NewGenericFile(config.ImageKind, string, string, string, string) error {
	return nil
}
