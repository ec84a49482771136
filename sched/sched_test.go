/*
DESCRIPTION
  sched_test.go checks that Blocking joins every Async'd task and that the
  uncaught exception handler observes both returned errors and panics.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

package sched

import (
	"sync/atomic"
	"testing"
)

func TestBlockingJoinsAllAsync(t *testing.T) {
	c := NewContext("test", 4)
	var n int64
	c.Blocking(func(s *Scope) {
		for i := 0; i < 100; i++ {
			s.Async(func() error {
				atomic.AddInt64(&n, 1)
				return nil
			})
		}
	})
	if got := atomic.LoadInt64(&n); got != 100 {
		t.Fatalf("got %d completed tasks, want 100", got)
	}
}

func TestUncaughtErrorIsRouted(t *testing.T) {
	c := NewContext("test", 2)
	var got error
	c.SetUncaughtExceptionHandler(func(err error) { got = err })

	c.Blocking(func(s *Scope) {
		s.Async(func() error { return errFake })
	})

	if got == nil {
		t.Fatal("expected handler to observe an error")
	}
}

func TestPanicIsRecoveredAndRouted(t *testing.T) {
	c := NewContext("test", 2)
	var got error
	c.SetUncaughtExceptionHandler(func(err error) { got = err })

	c.Blocking(func(s *Scope) {
		s.Async(func() error { panic("boom") })
	})

	if got == nil {
		t.Fatal("expected handler to observe the recovered panic")
	}
}

var errFake = fakeErr("fake")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
