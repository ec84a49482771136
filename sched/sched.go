/*
DESCRIPTION
  sched.go provides Context, a small fork-join scheduling abstraction over a
  goroutine pool: Async submits fire-and-forget work, Blocking opens a
  nested scope that joins every task Async'd within it before returning, and
  SetUncaughtExceptionHandler installs the handler that recovered panics and
  returned errors are routed to. The pipeline keeps two named contexts, Main
  (CPU-bound) and IO (serialized file reads), mirroring revid's wg
  sync.WaitGroup plus err-channel pattern but generalized into a reusable
  nested-scope abstraction.

AUTHORS
  Priya Deshmukh <priya@solexcore.dev>

LICENSE
  Copyright (C) 2026 the JSol'Ex Go Authors. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the JSol'Ex Go Authors.
*/

// Package sched provides the two worker-pool scheduling contexts
// (CPU-bound "main" and serialized "io") the reconstruction pipeline uses
// to coordinate parallel work over a single sequential SER reader.
package sched

import (
	"sync"

	"github.com/pkg/errors"
)

// ExceptionHandler is called, on the task's own goroutine, whenever an
// Async task returns a non-nil error or panics.
type ExceptionHandler func(error)

// Context is a bounded fork-join scheduling context. The zero value is not
// usable; construct with NewContext.
type Context struct {
	name    string
	sem     chan struct{} // Capacity bounds in-flight Async tasks.
	handler ExceptionHandler
	mu      sync.Mutex
}

// NewContext returns a Context that allows up to capacity Async tasks to be
// in flight at once. capacity <= 0 means unbounded.
func NewContext(name string, capacity int) *Context {
	c := &Context{name: name, handler: func(error) {}}
	if capacity > 0 {
		c.sem = make(chan struct{}, capacity)
	}
	return c
}

// SetUncaughtExceptionHandler installs h as the handler for errors and
// panics from tasks submitted to c.
func (c *Context) SetUncaughtExceptionHandler(h ExceptionHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

func (c *Context) handle(err error) {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		h(err)
	}
}

// scope is the join barrier a Blocking call opens; every Async submitted
// while a scope is active is tracked by it.
type scope struct {
	wg sync.WaitGroup
}

// Blocking opens a nested scope, runs body (which is expected to call
// Async zero or more times, directly or transitively), and blocks until
// every task Async'd during body's execution has completed.
func (c *Context) Blocking(body func(s *Scope)) {
	sc := &scope{}
	s := &Scope{ctx: c, sc: sc}
	body(s)
	sc.wg.Wait()
}

// Scope is the handle a Blocking body uses to submit tasks that the
// enclosing Blocking call will wait on.
type Scope struct {
	ctx *Context
	sc  *scope
}

// Async submits f to run on its own goroutine. If c has a capacity bound,
// Async blocks until a slot is free before starting f; the slot is
// released when f returns, whether or not it errored or panicked.
func (s *Scope) Async(f func() error) {
	s.sc.wg.Add(1)
	if s.ctx.sem != nil {
		s.ctx.sem <- struct{}{}
	}
	go func() {
		defer s.sc.wg.Done()
		if s.ctx.sem != nil {
			defer func() { <-s.ctx.sem }()
		}
		defer func() {
			if r := recover(); r != nil {
				s.ctx.handle(errors.Errorf("sched: task panicked: %v", r))
			}
		}()
		if err := f(); err != nil {
			s.ctx.handle(errors.WithStack(err))
		}
	}()
}
