// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package future provides the single-assignment result slot that correlates
// an outstanding request with its response.
package future

import (
	"context"
	"sync"

	"go.uber.org/beanrpc/beanerrors"
)

// State is the lifecycle state of a Future.
type State int

const (
	// Pending means no result has been delivered yet.
	Pending State = iota
	// Done means a value was delivered.
	Done
	// Failed means an error was delivered.
	Failed
	// Cancelled means the Future was abandoned before a result arrived.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Future is a result that is set exactly once. The first of Complete, Fail
// or Cancel wins; later calls report false and change nothing.
type Future struct {
	mu        sync.Mutex
	done      chan struct{}
	state     State
	value     interface{}
	err       error
	callbacks []func(interface{}, error)
}

// New returns a pending Future.
func New() *Future {
	return &Future{done: make(chan struct{})}
}

// Complete resolves the Future with a value.
func (f *Future) Complete(v interface{}) bool {
	return f.resolve(Done, v, nil)
}

// Fail resolves the Future with an error.
func (f *Future) Fail(err error) bool {
	if err == nil {
		err = beanerrors.InternalErrorf("future failed with a nil error")
	}
	return f.resolve(Failed, nil, err)
}

// Cancel abandons the Future. Waiters receive a cancelled error.
func (f *Future) Cancel() bool {
	return f.resolve(Cancelled, nil, beanerrors.CancelledErrorf("result abandoned before it arrived"))
}

func (f *Future) resolve(state State, v interface{}, err error) bool {
	f.mu.Lock()
	if f.state != Pending {
		f.mu.Unlock()
		return false
	}
	f.state = state
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// OnComplete runs fn once the Future is resolved, or immediately if it
// already is. Callbacks run on the goroutine that resolves the Future.
func (f *Future) OnComplete(fn func(interface{}, error)) {
	f.mu.Lock()
	if f.state == Pending {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	fn(v, err)
}

// Done is closed when the Future is resolved.
func (f *Future) Done() <-chan struct{} { return f.done }

// State returns the current state.
func (f *Future) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Wait blocks until the Future is resolved or ctx ends. When ctx ends first
// the Future stays pending and a timeout or cancelled error is returned.
func (f *Future) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		// A result that raced the deadline still wins.
		select {
		case <-f.done:
		default:
			if ctx.Err() == context.DeadlineExceeded {
				return nil, beanerrors.TimeoutErrorf("timed out waiting for result")
			}
			return nil, beanerrors.CancelledErrorf("wait for result cancelled: %v", ctx.Err())
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}
