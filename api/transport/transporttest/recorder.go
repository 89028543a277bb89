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

package transporttest

import (
	"context"
	"sync"

	"go.uber.org/beanrpc/api/transport"
)

// Outcome is what a ResultRecorder received.
type Outcome struct {
	Result    *transport.Result
	Err       error
	Cancelled bool
}

// ResultRecorder is a transport.ResultSink that remembers every outcome it
// receives, so tests can assert that a result is delivered exactly once.
type ResultRecorder struct {
	mu       sync.Mutex
	outcomes []Outcome
	first    chan struct{}
}

var _ transport.ResultSink = (*ResultRecorder)(nil)

// NewResultRecorder returns an empty ResultRecorder.
func NewResultRecorder() *ResultRecorder {
	return &ResultRecorder{first: make(chan struct{})}
}

// ResultReady implements transport.ResultSink.
func (r *ResultRecorder) ResultReady(res *transport.Result, err error) {
	r.record(Outcome{Result: res, Err: err})
}

// RequestCancelled implements transport.ResultSink.
func (r *ResultRecorder) RequestCancelled() {
	r.record(Outcome{Cancelled: true})
}

func (r *ResultRecorder) record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
	if len(r.outcomes) == 1 {
		close(r.first)
	}
}

// Wait blocks until the first outcome arrives or ctx ends.
func (r *ResultRecorder) Wait(ctx context.Context) (Outcome, bool) {
	select {
	case <-r.first:
	case <-ctx.Done():
		return Outcome{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[0], true
}

// Outcomes returns everything received so far.
func (r *ResultRecorder) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}
