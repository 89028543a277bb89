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

package backoff

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	backoffapi "go.uber.org/beanrpc/api/backoff"
	"go.uber.org/multierr"
)

// ExponentialOption customizes an Exponential backoff.
type ExponentialOption func(*exponentialOptions)

type exponentialOptions struct {
	first, max time.Duration
	jitter     bool
	source     rand.Source
}

func (o exponentialOptions) validate() (err error) {
	if o.first <= 0 {
		err = multierr.Append(err, errors.New("first delay must be greater than zero"))
	}
	if o.max <= 0 {
		err = multierr.Append(err, errors.New("max delay must be greater than zero"))
	}
	if o.max > 0 && o.max < o.first {
		err = multierr.Append(err, errors.New("max delay must not be less than the first delay"))
	}
	return err
}

var defaultExponentialOpts = exponentialOptions{
	first:  100 * time.Millisecond,
	max:    10 * time.Second,
	jitter: true,
}

// FirstDelay sets the delay before the second attempt. Each following
// attempt doubles it.
func FirstDelay(d time.Duration) ExponentialOption {
	return func(o *exponentialOptions) {
		o.first = d
	}
}

// MaxDelay caps the delay between attempts.
func MaxDelay(d time.Duration) ExponentialOption {
	return func(o *exponentialOptions) {
		o.max = d
	}
}

// NoJitter makes Duration return the full delay for an attempt rather than a
// random share of it.
func NoJitter() ExponentialOption {
	return func(o *exponentialOptions) {
		o.jitter = false
	}
}

// randSource overrides the jitter source in tests.
func randSource(src rand.Source) ExponentialOption {
	return func(o *exponentialOptions) {
		o.source = src
	}
}

// Exponential spaces out reconnect and retry attempts. The delay for attempt
// n is first*2^n bounded by max; with jitter a uniformly random duration in
// [delay/2, delay] is returned instead.
//
// Exponential is safe for concurrent use.
type Exponential struct {
	opts exponentialOptions

	mu   sync.Mutex
	rand *rand.Rand
}

var _ backoffapi.Strategy = (*Exponential)(nil)

// DefaultExponential is an Exponential backoff with default options.
var DefaultExponential, _ = NewExponential()

// NewExponential builds an Exponential backoff.
func NewExponential(opts ...ExponentialOption) (*Exponential, error) {
	options := defaultExponentialOpts
	for _, opt := range opts {
		opt(&options)
	}
	if err := options.validate(); err != nil {
		return nil, err
	}
	src := options.source
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Exponential{opts: options, rand: rand.New(src)}, nil
}

// Backoff implements backoff.Strategy.
func (e *Exponential) Backoff() backoffapi.Backoff { return e }

// Duration returns how long to wait after the given number of failed
// attempts.
func (e *Exponential) Duration(attempts uint) time.Duration {
	delay := e.opts.max
	if attempts < 63 {
		if d := e.opts.first << attempts; d > 0 && d < e.opts.max && d>>attempts == e.opts.first {
			delay = d
		}
	}
	if !e.opts.jitter {
		return delay
	}

	half := delay / 2
	e.mu.Lock()
	j := e.rand.Int63n(int64(delay-half) + 1)
	e.mu.Unlock()
	return half + time.Duration(j)
}
