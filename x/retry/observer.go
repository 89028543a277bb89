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

package retry

import (
	"github.com/uber-go/tally"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/zap"
)

type observer struct {
	logger *zap.Logger

	unretryableErrorCounter tally.Counter
	noDestinationCounter    tally.Counter
	noTimeErrorCounter      tally.Counter
	maxAttemptsErrorCounter tally.Counter
	successCounter          tally.Counter
	callCounter             tally.Counter
	retryCounter            tally.Counter
}

func newObserver(logger *zap.Logger, scope tally.Scope) *observer {
	failures := func(reason string) tally.Counter {
		return scope.Tagged(map[string]string{"error": reason}).Counter("retry_failures")
	}
	return &observer{
		logger:                  logger,
		unretryableErrorCounter: failures("unretryable"),
		noDestinationCounter:    failures("no_destination"),
		noTimeErrorCounter:      failures("notime"),
		maxAttemptsErrorCounter: failures("max_attempts"),
		successCounter:          scope.Counter("retry_successes"),
		callCounter:             scope.Counter("retry_calls"),
		retryCounter:            scope.Counter("retries"),
	}
}

// call observes one invocation passing through the interceptor.
type call struct {
	o      *observer
	inv    *interceptor.InvocationContext
	logger *zap.Logger
}

func (o *observer) begin(inv *interceptor.InvocationContext) call {
	o.callCounter.Inc(1)
	return call{
		o:   o,
		inv: inv,
		logger: o.logger.With(
			zap.Stringer("locator", inv.Locator),
			zap.Stringer("method", inv.Method),
		),
	}
}

func (c call) retryOnError(err error) {
	c.o.retryCounter.Inc(1)
	c.logger.Info("retrying invocation on another destination", zap.Error(err))
}

func (c call) success() {
	c.o.successCounter.Inc(1)
}

func (c call) unretryableError(err error) {
	c.o.unretryableErrorCounter.Inc(1)
	c.logger.Debug("invocation failed with an unretryable error", zap.Error(err))
}

func (c call) noDestinationError(err error) {
	c.o.noDestinationCounter.Inc(1)
	c.logger.Info("invocation failed before a destination was chosen", zap.Error(err))
}

func (c call) noTimeError(err error) {
	c.o.noTimeErrorCounter.Inc(1)
	c.logger.Info("no time left to retry invocation", zap.Error(err))
}

func (c call) maxAttemptsError(err error) {
	c.o.maxAttemptsErrorCounter.Inc(1)
	c.logger.Warn("invocation failed on every attempt", zap.Error(err))
}
