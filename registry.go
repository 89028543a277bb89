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

package beanrpc

import (
	"context"
	"net/url"
	"sync"

	"github.com/uber-go/tally"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type clientMetrics struct {
	dispatched   tally.Counter
	sendFailures tally.Counter
	timeouts     tally.Counter
	sessions     tally.Counter
	reconnects   tally.Counter
	receivers    tally.Gauge
}

func newClientMetrics(scope tally.Scope) *clientMetrics {
	return &clientMetrics{
		dispatched:   scope.Counter("invocations_dispatched"),
		sendFailures: scope.Counter("invocation_send_failures"),
		timeouts:     scope.Counter("invocation_timeouts"),
		sessions:     scope.Counter("sessions_opened"),
		reconnects:   scope.Counter("reconnect_rounds"),
		receivers:    scope.Gauge("live_receivers"),
	}
}

// registry tracks the live receivers, pending reconnect attempts and close
// listeners of a ClientContext. Its lock is never held while calling into
// a receiver or a listener.
type registry struct {
	logger  *zap.Logger
	metrics *clientMetrics

	mu           sync.Mutex
	closed       bool
	receivers    map[string]transport.Receiver
	reconnectors []transport.Reconnector
	listeners    []func()
}

func newRegistry(logger *zap.Logger, metrics *clientMetrics) *registry {
	return &registry{
		logger:    logger,
		metrics:   metrics,
		receivers: make(map[string]transport.Receiver),
	}
}

func (r *registry) register(rcv transport.Receiver) {
	key := rcv.Destination().String()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		// Too late; the context will never hand it out.
		if err := rcv.Close(); err != nil {
			r.logger.Debug("failed to close receiver registered after close", zap.Error(err))
		}
		return
	}
	old := r.receivers[key]
	r.receivers[key] = rcv
	n := len(r.receivers)
	r.mu.Unlock()

	r.metrics.receivers.Update(float64(n))
	r.logger.Debug("receiver registered",
		zap.String("destination", key), zap.String("node", rcv.NodeName()))
	if old != nil && old != rcv {
		if err := old.Close(); err != nil {
			r.logger.Debug("failed to close replaced receiver", zap.String("destination", key), zap.Error(err))
		}
	}
}

func (r *registry) unregister(rcv transport.Receiver) {
	key := rcv.Destination().String()

	r.mu.Lock()
	if r.receivers[key] != rcv {
		r.mu.Unlock()
		return
	}
	delete(r.receivers, key)
	n := len(r.receivers)
	r.mu.Unlock()

	r.metrics.receivers.Update(float64(n))
	r.logger.Debug("receiver unregistered", zap.String("destination", key))
}

func (r *registry) live(dest *url.URL) transport.Receiver {
	if dest == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.receivers[dest.String()]
}

func (r *registry) all() []transport.Receiver {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]transport.Receiver, 0, len(r.receivers))
	for _, rcv := range r.receivers {
		out = append(out, rcv)
	}
	return out
}

func (r *registry) registerReconnector(rc transport.Reconnector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	for _, existing := range r.reconnectors {
		if existing == rc {
			return
		}
	}
	r.reconnectors = append(r.reconnectors, rc)
}

func (r *registry) unregisterReconnector(rc transport.Reconnector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.reconnectors {
		if existing == rc {
			r.reconnectors = append(r.reconnectors[:i], r.reconnectors[i+1:]...)
			return
		}
	}
}

// runReconnectors makes one attempt with every registered Reconnector and
// reports whether there were any.
func (r *registry) runReconnectors(ctx context.Context) bool {
	r.mu.Lock()
	pending := append([]transport.Reconnector(nil), r.reconnectors...)
	r.mu.Unlock()

	if len(pending) == 0 {
		return false
	}
	r.metrics.reconnects.Inc(1)
	for _, rc := range pending {
		rc.Reconnect(ctx)
	}
	return true
}

func (r *registry) onClose(fn func()) {
	r.mu.Lock()
	if !r.closed {
		r.listeners = append(r.listeners, fn)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	fn()
}

func (r *registry) close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	listeners := r.listeners
	receivers := make([]transport.Receiver, 0, len(r.receivers))
	for _, rcv := range r.receivers {
		receivers = append(receivers, rcv)
	}
	r.listeners = nil
	r.reconnectors = nil
	r.receivers = make(map[string]transport.Receiver)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	var err error
	for _, rcv := range receivers {
		err = multierr.Append(err, rcv.Close())
	}
	r.metrics.receivers.Update(0)
	return err
}
