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

package remote

import (
	"context"
	"net/url"
	"sync"
	"time"

	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/zap"
)

// ReconnectPolicy redials one destination after its connection failed. It
// is registered with the client context, which runs an attempt whenever
// the destination is needed; with background reconnects enabled it also
// retries on its own, backing off between attempts.
//
// The policy unregisters itself once an attempt succeeds, once the
// attempts are exhausted, or once the server turns out to be incompatible.
type ReconnectPolicy struct {
	t    *Transport
	rc   transport.ReceiverContext
	dest *url.URL
	key  policyKey

	mu       sync.Mutex
	attempts int
	done     bool

	stop     chan struct{}
	stopOnce sync.Once
}

var _ transport.Reconnector = (*ReconnectPolicy)(nil)

func newReconnectPolicy(t *Transport, rc transport.ReceiverContext, dest *url.URL, key policyKey) *ReconnectPolicy {
	return &ReconnectPolicy{
		t:    t,
		rc:   rc,
		dest: dest,
		key:  key,
		stop: make(chan struct{}),
	}
}

// Destination is the destination the policy redials.
func (p *ReconnectPolicy) Destination() *url.URL { return p.dest }

// Attempts returns the number of attempts made so far.
func (p *ReconnectPolicy) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

// Done reports whether the policy stopped trying.
func (p *ReconnectPolicy) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Reconnect makes one attempt to reconnect. Attempts are serialized.
func (p *ReconnectPolicy) Reconnect(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	if p.rc.LiveReceiver(p.dest) != nil {
		p.finish()
		return
	}

	p.attempts++
	if d := p.t.opts.reconnectTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	logger := p.t.opts.logger.With(
		zap.String("destination", p.dest.String()),
		zap.Int("attempt", p.attempts),
	)
	r, err := p.t.connect(ctx, p.rc, p.dest)
	if err == nil {
		p.t.trackReconnected(p.key, r)
		p.t.metrics.reconnects.Inc(1)
		logger.Info("reconnected")
		p.finish()
		return
	}

	p.t.metrics.reconnectFailures.Inc(1)
	logger.Info("reconnect attempt failed", zap.Error(err))
	if beanerrors.IsHandshakeIncompatible(err) || p.attempts >= p.t.opts.reconnectAttempts {
		logger.Warn("giving up on destination")
		p.finish()
	}
}

// finish stops the policy. p.mu must be held.
func (p *ReconnectPolicy) finish() {
	p.done = true
	p.rc.UnregisterReconnector(p)
	p.t.forgetPolicy(p.key, p)
	p.stopBackground()
}

func (p *ReconnectPolicy) stopBackground() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// trackReconnected remembers r until its association closes. A client
// context that already closed gets r closed right away.
func (t *Transport) trackReconnected(key policyKey, r *receiver) {
	t.mu.Lock()
	set, ok := t.reconnected[key]
	if ok {
		set[r] = struct{}{}
	}
	t.mu.Unlock()

	if !ok {
		_ = r.Close()
		return
	}
	select {
	case <-r.assoc.Done():
		t.untrackReconnected(r)
	default:
	}
}

func (t *Transport) untrackReconnected(r *receiver) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if set, ok := t.reconnected[policyKey{rc: r.rc, dest: r.dest.String()}]; ok {
		delete(set, r)
	}
}

// closeReconnected runs once per destination when the client context
// closes. It stops the active policy and closes what policies opened.
func (t *Transport) closeReconnected(key policyKey) {
	t.mu.Lock()
	set := t.reconnected[key]
	delete(t.reconnected, key)
	p := t.policies[key]
	delete(t.policies, key)
	t.mu.Unlock()

	if p != nil {
		p.stopBackground()
	}
	for r := range set {
		_ = r.Close()
	}
}

// run retries in the background until the policy is done or the client
// context closes.
func (p *ReconnectPolicy) run() {
	b := p.t.opts.backoff.Backoff()
	for attempt := uint(0); ; attempt++ {
		timer := time.NewTimer(b.Duration(attempt))
		select {
		case <-timer.C:
		case <-p.stop:
			timer.Stop()
			return
		}
		p.Reconnect(context.Background())
		if p.Done() {
			return
		}
	}
}
