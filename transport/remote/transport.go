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

	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/zap"
)

type policyKey struct {
	rc   transport.ReceiverContext
	dest string
}

// Transport is a transport.TransportProvider that connects to remote
// servers. Each destination gets one connection, shared by every
// invocation sent to it.
type Transport struct {
	opts    transportOptions
	metrics *metrics

	mu         sync.Mutex
	connecting map[policyKey]*sync.Mutex
	policies   map[policyKey]*ReconnectPolicy
	// reconnected holds, per destination, the open receivers that reconnect
	// policies dialed. A key is present once its close listener is registered.
	reconnected map[policyKey]map[*receiver]struct{}
}

var _ transport.TransportProvider = (*Transport)(nil)

// NewTransport builds a new remote Transport.
func NewTransport(opts ...TransportOption) *Transport {
	options := newTransportOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Transport{
		opts:       options,
		metrics:    newMetrics(options.scope),
		connecting:  make(map[policyKey]*sync.Mutex),
		policies:    make(map[policyKey]*ReconnectPolicy),
		reconnected: make(map[policyKey]map[*receiver]struct{}),
	}
}

// SupportsScheme reports whether the transport serves the scheme.
func (t *Transport) SupportsScheme(scheme string) bool {
	return containsString(t.opts.schemes, scheme)
}

// Receiver returns the live receiver for dest, connecting if there is none.
//
// A server that does not greet the client in time gets a ReconnectPolicy
// registered with rc. An incompatible server does not.
func (t *Transport) Receiver(ctx context.Context, rc transport.ReceiverContext, dest *url.URL) (transport.Receiver, error) {
	if !t.SupportsScheme(dest.Scheme) {
		return nil, nil
	}
	if r := rc.LiveReceiver(dest); r != nil {
		return r, nil
	}

	lock := t.connectLock(policyKey{rc: rc, dest: dest.String()})
	lock.Lock()
	defer lock.Unlock()

	if r := rc.LiveReceiver(dest); r != nil {
		return r, nil
	}
	r, err := t.connect(ctx, rc, dest)
	if err != nil {
		if beanerrors.ErrorCode(err) == beanerrors.CodeHandshakeTimeout {
			t.scheduleReconnect(rc, dest)
		}
		return nil, err
	}
	return r, nil
}

// NotifyRegistered connects to the static destinations the transport
// serves. Failures are logged; the destinations are dialed again when first
// used.
func (t *Transport) NotifyRegistered(rc transport.ReceiverContext) {
	for _, dest := range rc.StaticConnections() {
		if !t.SupportsScheme(dest.Scheme) {
			continue
		}
		if _, err := t.Receiver(context.Background(), rc, dest); err != nil {
			t.opts.logger.Warn("failed to connect to static destination",
				zap.String("destination", dest.String()), zap.Error(err))
		}
	}
}

func (t *Transport) connectLock(key policyKey) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.connecting[key]
	if !ok {
		lock = new(sync.Mutex)
		t.connecting[key] = lock
	}
	return lock
}

// connect dials dest, runs the handshake, waits for the first module report
// and registers the new receiver with rc.
func (t *Transport) connect(ctx context.Context, rc transport.ReceiverContext, dest *url.URL) (*receiver, error) {
	logger := t.opts.logger.With(zap.String("destination", dest.String()))

	var sec Security
	if t.opts.security != nil {
		var err error
		sec, err = t.opts.security.Security(dest)
		if err != nil {
			t.metrics.connectFailures.Inc(1)
			return nil, beanerrors.Newf(beanerrors.CodeChannelNotReady,
				"no security settings for %s", dest).WithDestination(dest.String()).WithCause(err)
		}
	}

	conn, err := t.opts.dialer.Dial(ctx, dest, sec)
	if err != nil {
		t.metrics.connectFailures.Inc(1)
		return nil, beanerrors.Newf(beanerrors.CodeChannelNotReady,
			"failed to connect to %s", dest).WithDestination(dest.String()).WithCause(err)
	}

	a := newAssociation(NewChannel(dest.Host, conn), dest.String(), logger, t.metrics)
	timeout := handshakeTimeout(rc.InvocationTimeout(), t.opts.handshakeTimeout)
	if err := a.handshake(ctx, timeout, rc.Marshaller().Name()); err != nil {
		switch beanerrors.ErrorCode(err) {
		case beanerrors.CodeHandshakeTimeout:
			t.metrics.handshakeTimeouts.Inc(1)
		case beanerrors.CodeHandshakeIncompatible:
			t.metrics.incompatible.Inc(1)
		default:
			t.metrics.connectFailures.Inc(1)
		}
		logger.Info("handshake failed", zap.Error(err))
		return nil, err
	}

	r := newReceiver(t, rc, dest, a)
	a.setOnClose(r.associationClosed)
	a.start()
	if !a.awaitModules(ctx, t.opts.moduleWait) {
		logger.Info("no module availability report received",
			zap.Duration("wait", t.opts.moduleWait))
	}

	rc.RegisterReceiver(r)
	if a.getState() == stateClosed {
		// Lost while waiting for modules; associationClosed may have run
		// before the receiver was registered.
		rc.UnregisterReceiver(r)
		t.metrics.connectFailures.Inc(1)
		return nil, beanerrors.ConnectionLost(dest.Host, nil)
	}

	t.metrics.connects.Inc(1)
	logger.Info("connected", zap.String("node", r.NodeName()),
		zap.Uint8("version", a.Version()))
	return r, nil
}

// scheduleReconnect registers a ReconnectPolicy for dest unless one is
// already active.
func (t *Transport) scheduleReconnect(rc transport.ReceiverContext, dest *url.URL) {
	if t.opts.reconnectAttempts <= 0 {
		return
	}
	key := policyKey{rc: rc, dest: dest.String()}

	t.mu.Lock()
	if _, ok := t.policies[key]; ok {
		t.mu.Unlock()
		return
	}
	p := newReconnectPolicy(t, rc, dest, key)
	t.policies[key] = p
	_, hooked := t.reconnected[key]
	if !hooked {
		t.reconnected[key] = make(map[*receiver]struct{})
	}
	t.mu.Unlock()

	if !hooked {
		rc.OnClose(func() { t.closeReconnected(key) })
	}
	rc.RegisterReconnector(p)
	if t.opts.background {
		go p.run()
	}
}

func (t *Transport) forgetPolicy(key policyKey, p *ReconnectPolicy) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.policies[key] == p {
		delete(t.policies, key)
	}
}
