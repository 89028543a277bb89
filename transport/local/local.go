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

// Package local provides a transport that dispatches invocations to beans
// hosted in the same process.
//
// Destinations have the form local://<node>. Handlers run synchronously on
// the caller's goroutine, so the result is delivered before
// ProcessInvocation returns.
package local

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/zap"
)

// Scheme is the URI scheme served by the local transport.
const Scheme = "local"

// DefaultNodeName is the node name used when none is configured.
const DefaultNodeName = "local"

// Handler executes invocations of one module.
type Handler interface {
	Handle(ctx context.Context, req *transport.Request) (*transport.Result, error)
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc func(context.Context, *transport.Request) (*transport.Result, error)

// Handle for HandlerFunc.
func (f HandlerFunc) Handle(ctx context.Context, req *transport.Request) (*transport.Result, error) {
	return f(ctx, req)
}

// Option customizes a Transport.
type Option func(*Transport)

// NodeName sets the node name the transport reports.
func NodeName(name string) Option {
	return func(t *Transport) {
		t.node = name
	}
}

// Logger sets the logger. The default discards everything.
func Logger(logger *zap.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// Transactions sets the resource manager transaction operations are handed
// to.
func Transactions(tr transport.TransactionReceiver) Option {
	return func(t *Transport) {
		t.tx = tr
	}
}

// Transport is a transport.TransportProvider hosting beans in process.
type Transport struct {
	node   string
	logger *zap.Logger
	tx     transport.TransactionReceiver

	mu       sync.RWMutex
	handlers map[transport.ModuleID]Handler
}

var _ transport.TransportProvider = (*Transport)(nil)

// NewTransport returns a local Transport with no modules.
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		node:     DefaultNodeName,
		logger:   zap.NewNop(),
		handlers: make(map[transport.ModuleID]Handler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register hosts module with h, replacing any previous handler.
func (t *Transport) Register(module transport.ModuleID, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[module] = h
}

// Unregister stops hosting module.
func (t *Transport) Unregister(module transport.ModuleID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handlers, module)
}

func (t *Transport) handler(module transport.ModuleID) (Handler, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.handlers[module]
	return h, ok
}

// Destination returns the URI invocations to this transport are sent to.
func (t *Transport) Destination() *url.URL {
	return &url.URL{Scheme: Scheme, Host: t.node}
}

// SupportsScheme reports whether scheme is "local".
func (t *Transport) SupportsScheme(scheme string) bool {
	return scheme == Scheme
}

// Receiver returns the receiver for dest. Destinations naming a different
// node are declined.
func (t *Transport) Receiver(_ context.Context, rc transport.ReceiverContext, dest *url.URL) (transport.Receiver, error) {
	if dest.Host != "" && dest.Host != t.node {
		return nil, nil
	}
	if r := rc.LiveReceiver(dest); r != nil {
		return r, nil
	}
	r := newReceiver(t, dest)
	rc.RegisterReceiver(r)
	return r, nil
}

// NotifyRegistered creates receivers for the local static connections.
func (t *Transport) NotifyRegistered(rc transport.ReceiverContext) {
	for _, dest := range rc.StaticConnections() {
		if !t.SupportsScheme(dest.Scheme) {
			continue
		}
		if _, err := t.Receiver(context.Background(), rc, dest); err != nil {
			t.logger.Warn("failed to create local receiver", zap.String("destination", dest.String()), zap.Error(err))
		}
	}
}
