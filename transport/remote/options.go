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
	"time"

	"github.com/uber-go/tally"
	backoffapi "go.uber.org/beanrpc/api/backoff"
	"go.uber.org/beanrpc/internal/backoff"
	"go.uber.org/zap"
)

const (
	// DefaultHandshakeTimeout bounds the wait for the server's version
	// message when no invocation timeout is configured.
	DefaultHandshakeTimeout = 5 * time.Second

	// DefaultModuleWait bounds the wait for the first module availability
	// report after a successful handshake.
	DefaultModuleWait = 30 * time.Second

	// DefaultReconnectAttempts is how many times a lost destination is
	// redialed before giving up.
	DefaultReconnectAttempts = 10

	// DefaultReconnectTimeout bounds a single reconnect attempt.
	DefaultReconnectTimeout = 10 * time.Second
)

// Scheme is the default URI scheme served by the remote transport.
const Scheme = "remote"

// TransportOption customizes a remote Transport.
type TransportOption func(*transportOptions)

type transportOptions struct {
	logger            *zap.Logger
	scope             tally.Scope
	handshakeTimeout  time.Duration
	moduleWait        time.Duration
	reconnectAttempts int
	reconnectTimeout  time.Duration
	backoff           backoffapi.Strategy
	background        bool
	dialer            Dialer
	security          SecurityProvider
	schemes           []string
}

func newTransportOptions() transportOptions {
	return transportOptions{
		logger:            zap.NewNop(),
		scope:             tally.NoopScope,
		handshakeTimeout:  DefaultHandshakeTimeout,
		moduleWait:        DefaultModuleWait,
		reconnectAttempts: DefaultReconnectAttempts,
		reconnectTimeout:  DefaultReconnectTimeout,
		backoff:           backoff.DefaultExponential,
		background:        true,
		dialer:            TCPDialer{},
		schemes:           []string{Scheme},
	}
}

// Logger sets the logger. The default discards everything.
func Logger(logger *zap.Logger) TransportOption {
	return func(o *transportOptions) {
		o.logger = logger
	}
}

// MetricsScope sets the tally scope connection metrics are reported to.
func MetricsScope(scope tally.Scope) TransportOption {
	return func(o *transportOptions) {
		o.scope = scope
	}
}

// HandshakeTimeout bounds the wait for the server's version message. A
// positive invocation timeout lowers the bound further.
func HandshakeTimeout(d time.Duration) TransportOption {
	return func(o *transportOptions) {
		o.handshakeTimeout = d
	}
}

// ModuleWait bounds the wait for the first module availability report. Not
// receiving one in time is logged and otherwise ignored.
func ModuleWait(d time.Duration) TransportOption {
	return func(o *transportOptions) {
		o.moduleWait = d
	}
}

// ReconnectAttempts sets how many times a lost destination is redialed.
func ReconnectAttempts(n int) TransportOption {
	return func(o *transportOptions) {
		o.reconnectAttempts = n
	}
}

// ReconnectTimeout bounds a single reconnect attempt.
func ReconnectTimeout(d time.Duration) TransportOption {
	return func(o *transportOptions) {
		o.reconnectTimeout = d
	}
}

// ReconnectBackoff sets the delay between background reconnect attempts.
//
//	remote.NewTransport(remote.ReconnectBackoff(backoff))
func ReconnectBackoff(s backoffapi.Strategy) TransportOption {
	return func(o *transportOptions) {
		o.backoff = s
	}
}

// DisableBackgroundReconnect leaves reconnect attempts to the client
// context, which runs them when a destination has no receiver.
func DisableBackgroundReconnect() TransportOption {
	return func(o *transportOptions) {
		o.background = false
	}
}

// WithDialer sets how connections are opened. The default dials TCP.
func WithDialer(d Dialer) TransportOption {
	return func(o *transportOptions) {
		o.dialer = d
	}
}

// WithSecurity sets where TLS settings and credentials for a destination
// come from.
func WithSecurity(s SecurityProvider) TransportOption {
	return func(o *transportOptions) {
		o.security = s
	}
}

// Schemes replaces the URI schemes the transport serves.
func Schemes(schemes ...string) TransportOption {
	return func(o *transportOptions) {
		o.schemes = schemes
	}
}
