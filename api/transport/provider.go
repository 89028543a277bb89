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

package transport

//go:generate mockgen -destination=transporttest/transport.go -package=transporttest go.uber.org/beanrpc/api/transport Marshaller,Receiver,ReceiverContext,Reconnector,ResultSink,TransportProvider

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// TransportProvider creates receivers for the destinations whose scheme it
// supports.
type TransportProvider interface {
	// SupportsScheme reports whether the provider handles URIs with the
	// given scheme.
	SupportsScheme(scheme string) bool

	// Receiver returns a live receiver for dest, creating a connection if
	// necessary. A nil Receiver with a nil error means the provider declines
	// the destination.
	Receiver(ctx context.Context, rc ReceiverContext, dest *url.URL) (Receiver, error)

	// NotifyRegistered is called once when the provider is attached to a
	// client context.
	NotifyRegistered(rc ReceiverContext)
}

// Reconnector re-establishes a lost connection.
type Reconnector interface {
	// Reconnect makes one attempt. Success registers a fresh receiver with
	// the ReceiverContext; exhaustion unregisters the Reconnector. Neither
	// outcome is reported as an error.
	Reconnect(ctx context.Context)
}

// ReceiverContext is the part of a client context a TransportProvider talks
// to: the live receiver registry, reconnect registrations and settings
// shared by all receivers.
type ReceiverContext interface {
	// RegisterReceiver makes r the live receiver for its destination.
	RegisterReceiver(r Receiver)
	// UnregisterReceiver removes r if it is still the live receiver for its
	// destination.
	UnregisterReceiver(r Receiver)
	// LiveReceiver returns the registered receiver for dest, or nil.
	LiveReceiver(dest *url.URL) Receiver

	// RegisterReconnector registers r for the next reconnect round. Each
	// Reconnector is registered at most once.
	RegisterReconnector(r Reconnector)
	// UnregisterReconnector removes r.
	UnregisterReconnector(r Reconnector)

	// OnClose registers fn to run when the client context is closed. It runs
	// immediately if the context is already closed.
	OnClose(fn func())

	// StaticConnections are the destinations to connect to eagerly.
	StaticConnections() []*url.URL
	// InvocationTimeout bounds synchronous waits. Zero means no bound.
	InvocationTimeout() time.Duration
	// Marshaller encodes invocation payloads.
	Marshaller() Marshaller
	// Logger is the client context's logger.
	Logger() *zap.Logger
}
