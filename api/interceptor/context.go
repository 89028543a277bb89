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

package interceptor

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/beanrpc/api/transport"
)

// InvocationContext is the state of a single call as it passes through the
// interceptor chain. It belongs to the call and must not be shared with
// other calls.
type InvocationContext struct {
	// Locator is the target. Interceptors replace it to change affinity.
	Locator transport.Locator
	// Method is the invoked method.
	Method transport.MethodLocator
	// Payload holds the marshalled arguments.
	Payload []byte
	// Attachments carry data between interceptors and to the transport.
	Attachments transport.Attachments
	// Destination is set by discovery. Transport dispatch sends to it.
	Destination *url.URL

	cancelled atomic.Bool

	mu       sync.Mutex
	excluded map[string]struct{}
	receiver transport.Receiver
	call     *transport.Call
}

// NewInvocationContext returns an InvocationContext for a call.
func NewInvocationContext(loc transport.Locator, method transport.MethodLocator, payload []byte) *InvocationContext {
	return &InvocationContext{
		Locator:     loc,
		Method:      method,
		Payload:     payload,
		Attachments: make(transport.Attachments),
	}
}

// Request builds the transport request for the current state.
func (c *InvocationContext) Request() *transport.Request {
	return &transport.Request{
		Locator:     c.Locator,
		Method:      c.Method,
		Payload:     c.Payload,
		Attachments: c.Attachments,
	}
}

// ExcludeDestination keeps discovery from picking dest again for this call.
func (c *InvocationContext) ExcludeDestination(dest *url.URL) {
	if dest == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.excluded == nil {
		c.excluded = make(map[string]struct{})
	}
	c.excluded[dest.String()] = struct{}{}
}

// IsExcluded reports whether dest was excluded for this call.
func (c *InvocationContext) IsExcluded(dest *url.URL) bool {
	if dest == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.excluded[dest.String()]
	return ok
}

// Dispatched records the receiver and call the invocation was handed to,
// so that Cancel can reach it.
func (c *InvocationContext) Dispatched(r transport.Receiver, call *transport.Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiver = r
	c.call = call
}

// Receiver returns the receiver the invocation was dispatched to, if any.
func (c *InvocationContext) Receiver() transport.Receiver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receiver
}

// Cancel marks the invocation cancelled and, if it was already dispatched,
// sends an advisory cancellation to the receiver. It reports whether the
// receiver confirmed the cancellation synchronously.
func (c *InvocationContext) Cancel(ctx context.Context) bool {
	c.cancelled.Store(true)
	c.mu.Lock()
	r, call := c.receiver, c.call
	c.mu.Unlock()
	if r == nil || call == nil {
		return false
	}
	return r.CancelInvocation(ctx, call)
}

// Cancelled reports whether Cancel was called.
func (c *InvocationContext) Cancelled() bool { return c.cancelled.Load() }
