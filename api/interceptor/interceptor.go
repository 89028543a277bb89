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

// Package interceptor defines the policy units every invocation passes
// through, and the ordered lists they are composed into.
package interceptor

import (
	"context"

	"go.uber.org/beanrpc/api/transport"
)

// Outbound is the remainder of an interceptor chain.
type Outbound interface {
	Invoke(ctx context.Context, inv *InvocationContext) (*transport.Result, error)
}

// OutboundFunc adapts a function into an Outbound.
type OutboundFunc func(context.Context, *InvocationContext) (*transport.Result, error)

// Invoke for OutboundFunc.
func (f OutboundFunc) Invoke(ctx context.Context, inv *InvocationContext) (*transport.Result, error) {
	return f(ctx, inv)
}

// Interceptor is a policy unit in the invocation pipeline.
//
// Interceptors MAY do zero or more of the following: change the context,
// change the invocation context, change the returned result, handle the
// returned error, call next zero or more times.
//
// Interceptors MUST always return a non-nil Result or error, and they MUST
// be safe for concurrent use. The root cause of an error MUST stay
// reachable; attach diagnostics with beanerrors rather than replacing it.
type Interceptor interface {
	Invoke(ctx context.Context, inv *InvocationContext, next Outbound) (*transport.Result, error)
}

// Func adapts a function into an Interceptor.
type Func func(context.Context, *InvocationContext, Outbound) (*transport.Result, error)

// Invoke for Func.
func (f Func) Invoke(ctx context.Context, inv *InvocationContext, next Outbound) (*transport.Result, error) {
	return f(ctx, inv, next)
}

// Nop is an interceptor that calls next unchanged.
var Nop Interceptor = nop{}

type nop struct{}

func (nop) Invoke(ctx context.Context, inv *InvocationContext, next Outbound) (*transport.Result, error) {
	return next.Invoke(ctx, inv)
}

// SessionOutbound is the remainder of a session creation chain.
type SessionOutbound interface {
	OpenSession(ctx context.Context, inv *InvocationContext) (transport.Locator, error)
}

// SessionOutboundFunc adapts a function into a SessionOutbound.
type SessionOutboundFunc func(context.Context, *InvocationContext) (transport.Locator, error)

// OpenSession for SessionOutboundFunc.
func (f SessionOutboundFunc) OpenSession(ctx context.Context, inv *InvocationContext) (transport.Locator, error) {
	return f(ctx, inv)
}

// SessionInterceptor is implemented by interceptors that take part in
// stateful session creation. Interceptors that do not implement it are
// skipped when a session is opened.
type SessionInterceptor interface {
	OpenSession(ctx context.Context, inv *InvocationContext, next SessionOutbound) (transport.Locator, error)
}
