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

// Package interceptorchain runs an ordered list of interceptors around a
// final outbound.
package interceptorchain

import (
	"context"

	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
)

// Invoke runs inv through chain, ending at final.
func Invoke(ctx context.Context, chain []interceptor.Interceptor, inv *interceptor.InvocationContext, final interceptor.Outbound) (*transport.Result, error) {
	return chainExec{Chain: chain, Final: final}.Invoke(ctx, inv)
}

// chainExec adapts a series of Interceptors into an Outbound. It is scoped
// to a single call and is not thread-safe. Since it is passed by value an
// interceptor may call next more than once, re-running the rest of the
// chain each time.
type chainExec struct {
	Chain []interceptor.Interceptor
	Final interceptor.Outbound
}

func (x chainExec) Invoke(ctx context.Context, inv *interceptor.InvocationContext) (*transport.Result, error) {
	if len(x.Chain) == 0 {
		return x.Final.Invoke(ctx, inv)
	}
	next := x.Chain[0]
	x.Chain = x.Chain[1:]
	return next.Invoke(ctx, inv, x)
}

// OpenSession runs inv through the session interceptors in chain, ending at
// final. Members that do not implement interceptor.SessionInterceptor are
// skipped.
func OpenSession(ctx context.Context, chain []interceptor.Interceptor, inv *interceptor.InvocationContext, final interceptor.SessionOutbound) (transport.Locator, error) {
	sessionChain := make([]interceptor.SessionInterceptor, 0, len(chain))
	for _, ic := range chain {
		if si, ok := ic.(interceptor.SessionInterceptor); ok {
			sessionChain = append(sessionChain, si)
		}
	}
	return sessionChainExec{Chain: sessionChain, Final: final}.OpenSession(ctx, inv)
}

type sessionChainExec struct {
	Chain []interceptor.SessionInterceptor
	Final interceptor.SessionOutbound
}

func (x sessionChainExec) OpenSession(ctx context.Context, inv *interceptor.InvocationContext) (transport.Locator, error) {
	if len(x.Chain) == 0 {
		return x.Final.OpenSession(ctx, inv)
	}
	next := x.Chain[0]
	x.Chain = x.Chain[1:]
	return next.OpenSession(ctx, inv, x)
}
