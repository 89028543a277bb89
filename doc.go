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

// Package beanrpc is a client runtime for invoking stateless and stateful
// service objects ("beans") hosted on remote servers.
//
// A ClientContext ties together the transport providers that create
// receivers for destinations, the interceptors every invocation passes
// through, and the discovery used to find destinations. Build one with a
// Builder:
//
//	cc, err := beanrpc.NewBuilder().
//		AddTransportProvider(remote.NewTransport()).
//		StaticConnections(dest).
//		InvocationTimeout(2 * time.Second).
//		Build()
//
// Invocations name their target with a transport.Locator, usually obtained
// through naming.Lookup:
//
//	loc, err := naming.Lookup(ctx, cc, "shop/cart/CartBean!Cart")
//	err = cc.Invoke(ctx, loc, transport.MethodLocator{Name: "add"}, args, &result)
//
// There is no implicit current ClientContext. Pass it explicitly, scope it
// on a context.Context with WithClientContext, or install a process default
// with SetDefault.
package beanrpc
