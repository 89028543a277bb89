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

// Package remote is a transport that sends invocations to bean servers over
// the network.
//
// Every destination gets one connection carrying length-prefixed messages.
// A connection starts with a handshake: the server announces its protocol
// version, marshalling strategies and node name, and the client answers with
// the version and strategy it picked. After the handshake the server
// reports which modules it hosts and keeps the report up to date.
//
// Requests carry a 16-bit invocation ID so that responses may arrive in any
// order. Closing or losing the connection fails every outstanding request.
//
//	cc, err := beanrpc.NewBuilder().
//		AddTransportProvider(remote.NewTransport(remote.Logger(logger))).
//		StaticConnections(dest).
//		Build()
//
// A connection that fails the handshake because the server did not answer
// in time, or that is lost after the handshake, is retried by a
// ReconnectPolicy. Servers that are incompatible are never retried.
package remote
