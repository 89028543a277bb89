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

// Package beanrpcconfig builds client contexts from configuration.
//
// A Configurator reads YAML (or an already parsed map) into a
// beanrpc.Builder. Transports and interceptors plug in through
// TransportSpec and InterceptorSpec.
//
//	cfg := beanrpcconfig.New(beanrpcconfig.Logger(logger))
//	cfg.MustRegisterTransport(remote.TransportSpec())
//	cfg.MustRegisterInterceptor(retry.InterceptorSpec())
//	cc, err := cfg.NewClientContextFromYAML(f)
//
// A configuration looks like this:
//
//	invocationTimeout: ${BEAN_TIMEOUT:5s}
//	marshaller: json
//	selectors:
//	  cluster: round-robin
//	connections:
//	  - uri: remote://${BEAN_HOST:localhost}:4447
//	clusters:
//	  ejb:
//	    members:
//	      - uri: remote://node1:4447
//	        node: node1
//	        modules: [shop/cart]
//	transports:
//	  remote:
//	    handshakeTimeout: 2s
//	interceptors:
//	  - type: retry
//	    attempts: 3
//	hints:
//	  - view: CartRemote
//	    method: checkout
//	    request: true
//	    level: 6
//	disableHints: [AuditRemote]
//
// Strings of fields marked for interpolation accept ${VAR} and
// ${VAR:default}. Variables are read from the environment unless
// InterpolationResolver says otherwise.
package beanrpcconfig
