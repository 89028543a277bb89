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

package beanrpcconfig

import (
	"github.com/uber-go/tally"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/internal/interpolate"
	"go.uber.org/zap"
)

// TransportSpec teaches a Configurator how to build a transport provider
// from the attributes under its name in the transports section.
//
//	transports:
//	  remote:
//	    handshakeTimeout: 2s
type TransportSpec struct {
	// Name of the transport in configuration. Required.
	Name string

	// Build builds the provider. Use Kit.Decode to read attrs into a
	// config struct.
	Build func(attrs Attributes, kit *Kit) (transport.TransportProvider, error)
}

// InterceptorSpec teaches a Configurator how to build an interceptor from an
// entry of the interceptors section.
//
//	interceptors:
//	  - type: retry
//	    attempts: 3
type InterceptorSpec struct {
	// Name is the type of the interceptor in configuration. Required.
	Name string

	// Priority is used when the configuration does not set one.
	Priority int

	// Build builds the interceptor.
	Build func(attrs Attributes, kit *Kit) (interceptor.Interceptor, error)
}

// Kit carries the Configurator's dependencies into Build functions. Build
// functions must not modify it.
type Kit struct {
	logger   *zap.Logger
	scope    tally.Scope
	resolver interpolate.VariableResolver
}

// Logger returns the logger components built from configuration should use.
func (k *Kit) Logger() *zap.Logger { return k.logger }

// MetricsScope returns the scope components built from configuration report
// to.
func (k *Kit) MetricsScope() tally.Scope { return k.scope }

// Decode decodes attrs into dst. String values of fields tagged with the
// interpolate option have ${VAR} and ${VAR:default} expanded.
//
//	type remoteConfig struct {
//		Host string `config:"host,interpolate"`
//	}
func (k *Kit) Decode(attrs Attributes, dst interface{}) error {
	return attrs.Decode(dst, interpolateWith(k.resolver))
}
