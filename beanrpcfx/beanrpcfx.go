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

// Package beanrpcfx provides a beanrpc ClientContext to fx applications.
//
//	fx.New(
//		fx.Provide(func() beanrpcfx.Config {
//			return beanrpcfx.Config{"connections": []interface{}{
//				map[string]interface{}{"uri": "remote://beans:4447"},
//			}}
//		}),
//		beanrpcfx.Module,
//		fx.Invoke(func(cc *beanrpc.ClientContext) { ... }),
//	)
//
// The remote transport and the retry, tracing and observability
// interceptors are always registered. Provide more specs into the
// beanrpcfx.transports and beanrpcfx.interceptors value groups.
package beanrpcfx

import (
	"context"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally"
	"go.uber.org/beanrpc"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanrpcconfig"
	"go.uber.org/beanrpc/interceptor/observability"
	"go.uber.org/beanrpc/interceptor/tracing"
	"go.uber.org/beanrpc/transport/remote"
	"go.uber.org/beanrpc/x/retry"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/net/metrics"
	"go.uber.org/zap"
)

const _name = "beanrpcfx"

// Module provides a *beanrpcconfig.Configurator and a
// *beanrpc.ClientContext closed when the application stops.
var Module = fx.Options(
	fx.Provide(NewConfigurator),
	fx.Provide(NewClientContext),
)

// Config is the parsed client configuration, in the format
// beanrpcconfig.Configurator.LoadConfig accepts.
type Config map[string]interface{}

// ConfiguratorParams defines the dependencies of this module.
type ConfiguratorParams struct {
	fx.In

	Logger  *zap.Logger        `optional:"true"`
	Scope   tally.Scope        `optional:"true"`
	Tracer  opentracing.Tracer `optional:"true"`
	Metrics *metrics.Scope     `optional:"true"`

	Marshallers  []transport.Marshaller          `group:"beanrpcfx.marshallers"`
	Transports   []beanrpcconfig.TransportSpec   `group:"beanrpcfx.transports"`
	Interceptors []beanrpcconfig.InterceptorSpec `group:"beanrpcfx.interceptors"`
}

// ConfiguratorResult defines the values produced by this module.
type ConfiguratorResult struct {
	fx.Out

	Configurator *beanrpcconfig.Configurator
}

// NewConfigurator produces a Configurator knowing the built-in transports
// and interceptors plus the ones provided to the value groups. Provided
// specs replace built-in specs of the same name.
func NewConfigurator(p ConfiguratorParams) (ConfiguratorResult, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []beanrpcconfig.Option{beanrpcconfig.Logger(logger.Named(_name))}
	if p.Scope != nil {
		opts = append(opts, beanrpcconfig.MetricsScope(p.Scope))
	}
	c := beanrpcconfig.New(opts...)

	var err error
	err = multierr.Append(err, c.RegisterTransport(remote.TransportSpec()))
	err = multierr.Append(err, c.RegisterInterceptor(retry.InterceptorSpec()))
	err = multierr.Append(err, c.RegisterInterceptor(tracing.InterceptorSpec(p.Tracer)))
	err = multierr.Append(err, c.RegisterInterceptor(observability.InterceptorSpec(p.Metrics)))
	for _, m := range p.Marshallers {
		err = multierr.Append(err, c.RegisterMarshaller(m))
	}
	for _, t := range p.Transports {
		err = multierr.Append(err, c.RegisterTransport(t))
	}
	for _, i := range p.Interceptors {
		err = multierr.Append(err, c.RegisterInterceptor(i))
	}
	if err != nil {
		return ConfiguratorResult{}, err
	}
	return ConfiguratorResult{Configurator: c}, nil
}

// ClientContextParams defines the dependencies of this module.
type ClientContextParams struct {
	fx.In

	Configurator *beanrpcconfig.Configurator
	Config       Config `optional:"true"`

	Lifecycle fx.Lifecycle
}

// ClientContextResult defines the values produced by this module.
type ClientContextResult struct {
	fx.Out

	ClientContext *beanrpc.ClientContext
}

// NewClientContext builds the ClientContext from Config and closes it when
// the application stops.
func NewClientContext(p ClientContextParams) (ClientContextResult, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = Config{}
	}
	cc, err := p.Configurator.NewClientContext(map[string]interface{}(cfg))
	if err != nil {
		return ClientContextResult{}, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return cc.Close()
		},
	})
	return ClientContextResult{ClientContext: cc}, nil
}
