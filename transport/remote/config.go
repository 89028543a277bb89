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
	"fmt"
	"time"

	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanrpcconfig"
)

// TransportConfig configures a remote Transport. It is decoded from the
// remote entry of the transports section.
//
//	transports:
//	  remote:
//	    handshakeTimeout: 2s
//	    moduleWait: 10s
//	    reconnect:
//	      attempts: 5
//	      timeout: 5s
//	      background: true
//	      backoff:
//	        exponential:
//	          first: 100ms
//	          max: 10s
//	    schemes: [remote, remote+tls]
type TransportConfig struct {
	HandshakeTimeout time.Duration   `config:"handshakeTimeout,interpolate"`
	ModuleWait       time.Duration   `config:"moduleWait,interpolate"`
	Reconnect        ReconnectConfig `config:"reconnect"`
	Schemes          []string        `config:"schemes"`
}

// ReconnectConfig configures the reconnect policy of a remote Transport.
type ReconnectConfig struct {
	Attempts   *int                  `config:"attempts"`
	Timeout    time.Duration         `config:"timeout,interpolate"`
	Background *bool                 `config:"background"`
	Backoff    beanrpcconfig.Backoff `config:"backoff"`
}

// TransportSpec returns a TransportSpec for the remote transport. Options
// passed here apply before the configured ones, so configuration wins.
//
//	cfg := beanrpcconfig.New()
//	cfg.MustRegisterTransport(remote.TransportSpec(remote.WithSecurity(sp)))
func TransportSpec(opts ...TransportOption) beanrpcconfig.TransportSpec {
	return beanrpcconfig.TransportSpec{
		Name: Scheme,
		Build: func(attrs beanrpcconfig.Attributes, kit *beanrpcconfig.Kit) (transport.TransportProvider, error) {
			var cfg TransportConfig
			if err := kit.Decode(attrs, &cfg); err != nil {
				return nil, err
			}
			configured, err := cfg.options()
			if err != nil {
				return nil, err
			}

			all := []TransportOption{Logger(kit.Logger()), MetricsScope(kit.MetricsScope())}
			all = append(all, opts...)
			all = append(all, configured...)
			return NewTransport(all...), nil
		},
	}
}

func (c TransportConfig) options() ([]TransportOption, error) {
	var opts []TransportOption
	if c.HandshakeTimeout < 0 {
		return nil, fmt.Errorf("handshakeTimeout must not be negative, got %v", c.HandshakeTimeout)
	}
	if c.HandshakeTimeout > 0 {
		opts = append(opts, HandshakeTimeout(c.HandshakeTimeout))
	}
	if c.ModuleWait > 0 {
		opts = append(opts, ModuleWait(c.ModuleWait))
	}
	if len(c.Schemes) > 0 {
		opts = append(opts, Schemes(c.Schemes...))
	}

	r := c.Reconnect
	if r.Attempts != nil {
		opts = append(opts, ReconnectAttempts(*r.Attempts))
	}
	if r.Timeout > 0 {
		opts = append(opts, ReconnectTimeout(r.Timeout))
	}
	if r.Background != nil && !*r.Background {
		opts = append(opts, DisableBackgroundReconnect())
	}
	if r.Backoff.Exponential != (beanrpcconfig.ExponentialBackoff{}) {
		s, err := r.Backoff.Strategy()
		if err != nil {
			return nil, fmt.Errorf("invalid reconnect backoff: %v", err)
		}
		opts = append(opts, ReconnectBackoff(s))
	}
	return opts, nil
}
