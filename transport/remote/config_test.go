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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/beanrpcconfig"
)

func TestTransportSpec(t *testing.T) {
	cfg := beanrpcconfig.New(beanrpcconfig.InterpolationResolver(func(name string) (string, bool) {
		if name == "HANDSHAKE" {
			return "1500ms", true
		}
		return "", false
	}))
	cfg.MustRegisterTransport(TransportSpec(ReconnectAttempts(99)))

	cc, err := cfg.NewClientContextFromYAML(strings.NewReader(`
transports:
  remote:
    handshakeTimeout: ${HANDSHAKE}
    moduleWait: 10s
    schemes: [remote, remote+tls]
    reconnect:
      attempts: 3
      timeout: 2s
      background: false
      backoff:
        exponential:
          first: 10ms
          max: 1s
`))
	require.NoError(t, err)
	defer cc.Close()
}

func TestTransportConfigOptions(t *testing.T) {
	attempts := 3
	background := false
	c := TransportConfig{
		HandshakeTimeout: 1500 * time.Millisecond,
		ModuleWait:       10 * time.Second,
		Schemes:          []string{"remote", "remote+tls"},
		Reconnect: ReconnectConfig{
			Attempts:   &attempts,
			Timeout:    2 * time.Second,
			Background: &background,
			Backoff: beanrpcconfig.Backoff{
				Exponential: beanrpcconfig.ExponentialBackoff{First: 10 * time.Millisecond, Max: time.Second},
			},
		},
	}
	opts, err := c.options()
	require.NoError(t, err)

	tr := NewTransport(append([]TransportOption{ReconnectAttempts(99)}, opts...)...)
	assert.Equal(t, 1500*time.Millisecond, tr.opts.handshakeTimeout)
	assert.Equal(t, 10*time.Second, tr.opts.moduleWait)
	assert.Equal(t, 3, tr.opts.reconnectAttempts)
	assert.Equal(t, 2*time.Second, tr.opts.reconnectTimeout)
	assert.False(t, tr.opts.background)
	assert.True(t, tr.SupportsScheme("remote+tls"))
	assert.False(t, tr.SupportsScheme("http"))
}

func TestTransportConfigDefaults(t *testing.T) {
	opts, err := TransportConfig{}.options()
	require.NoError(t, err)
	assert.Empty(t, opts)

	tr := NewTransport(opts...)
	assert.Equal(t, DefaultHandshakeTimeout, tr.opts.handshakeTimeout)
	assert.True(t, tr.opts.background)
}

func TestTransportConfigInvalid(t *testing.T) {
	_, err := TransportConfig{HandshakeTimeout: -time.Second}.options()
	assert.Error(t, err)

	_, err = TransportConfig{Reconnect: ReconnectConfig{Backoff: beanrpcconfig.Backoff{
		Exponential: beanrpcconfig.ExponentialBackoff{First: time.Second, Max: time.Millisecond},
	}}}.options()
	assert.Error(t, err)
}
