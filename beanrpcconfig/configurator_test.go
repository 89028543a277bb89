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
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/encoding/json"
)

type fakeProvider struct {
	scheme  string
	timeout time.Duration
}

func (p *fakeProvider) SupportsScheme(scheme string) bool          { return scheme == p.scheme }
func (p *fakeProvider) NotifyRegistered(transport.ReceiverContext) {}

func (p *fakeProvider) Receiver(context.Context, transport.ReceiverContext, *url.URL) (transport.Receiver, error) {
	return nil, nil
}

func fakeTransportSpec(built *[]*fakeProvider) TransportSpec {
	return TransportSpec{
		Name: "fake",
		Build: func(attrs Attributes, kit *Kit) (transport.TransportProvider, error) {
			var cfg struct {
				Scheme  string        `config:"scheme,interpolate"`
				Timeout time.Duration `config:"timeout"`
			}
			if err := kit.Decode(attrs, &cfg); err != nil {
				return nil, err
			}
			p := &fakeProvider{scheme: cfg.Scheme, timeout: cfg.Timeout}
			*built = append(*built, p)
			return p, nil
		},
	}
}

type taggedInterceptor struct{ tag string }

func (i *taggedInterceptor) Invoke(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.Outbound) (*transport.Result, error) {
	return next.Invoke(ctx, inv)
}

func taggedSpec() InterceptorSpec {
	return InterceptorSpec{
		Name:     "tagged",
		Priority: 10,
		Build: func(attrs Attributes, kit *Kit) (interceptor.Interceptor, error) {
			tag, err := attrs.PopString("tag")
			if err != nil {
				return nil, err
			}
			if len(attrs) > 0 {
				return nil, errors.New("unexpected attributes " + strings.Join(attrs.Keys(), ", "))
			}
			return &taggedInterceptor{tag: tag}, nil
		},
	}
}

func mapLookup(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestRegisterValidation(t *testing.T) {
	c := New()
	assert.Error(t, c.RegisterTransport(TransportSpec{}))
	assert.Error(t, c.RegisterTransport(TransportSpec{Name: "x"}))
	assert.Error(t, c.RegisterInterceptor(InterceptorSpec{}))
	assert.Error(t, c.RegisterInterceptor(InterceptorSpec{Name: "x"}))
	assert.Error(t, c.RegisterMarshaller(json.Marshaller{}), "json is registered by default")
	assert.Panics(t, func() { c.MustRegisterTransport(TransportSpec{}) })
	assert.Panics(t, func() { c.MustRegisterInterceptor(InterceptorSpec{}) })
}

func TestNewClientContextFromYAML(t *testing.T) {
	var built []*fakeProvider
	c := New(InterpolationResolver(mapLookup(map[string]string{
		"BEAN_HOST": "beans.example.com",
		"SCHEME":    "remote",
	})))
	c.MustRegisterTransport(fakeTransportSpec(&built))
	c.MustRegisterInterceptor(taggedSpec())

	cc, err := c.NewClientContextFromYAML(strings.NewReader(`
invocationTimeout: ${BEAN_TIMEOUT:3s}
marshaller: json
selectors:
  cluster: round-robin
  deployment: first-available
connections:
  - uri: remote://${BEAN_HOST}:4447
clusters:
  ejb:
    members:
      - uri: remote://node1:4447
        node: node1
        modules: [shop/cart, audit]
transports:
  fake:
    scheme: ${SCHEME}
    timeout: 2s
interceptors:
  - type: tagged
    tag: global
  - type: tagged
    tag: view
    view: CartRemote
    priority: 1
  - type: tagged
    tag: method
    view: CartRemote
    method: checkout
hints:
  - view: CartRemote
    method: checkout
    request: true
    level: 6
disableHints: [AuditRemote]
`))
	require.NoError(t, err)
	defer cc.Close()

	assert.Equal(t, 3*time.Second, cc.InvocationTimeout())
	assert.Equal(t, json.Name, cc.Marshaller().Name())

	require.Len(t, cc.StaticConnections(), 1)
	assert.Equal(t, "remote://beans.example.com:4447", cc.StaticConnections()[0].String())

	require.Len(t, built, 1)
	assert.Equal(t, "remote", built[0].scheme)
	assert.Equal(t, 2*time.Second, built[0].timeout)

	var tags []string
	for _, ic := range cc.Interceptors("CartRemote", "checkout").Interceptors() {
		if ti, ok := ic.(*taggedInterceptor); ok {
			tags = append(tags, ti.tag)
		}
	}
	assert.ElementsMatch(t, []string{"global", "view", "method"}, tags)

	tags = tags[:0]
	for _, ic := range cc.Interceptors("AuditRemote", "record").Interceptors() {
		if ti, ok := ic.(*taggedInterceptor); ok {
			tags = append(tags, ti.tag)
		}
	}
	assert.Equal(t, []string{"global"}, tags)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		desc    string
		give    string
		wantErr []string
	}{
		{
			desc:    "unknown transport",
			give:    "transports: {carrier-pigeon: {}}",
			wantErr: []string{`no recognized transport "carrier-pigeon"; need one of fake`},
		},
		{
			desc:    "unknown interceptor",
			give:    "interceptors: [{type: nope}]",
			wantErr: []string{`no recognized interceptor "nope"; need one of tagged`},
		},
		{
			desc:    "interceptor without type",
			give:    "interceptors: [{tag: x}]",
			wantErr: []string{"interceptor type is required"},
		},
		{
			desc:    "method without view",
			give:    "interceptors: [{type: tagged, tag: x, method: checkout}]",
			wantErr: []string{`method "checkout" needs a view`},
		},
		{
			desc:    "interceptor build failure",
			give:    "interceptors: [{type: tagged, color: red}]",
			wantErr: []string{`failed to build interceptor "tagged"`, "unexpected attributes color"},
		},
		{
			desc:    "unknown marshaller",
			give:    "marshaller: xml",
			wantErr: []string{`no recognized marshaller "xml"; need one of json, raw`},
		},
		{
			desc:    "unknown selector",
			give:    "selectors: {cluster: fastest}",
			wantErr: []string{`invalid cluster selector: no recognized selector "fastest"`},
		},
		{
			desc:    "bad connection",
			give:    "connections: [{uri: beans}]",
			wantErr: []string{`"beans" is not a destination URI`},
		},
		{
			desc:    "bad module name",
			give:    "clusters: {ejb: {members: [{uri: 'remote://a:1', modules: ['a/b/c/d']}]}}",
			wantErr: []string{`invalid module name "a/b/c/d"`},
		},
		{
			desc:    "hint without view",
			give:    "hints: [{method: checkout, request: true}]",
			wantErr: []string{"compression hint needs a view"},
		},
		{
			desc: "errors are collected",
			give: "marshaller: xml\nhints: [{request: true}]",
			wantErr: []string{
				`no recognized marshaller "xml"`,
				"compression hint needs a view",
			},
		},
		{
			desc:    "unset variable",
			give:    "connections: [{uri: '${NOWHERE}'}]",
			wantErr: []string{"NOWHERE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			var built []*fakeProvider
			c := New(InterpolationResolver(mapLookup(nil)))
			c.MustRegisterTransport(fakeTransportSpec(&built))
			c.MustRegisterInterceptor(taggedSpec())

			_, err := c.LoadConfigFromYAML(strings.NewReader(tt.give))
			require.Error(t, err)
			for _, msg := range tt.wantErr {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestLoadConfigNegativeTimeoutFailsBuild(t *testing.T) {
	b, err := New().LoadConfig(map[string]interface{}{"invocationTimeout": "-1s"})
	require.NoError(t, err)
	_, err = b.Build()
	assert.Error(t, err)
}

func TestEmptyConfig(t *testing.T) {
	cc, err := New().NewClientContext(map[string]interface{}{})
	require.NoError(t, err)
	defer cc.Close()
	assert.Empty(t, cc.StaticConnections())
}
