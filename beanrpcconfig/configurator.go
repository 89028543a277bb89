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
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/uber-go/tally"
	"go.uber.org/beanrpc"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/discovery"
	"go.uber.org/beanrpc/encoding/json"
	"go.uber.org/beanrpc/encoding/raw"
	"go.uber.org/beanrpc/internal/interpolate"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Option customizes a Configurator.
type Option func(*Configurator)

// InterpolationResolver sets where ${VAR} references get their values. The
// default reads the environment.
func InterpolationResolver(resolver func(name string) (value string, ok bool)) Option {
	return func(c *Configurator) {
		c.resolver = resolver
	}
}

// Logger sets the logger of the built client context and of the components
// built from configuration.
func Logger(logger *zap.Logger) Option {
	return func(c *Configurator) {
		c.logger = logger
	}
}

// MetricsScope sets the tally scope of the built client context and of the
// components built from configuration.
func MetricsScope(scope tally.Scope) Option {
	return func(c *Configurator) {
		c.scope = scope
	}
}

// Configurator builds client contexts from configuration.
//
// A new Configurator knows the raw and json marshallers but no transports or
// interceptors. Register them with RegisterTransport and
// RegisterInterceptor.
type Configurator struct {
	knownTransports   map[string]*TransportSpec
	knownInterceptors map[string]*InterceptorSpec
	knownMarshallers  map[string]transport.Marshaller
	resolver          interpolate.VariableResolver
	logger            *zap.Logger
	scope             tally.Scope
}

// New sets up a new Configurator.
func New(opts ...Option) *Configurator {
	c := &Configurator{
		knownTransports:   make(map[string]*TransportSpec),
		knownInterceptors: make(map[string]*InterceptorSpec),
		knownMarshallers: map[string]transport.Marshaller{
			raw.Name:  raw.Marshaller{},
			json.Name: json.Marshaller{},
		},
		resolver: os.LookupEnv,
		logger:   zap.NewNop(),
		scope:    tally.NoopScope,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterTransport registers a TransportSpec. A transport with the same
// name is replaced.
func (c *Configurator) RegisterTransport(t TransportSpec) error {
	if t.Name == "" {
		return errors.New("name is required")
	}
	if t.Build == nil {
		return fmt.Errorf("invalid TransportSpec for %q: Build is required", t.Name)
	}
	c.knownTransports[t.Name] = &t
	return nil
}

// MustRegisterTransport registers a TransportSpec and panics if it is
// invalid.
func (c *Configurator) MustRegisterTransport(t TransportSpec) {
	if err := c.RegisterTransport(t); err != nil {
		panic(err)
	}
}

// RegisterInterceptor registers an InterceptorSpec. An interceptor with the
// same name is replaced.
func (c *Configurator) RegisterInterceptor(s InterceptorSpec) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Build == nil {
		return fmt.Errorf("invalid InterceptorSpec for %q: Build is required", s.Name)
	}
	c.knownInterceptors[s.Name] = &s
	return nil
}

// MustRegisterInterceptor registers an InterceptorSpec and panics if it is
// invalid.
func (c *Configurator) MustRegisterInterceptor(s InterceptorSpec) {
	if err := c.RegisterInterceptor(s); err != nil {
		panic(err)
	}
}

// RegisterMarshaller makes m selectable by its name.
func (c *Configurator) RegisterMarshaller(m transport.Marshaller) error {
	if _, ok := c.knownMarshallers[m.Name()]; ok {
		return fmt.Errorf("marshaller already registered for name %q", m.Name())
	}
	c.knownMarshallers[m.Name()] = m
	return nil
}

// MustRegisterMarshaller registers m or panics.
func (c *Configurator) MustRegisterMarshaller(m transport.Marshaller) {
	if err := c.RegisterMarshaller(m); err != nil {
		panic(err)
	}
}

// Kit returns the dependency kit handed to Build functions.
func (c *Configurator) Kit() *Kit {
	return &Kit{logger: c.logger, scope: c.scope, resolver: c.resolver}
}

// LoadConfigFromYAML reads YAML configuration into a Builder. Use
// LoadConfig if the configuration is already parsed.
func (c *Configurator) LoadConfigFromYAML(r io.Reader) (*beanrpc.Builder, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	return c.LoadConfig(data)
}

// LoadConfig reads configuration from a map[string]interface{} or
// map[interface{}]interface{} into a Builder. The Builder may be customized
// further before building.
func (c *Configurator) LoadConfig(data interface{}) (*beanrpc.Builder, error) {
	var cfg clientConfig
	if err := decodeInto(&cfg, data, interpolateWith(c.resolver)); err != nil {
		return nil, err
	}
	return c.load(&cfg)
}

// NewClientContextFromYAML builds a ClientContext from YAML configuration.
func (c *Configurator) NewClientContextFromYAML(r io.Reader) (*beanrpc.ClientContext, error) {
	b, err := c.LoadConfigFromYAML(r)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// NewClientContext builds a ClientContext from parsed configuration.
func (c *Configurator) NewClientContext(data interface{}) (*beanrpc.ClientContext, error) {
	b, err := c.LoadConfig(data)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

func (c *Configurator) load(cfg *clientConfig) (_ *beanrpc.Builder, err error) {
	b := beanrpc.NewBuilder().
		Logger(c.logger).
		MetricsScope(c.scope).
		InvocationTimeout(cfg.InvocationTimeout)
	if cfg.MaxConnectedClusterNodes != nil {
		b.MaxConnectedClusterNodes(*cfg.MaxConnectedClusterNodes)
	}

	if cfg.Marshaller != "" {
		m, ok := c.knownMarshallers[cfg.Marshaller]
		if ok {
			b.Marshaller(m)
		} else {
			err = multierr.Append(err, fmt.Errorf(
				"no recognized marshaller %q; need one of %s", cfg.Marshaller, names(c.knownMarshallers)))
		}
	}

	if e := loadSelectors(b, cfg.Selectors); e != nil {
		err = multierr.Append(err, e)
	}

	for _, conn := range cfg.Connections {
		u, e := parseDestination(conn.URI)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("invalid connection: %v", e))
			continue
		}
		b.StaticConnections(u)
	}

	for _, name := range sortedKeys(cfg.Clusters) {
		if e := loadCluster(b, name, cfg.Clusters[name]); e != nil {
			err = multierr.Append(err, e)
		}
	}

	kit := c.Kit()
	for _, name := range sortedKeys(cfg.Transports) {
		if e := c.loadTransportInto(b, kit, name, cfg.Transports[name]); e != nil {
			err = multierr.Append(err, e)
		}
	}

	for _, entry := range cfg.Interceptors {
		if e := c.loadInterceptorInto(b, kit, entry); e != nil {
			err = multierr.Append(err, e)
		}
	}

	for _, h := range cfg.Hints {
		if h.View == "" {
			err = multierr.Append(err, errors.New("compression hint needs a view"))
			continue
		}
		b.CompressionHint(h.View, h.Method, transport.CompressionHint{
			CompressRequest:  h.Request,
			CompressResponse: h.Response,
			Level:            h.Level,
		})
	}
	for _, view := range cfg.DisableHints {
		b.DisableHints(view)
	}

	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Configurator) loadTransportInto(b *beanrpc.Builder, kit *Kit, name string, attrs Attributes) error {
	spec, ok := c.knownTransports[name]
	if !ok {
		return fmt.Errorf("no recognized transport %q; need one of %s", name, names(c.knownTransports))
	}
	if attrs == nil {
		attrs = Attributes{}
	}
	p, err := spec.Build(attrs, kit)
	if err != nil {
		return fmt.Errorf("failed to build transport %q: %v", name, err)
	}
	b.AddTransportProvider(p)
	return nil
}

func (c *Configurator) loadInterceptorInto(b *beanrpc.Builder, kit *Kit, e interceptorEntry) error {
	spec, ok := c.knownInterceptors[e.Type]
	if !ok {
		return fmt.Errorf("no recognized interceptor %q; need one of %s", e.Type, names(c.knownInterceptors))
	}
	if e.Method != "" && e.View == "" {
		return fmt.Errorf("interceptor %q: method %q needs a view", e.Type, e.Method)
	}

	ic, err := spec.Build(e.Attributes, kit)
	if err != nil {
		return fmt.Errorf("failed to build interceptor %q: %v", e.Type, err)
	}
	priority := spec.Priority
	if e.Priority != nil {
		priority = *e.Priority
	}
	info := interceptor.ForInstance(priority, ic)

	switch {
	case e.Method != "":
		b.AddMethodInterceptors(e.View, e.Method, info)
	case e.View != "":
		b.AddViewInterceptors(e.View, info)
	default:
		b.AddInterceptors(info)
	}
	return nil
}

func loadSelectors(b *beanrpc.Builder, cfg selectors) (err error) {
	if cfg.Cluster != "" {
		s, e := selectorNamed(cfg.Cluster)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("invalid cluster selector: %v", e))
		} else {
			b.ClusterNodeSelector(s)
		}
	}
	if cfg.Deployment != "" {
		s, e := selectorNamed(cfg.Deployment)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("invalid deployment selector: %v", e))
		} else {
			b.DeploymentNodeSelector(s)
		}
	}
	return err
}

func selectorNamed(name string) (beanrpc.NodeSelector, error) {
	switch name {
	case "random":
		return beanrpc.RandomSelector(), nil
	case "first-available":
		return beanrpc.FirstAvailable, nil
	case "round-robin":
		return beanrpc.RoundRobin(), nil
	default:
		return nil, fmt.Errorf("no recognized selector %q; need one of first-available, random, round-robin", name)
	}
}

func loadCluster(b *beanrpc.Builder, name string, cfg cluster) (err error) {
	cc := beanrpc.ClusterConfig{Name: name}
	for _, m := range cfg.Members {
		u, e := parseDestination(m.URI)
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("invalid member of cluster %q: %v", name, e))
			continue
		}
		entry := discovery.Entry{URL: u, Node: m.Node, Cluster: name}
		for _, mod := range m.Modules {
			entry.Modules = append(entry.Modules, transport.ModuleID(mod))
		}
		cc.Members = append(cc.Members, entry)
	}
	if err != nil {
		return err
	}
	b.AddCluster(cc)
	return nil
}

func parseDestination(s string) (*url.URL, error) {
	if s == "" {
		return nil, errors.New("uri is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q is not a destination URI", s)
	}
	return u, nil
}

func names(m interface{}) string {
	var out []string
	switch m := m.(type) {
	case map[string]*TransportSpec:
		out = sortedKeys(m)
	case map[string]*InterceptorSpec:
		out = sortedKeys(m)
	case map[string]transport.Marshaller:
		out = sortedKeys(m)
	}
	if len(out) == 0 {
		return "(none registered)"
	}
	return strings.Join(out, ", ")
}

func sortedKeys(m interface{}) []string {
	var keys []string
	switch m := m.(type) {
	case map[string]cluster:
		for k := range m {
			keys = append(keys, k)
		}
	case map[string]Attributes:
		for k := range m {
			keys = append(keys, k)
		}
	case map[string]*TransportSpec:
		for k := range m {
			keys = append(keys, k)
		}
	case map[string]*InterceptorSpec:
		for k := range m {
			keys = append(keys, k)
		}
	case map[string]transport.Marshaller:
		for k := range m {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
