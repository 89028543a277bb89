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
	"fmt"
	"strings"
	"time"

	"github.com/uber-go/mapdecode"
	"go.uber.org/beanrpc/api/transport"
)

type clientConfig struct {
	InvocationTimeout        time.Duration         `config:"invocationTimeout,interpolate"`
	MaxConnectedClusterNodes *int                  `config:"maxConnectedClusterNodes"`
	Marshaller               string                `config:"marshaller"`
	Selectors                selectors             `config:"selectors"`
	Connections              []connection          `config:"connections"`
	Clusters                 map[string]cluster    `config:"clusters"`
	Transports               map[string]Attributes `config:"transports"`
	Interceptors             []interceptorEntry    `config:"interceptors"`
	Hints                    []hint                `config:"hints"`
	DisableHints             []string              `config:"disableHints"`
}

type selectors struct {
	Cluster    string `config:"cluster"`
	Deployment string `config:"deployment"`
}

type connection struct {
	URI string `config:"uri,interpolate"`
}

type cluster struct {
	Members []member `config:"members"`
}

type member struct {
	URI     string   `config:"uri,interpolate"`
	Node    string   `config:"node,interpolate"`
	Modules []module `config:"modules"`
}

// module is written app/module/distinct, with the application and the
// distinct name optional: "cart", "shop/cart", "shop/cart/v2".
type module transport.ModuleID

func (m *module) Decode(into mapdecode.Into) error {
	var s string
	if err := into(&s); err != nil {
		return fmt.Errorf("could not decode module name: %v", err)
	}
	parts := strings.Split(s, "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		*m = module{Module: parts[0]}
	case len(parts) == 2:
		*m = module{App: parts[0], Module: parts[1]}
	case len(parts) == 3:
		*m = module{App: parts[0], Module: parts[1], Distinct: parts[2]}
	default:
		return fmt.Errorf("invalid module name %q: want [app/]module[/distinct]", s)
	}
	if m.Module == "" {
		return fmt.Errorf("invalid module name %q: module must not be empty", s)
	}
	return nil
}

// interceptorEntry is one item of the interceptors list. Everything but
// the well-known keys is handed to the interceptor's spec.
type interceptorEntry struct {
	Type       string
	View       string
	Method     string
	Priority   *int
	Attributes Attributes
}

func (e *interceptorEntry) Decode(into mapdecode.Into) error {
	if err := into(&e.Attributes); err != nil {
		return fmt.Errorf("failed to decode interceptor: %v", err)
	}

	var err error
	if e.Type, err = e.Attributes.PopString("type"); err != nil {
		return err
	}
	if e.Type == "" {
		return fmt.Errorf("interceptor type is required, got %v", e.Attributes)
	}
	if e.View, err = e.Attributes.PopString("view"); err != nil {
		return err
	}
	if e.Method, err = e.Attributes.PopString("method"); err != nil {
		return err
	}
	var priority int
	ok, err := e.Attributes.Pop("priority", &priority)
	if err != nil {
		return err
	}
	if ok {
		e.Priority = &priority
	}
	return nil
}

type hint struct {
	View     string `config:"view"`
	Method   string `config:"method"`
	Request  bool   `config:"request"`
	Response bool   `config:"response"`
	Level    int    `config:"level"`
}
