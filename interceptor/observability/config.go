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

package observability

import (
	"fmt"

	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/beanrpcconfig"
	"go.uber.org/net/metrics"
)

// InterceptorSpec returns an InterceptorSpec for the observability
// interceptor reporting to scope. It takes no attributes:
//
//	interceptors:
//	  - type: observability
func InterceptorSpec(scope *metrics.Scope) beanrpcconfig.InterceptorSpec {
	return beanrpcconfig.InterceptorSpec{
		Name:     "observability",
		Priority: Priority,
		Build: func(attrs beanrpcconfig.Attributes, kit *beanrpcconfig.Kit) (interceptor.Interceptor, error) {
			if len(attrs) > 0 {
				return nil, fmt.Errorf("observability takes no attributes, got %v", attrs.Keys())
			}
			return New(kit.Logger(), scope), nil
		},
	}
}
