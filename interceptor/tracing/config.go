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

package tracing

import (
	"fmt"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/beanrpcconfig"
)

// InterceptorSpec returns an InterceptorSpec for the tracing interceptor.
// It takes no attributes:
//
//	interceptors:
//	  - type: tracing
//
// A nil tracer means opentracing.GlobalTracer().
func InterceptorSpec(tracer opentracing.Tracer) beanrpcconfig.InterceptorSpec {
	return beanrpcconfig.InterceptorSpec{
		Name:     "tracing",
		Priority: Priority,
		Build: func(attrs beanrpcconfig.Attributes, kit *beanrpcconfig.Kit) (interceptor.Interceptor, error) {
			if len(attrs) > 0 {
				return nil, fmt.Errorf("tracing takes no attributes, got %v", attrs.Keys())
			}
			return New(Params{Tracer: tracer, Logger: kit.Logger()}), nil
		},
	}
}
