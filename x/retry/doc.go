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

// Package retry provides an interceptor that sends an invocation to another
// destination when it could not be delivered to the first one.
//
// Only failures that guarantee the request never reached a server are
// retried: request-send-failed, channel-not-ready, no-receiver and
// handshake-timeout. Before each retry the failed destination is excluded
// from the invocation, so discovery picks a different one.
//
// Usage
//
// Build the interceptor with a PolicyProvider and add it to the client
// context.
//
//	provider := retry.NewMethodPolicyProvider()
//	provider.SetDefault(retry.NewPolicy(retry.Attempts(3)))
//	ic := retry.NewInterceptor(retry.WithPolicyProvider(provider))
//	b.AddInterceptors(interceptor.ForInstance(retry.Priority, ic))
//
// Configuration
//
// With beanrpcconfig, register InterceptorSpec and configure it in the
// interceptors section.
//
//	interceptors:
//	  - type: retry
//	    policies:
//	      twice:
//	        attempts: 2
//	      stubborn:
//	        attempts: 5
//	        backoff:
//	          exponential:
//	            first: 10ms
//	            max: 1s
//	    default: twice
//	    overrides:
//	      - view: CartRemote
//	        with: stubborn
//	      - view: CartRemote
//	        method: checkout
//	        with: twice
//
// Policies are named so overrides can reference them. The default policy
// applies to invocations that match no override. Overrides match a view
// type and optionally a method name; the most specific match wins.
//
// Metrics
//
// The interceptor reports to the tally scope given by WithTally:
// retry_calls, retries, retry_successes and retry_failures, the last one
// tagged with the reason the interceptor gave up.
package retry
