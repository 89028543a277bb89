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

package retry

import (
	backoffapi "go.uber.org/beanrpc/api/backoff"
	"go.uber.org/beanrpc/internal/backoff"
)

// PolicyOption customizes a Policy.
type PolicyOption func(*policyOptions)

type policyOptions struct {
	attempts uint
	backoff  backoffapi.Strategy
}

var defaultPolicyOptions = policyOptions{
	attempts: 2,
	backoff:  backoff.None,
}

// Attempts sets how many destinations an invocation is sent to at most,
// counting the first one. Values below 1 are treated as 1.
func Attempts(n uint) PolicyOption {
	return func(o *policyOptions) {
		o.attempts = n
	}
}

// BackoffStrategy sets the delay between attempts. The default retries
// immediately.
func BackoffStrategy(s backoffapi.Strategy) PolicyOption {
	return func(o *policyOptions) {
		o.backoff = s
	}
}

// Policy describes how an invocation is retried.
type Policy struct {
	opts policyOptions
}

// NewPolicy creates a Policy. Without options an invocation gets one retry
// with no delay.
func NewPolicy(opts ...PolicyOption) *Policy {
	options := defaultPolicyOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.attempts < 1 {
		options.attempts = 1
	}
	if options.backoff == nil {
		options.backoff = backoff.None
	}
	return &Policy{opts: options}
}
