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
	"context"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/zap"
)

// Priority places the interceptor ahead of application interceptors
// declared with the default priority of zero.
const Priority = -1000

// InterceptorOption customizes the behavior of a retry interceptor.
type InterceptorOption interface {
	apply(*interceptorOptions)
}

type retryOptionFunc func(*interceptorOptions)

func (f retryOptionFunc) apply(opts *interceptorOptions) { f(opts) }

type interceptorOptions struct {
	// policyProvider is a function that will provide a Retry policy for a
	// context and invocation.
	policyProvider PolicyProvider

	// scope is an interface for recording metrics to tally.
	scope tally.Scope

	// logger is a zap logger
	logger *zap.Logger
}

var defaultInterceptorOptions = interceptorOptions{
	policyProvider: nil,
	scope:          tally.NoopScope,
	logger:         zap.NewNop(),
}

// WithPolicyProvider allows a custom retry policy to be used in the retry
// interceptor.
func WithPolicyProvider(provider PolicyProvider) InterceptorOption {
	return retryOptionFunc(func(opts *interceptorOptions) {
		opts.policyProvider = provider
	})
}

// WithTally sets a Tally scope that will be used to record retry metrics.
func WithTally(scope tally.Scope) InterceptorOption {
	return retryOptionFunc(func(opts *interceptorOptions) {
		opts.scope = scope
	})
}

// WithLogger sets a zap Logger that will be used to record retry logs.
func WithLogger(logger *zap.Logger) InterceptorOption {
	return retryOptionFunc(func(opts *interceptorOptions) {
		opts.logger = logger
	})
}

// NewInterceptor creates a new retry Interceptor.
func NewInterceptor(opts ...InterceptorOption) *Interceptor {
	options := defaultInterceptorOptions
	for _, opt := range opts {
		opt.apply(&options)
	}
	return &Interceptor{
		provider: options.policyProvider,
		observer: newObserver(options.logger, options.scope),
	}
}

// Interceptor resends invocations that were not delivered to a different
// destination. It takes part in both invocations and session creation.
type Interceptor struct {
	provider PolicyProvider
	observer *observer
}

var (
	_ interceptor.Interceptor        = (*Interceptor)(nil)
	_ interceptor.SessionInterceptor = (*Interceptor)(nil)
)

// Invoke implements interceptor.Interceptor.
func (r *Interceptor) Invoke(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.Outbound) (res *transport.Result, err error) {
	policy := r.getPolicy(ctx, inv)
	if policy == nil {
		return next.Invoke(ctx, inv)
	}
	err = r.run(ctx, inv, policy, func() error {
		res, err = next.Invoke(ctx, inv)
		return err
	})
	return res, err
}

// OpenSession implements interceptor.SessionInterceptor.
func (r *Interceptor) OpenSession(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.SessionOutbound) (loc transport.Locator, err error) {
	policy := r.getPolicy(ctx, inv)
	if policy == nil {
		return next.OpenSession(ctx, inv)
	}
	err = r.run(ctx, inv, policy, func() error {
		loc, err = next.OpenSession(ctx, inv)
		return err
	})
	return loc, err
}

func (r *Interceptor) run(ctx context.Context, inv *interceptor.InvocationContext, policy *Policy, attempt func() error) (err error) {
	boff := policy.opts.backoff.Backoff()
	call := r.observer.begin(inv)

	for i := uint(0); i < policy.opts.attempts; i++ {
		if i > 0 { // Only log retries if this isn't the first attempt
			call.retryOnError(err)
		}
		err = attempt()
		if err == nil {
			call.success()
			return nil
		}

		if !isRetryable(err) || inv.Cancelled() {
			call.unretryableError(err)
			return err
		}

		failed := inv.Destination
		if failed == nil {
			call.noDestinationError(err)
			return err
		}
		inv.ExcludeDestination(failed)

		if i+1 == policy.opts.attempts {
			break
		}
		if !sleep(ctx, boff.Duration(i)) {
			call.noTimeError(err)
			return err
		}
	}
	call.maxAttemptsError(err)
	return err
}

func (r *Interceptor) getPolicy(ctx context.Context, inv *interceptor.InvocationContext) *Policy {
	if r.provider == nil {
		return nil
	}
	return r.provider.Policy(ctx, inv)
}

// sleep waits for d. It returns false without waiting if ctx would expire
// first.
func sleep(ctx context.Context, d time.Duration) bool {
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Add(d).Before(deadline) {
		return false
	}
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func isRetryable(err error) bool {
	return beanerrors.IsStatus(err) && beanerrors.ErrorCode(err).Retryable()
}
