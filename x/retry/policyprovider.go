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

	"go.uber.org/beanrpc/api/interceptor"
)

// PolicyProvider returns a retry policy to use for the given context and
// invocation. Nil responses will be interpreted as "no retries".
type PolicyProvider interface {
	// Policy returns a policy to use for retries.
	Policy(context.Context, *interceptor.InvocationContext) *Policy
}

type viewMethod struct {
	View   string
	Method string
}

// MethodPolicyProvider is a PolicyProvider that keeps a registry of three
// types of Policies with ordered precedence:
//
//  1) Policies that should be applied to a specific view type and method
//     match.
//  2) Policies that should be applied to a specific view type match.
//  3) A Default policy that will be applied if there are no matches.
type MethodPolicyProvider struct {
	viewMethodToPolicy map[viewMethod]*Policy
	defaultPolicy      *Policy
}

// NewMethodPolicyProvider creates a new MethodPolicyProvider.
func NewMethodPolicyProvider() *MethodPolicyProvider {
	return &MethodPolicyProvider{
		viewMethodToPolicy: make(map[viewMethod]*Policy),
	}
}

// RegisterViewMethod specifies the retry policy for invocations of the given
// method on the given view type.
func (p *MethodPolicyProvider) RegisterViewMethod(view, method string, pol *Policy) {
	p.viewMethodToPolicy[viewMethod{View: view, Method: method}] = pol
}

// RegisterView specifies the retry policy for invocations on the given view
// type.
func (p *MethodPolicyProvider) RegisterView(view string, pol *Policy) {
	p.viewMethodToPolicy[viewMethod{View: view}] = pol
}

// SetDefault specifies the default retry Policy that will be used if there
// are no matches for any other policy.
func (p *MethodPolicyProvider) SetDefault(pol *Policy) {
	p.defaultPolicy = pol
}

// Policy returns a policy for the provided context and invocation.
func (p *MethodPolicyProvider) Policy(_ context.Context, inv *interceptor.InvocationContext) *Policy {
	view := inv.Locator.ViewType()
	if pol, ok := p.viewMethodToPolicy[viewMethod{View: view, Method: inv.Method.Name}]; ok {
		return pol
	}
	if pol, ok := p.viewMethodToPolicy[viewMethod{View: view}]; ok {
		return pol
	}
	return p.defaultPolicy
}
