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
	"fmt"
	"sort"

	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/beanrpcconfig"
	"go.uber.org/multierr"
)

// PolicyConfig defines how to construct a retry Policy.
type PolicyConfig struct {
	// Attempts is the number of destinations an invocation is sent to at
	// most, counting the first one.
	Attempts uint `config:"attempts"`

	// BackoffStrategy defines the delay between attempts by embedding a
	// backoff config. No delay is used if it is left out.
	BackoffStrategy beanrpcconfig.Backoff `config:"backoff"`
}

func (p PolicyConfig) policy() (*Policy, error) {
	opts := []PolicyOption{Attempts(p.Attempts)}
	if p.BackoffStrategy.Exponential != (beanrpcconfig.ExponentialBackoff{}) {
		strategy, err := p.BackoffStrategy.Strategy()
		if err != nil {
			return nil, err
		}
		opts = append(opts, BackoffStrategy(strategy))
	}
	return NewPolicy(opts...), nil
}

// PolicyOverrideConfig defines per view type or per view type and method
// Policies that will be applied in the PolicyProvider.
type PolicyOverrideConfig struct {
	// View is a view type name for an override. Required.
	View string `config:"view"`

	// Method is a method name for an override.
	Method string `config:"method"`

	// WithPolicy specifies the policy name to use for the override. It MUST
	// reference an existing policy.
	WithPolicy string `config:"with"`
}

// InterceptorConfig is a definition of how to create a retry interceptor.
type InterceptorConfig struct {
	// NameToPolicies is a map of names to policy configs which can be
	// referenced later.
	NameToPolicies map[string]PolicyConfig `config:"policies"`

	// Default is the name of the default policy that will be used.
	Default string `config:"default"`

	// PolicyOverrides allow changing the retry policies for invocations
	// matching certain criteria.
	PolicyOverrides []PolicyOverrideConfig `config:"overrides"`
}

// InterceptorSpec returns an InterceptorSpec that builds retry interceptors
// from InterceptorConfig. The interceptor logs and reports metrics through
// the configurator's logger and scope; opts apply after those.
func InterceptorSpec(opts ...InterceptorOption) beanrpcconfig.InterceptorSpec {
	return beanrpcconfig.InterceptorSpec{
		Name:     "retry",
		Priority: Priority,
		Build: func(attrs beanrpcconfig.Attributes, kit *beanrpcconfig.Kit) (interceptor.Interceptor, error) {
			var cfg InterceptorConfig
			if err := kit.Decode(attrs, &cfg); err != nil {
				return nil, err
			}
			all := []InterceptorOption{WithLogger(kit.Logger()), WithTally(kit.MetricsScope())}
			return cfg.NewInterceptor(append(all, opts...)...)
		},
	}
}

// NewInterceptor creates a retry interceptor from the configuration.
func (cfg InterceptorConfig) NewInterceptor(opts ...InterceptorOption) (*Interceptor, error) {
	nameToPolicy, err := cfg.getPolicies()
	if err != nil {
		return nil, err
	}

	policyProvider, err := cfg.getPolicyProvider(nameToPolicy)
	if err != nil {
		return nil, err
	}

	opts = append(opts, WithPolicyProvider(policyProvider))
	return NewInterceptor(opts...), nil
}

func (cfg InterceptorConfig) getPolicies() (map[string]*Policy, error) {
	var errs error
	nameToPolicyMap := make(map[string]*Policy, len(cfg.NameToPolicies))
	for name, policyConfig := range cfg.NameToPolicies {
		policy, err := policyConfig.policy()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid retry policy %q: %v", name, err))
			continue
		}
		nameToPolicyMap[name] = policy
	}
	return nameToPolicyMap, errs
}

func (cfg InterceptorConfig) getPolicyProvider(nameToPolicy map[string]*Policy) (*MethodPolicyProvider, error) {
	policyProvider := NewMethodPolicyProvider()

	var errs error
	if cfg.Default != "" {
		if defaultPol, ok := nameToPolicy[cfg.Default]; ok {
			policyProvider.SetDefault(defaultPol)
		} else {
			errs = multierr.Append(errs, fmt.Errorf("invalid default retry policy: %q, possibilities are: %v", cfg.Default, policyNames(nameToPolicy)))
		}
	}

	for _, override := range cfg.PolicyOverrides {
		pol, ok := nameToPolicy[override.WithPolicy]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("invalid retry policy: %q, possibilities are: %v", override.WithPolicy, policyNames(nameToPolicy)))
			continue
		}

		switch {
		case override.View != "" && override.Method != "":
			policyProvider.RegisterViewMethod(override.View, override.Method, pol)
		case override.View != "":
			policyProvider.RegisterView(override.View, pol)
		default:
			errs = multierr.Append(errs, fmt.Errorf("did not specify a view for retry policy override: %q", override.WithPolicy))
		}
	}

	return policyProvider, errs
}

func policyNames(nameToPolicy map[string]*Policy) []string {
	ks := make([]string, 0, len(nameToPolicy))
	for k := range nameToPolicy {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
