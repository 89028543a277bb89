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

// Package observability provides an interceptor that logs every invocation
// and session open and reports per-bean-method metrics.
//
//	root := metrics.New()
//	ic := observability.New(logger, root.Scope())
//	b.AddInterceptors(interceptor.ForInstance(observability.Priority, ic))
package observability

import (
	"context"
	"sync"
	"time"

	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/net/metrics"
	"go.uber.org/net/metrics/bucket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Priority runs the interceptor ahead of retries, so an invocation is
// observed once however many destinations it is sent to.
const Priority = -1500

const (
	_app      = "app"
	_module   = "module"
	_distinct = "distinct"
	_bean     = "bean"
	_view     = "view"
	_method   = "method"
	_error    = "error"
	_session  = "__session__"
	_appError = "application_error"

	_successfulInvocation = "Made invocation."
	_failedInvocation     = "Error making invocation."
)

var (
	_timeNow = time.Now // for tests

	// Latency buckets for histograms.
	_bucketsMs = bucket.NewRPCLatency()
	// Bytes buckets for payload size histograms, from 0B to 256MB.
	_bucketsBytes = append([]int64{0}, bucket.NewExponential(1, 2, 29)...)
)

// Interceptor is logging and metrics interceptor for invocations and
// sessions.
type Interceptor struct {
	logger *zap.Logger
	meter  *metrics.Scope

	edgesMu sync.RWMutex
	edges   map[edgeKey]*edge
}

var (
	_ interceptor.Interceptor        = (*Interceptor)(nil)
	_ interceptor.SessionInterceptor = (*Interceptor)(nil)
)

// New constructs an observability interceptor. A nil scope reports to a
// private registry nobody reads.
func New(logger *zap.Logger, scope *metrics.Scope) *Interceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scope == nil {
		scope = metrics.New().Scope()
	}
	return &Interceptor{
		logger: logger,
		meter:  scope,
		edges:  make(map[edgeKey]*edge),
	}
}

// Invoke implements interceptor.Interceptor.
func (i *Interceptor) Invoke(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.Outbound) (*transport.Result, error) {
	c := i.begin(inv, inv.Method.Name)
	c.edge.requestPayloadSizes.IncBucket(int64(len(inv.Payload)))
	res, err := next.Invoke(ctx, inv)
	if res != nil {
		c.edge.responsePayloadSizes.IncBucket(int64(len(res.Payload)))
	}
	c.end(inv, err)
	return res, err
}

// OpenSession implements interceptor.SessionInterceptor. Session opens are
// reported under the method name __session__.
func (i *Interceptor) OpenSession(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.SessionOutbound) (transport.Locator, error) {
	c := i.begin(inv, _session)
	loc, err := next.OpenSession(ctx, inv)
	c.end(inv, err)
	return loc, err
}

// edgeKey identifies the bean method an edge collects stats for.
type edgeKey struct {
	id     transport.Identifier
	view   string
	method string
}

func (i *Interceptor) begin(inv *interceptor.InvocationContext, method string) call {
	key := edgeKey{id: inv.Locator.Identifier(), view: inv.Locator.ViewType(), method: method}
	e := i.getOrCreateEdge(key)
	e.calls.Inc()
	return call{edge: e, key: key, started: _timeNow()}
}

func (i *Interceptor) getOrCreateEdge(key edgeKey) *edge {
	i.edgesMu.RLock()
	e := i.edges[key]
	i.edgesMu.RUnlock()
	if e != nil {
		return e
	}

	i.edgesMu.Lock()
	defer i.edgesMu.Unlock()
	if e, ok := i.edges[key]; ok {
		// Someone beat us to the punch.
		return e
	}
	e = newEdge(i.logger, i.meter, key)
	i.edges[key] = e
	return e
}

// An edge is a collection of invocation stats for one method of a bean
// view.
type edge struct {
	logger *zap.Logger

	calls     *metrics.Counter
	successes *metrics.Counter
	failures  *metrics.CounterVector

	latencies            *metrics.Histogram
	failureLatencies     *metrics.Histogram
	requestPayloadSizes  *metrics.Histogram
	responsePayloadSizes *metrics.Histogram
}

// newEdge constructs a new edge. Since registries enforce metric
// uniqueness, edges are cached and re-used for each invocation.
func newEdge(logger *zap.Logger, meter *metrics.Scope, key edgeKey) *edge {
	tags := metrics.Tags{
		_app:      unknownIfEmpty(key.id.App),
		_module:   key.id.Module,
		_distinct: unknownIfEmpty(key.id.Distinct),
		_bean:     key.id.Bean,
		_view:     key.view,
		_method:   key.method,
	}
	logger = logger.With(
		zap.String("app", key.id.App),
		zap.String("module", key.id.Module),
		zap.String("distinct", key.id.Distinct),
		zap.String("bean", key.id.Bean),
		zap.String("view", key.view),
		zap.String("method", key.method),
	)

	calls, err := meter.Counter(metrics.Spec{
		Name:      "calls",
		Help:      "Total number of invocations.",
		ConstTags: tags,
	})
	if err != nil {
		logger.Error("Failed to create calls counter.", zap.Error(err))
	}
	successes, err := meter.Counter(metrics.Spec{
		Name:      "successes",
		Help:      "Number of successful invocations.",
		ConstTags: tags,
	})
	if err != nil {
		logger.Error("Failed to create successes counter.", zap.Error(err))
	}
	failures, err := meter.CounterVector(metrics.Spec{
		Name:      "failures",
		Help:      "Number of failed invocations by failure class.",
		ConstTags: tags,
		VarTags:   []string{_error},
	})
	if err != nil {
		logger.Error("Failed to create failures vector.", zap.Error(err))
	}
	latencies, err := meter.Histogram(metrics.HistogramSpec{
		Spec: metrics.Spec{
			Name:      "success_latency_ms",
			Help:      "Latency distribution of successful invocations.",
			ConstTags: tags,
		},
		Unit:    time.Millisecond,
		Buckets: _bucketsMs,
	})
	if err != nil {
		logger.Error("Failed to create success latency distribution.", zap.Error(err))
	}
	failureLatencies, err := meter.Histogram(metrics.HistogramSpec{
		Spec: metrics.Spec{
			Name:      "failure_latency_ms",
			Help:      "Latency distribution of failed invocations.",
			ConstTags: tags,
		},
		Unit:    time.Millisecond,
		Buckets: _bucketsMs,
	})
	if err != nil {
		logger.Error("Failed to create failure latency distribution.", zap.Error(err))
	}
	requestPayloadSizes, err := meter.Histogram(metrics.HistogramSpec{
		Spec: metrics.Spec{
			Name:      "request_payload_size_bytes",
			Help:      "Request payload size distribution of invocations in bytes.",
			ConstTags: tags,
		},
		Unit:    time.Millisecond, // Unit is ignored when using IncBucket.
		Buckets: _bucketsBytes,
	})
	if err != nil {
		logger.Error("Failed to create request payload size histogram.", zap.Error(err))
	}
	responsePayloadSizes, err := meter.Histogram(metrics.HistogramSpec{
		Spec: metrics.Spec{
			Name:      "response_payload_size_bytes",
			Help:      "Response payload size distribution of invocations in bytes.",
			ConstTags: tags,
		},
		Unit:    time.Millisecond, // Unit is ignored when using IncBucket.
		Buckets: _bucketsBytes,
	})
	if err != nil {
		logger.Error("Failed to create response payload size histogram.", zap.Error(err))
	}

	return &edge{
		logger:               logger,
		calls:                calls,
		successes:            successes,
		failures:             failures,
		latencies:            latencies,
		failureLatencies:     failureLatencies,
		requestPayloadSizes:  requestPayloadSizes,
		responsePayloadSizes: responsePayloadSizes,
	}
}

// A call represents a single invocation along an edge.
type call struct {
	edge    *edge
	key     edgeKey
	started time.Time
}

func (c call) end(inv *interceptor.InvocationContext, err error) {
	elapsed := _timeNow().Sub(c.started)

	level, msg := zapcore.DebugLevel, _successfulInvocation
	if err != nil {
		level, msg = zapcore.ErrorLevel, _failedInvocation
	}
	if ce := c.edge.logger.Check(level, msg); ce != nil {
		fields := []zap.Field{zap.Duration("latency", elapsed)}
		if inv.Destination != nil {
			fields = append(fields, zap.String("destination", inv.Destination.String()))
		}
		if err != nil {
			fields = append(fields, zap.String("errorCode", failureClass(err)), zap.Error(err))
		}
		ce.Write(fields...)
	}

	if err == nil {
		c.edge.successes.Inc()
		c.edge.latencies.Observe(elapsed)
		return
	}
	c.edge.failureLatencies.Observe(elapsed)
	if counter, cerr := c.edge.failures.Get(_error, failureClass(err)); cerr == nil {
		counter.Inc()
	}
}

// failureClass is the code of runtime failures and application_error for
// failures reported by the bean.
func failureClass(err error) string {
	if beanerrors.IsStatus(err) {
		return beanerrors.ErrorCode(err).String()
	}
	return _appError
}

func unknownIfEmpty(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
