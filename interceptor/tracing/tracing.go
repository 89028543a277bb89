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

// Package tracing provides an interceptor that records an OpenTracing span
// for every invocation and session open, and propagates the span context to
// the server as invocation attachments.
package tracing

import (
	"context"
	"reflect"
	"runtime"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/opentracing/opentracing-go/log"
	"go.uber.org/beanrpc/api/interceptor"
	"go.uber.org/beanrpc/api/transport"
	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/zap"
)

const (
	tracingComponentName = "beanrpc-go"

	// AttachmentPrefix starts the name of every attachment carrying span
	// context.
	AttachmentPrefix = "trace-"

	// Priority runs the interceptor before every other interceptor declared
	// with a higher priority, so their work is part of the span.
	Priority = -2000

	rpcStatusCodeTag = "rpc.beanrpc.status_code"
	errorNameTag     = "error.name"
	applicationError = "application_error"

	openSessionOperation = "open-session"
)

var logFieldEventError = log.String("event", "error")

// Static tracing tags to be used across spans
var commonTracingTags = opentracing.Tags{
	"go.version": runtime.Version(),
	"component":  tracingComponentName,
}

// Params defines the parameters for creating the Interceptor
type Params struct {
	// Tracer defaults to opentracing.GlobalTracer().
	Tracer opentracing.Tracer
	Logger *zap.Logger
}

// Interceptor is the tracing interceptor for invocations and sessions.
type Interceptor struct {
	tracer opentracing.Tracer
	log    *zap.Logger
}

var (
	_ interceptor.Interceptor        = (*Interceptor)(nil)
	_ interceptor.SessionInterceptor = (*Interceptor)(nil)
)

// New constructs a tracing interceptor with the provided parameter.
func New(p Params) *Interceptor {
	i := &Interceptor{
		tracer: p.Tracer,
		log:    p.Logger,
	}
	if i.tracer == nil {
		i.tracer = opentracing.GlobalTracer()
	}
	if i.log == nil {
		i.log = zap.NewNop()
	}
	return i
}

// Invoke implements interceptor.Interceptor.
func (i *Interceptor) Invoke(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.Outbound) (*transport.Result, error) {
	ctx, span := i.start(ctx, inv.Method.Name, inv)
	defer span.Finish()

	res, err := next.Invoke(ctx, inv)
	finish(span, inv, err)
	return res, err
}

// OpenSession implements interceptor.SessionInterceptor.
func (i *Interceptor) OpenSession(ctx context.Context, inv *interceptor.InvocationContext, next interceptor.SessionOutbound) (transport.Locator, error) {
	ctx, span := i.start(ctx, openSessionOperation, inv)
	defer span.Finish()

	loc, err := next.OpenSession(ctx, inv)
	if err == nil && loc.Stateful() {
		span.SetTag("bean.stateful", true)
	}
	finish(span, inv, err)
	return loc, err
}

func (i *Interceptor) start(ctx context.Context, operation string, inv *interceptor.InvocationContext) (context.Context, opentracing.Span) {
	var parent opentracing.SpanContext
	if parentSpan := opentracing.SpanFromContext(ctx); parentSpan != nil {
		parent = parentSpan.Context()
	}

	id := inv.Locator.Identifier()
	span := i.tracer.StartSpan(
		operation,
		opentracing.ChildOf(parent),
		commonTracingTags,
		opentracing.Tags{
			"bean.app":      id.App,
			"bean.module":   id.Module,
			"bean.distinct": id.Distinct,
			"bean.name":     id.Bean,
			"bean.view":     inv.Locator.ViewType(),
		},
	)
	ext.PeerService.Set(span, id.ModuleID().String())
	ext.SpanKindRPCClient.Set(span)

	if err := i.tracer.Inject(span.Context(), opentracing.TextMap, attachmentsCarrier(inv.Attachments)); err != nil {
		span.LogFields(logFieldEventError, log.String("message", err.Error()))
		i.log.Debug("failed to inject span context", zap.Error(err))
	}
	return opentracing.ContextWithSpan(ctx, span), span
}

func finish(span opentracing.Span, inv *interceptor.InvocationContext, err error) {
	if inv.Destination != nil {
		span.SetTag("rpc.destination", inv.Destination.String())
		span.SetTag("rpc.transport", inv.Destination.Scheme)
	}
	if err == nil {
		return
	}

	ext.Error.Set(span, true)
	if beanerrors.IsStatus(err) {
		span.SetTag(rpcStatusCodeTag, beanerrors.ErrorCode(err).String())
		return
	}
	span.SetTag(rpcStatusCodeTag, applicationError)
	span.SetTag(errorNameTag, errorName(err))
}

func errorName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}

// attachmentsCarrier stores span context in string attachments whose names
// start with AttachmentPrefix.
type attachmentsCarrier transport.Attachments

var (
	_ opentracing.TextMapWriter = attachmentsCarrier(nil)
	_ opentracing.TextMapReader = attachmentsCarrier(nil)
)

func (c attachmentsCarrier) Set(key, val string) {
	c[transport.AttachmentKey(AttachmentPrefix+key)] = val
}

func (c attachmentsCarrier) ForeachKey(handler func(key, val string) error) error {
	for k, v := range c {
		s, ok := v.(string)
		if !ok || !strings.HasPrefix(string(k), AttachmentPrefix) {
			continue
		}
		if err := handler(strings.TrimPrefix(string(k), AttachmentPrefix), s); err != nil {
			return err
		}
	}
	return nil
}

// Extract reads span context propagated in attachments, as a server or a
// local receiver would.
func Extract(tracer opentracing.Tracer, a transport.Attachments) (opentracing.SpanContext, error) {
	return tracer.Extract(opentracing.TextMap, attachmentsCarrier(a))
}
