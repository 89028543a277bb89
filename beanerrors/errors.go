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

package beanerrors

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Newf returns a new Status.
//
// The Code should never be CodeOK, if it is, this will return nil.
func Newf(code Code, format string, args ...interface{}) *Status {
	if code == CodeOK {
		return nil
	}

	var err error
	if len(args) == 0 {
		err = errors.New(format)
	} else {
		err = fmt.Errorf(format, args...)
	}

	return &Status{
		code: code,
		err:  err,
	}
}

// FromError returns the Status for the provided error.
//
// If the error:
//  - is nil, return nil
//  - is a 'Status' or wraps one, return the 'Status'
// Otherwise, return a Status with code 'CodeUnknown' wrapping the error.
func FromError(err error) *Status {
	if err == nil {
		return nil
	}

	var st *Status
	if errors.As(err, &st) {
		return st
	}

	return &Status{
		code:  CodeUnknown,
		err:   errors.New(err.Error()),
		cause: err,
	}
}

// IsStatus returns whether the provided error is, or wraps, a Status.
//
// This is false if the error is nil.
func IsStatus(err error) bool {
	var st *Status
	return errors.As(err, &st)
}

// Status represents a failure of the invocation runtime. It carries the
// failure class, a message, the root cause if any, and the node and
// destination the failure is attributed to.
type Status struct {
	code        Code
	err         error
	cause       error
	node        string
	destination string
	suppressed  error
}

func (s *Status) clone() *Status {
	c := *s
	return &c
}

// WithCause returns a new Status with the given root cause.
func (s *Status) WithCause(cause error) *Status {
	if s == nil {
		return nil
	}
	c := s.clone()
	c.cause = cause
	return c
}

// WithNode returns a new Status attributed to the given node name.
func (s *Status) WithNode(node string) *Status {
	if s == nil {
		return nil
	}
	c := s.clone()
	c.node = node
	return c
}

// WithDestination returns a new Status attributed to the given destination.
func (s *Status) WithDestination(destination string) *Status {
	if s == nil {
		return nil
	}
	c := s.clone()
	c.destination = destination
	return c
}

// WithSuppressed returns a new Status that additionally records the given
// diagnostic errors. The root cause is left untouched.
func (s *Status) WithSuppressed(errs ...error) *Status {
	if s == nil {
		return nil
	}
	c := s.clone()
	c.suppressed = multierr.Combine(append([]error{c.suppressed}, errs...)...)
	return c
}

// Code returns the error code for this Status.
func (s *Status) Code() Code {
	if s == nil {
		return CodeOK
	}
	return s.code
}

// Message returns the error message for this Status.
func (s *Status) Message() string {
	if s == nil {
		return ""
	}
	return s.err.Error()
}

// Node returns the node name the failure is attributed to, if known.
func (s *Status) Node() string {
	if s == nil {
		return ""
	}
	return s.node
}

// Destination returns the destination the failure is attributed to, if
// known.
func (s *Status) Destination() string {
	if s == nil {
		return ""
	}
	return s.destination
}

// Suppressed returns the diagnostic errors attached with WithSuppressed.
func (s *Status) Suppressed() []error {
	if s == nil {
		return nil
	}
	return multierr.Errors(s.suppressed)
}

// Unwrap returns the root cause.
func (s *Status) Unwrap() error {
	if s == nil {
		return nil
	}
	return s.cause
}

// Error implements the error interface.
func (s *Status) Error() string {
	buffer := bytes.NewBuffer(nil)
	_, _ = buffer.WriteString(`code:`)
	_, _ = buffer.WriteString(s.code.String())
	if s.node != "" {
		_, _ = buffer.WriteString(` node:`)
		_, _ = buffer.WriteString(s.node)
	}
	if s.destination != "" {
		_, _ = buffer.WriteString(` destination:`)
		_, _ = buffer.WriteString(s.destination)
	}
	if s.err != nil && s.err.Error() != "" {
		_, _ = buffer.WriteString(` message:`)
		_, _ = buffer.WriteString(s.err.Error())
	}
	if s.cause != nil && (s.err == nil || s.cause.Error() != s.err.Error()) {
		_, _ = buffer.WriteString(` cause:`)
		_, _ = buffer.WriteString(s.cause.Error())
	}
	return buffer.String()
}

// NoDestination reports that no destination was established for the target.
func NoDestination(target fmt.Stringer) error {
	return Newf(CodeNoDestination, "no destination established for %v", target)
}

// NoReceiver reports that no transport provider yielded a receiver for the
// destination.
func NoReceiver(destination string) error {
	return Newf(CodeNoReceiver, "no receiver available for %s", destination).WithDestination(destination)
}

// RequestSendFailed reports that a request could not be sent to the given
// node. The request was not delivered.
func RequestSendFailed(node string, cause error) error {
	return Newf(CodeRequestSendFailed, "request could not be sent").WithNode(node).WithCause(cause)
}

// ChannelNotReady reports that the named channel cannot accept requests.
func ChannelNotReady(channel string, context string) error {
	return Newf(CodeChannelNotReady, "channel %s is not ready for communication on %s", channel, context)
}

// ConnectionLost reports that the channel closed before a result arrived.
func ConnectionLost(channel string, cause error) error {
	return Newf(CodeConnectionLost, "connection lost on channel %s", channel).WithCause(cause)
}

// CancelledErrorf returns a new Status with code CodeCancelled
// by calling Newf(CodeCancelled, format, args...).
func CancelledErrorf(format string, args ...interface{}) error {
	return Newf(CodeCancelled, format, args...)
}

// InvalidArgumentErrorf returns a new Status with code CodeInvalidArgument
// by calling Newf(CodeInvalidArgument, format, args...).
func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return Newf(CodeInvalidArgument, format, args...)
}

// TimeoutErrorf returns a new Status with code CodeTimeout
// by calling Newf(CodeTimeout, format, args...).
func TimeoutErrorf(format string, args ...interface{}) error {
	return Newf(CodeTimeout, format, args...)
}

// InternalErrorf returns a new Status with code CodeInternal
// by calling Newf(CodeInternal, format, args...).
func InternalErrorf(format string, args ...interface{}) error {
	return Newf(CodeInternal, format, args...)
}

// ErrorCode returns the Code for the given error, CodeOK if the error is nil,
// or CodeUnknown if the given error is not a Status.
func ErrorCode(err error) Code {
	return FromError(err).Code()
}

// IsCancelled returns true if FromError(err).Code() == CodeCancelled.
func IsCancelled(err error) bool {
	return FromError(err).Code() == CodeCancelled
}

// IsTimeout returns true if FromError(err).Code() == CodeTimeout.
func IsTimeout(err error) bool {
	return FromError(err).Code() == CodeTimeout
}

// IsNoDestination returns true if FromError(err).Code() == CodeNoDestination.
func IsNoDestination(err error) bool {
	return FromError(err).Code() == CodeNoDestination
}

// IsNoReceiver returns true if FromError(err).Code() == CodeNoReceiver.
func IsNoReceiver(err error) bool {
	return FromError(err).Code() == CodeNoReceiver
}

// IsRequestSendFailed returns true if FromError(err).Code() == CodeRequestSendFailed.
func IsRequestSendFailed(err error) bool {
	return FromError(err).Code() == CodeRequestSendFailed
}

// IsChannelNotReady returns true if FromError(err).Code() == CodeChannelNotReady.
func IsChannelNotReady(err error) bool {
	return FromError(err).Code() == CodeChannelNotReady
}

// IsConnectionLost returns true if FromError(err).Code() == CodeConnectionLost.
func IsConnectionLost(err error) bool {
	return FromError(err).Code() == CodeConnectionLost
}

// IsSessionOpenFailed returns true if FromError(err).Code() == CodeSessionOpenFailed.
func IsSessionOpenFailed(err error) bool {
	return FromError(err).Code() == CodeSessionOpenFailed
}

// IsHandshakeIncompatible returns true if FromError(err).Code() == CodeHandshakeIncompatible.
func IsHandshakeIncompatible(err error) bool {
	return FromError(err).Code() == CodeHandshakeIncompatible
}
