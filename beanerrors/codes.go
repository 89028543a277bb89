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
	"fmt"
	"strconv"
	"strings"
)

const (
	// CodeOK means no error; returned on success
	CodeOK Code = 0

	// CodeCancelled means the invocation was cancelled by the caller before a
	// result arrived.
	CodeCancelled Code = 1

	// CodeUnknown means an error that carried no classification. Errors from
	// collaborators that are not a Status are converted to this code.
	CodeUnknown Code = 2

	// CodeInvalidArgument means the caller supplied an invalid argument, such
	// as a malformed lookup name or a negative timeout.
	CodeInvalidArgument Code = 3

	// CodeTimeout means a blocking wait (session open, transaction operation,
	// invocation result) expired. The request may or may not have been
	// processed by the server.
	CodeTimeout Code = 4

	// CodeNoDestination means the interceptor chain finished discovery
	// without establishing a destination for the invocation.
	CodeNoDestination Code = 5

	// CodeNoReceiver means no registered transport provider could supply a
	// receiver for the destination.
	CodeNoReceiver Code = 6

	// CodeHandshakeTimeout means the server did not send its version message
	// in time. Connections failing this way are eligible for reconnect.
	CodeHandshakeTimeout Code = 7

	// CodeHandshakeIncompatible means the server rejected, or could not
	// offer, a compatible protocol version. This is permanent for the server.
	CodeHandshakeIncompatible Code = 8

	// CodeRequestSendFailed means the request was definitely not delivered.
	// Callers may retry against a different destination.
	CodeRequestSendFailed Code = 9

	// CodeChannelNotReady means the channel is not (or no longer) able to
	// accept requests.
	CodeChannelNotReady Code = 10

	// CodeConnectionLost means the channel closed while the request was
	// outstanding. The request may or may not have been processed.
	CodeConnectionLost Code = 11

	// CodeSessionOpenFailed means a stateful session could not be created
	// because of a transport failure or timeout, as opposed to an
	// application failure reported by the server.
	CodeSessionOpenFailed Code = 12

	// CodeNoSuchBean means the server does not host the requested bean.
	CodeNoSuchBean Code = 13

	// CodeNoSuchMethod means the bean does not expose the invoked method.
	CodeNoSuchMethod Code = 14

	// CodeSessionNotActive means the stateful session is gone on the server.
	CodeSessionNotActive Code = 15

	// CodeInternal means an invariant of this library or of the peer was
	// broken.
	CodeInternal Code = 16
)

var (
	_codeToString = map[Code]string{
		CodeOK:                    "ok",
		CodeCancelled:             "cancelled",
		CodeUnknown:               "unknown",
		CodeInvalidArgument:       "invalid-argument",
		CodeTimeout:               "timeout",
		CodeNoDestination:         "no-destination",
		CodeNoReceiver:            "no-receiver",
		CodeHandshakeTimeout:      "handshake-timeout",
		CodeHandshakeIncompatible: "handshake-incompatible",
		CodeRequestSendFailed:     "request-send-failed",
		CodeChannelNotReady:       "channel-not-ready",
		CodeConnectionLost:        "connection-lost",
		CodeSessionOpenFailed:     "session-open-failed",
		CodeNoSuchBean:            "no-such-bean",
		CodeNoSuchMethod:          "no-such-method",
		CodeSessionNotActive:      "session-not-active",
		CodeInternal:              "internal",
	}
	_stringToCode = map[string]Code{
		"ok":                     CodeOK,
		"cancelled":              CodeCancelled,
		"unknown":                CodeUnknown,
		"invalid-argument":       CodeInvalidArgument,
		"timeout":                CodeTimeout,
		"no-destination":         CodeNoDestination,
		"no-receiver":            CodeNoReceiver,
		"handshake-timeout":      CodeHandshakeTimeout,
		"handshake-incompatible": CodeHandshakeIncompatible,
		"request-send-failed":    CodeRequestSendFailed,
		"channel-not-ready":      CodeChannelNotReady,
		"connection-lost":        CodeConnectionLost,
		"session-open-failed":    CodeSessionOpenFailed,
		"no-such-bean":           CodeNoSuchBean,
		"no-such-method":         CodeNoSuchMethod,
		"session-not-active":     CodeSessionNotActive,
		"internal":               CodeInternal,
	}
)

// Code represents the class of failure for an invocation.
type Code int

// String returns the the string representation of the Code.
func (c Code) String() string {
	s, ok := _codeToString[c]
	if ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	s, ok := _codeToString[c]
	if ok {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown code: %d", int(c))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	i, ok := _stringToCode[strings.ToLower(string(text))]
	if !ok {
		return fmt.Errorf("unknown code string: %s", string(text))
	}
	*c = i
	return nil
}

// Retryable reports whether a request failing with this code is known not
// to have reached the server, so that it is safe to send it elsewhere.
func (c Code) Retryable() bool {
	switch c {
	case CodeNoReceiver, CodeRequestSendFailed, CodeChannelNotReady, CodeHandshakeTimeout:
		return true
	default:
		return false
	}
}
