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

// Package wire holds the message type registry of the bean protocol and the
// primitive encoders used to build and parse message bodies.
package wire

import "fmt"

// Header is the 1-byte message type that starts every protocol message.
type Header byte

// Message types. The transaction and compression values are fixed by the
// protocol; the others are this implementation's registry.
const (
	HeaderSessionOpenRequest   Header = 0x01
	HeaderSessionOpenResponse  Header = 0x02
	HeaderInvocationRequest    Header = 0x03
	HeaderInvocationCancel     Header = 0x04
	HeaderInvocationResponse   Header = 0x05
	HeaderApplicationException Header = 0x06
	HeaderModuleAvailable      Header = 0x08
	HeaderModuleUnavailable    Header = 0x09
	HeaderNoSuchBean           Header = 0x0A
	HeaderNoSuchMethod         Header = 0x0B
	HeaderSessionNotActive     Header = 0x0C
	HeaderTxCommit             Header = 0x0F
	HeaderTxRollback           Header = 0x10
	HeaderTxPrepare            Header = 0x11
	HeaderTxForget             Header = 0x12
	HeaderTxBeforeCompletion   Header = 0x13
	HeaderTxResponse           Header = 0x14
	HeaderTxRecover            Header = 0x19
	HeaderTxRecoverResponse    Header = 0x1A
	HeaderCompressed           Header = 0x1B
)

var _headerNames = map[Header]string{
	HeaderSessionOpenRequest:   "session-open-request",
	HeaderSessionOpenResponse:  "session-open-response",
	HeaderInvocationRequest:    "invocation-request",
	HeaderInvocationCancel:     "invocation-cancel",
	HeaderInvocationResponse:   "invocation-response",
	HeaderApplicationException: "application-exception",
	HeaderModuleAvailable:      "module-available",
	HeaderModuleUnavailable:    "module-unavailable",
	HeaderNoSuchBean:           "no-such-bean",
	HeaderNoSuchMethod:         "no-such-method",
	HeaderSessionNotActive:     "session-not-active",
	HeaderTxCommit:             "tx-commit",
	HeaderTxRollback:           "tx-rollback",
	HeaderTxPrepare:            "tx-prepare",
	HeaderTxForget:             "tx-forget",
	HeaderTxBeforeCompletion:   "tx-before-completion",
	HeaderTxResponse:           "tx-response",
	HeaderTxRecover:            "tx-recover",
	HeaderTxRecoverResponse:    "tx-recover-response",
	HeaderCompressed:           "compressed",
}

func (h Header) String() string {
	if s, ok := _headerNames[h]; ok {
		return s
	}
	return fmt.Sprintf("header(0x%02X)", byte(h))
}

// MinVersion returns the lowest protocol version that understands messages
// of this type.
func (h Header) MinVersion() byte {
	switch h {
	case HeaderTxRecover, HeaderTxRecoverResponse, HeaderCompressed:
		return 2
	default:
		return 1
	}
}

// Correlated reports whether messages of this type carry an invocation ID
// that matches a pending request.
func (h Header) Correlated() bool {
	switch h {
	case HeaderModuleAvailable, HeaderModuleUnavailable, HeaderCompressed:
		return false
	default:
		return true
	}
}
