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
	"errors"
	"fmt"
)

// XACode is a resource manager error or return code as defined by the X/Open
// XA specification.
type XACode int32

// XA return and error codes.
const (
	XAOK        XACode = 0
	XARDOnly    XACode = 3
	XARetry     XACode = 4
	XAHeurMix   XACode = 5
	XAHeurRB    XACode = 6
	XAHeurCom   XACode = 7
	XAHeurHaz   XACode = 8
	XARBBase    XACode = 100
	XARBEnd     XACode = 107
	XAERAsync   XACode = -2
	XAERRMErr   XACode = -3
	XAERNoTA    XACode = -4
	XAERInval   XACode = -5
	XAERProto   XACode = -6
	XAERRMFail  XACode = -7
	XAERDupID   XACode = -8
	XAEROutside XACode = -9
)

var _xaCodeToString = map[XACode]string{
	XAOK:        "XA_OK",
	XARDOnly:    "XA_RDONLY",
	XARetry:     "XA_RETRY",
	XAHeurMix:   "XA_HEURMIX",
	XAHeurRB:    "XA_HEURRB",
	XAHeurCom:   "XA_HEURCOM",
	XAHeurHaz:   "XA_HEURHAZ",
	XAERAsync:   "XAER_ASYNC",
	XAERRMErr:   "XAER_RMERR",
	XAERNoTA:    "XAER_NOTA",
	XAERInval:   "XAER_INVAL",
	XAERProto:   "XAER_PROTO",
	XAERRMFail:  "XAER_RMFAIL",
	XAERDupID:   "XAER_DUPID",
	XAEROutside: "XAER_OUTSIDE",
}

func (c XACode) String() string {
	if s, ok := _xaCodeToString[c]; ok {
		return s
	}
	if c >= XARBBase && c <= XARBEnd {
		return fmt.Sprintf("XA_RB(%d)", int32(c))
	}
	return fmt.Sprintf("XA(%d)", int32(c))
}

// XAError is a resource manager failure reported to a transaction manager.
type XAError struct {
	Code    XACode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *XAError) Error() string {
	msg := "xa error " + e.Code.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the cause of the failure.
func (e *XAError) Unwrap() error { return e.Cause }

// ClassifyXA maps a failure from a transaction operation to the error handed
// to the transaction manager.
//
//  - nil stays nil
//  - an XAError anywhere in the chain is returned unchanged
//  - anything else becomes XAER_RMFAIL with the failure as its cause
func ClassifyXA(err error) error {
	if err == nil {
		return nil
	}
	var xae *XAError
	if errors.As(err, &xae) {
		return xae
	}
	return &XAError{Code: XAERRMFail, Cause: err}
}
