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

package remote

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/beanrpc/beanerrors"
	"go.uber.org/beanrpc/internal/wire"
)

// ProtocolVersion is the highest protocol version the client speaks.
const ProtocolVersion byte = 2

type greeting struct {
	version    byte
	strategies []string
	node       string
}

func readGreeting(frame []byte) (greeting, error) {
	r := wire.NewReader(bytes.NewReader(frame))
	g := greeting{version: r.ReadUint8()}
	n := r.ReadCount()
	for i := 0; i < n && r.Err() == nil; i++ {
		g.strategies = append(g.strategies, r.ReadUTF())
	}
	g.node = r.ReadUTF()
	return g, r.Err()
}

// handshakeTimeout is the handshake bound for a given invocation timeout.
func handshakeTimeout(invocation, handshake time.Duration) time.Duration {
	if invocation > 0 && invocation < handshake {
		return invocation
	}
	return handshake
}

// handshake waits up to timeout for the server's version message, agrees on
// a version and marshalling strategy, and answers with both. The channel is
// closed on every failure.
func (a *association) handshake(ctx context.Context, timeout time.Duration, strategy string) error {
	a.setState(stateHandshaking)

	type received struct {
		frame []byte
		err   error
	}
	recv := make(chan received, 1)
	go func() {
		frame, err := a.ch.Receive()
		recv <- received{frame, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var in received
	select {
	case in = <-recv:
	case <-timer.C:
		a.close(nil)
		return beanerrors.Newf(beanerrors.CodeHandshakeTimeout,
			"no version message from %s within %v", a.ch.Name(), timeout).WithDestination(a.dest)
	case <-ctx.Done():
		a.close(nil)
		return beanerrors.Newf(beanerrors.CodeHandshakeTimeout,
			"handshake with %s abandoned", a.ch.Name()).WithDestination(a.dest).WithCause(ctx.Err())
	}
	if in.err != nil {
		a.close(nil)
		return beanerrors.ConnectionLost(a.ch.Name(), in.err)
	}

	g, err := readGreeting(in.frame)
	if err != nil {
		a.close(nil)
		return beanerrors.Newf(beanerrors.CodeHandshakeIncompatible,
			"malformed version message from %s", a.ch.Name()).WithDestination(a.dest).WithCause(err)
	}
	if g.version == 0 {
		a.close(nil)
		return beanerrors.Newf(beanerrors.CodeHandshakeIncompatible,
			"%s offers no compatible protocol version", a.ch.Name()).WithDestination(a.dest).WithCause(protocolVersionError(g.version))
	}
	if !containsString(g.strategies, strategy) {
		a.close(nil)
		return beanerrors.Newf(beanerrors.CodeHandshakeIncompatible,
			"%s does not support the %q marshalling strategy, offered %v", a.ch.Name(), strategy, g.strategies).
			WithDestination(a.dest)
	}

	version := g.version
	if version > ProtocolVersion {
		version = ProtocolVersion
	}

	mw, err := a.ch.NewMessage(ctx)
	if err != nil {
		a.close(nil)
		return beanerrors.ConnectionLost(a.ch.Name(), err)
	}
	w := wire.NewWriter(mw)
	w.WriteUint8(version)
	w.WriteUTF(strategy)
	if err := w.Err(); err != nil {
		mw.Cancel()
		a.close(nil)
		return beanerrors.ConnectionLost(a.ch.Name(), err)
	}
	if err := mw.Close(); err != nil {
		a.close(nil)
		return beanerrors.ConnectionLost(a.ch.Name(), err)
	}

	a.ready(version, g.node)
	return nil
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
