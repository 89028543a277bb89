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
	"context"
	"crypto/tls"
	"net"
	"net/url"
)

// Credentials identify the client to a server.
type Credentials struct {
	Username string
	Password string
}

// Security is what a connection to one destination needs beyond its
// address.
type Security struct {
	// TLS, if set, secures the connection.
	TLS *tls.Config
	// Credentials are handed to the Dialer. The default dialer does not use
	// them.
	Credentials Credentials
}

// SecurityProvider supplies the Security for a destination.
type SecurityProvider interface {
	Security(dest *url.URL) (Security, error)
}

// SecurityProviderFunc adapts a function into a SecurityProvider.
type SecurityProviderFunc func(*url.URL) (Security, error)

// Security for SecurityProviderFunc.
func (f SecurityProviderFunc) Security(dest *url.URL) (Security, error) { return f(dest) }

// Dialer opens connections to destinations.
type Dialer interface {
	Dial(ctx context.Context, dest *url.URL, sec Security) (net.Conn, error)
}

// DialerFunc adapts a function into a Dialer.
type DialerFunc func(context.Context, *url.URL, Security) (net.Conn, error)

// Dial for DialerFunc.
func (f DialerFunc) Dial(ctx context.Context, dest *url.URL, sec Security) (net.Conn, error) {
	return f(ctx, dest, sec)
}

// TCPDialer dials the host and port of the destination over TCP, with TLS
// when the Security asks for it.
type TCPDialer struct {
	net.Dialer
}

// Dial implements Dialer.
func (d TCPDialer) Dial(ctx context.Context, dest *url.URL, sec Security) (net.Conn, error) {
	conn, err := d.DialContext(ctx, "tcp", dest.Host)
	if err != nil {
		return nil, err
	}
	if sec.TLS == nil {
		return conn, nil
	}

	cfg := sec.TLS
	if cfg.ServerName == "" {
		cfg = cfg.Clone()
		cfg.ServerName = dest.Hostname()
	}
	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
