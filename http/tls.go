package http

import (
	"context"
	"crypto/x509"
	"net"

	utls "github.com/refraction-networking/utls"
)

// dialTLSFunc matches http.Transport.DialTLSContext.
type dialTLSFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// chromeTLSDialer returns a dialer that completes the TLS handshake with a
// Chrome ClientHello. ALPN offers only http/1.1 because the returned
// connection is driven by net/http's HTTP/1 client. A nil rootCAs trusts the
// host's root set.
func chromeTLSDialer(dialer *net.Dialer, rootCAs *x509.CertPool) dialTLSFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		spec, err := utls.UTLSIdToSpec(utls.HelloChrome_Auto)
		if err != nil {
			return nil, err
		}
		for _, ext := range spec.Extensions {
			if alpn, ok := ext.(*utls.ALPNExtension); ok {
				alpn.AlpnProtocols = []string{"http/1.1"}
			}
		}

		raw, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		conn := utls.UClient(raw, &utls.Config{ServerName: host, RootCAs: rootCAs}, utls.HelloCustom)
		if err := conn.ApplyPreset(&spec); err != nil {
			raw.Close()
			return nil, err
		}
		if err := conn.HandshakeContext(ctx); err != nil {
			raw.Close()
			return nil, err
		}
		return conn, nil
	}
}
