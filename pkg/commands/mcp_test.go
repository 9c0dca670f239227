package commands

import (
	"net"
	"testing"
)

func TestEndpointPath(t *testing.T) {
	for in, want := range map[string]string{
		"":       "/mcp",
		"  ":     "/mcp",
		"focus":  "/focus",
		"/api/x": "/api/x",
	} {
		if got := endpointPath(in); got != want {
			t.Errorf("endpointPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestListenURL(t *testing.T) {
	tests := map[string]struct {
		host  string
		bound net.Addr
		tls   bool
		want  string
	}{
		"explicit host": {
			host:  "127.0.0.1",
			bound: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080},
			want:  "http://127.0.0.1:8080/mcp",
		},
		"wildcard uses loopback": {
			host:  "0.0.0.0",
			bound: &net.TCPAddr{IP: net.IPv4zero, Port: 43111},
			want:  "http://127.0.0.1:43111/mcp",
		},
		"wildcard uses bound ip": {
			host:  "::",
			bound: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 9000},
			want:  "http://10.0.0.5:9000/mcp",
		},
		"ipv6 is bracketed": {
			host:  "::1",
			bound: &net.TCPAddr{IP: net.IPv6loopback, Port: 8443},
			tls:   true,
			want:  "https://[::1]:8443/mcp",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := listenURL(tc.host, tc.bound, tc.tls, "/mcp"); got != tc.want {
				t.Errorf("listenURL() = %q, want %q", got, tc.want)
			}
		})
	}
}
