package util

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseIP(t *testing.T, s string) net.IP {
	t.Helper()
	ip := net.ParseIP(s)
	require.NotNil(t, ip, "bad test fixture %q", s)
	return ip
}

// Hostname cases stick to IP literals and localhost: anything else would
// hit the resolver and make the test depend on the network.
func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantErr string
	}{
		{name: "public https", url: "https://93.184.216.34/watch?v=abc", valid: true},
		{name: "public http", url: "http://93.184.216.34/video", valid: true},
		{name: "empty", url: "", valid: false, wantErr: "URL is required"},
		{name: "too long", url: "https://a.example/" + strings.Repeat("x", 2100), valid: false, wantErr: "URL is too long"},
		{name: "bad scheme", url: "ftp://93.184.216.34/file", valid: false, wantErr: "Only HTTP/HTTPS URLs are allowed"},
		{name: "no scheme", url: "youtube.com/watch?v=abc", valid: false, wantErr: "Only HTTP/HTTPS URLs are allowed"},
		{name: "localhost", url: "http://localhost/admin", valid: false, wantErr: "Private/local URLs are not allowed"},
		{name: "loopback", url: "http://127.0.0.1:8080/", valid: false, wantErr: "Private/local URLs are not allowed"},
		{name: "rfc1918", url: "https://192.168.1.10/stream", valid: false, wantErr: "Private/local URLs are not allowed"},
		{name: "link local", url: "http://169.254.169.254/latest/meta-data", valid: false, wantErr: "Private/local URLs are not allowed"},
		{name: "ipv6 loopback", url: "http://[::1]/", valid: false, wantErr: "Private/local URLs are not allowed"},
		{name: "unparseable", url: "http://[::1", valid: false, wantErr: "Invalid URL format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateURL(tt.url)
			assert.Equal(t, tt.valid, v.Valid)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, v.Error)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{ip: "10.0.0.1", private: true},
		{ip: "172.16.0.1", private: true},
		{ip: "172.32.0.1", private: false},
		{ip: "192.168.255.255", private: true},
		{ip: "8.8.8.8", private: false},
		{ip: "fe80::1", private: true},
		{ip: "2001:4860:4860::8888", private: false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.private, isPrivateIP(mustParseIP(t, tt.ip)))
		})
	}
}
