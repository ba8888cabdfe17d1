package fetcher

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"ringkas/internal/usecase/fetch"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"0.0.0.0", true},
		{"::1", true},
		{"fc00::1", true},
		{"fe80::1", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"2606:4700:4700::1111", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.private, isPrivateIP(net.ParseIP(tt.ip)), tt.ip)
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		deny    bool
		wantErr error
	}{
		{name: "https ok", url: "https://example.com/artikel", deny: false},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: fetch.ErrInvalidURL},
		{name: "ftp scheme", url: "ftp://example.com/file", wantErr: fetch.ErrInvalidURL},
		{name: "no scheme", url: "example.com", wantErr: fetch.ErrInvalidURL},
		{name: "empty host", url: "http://", wantErr: fetch.ErrInvalidURL},
		{name: "space in host", url: "http://example .com/", wantErr: fetch.ErrInvalidURL},
		{name: "loopback literal", url: "http://127.0.0.1:8080/", deny: true, wantErr: fetch.ErrPrivateIP},
		{name: "metadata endpoint", url: "http://169.254.169.254/latest/meta-data", deny: true, wantErr: fetch.ErrPrivateIP},
		{name: "loopback allowed when disabled", url: "http://127.0.0.1:8080/", deny: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateURL(context.Background(), tt.url, tt.deny)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
