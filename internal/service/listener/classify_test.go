package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "grpc unavailable", err: status.Error(codes.Unavailable, "backend down"), want: true},
		{name: "grpc deadline", err: status.Error(codes.DeadlineExceeded, "slow"), want: true},
		{name: "grpc permission denied", err: status.Error(codes.PermissionDenied, "nope"), want: false},
		{name: "wrapped grpc unavailable", err: fmt.Errorf("subscribe: %w", status.Error(codes.Unavailable, "x")), want: true},
		{name: "net op error", err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("reset")}, want: true},
		{name: "eof", err: fmt.Errorf("receive: %w", io.EOF), want: true},
		{name: "context deadline", err: context.DeadlineExceeded, want: true},
		{name: "network substring", err: errors.New("Network error while listening"), want: true},
		{name: "unavailable substring", err: errors.New("service UNAVAILABLE"), want: true},
		{name: "connection substring", err: errors.New("connection reset by peer"), want: true},
		{name: "unrelated", err: errors.New("missing or insufficient permissions"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
