package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestTokenFromMetadata(t *testing.T) {
	tests := []struct {
		name string
		md   metadata.MD
		want string
	}{
		{"no metadata", nil, ""},
		{"no key", metadata.Pairs("other", "x"), ""},
		{"bearer", metadata.Pairs("authorization", "Bearer abc"), "abc"},
		{"lowercase scheme", metadata.Pairs("authorization", "bearer abc"), "abc"},
		{"raw token", metadata.Pairs("authorization", "abc"), ""},
		{"basic", metadata.Pairs("authorization", "Basic abc"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.md != nil {
				ctx = metadata.NewIncomingContext(ctx, tt.md)
			}
			if got := tokenFromMetadata(ctx); got != tt.want {
				t.Fatalf("tokenFromMetadata = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{fmt.Errorf("wrap: %w", common.ErrInvalidPayload), codes.InvalidArgument, common.MsgInvalidPayload},
		{common.ErrUserAlreadyExists, codes.AlreadyExists, common.MsgUserExists},
		{common.ErrInvalidCredentials, codes.Unauthenticated, common.MsgInvalidLogin},
		{common.ErrTokenExpired, codes.Unauthenticated, common.MsgInvalidToken},
		{common.ErrAccountInactive, codes.Unauthenticated, common.MsgInvalidToken},
		{common.ErrInsufficientPrivilege, codes.PermissionDenied, common.MsgForbidden},
		{common.ErrorNotFound, codes.NotFound, common.MsgUserNotFound},
		{errors.New("db down"), codes.Internal, common.MsgInternal},
	}

	for _, tt := range tests {
		st := status.Convert(toStatus(context.Background(), logging.NewNop(), tt.err))
		if st.Code() != tt.code || st.Message() != tt.msg {
			t.Errorf("toStatus(%v) = %v %q, want %v %q", tt.err, st.Code(), st.Message(), tt.code, tt.msg)
		}
	}
}
