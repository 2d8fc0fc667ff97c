package rpcapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_UpdateRequestKeepsNilFlags(t *testing.T) {
	c := jsonCodec{}
	yes := true

	raw, err := c.Marshal(&UpdateUserRequest{ID: "u1", Admin: &yes})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","admin":true}`, string(raw))

	var got UpdateUserRequest
	require.NoError(t, c.Unmarshal(raw, &got))
	assert.Nil(t, got.Active)
	require.NotNil(t, got.Admin)
	assert.True(t, *got.Admin)
}

func TestCodec_EmptyPayload(t *testing.T) {
	var req PingRequest
	assert.NoError(t, jsonCodec{}.Unmarshal(nil, &req))
}

func TestServiceDesc_CoversEveryMethod(t *testing.T) {
	names := map[string]bool{}
	for _, m := range ServiceDesc.Methods {
		names[m.MethodName] = true
	}
	for _, want := range []string{"Ping", "Register", "Login", "Status", "ListUsers", "GetUser", "AddUser", "UpdateUser"} {
		assert.True(t, names[want], want)
	}
}
