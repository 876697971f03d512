package admin

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrips(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("wrong")))
}

func TestIsLoopback(t *testing.T) {
	b := NewBridge(&fakeServer{}, "", nil)

	loopback := &http.Request{RemoteAddr: "127.0.0.1:5555"}
	assert.True(t, b.isLoopback(loopback))

	remote := &http.Request{RemoteAddr: "203.0.113.5:5555"}
	assert.False(t, b.isLoopback(remote))
}

func TestMarshalResultEncodesJSON(t *testing.T) {
	assert.Equal(t, `{"success":true,"message":"ok"}`, marshalResult(Result{Success: true, Message: "ok"}))
}
