package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	s := signer{key: []byte("k")}
	in := Session{ID: "id", User: "alice", Expires: time.Unix(1700000000, 0).UTC()}
	tok, err := s.sign(in)
	require.NoError(t, err)

	var out Session
	require.NoError(t, s.verify(tok, &out))
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.User, out.User)
	assert.True(t, in.Expires.Equal(out.Expires))

	other := signer{key: []byte("other")}
	assert.ErrorIs(t, other.verify(tok, &out), ErrUnauthorized)
	assert.ErrorIs(t, s.verify("garbage", &out), ErrUnauthorized)
}

func TestSafeCallback(t *testing.T) {
	cases := map[string]string{
		"":                        "/admin",
		"/admin/api/document?x=1": "/admin/api/document?x=1",
		"https://evil.example/":   "/admin",
		"//evil.example/":         "/admin",
		`/\evil.example`:          "/admin",
		"relative":                "/admin",
		"javascript:alert(1)":     "/admin",
		"/admin#frag":             "/admin",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeCallback(in), in)
	}
}
