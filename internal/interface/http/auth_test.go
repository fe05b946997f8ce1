package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_IssueResolve(t *testing.T) {
	st := NewSessionStore(time.Hour)
	defer st.Close()

	token := st.Issue("u1")
	require.NotEmpty(t, token)

	assert.Equal(t, "u1", st.Resolve(token))
	assert.Empty(t, st.Resolve("no-such-token"))
	assert.Empty(t, st.Resolve(""))
}

func TestSessionStore_TokensAreUnique(t *testing.T) {
	st := NewSessionStore(time.Hour)
	defer st.Close()

	a := st.Issue("u1")
	b := st.Issue("u1")

	assert.NotEqual(t, a, b)
	assert.Equal(t, "u1", st.Resolve(a))
	assert.Equal(t, "u1", st.Resolve(b))
}

func TestSessionStore_Revoke(t *testing.T) {
	st := NewSessionStore(time.Hour)
	defer st.Close()

	token := st.Issue("u1")
	st.Revoke(token)

	assert.Empty(t, st.Resolve(token))
}

func TestSessionStore_Expiry(t *testing.T) {
	st := NewSessionStore(-time.Second)
	defer st.Close()

	token := st.Issue("u1")
	assert.Empty(t, st.Resolve(token))
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/me/progress", nil)
	assert.Empty(t, bearerToken(r))

	r.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", bearerToken(r))

	r.Header.Set("Authorization", "Basic abc123")
	assert.Empty(t, bearerToken(r))
}
