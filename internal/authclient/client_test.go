package authclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchange_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "sid-1", r.Header.Get("X-Session-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u1","email":"chef@example.com","name":"Chef","picture":"https://img/x.png","session_token":"tok"}`))
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL).Exchange(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", id.Email)
	assert.Equal(t, "Chef", id.Name)
	assert.Equal(t, "tok", id.SessionToken)
	require.NotNil(t, id.Picture)
	assert.Equal(t, "https://img/x.png", *id.Picture)
}

func TestExchange_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Exchange(context.Background(), "sid-1")
	require.ErrorIs(t, err, ErrRejected)
}

func TestExchange_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"a@b.c"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Exchange(context.Background(), "sid-1")
	require.ErrorIs(t, err, ErrRejected)
}
