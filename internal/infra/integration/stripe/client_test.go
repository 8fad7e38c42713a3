package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePortalSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/billing_portal/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "cus_123", r.PostForm.Get("customer"))
		assert.Equal(t, "https://app.example.com/account", r.PostForm.Get("return_url"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"bps_1","object":"billing_portal.session","url":"https://billing.stripe.com/p/session/test_abc"}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_123", srv.URL, time.Second)
	url, err := c.CreatePortalSession(context.Background(), "cus_123", "https://app.example.com/account")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.com/p/session/test_abc", url)
}

func TestCreatePortalSessionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such customer: 'cus_x'"}}`))
	}))
	defer srv.Close()

	_, err := NewClient("sk_test_123", srv.URL, time.Second).CreatePortalSession(context.Background(), "cus_x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such customer")
	assert.Contains(t, err.Error(), "400")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_live_ok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"object":"balance"}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewClient("sk_live_ok", srv.URL, time.Second).Ping(context.Background()))
	assert.Error(t, NewClient("sk_live_bad", srv.URL, time.Second).Ping(context.Background()))
}
