package vault

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziaflow/marketing-lens/infrastructure/httpclient"
)

func testRequester() httpclient.Requester {
	return httpclient.New(httpclient.WithSleep(func(time.Duration) {}))
}

func TestMockClient_ServesPlaceholder(t *testing.T) {
	client := New("", "", testRequester())
	ctx := context.Background()

	value, found, err := client.Get(ctx, "acme-Meta-token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, MockSecretValue, value)

	// Updates in mock mode are accepted and dropped; a later Get still
	// serves the placeholder.
	require.NoError(t, client.Set(ctx, "acme-Meta-token", "new-value"))

	value, found, err = client.Get(ctx, "acme-Meta-token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, MockSecretValue, value)
}

func TestKeyVaultClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/secrets/acme-Meta-token", r.URL.Path)
		assert.Equal(t, "7.4", r.URL.Query().Get("api-version"))
		assert.Equal(t, "Bearer vault-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"value": "s3cret"}`))
	}))
	defer server.Close()

	client := &keyVaultClient{
		baseURL:   server.URL,
		token:     "vault-token",
		requester: testRequester(),
	}

	value, found, err := client.Get(context.Background(), "acme-Meta-token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "s3cret", value)
}

func TestKeyVaultClient_GetMissingSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": "SecretNotFound"}}`))
	}))
	defer server.Close()

	client := &keyVaultClient{
		baseURL:   server.URL,
		token:     "vault-token",
		requester: testRequester(),
	}

	// Absence is not an error; callers substitute a dummy credential.
	value, found, err := client.Get(context.Background(), "nobody-TikTok-token")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestKeyVaultClient_Set(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/secrets/acme-Reddit-token", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"value":"fresh"}`, string(body))

		_, _ = w.Write([]byte(`{"value": "fresh"}`))
	}))
	defer server.Close()

	client := &keyVaultClient{
		baseURL:   server.URL,
		token:     "vault-token",
		requester: testRequester(),
	}

	require.NoError(t, client.Set(context.Background(), "acme-Reddit-token", "fresh"))
}
