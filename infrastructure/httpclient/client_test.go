package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_RetriesOn429UntilBudgetExhausted(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var waits []time.Duration
	client := New(
		WithMaxRetries(4),
		WithSleep(func(d time.Duration) { waits = append(waits, d) }),
		WithJitter(func() float64 { return 0.5 }),
	)

	_, err := client.Get(context.Background(), server.URL, nil, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)

	assert.Equal(t, 4, attempts)

	// The last attempt never sleeps; waits follow 2^attempt + jitter seconds.
	require.Len(t, waits, 3)
	assert.Equal(t, time.Duration(1.5*float64(time.Second)), waits[0])
	assert.Equal(t, time.Duration(2.5*float64(time.Second)), waits[1])
	assert.Equal(t, time.Duration(4.5*float64(time.Second)), waits[2])
}

func TestDo_FailsImmediatelyOnOtherStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "bad request", status: http.StatusBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("nope"))
			}))
			defer server.Close()

			client := New(WithSleep(func(time.Duration) {
				t.Fatal("backoff must not run for non-429 statuses")
			}))

			_, err := client.Get(context.Background(), server.URL, nil, nil)
			require.Error(t, err)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, "nope", statusErr.Body)
			assert.Equal(t, 1, attempts)
		})
	}
}

func TestDo_RecoversAfterTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(
		WithSleep(func(time.Duration) {}),
	)

	resp, err := client.Get(context.Background(), server.URL, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, 3, attempts)
}

func TestDo_RetriesOnTransportErrors(t *testing.T) {
	// A closed server yields a connection error on every attempt.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	sleeps := 0
	client := New(
		WithMaxRetries(3),
		WithSleep(func(time.Duration) { sleeps++ }),
	)

	_, err := client.Get(context.Background(), target, nil, nil)
	require.Error(t, err)
	assert.Equal(t, 2, sleeps)
}

func TestDo_SendsParamsHeadersAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "42", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"a":1}`, string(body))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	params := url.Values{"limit": {"42"}}
	headers := http.Header{}
	headers.Set("Authorization", "Bearer token-123")

	client := New()
	_, err := client.Do(context.Background(), http.MethodPost, server.URL, params, headers, []byte(`{"a":1}`))
	require.NoError(t, err)
}
