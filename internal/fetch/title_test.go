package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbazin/marks/internal/logger"
)

func testLogger() logger.Logger {
	return logger.New("error", false)
}

func TestTitleFetcher(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "title extracted from json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"title":"Example Domain","description":"x"}`))
			},
			want: "Example Domain",
		},
		{
			name: "missing title field falls back to host",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"description":"x"}`))
			},
			want: "example.com",
		},
		{
			name: "server error falls back to host",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: "example.com",
		},
		{
			name: "malformed json falls back to host",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"title": spam`))
			},
			want: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f := NewTitleFetcher(srv.URL, srv.Client(), testLogger())
			got := f.Fetch(context.Background(), "https://example.com/")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleFetcherSendsEncodedURL(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`{"title":"ok"}`))
	}))
	defer srv.Close()

	f := NewTitleFetcher(srv.URL, srv.Client(), testLogger())
	got := f.Fetch(context.Background(), "https://example.com/a?b=c")
	require.Equal(t, "ok", got)
	assert.Equal(t, "https://example.com/a?b=c", gotQuery)
}

func TestTitleFetcherUnreachableEndpoint(t *testing.T) {
	// Closed server: connection refused, not a hang.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewTitleFetcher(srv.URL, &http.Client{}, testLogger())
	got := f.Fetch(context.Background(), "https://example.com/")
	assert.Equal(t, "example.com", got)
}
