package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/session"
)

func TestAuthenticate(t *testing.T) {
	provider := session.NewProvider(map[string]string{"tok-a": "alice"})

	var gotUser string
	handler := Authenticate(provider, logger.New("error", false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, _ = session.UserID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{
			name:       "valid token resolves user",
			header:     "Bearer tok-a",
			wantStatus: http.StatusOK,
			wantUser:   "alice",
		},
		{
			name:       "unknown token rejected",
			header:     "Bearer nope",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing header rejected",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme rejected",
			header:     "Basic dXNlcjpwdw==",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}
