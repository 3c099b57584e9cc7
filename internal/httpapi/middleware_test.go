package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	valid := uuid.NewString()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{"absent", "", false},
		{"valid uuid", valid, true},
		{"free text", "hello\tworld", false},
		{"oversized", strings.Repeat("a", 4096), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(requestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)

			got := rec.Header().Get(requestIDHeader)
			_, err := uuid.Parse(got)
			require.NoError(t, err)
			if tt.wantSame {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEqual(t, tt.header, got)
			}
		})
	}
}
