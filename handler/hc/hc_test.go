package hc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	for _, tc := range []struct {
		name   string
		ping   Pinger
		status int
	}{
		{"memory", nil, http.StatusOK},
		{"sql up", func(ctx context.Context) error { return nil }, http.StatusOK},
		{"sql down", func(ctx context.Context) error { return errors.New("connection refused") }, http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Handle("v1", tc.name, tc.ping).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.status, w.Code)

			var body map[string]interface{}
			require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "v1", body["version"])
			assert.Equal(t, tc.name, body["backend"])
		})
	}
}
