package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func TestHandleHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleReadyCheck(t *testing.T) {
	var ready bool
	h := HandleReadyCheck(func() bool { return ready })

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	ready = true
	w = httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleReport(t *testing.T) {
	t.Run("no report", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleReport(func() any { return nil })(w, httptest.NewRequest(http.MethodGet, "/report", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("report", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleReport(func() any {
			return map[string]int{"cells": 42}
		})(w, httptest.NewRequest(http.MethodGet, "/report", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var res map[string]int
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Equal(t, 42, res["cells"])
	})

	t.Run("encoding error", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleReport(func() any {
			return make(chan int)
		})(w, httptest.NewRequest(http.MethodGet, "/report", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestNewAdminHandler(t *testing.T) {
	server := httptest.NewServer(NewAdminHandler(AdminOptions{
		Version:        "v1.2.3",
		ReadinessCheck: func() bool { return true },
		Report:         func() any { return map[string]string{"run": "abc"} },
	}))
	defer server.Close()

	tests := []struct {
		path string
		code int
	}{
		{path: "/health", code: http.StatusOK},
		{path: "/ready", code: http.StatusOK},
		{path: "/version", code: http.StatusOK},
		{path: "/report", code: http.StatusOK},
		{path: "/metrics", code: http.StatusOK},
		{path: "/debug/pprof/", code: http.StatusOK},
		{path: "/unknown", code: http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			res, err := http.Get(server.URL + test.path)
			require.NoError(t, err)
			defer res.Body.Close()
			require.Equal(t, test.code, res.StatusCode)
		})
	}

	res, err := http.Get(server.URL + "/version")
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, "v1.2.3", string(b))
}

func TestMetricsPathFormatter(t *testing.T) {
	require.Equal(t, "/report", MetricsPathFormatter(http.StatusOK, "/report"))
	require.Empty(t, MetricsPathFormatter(http.StatusNotFound, "/nope"))
	require.Empty(t, MetricsPathFormatter(http.StatusMethodNotAllowed, "/report"))
}
