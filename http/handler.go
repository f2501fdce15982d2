package http

import (
	"net/http"
	"net/http/pprof"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

func HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HandleReadyCheck responds with 503 until readinessCheck returns true.
func HandleReadyCheck(readinessCheck func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !readinessCheck() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(version))
	}
}

// HandleReport responds with the JSON encoding of the value returned by
// report. A nil value results in a 204.
func HandleReport(report func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := report()
		if v == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		b, err := json.Marshal(v)
		if err != nil {
			logs.Warn(errors.New("encoding report failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

// AdminOptions describes the endpoints served by an admin handler.
type AdminOptions struct {
	Version        string
	ReadinessCheck func() bool
	Report         func() any
}

// NewAdminHandler returns a handler serving metrics, health, readiness,
// version, report and pprof endpoints.
func NewAdminHandler(opts AdminOptions) http.Handler {
	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", HandleHealthCheck)
	admin.HandleFunc("/version", HandleVersion(opts.Version))
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))

	if opts.ReadinessCheck != nil {
		admin.HandleFunc("/ready", HandleReadyCheck(opts.ReadinessCheck))
	}
	if opts.Report != nil {
		admin.HandleFunc("/report", HandleReport(opts.Report))
	}
	return &admin
}
