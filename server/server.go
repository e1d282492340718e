// Package server exposes a harriet runtime over HTTP. Request and response
// bodies are Node trees, carried as canonical CBOR or JSON depending on the
// request's Content-Type.
package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tliron/commonlog"

	"github.com/chazu/harriet/runtime"

	_ "github.com/tliron/commonlog/simple"
)

// apiCaller is the caller identity for definitions arriving over the API.
// It is never privileged; protected names stay out of reach of the network.
const apiCaller = "api"

// Server wraps a running runtime context behind an HTTP surface.
type Server struct {
	base *runtime.Context
	mux  *http.ServeMux
	log  commonlog.Logger

	defaultWhitelist []string
}

// Option configures a Server.
type Option func(*Server)

// WithWhitelist restricts requests that carry no whitelist of their own to
// the given handler names.
func WithWhitelist(names []string) Option {
	return func(s *Server) { s.defaultWhitelist = names }
}

// New creates a Server around the given context.
func New(ctx *runtime.Context, opts ...Option) *Server {
	s := &Server{
		base: ctx,
		mux:  http.NewServeMux(),
		log:  commonlog.GetLogger("harriet.server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("POST /v1/invoke", s.handleInvoke)
	s.mux.HandleFunc("POST /v1/define", s.handleDefine)
	s.mux.HandleFunc("POST /v1/remove", s.handleRemove)
	s.mux.HandleFunc("GET /v1/handlers", s.handleList)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(ctx.Metrics.Registry, promhttp.HandlerOpts{}))

	return s
}

// ServeHTTP makes the server mountable under another mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given address. The address
// should be in the form "host:port" or ":port".
func (s *Server) ListenAndServe(addr string) error {
	s.log.Noticef("harriet dispatch server listening on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// requestContext derives the per-request runtime context: the shared
// registry and statics, plus a ticket built from the request's whitelist
// header (the session layer upstream sets it), falling back to the server's
// default whitelist.
func (s *Server) requestContext(r *http.Request) *runtime.Context {
	if names, ok := whitelistHeader(r); ok {
		return s.base.WithTicket(runtime.RestrictedTicket(names))
	}
	if s.defaultWhitelist != nil {
		return s.base.WithTicket(runtime.RestrictedTicket(s.defaultWhitelist))
	}
	return s.base.WithTicket(runtime.NewTicket())
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}
