package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/chazu/harriet/runtime"
	"github.com/chazu/harriet/tree"
	"github.com/chazu/harriet/wire"
)

const maxBodyBytes = 4 << 20

// handleInvoke dispatches a named handler. Request tree: a "name" child and
// an optional "args" child. Response tree: "outcome" plus the mutated args.
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	req, err := readTree(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	name := req.ChildStr("name")

	args := req.Child("args")
	if args == nil {
		args = tree.New("args")
	}

	ctx := s.requestContext(r)
	outcome, err := ctx.Dispatch(name, args)
	if err != nil {
		httpError(w, dispatchStatus(err), err)
		return
	}
	if outcome == runtime.Unhandled {
		httpError(w, http.StatusNotFound, errors.New("unknown handler "+name))
		return
	}

	resp := tree.New("result",
		tree.NewValue("outcome", outcome.String()),
		args,
	)
	writeTree(w, r, resp)
}

// handleDefine installs or replaces a dynamic handler. Request tree: a
// "name" child and a "body" child whose children become the new body. An
// empty or missing body removes instead, mirroring the runtime's
// create-or-delete entry point.
func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	req, err := readTree(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	name := req.ChildStr("name")

	var supplied []*tree.Node
	if body := req.Child("body"); body != nil {
		supplied = body.Children
	}

	if err := s.base.Registry.DefineOrRemove(name, supplied, apiCaller); err != nil {
		httpError(w, registryStatus(err), err)
		return
	}
	writeTree(w, r, tree.NewValue("result", "ok"))
}

// handleRemove deletes a dynamic handler named by the "name" child.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	req, err := readTree(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.base.Registry.Remove(req.ChildStr("name"), apiCaller); err != nil {
		httpError(w, registryStatus(err), err)
		return
	}
	writeTree(w, r, tree.NewValue("result", "ok"))
}

// handleList enumerates visible handlers. Filters come from repeated
// "filter" query parameters; "~"-prefixed filters match by prefix.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := s.requestContext(r)
	writeTree(w, r, ctx.ListingTree(r.URL.Query()["filter"]))
}

// ---------------------------------------------------------------------------
// Codec and error plumbing
// ---------------------------------------------------------------------------

func isCBOR(contentType string) bool {
	return strings.Contains(contentType, "cbor")
}

func readTree(r *http.Request) (*tree.Node, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if isCBOR(r.Header.Get("Content-Type")) {
		return wire.UnmarshalNode(data)
	}
	return wire.UnmarshalNodeJSON(data)
}

func writeTree(w http.ResponseWriter, r *http.Request, n *tree.Node) {
	var (
		data []byte
		err  error
	)
	if isCBOR(r.Header.Get("Accept")) || isCBOR(r.Header.Get("Content-Type")) {
		w.Header().Set("Content-Type", "application/cbor")
		data, err = wire.MarshalNode(n)
	} else {
		w.Header().Set("Content-Type", "application/json")
		data, err = wire.MarshalNodeJSON(n)
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	w.Write(data)
}

func httpError(w http.ResponseWriter, status int, err error) {
	http.Error(w, err.Error(), status)
}

// whitelistHeader parses the comma-separated Harriet-Whitelist header.
func whitelistHeader(r *http.Request) ([]string, bool) {
	raw := r.Header.Get("Harriet-Whitelist")
	if raw == "" {
		return nil, false
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names, true
}

func registryStatus(err error) int {
	switch {
	case errors.Is(err, runtime.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, runtime.ErrNameProtected):
		return http.StatusForbidden
	case errors.Is(err, runtime.ErrDuplicateDefinition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func dispatchStatus(err error) int {
	switch {
	case errors.Is(err, runtime.ErrNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, runtime.ErrNotAllowed):
		return http.StatusForbidden
	default:
		// Handler body failures surface as-is; the registry does not
		// reinterpret them.
		return http.StatusUnprocessableEntity
	}
}
