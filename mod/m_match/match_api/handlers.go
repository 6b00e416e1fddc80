package match_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gobwas/glob"

	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

// maxRuleBody caps the size of a rule text body.
const maxRuleBody = 64 << 10

//---------------------
// Payloads
//---------------------

// FilterRequest is the JSON form of a message filter. Absent fields are
// null; arguments are keyed by their decimal index.
type FilterRequest struct {
	Type        string            `json:"type"`
	Sender      *string           `json:"sender,omitempty"`
	Destination *string           `json:"destination,omitempty"`
	Interface   *string           `json:"interface,omitempty"`
	Member      *string           `json:"member,omitempty"`
	Path        *string           `json:"path,omitempty"`
	Args        map[string]string `json:"args,omitempty"`
	ArgPaths    map[string]string `json:"arg_paths,omitempty"`
}

// Filter converts the request into a match_type.Filter.
func (req *FilterRequest) Filter() (*match_type.Filter, error) {
	var f match_type.Filter

	t, ok := match_type.ParseMessageType(req.Type)
	if !ok {
		return nil, fmt.Errorf("unknown message type %q", req.Type)
	}
	f.Type = t

	f.Sender = optional(req.Sender)
	f.Destination = optional(req.Destination)
	f.Interface = optional(req.Interface)
	f.Member = optional(req.Member)
	f.Path = optional(req.Path)

	if err := fillArgs(&f.Args, req.Args); err != nil {
		return nil, err
	}
	if err := fillArgs(&f.ArgPaths, req.ArgPaths); err != nil {
		return nil, err
	}
	return &f, nil
}

func optional(p *string) match_str.Str {
	if p == nil {
		return match_str.Null
	}
	return match_str.Of(*p)
}

func fillArgs(dst *[match_type.NArgs]match_str.Str, src map[string]string) error {
	for key, v := range src {
		n, err := strconv.Atoi(key)
		if err != nil || n < 0 || n >= match_type.NArgs {
			return fmt.Errorf("bad argument index %q", key)
		}
		dst[n] = match_str.Of(v)
	}
	return nil
}

// DispatchResponse lists the peers a filter is routed to.
type DispatchResponse struct {
	Peers []string `json:"peers"`
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

//---------------------
// Handlers
//---------------------

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.broker.Stats())
}

// handlePeers lists peer ids, optionally filtered by a glob pattern.
func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	peers := s.broker.Peers()

	if pattern := r.URL.Query().Get("match"); pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad request", fmt.Sprintf("invalid pattern %q: %v", pattern, err))
			return
		}
		kept := peers[:0]
		for _, id := range peers {
			if g.Match(id) {
				kept = append(kept, id)
			}
		}
		peers = kept
	}
	writeJSON(w, http.StatusOK, peers)
}

func (s *Server) handleAddPeer(w http.ResponseWriter, r *http.Request) {
	if err := s.broker.AddPeer(chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	s.audit(r, "add_peer")
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemovePeer(w http.ResponseWriter, r *http.Request) {
	if err := s.broker.RemovePeer(chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	s.audit(r, "remove_peer")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	rules, err := s.broker.Matches(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleAddMatch(w http.ResponseWriter, r *http.Request) {
	text, err := readRule(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad request", err.Error())
		return
	}
	if err := s.broker.AddMatch(chi.URLParam(r, "id"), text); err != nil {
		s.fail(w, err)
		return
	}
	s.audit(r, "add_match")
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveMatch(w http.ResponseWriter, r *http.Request) {
	text, err := readRule(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad request", err.Error())
		return
	}
	if err := s.broker.RemoveMatch(chi.URLParam(r, "id"), text); err != nil {
		s.fail(w, err)
		return
	}
	s.audit(r, "remove_match")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request", "invalid JSON")
		return
	}
	f, err := req.Filter()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad request", err.Error())
		return
	}

	peers := s.broker.Dispatch(f)
	if peers == nil {
		peers = []string{}
	}
	writeJSON(w, http.StatusOK, DispatchResponse{Peers: peers})
}

//---------------------
// Helpers
//---------------------

// audit logs a successful change together with the token subject, if any.
func (s *Server) audit(r *http.Request, action string) {
	ev := s.log.Info().Str("action", action).Str("peer", chi.URLParam(r, "id"))
	if sub, ok := SubjectFromContext(r.Context()); ok {
		ev = ev.Str("subject", sub)
	}
	ev.Msg("admin change")
}

// readRule reads a rule text body, trimming a trailing newline.
func readRule(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRuleBody))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(body), "\r\n"), nil
}

// fail maps a broker error to a status and D-Bus error name.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, match_type.ErrInvalidSyntax):
		status = http.StatusBadRequest
	case errors.Is(err, match_type.ErrNotFound), errors.Is(err, match_bus.ErrPeerUnknown):
		status = http.StatusNotFound
	case errors.Is(err, match_bus.ErrPeerExists):
		status = http.StatusConflict
	case errors.Is(err, match_bus.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("admin request failed")
	}
	writeError(w, status, match_bus.ErrorName(err), err.Error())
}

func writeError(w http.ResponseWriter, status int, name, msg string) {
	writeJSON(w, status, errorResponse{Error: name, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
