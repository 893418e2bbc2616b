// Package api exposes the pronunciation service over HTTP and MCP. Both
// transports dispatch to the same instrumented kit endpoints.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/text/language"

	"github.com/hazyhaar/phonocoach/pkg/align"
	"github.com/hazyhaar/phonocoach/pkg/dict"
	"github.com/hazyhaar/phonocoach/pkg/kit"
	"github.com/hazyhaar/phonocoach/pkg/observe"
)

const maxBodyBytes = 64 * 1024

// RouterOption adds routes served next to the API.
type RouterOption func(*http.ServeMux)

// WithHandler mounts h at pattern, e.g. "/mcp" or "GET /metrics".
func WithHandler(pattern string, h http.Handler) RouterOption {
	return func(mux *http.ServeMux) { mux.Handle(pattern, h) }
}

// NewRouter returns an http.Handler with all phonocoach API routes.
func NewRouter(eps *Endpoints, reg *dict.Registry, m *observe.Metrics, opts ...RouterOption) http.Handler {
	mux := http.NewServeMux()
	h := &handler{eps: eps, reg: reg}

	mux.HandleFunc("POST /v1/diff", h.handleDiff)
	mux.HandleFunc("POST /v1/evaluate", h.handleEvaluate)
	mux.HandleFunc("POST /v1/accuracy", h.handleAccuracy)
	mux.HandleFunc("POST /v1/ipa", h.handleIPA)
	mux.HandleFunc("POST /v1/symbols", h.handleSymbols)
	mux.HandleFunc("POST /v1/answer", h.handleAnswer)
	mux.HandleFunc("GET /v1/guide", h.handleGuide)
	mux.HandleFunc("GET /v1/dicts", h.handleListDicts)
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	for _, o := range opts {
		o(mux)
	}

	return cors(observe.Middleware(m)(acceptLocale(mux)))
}

type handler struct {
	eps *Endpoints
	reg *dict.Registry
}

func (h *handler) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.Diff, &req)
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req DiffRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.Evaluate, &req)
}

type httpAccuracyRequest struct {
	Tokens json.RawMessage `json:"tokens"`
}

func (h *handler) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	var body httpAccuracyRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if len(body.Tokens) == 0 {
		writeError(w, http.StatusBadRequest, "missing tokens")
		return
	}
	tokens, err := align.Decode(body.Tokens)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tokens: "+err.Error())
		return
	}
	h.serve(w, r, h.eps.Accuracy, &AccuracyRequest{Tokens: tokens})
}

func (h *handler) handleIPA(w http.ResponseWriter, r *http.Request) {
	var req IPARequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.IPA, &req)
}

func (h *handler) handleSymbols(w http.ResponseWriter, r *http.Request) {
	var req SymbolsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.Symbols, &req)
}

func (h *handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.serve(w, r, h.eps.Answer, &req)
}

func (h *handler) handleGuide(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.eps.Guide, nil)
}

func (h *handler) handleListDicts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.eps.Dicts, nil)
}

// --- health ---

type healthResponse struct {
	Status       string `json:"status"`
	Dictionaries int    `json:"dictionaries"`
	TotalEntries int    `json:"total_entries"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Dictionaries: h.reg.DictCount(),
		TotalEntries: h.reg.TotalEntries(),
	})
}

// --- helpers ---

func (h *handler) serve(w http.ResponseWriter, r *http.Request, e kit.Endpoint, req any) {
	resp, err := e(r.Context(), req)
	if err != nil {
		if errors.Is(err, errBadRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		observe.Logger(r.Context()).Error("endpoint failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// localeMatcher picks the best transcribable language from a caller's
// preferences.
var (
	transcribable = []language.Tag{language.English, language.Italian}
	localeMatcher = language.NewMatcher(transcribable)
)

// acceptLocale records the caller's preferred transcribable language so
// endpoints can default to it. Preferences with no transcriber leave the
// default in place.
func acceptLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Accept-Language"); h != "" {
			if loc := matchLocale(h); loc != "" {
				r = r.WithContext(kit.WithLocale(r.Context(), loc))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// matchLocale returns the caller's own tag for the matched language
// ("it-IT" rather than "it"), or "" when nothing matches.
func matchLocale(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return ""
	}
	want, _ := transcribable[idx].Base()
	for _, t := range tags {
		if b, _ := t.Base(); b == want {
			return t.String()
		}
	}
	return want.String()
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
