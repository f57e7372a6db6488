// Package fakevault provides an in-process fake of a Vault server with a
// versioned key/value (KV v2) secrets engine, for use in tests.
package fakevault

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Token is the only token the fake accepts.
const Token = "00000000-1111-2222-3333-444455556666"

// Mount is the path the fake KV v2 engine is mounted at.
const Mount = "secret"

type secretVersion struct {
	created time.Time
	data    map[string]any
}

type engineConfig struct {
	MaxVersions        int    `json:"max_versions"`
	CASRequired        bool   `json:"cas_required"`
	DeleteVersionAfter string `json:"delete_version_after"`
}

// Server is a fake Vault server. It is safe for concurrent use.
type Server struct {
	*httptest.Server
	t *testing.T

	secrets map[string][]secretVersion
	config  engineConfig
	mu      sync.Mutex
}

// New starts a fake Vault server, which is closed when the test finishes.
func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		t:       t,
		secrets: map[string][]secretVersion{},
		config:  engineConfig{DeleteVersionAfter: "0s"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sys/health", healthHandler)
	mux.Handle("/v1/"+Mount+"/", s.authenticated(http.HandlerFunc(s.kvHandler)))
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeErrors(w, http.StatusNotFound)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

// Put stores a new version of a secret directly, bypassing the API.
func (s *Server) Put(p string, data map[string]any) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.secrets[p] = append(s.secrets[p], secretVersion{created: time.Now().UTC(), data: data})

	return len(s.secrets[p])
}

// Versions returns the number of versions stored for a secret.
func (s *Server) Versions(p string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.secrets[p])
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	code := http.StatusOK
	if c := r.URL.Query().Get("standbycode"); c != "" {
		code, _ = strconv.Atoi(c)
	}

	writeJSON(w, code, map[string]any{
		"initialized": true,
		"sealed":      false,
		"standby":     code != http.StatusOK,
	})
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != Token {
			writeErrors(w, http.StatusForbidden, "permission denied")

			return
		}

		next.ServeHTTP(w, r)
	})
}

//nolint:gocyclo
func (s *Server) kvHandler(w http.ResponseWriter, r *http.Request) {
	s.t.Logf("fakevault: %s %s", r.Method, r.URL)

	method := r.Method
	if method == http.MethodGet && r.URL.Query().Get("list") == "true" {
		method = "LIST"
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/"+Mount+"/")

	switch {
	case rest == "config":
		switch method {
		case http.MethodGet:
			s.readConfig(w)
		case http.MethodPost, http.MethodPut:
			s.writeConfig(w, r)
		default:
			writeErrors(w, http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(rest, "data/"):
		p := strings.TrimPrefix(rest, "data/")

		switch method {
		case http.MethodGet:
			s.readData(w, r, p)
		case http.MethodPost, http.MethodPut:
			s.writeData(w, r, p)
		default:
			writeErrors(w, http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(rest, "metadata/") || rest == "metadata":
		p := strings.TrimPrefix(strings.TrimPrefix(rest, "metadata"), "/")

		switch method {
		case http.MethodGet:
			s.readMetadata(w, p)
		case http.MethodDelete:
			s.deleteMetadata(w, p)
		case "LIST":
			s.list(w, p)
		default:
			writeErrors(w, http.StatusMethodNotAllowed)
		}
	default:
		writeErrors(w, http.StatusNotFound)
	}
}

func (s *Server) readConfig(w http.ResponseWriter) {
	s.mu.Lock()
	cfg := s.config
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"data": cfg})
}

func (s *Server) writeConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeErrors(w, http.StatusBadRequest, "failed to parse JSON input: "+err.Error())

		return
	}

	s.config = cfg

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) readData(w http.ResponseWriter, r *http.Request, p string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions := s.secrets[p]

	n := len(versions)
	if v := r.URL.Query().Get("version"); v != "" {
		var err error

		n, err = strconv.Atoi(v)
		if err != nil {
			writeErrors(w, http.StatusBadRequest, "invalid version")

			return
		}

		if n == 0 {
			n = len(versions)
		}
	}

	if n < 1 || n > len(versions) {
		writeErrors(w, http.StatusNotFound)

		return
	}

	sv := versions[n-1]

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"data":     sv.data,
			"metadata": versionMetadata(n, sv),
		},
	})
}

func (s *Server) writeData(w http.ResponseWriter, r *http.Request, p string) {
	body := struct {
		Data    map[string]any `json:"data"`
		Options struct {
			CAS *int `json:"cas"`
		} `json:"options"`
	}{}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrors(w, http.StatusBadRequest, "failed to parse JSON input: "+err.Error())

		return
	}

	if body.Data == nil {
		writeErrors(w, http.StatusBadRequest, "no data provided")

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := len(s.secrets[p])

	if body.Options.CAS == nil && s.config.CASRequired {
		writeErrors(w, http.StatusBadRequest, "check-and-set parameter required for this call")

		return
	}

	if body.Options.CAS != nil && *body.Options.CAS != current {
		writeErrors(w, http.StatusBadRequest, "check-and-set parameter did not match the current version")

		return
	}

	sv := secretVersion{created: time.Now().UTC(), data: body.Data}
	s.secrets[p] = append(s.secrets[p], sv)

	writeJSON(w, http.StatusOK, map[string]any{
		"data": versionMetadata(current+1, sv),
	})
}

func (s *Server) readMetadata(w http.ResponseWriter, p string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, ok := s.secrets[p]
	if !ok {
		writeErrors(w, http.StatusNotFound)

		return
	}

	vm := make(map[string]any, len(versions))
	for i, sv := range versions {
		vm[strconv.Itoa(i+1)] = versionMetadata(i+1, sv)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"current_version": len(versions),
			"oldest_version":  1,
			"max_versions":    s.config.MaxVersions,
			"cas_required":    s.config.CASRequired,
			"created_time":    versions[0].created.Format(time.RFC3339Nano),
			"updated_time":    versions[len(versions)-1].created.Format(time.RFC3339Nano),
			"versions":        vm,
		},
	})
}

func (s *Server) deleteMetadata(w http.ResponseWriter, p string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.secrets, p)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) list(w http.ResponseWriter, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	seen := map[string]struct{}{}

	for k := range s.secrets {
		if !strings.HasPrefix(k, prefix) {
			continue
		}

		child := strings.TrimPrefix(k, prefix)
		if i := strings.Index(child, "/"); i >= 0 {
			child = child[:i+1]
		}

		seen[child] = struct{}{}
	}

	if len(seen) == 0 {
		writeErrors(w, http.StatusNotFound)

		return
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"keys": keys}})
}

func versionMetadata(n int, sv secretVersion) map[string]any {
	return map[string]any{
		"created_time":    sv.created.Format(time.RFC3339Nano),
		"custom_metadata": nil,
		"deletion_time":   "",
		"destroyed":       false,
		"version":         n,
	}
}

func writeErrors(w http.ResponseWriter, code int, errs ...string) {
	if errs == nil {
		errs = []string{}
	}

	writeJSON(w, code, map[string]any{"errors": errs})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_ = json.NewEncoder(w).Encode(v)
}
