package kv2

import (
	"encoding/json"
	"fmt"

	"github.com/hairyhenderson/go-vaultkv/vaultclient"
)

// Secret is a secret at a path in a KV v2 engine. It is either bare (only a
// path, before any round-trip) or wraps the response of a read or write.
type Secret struct {
	// Response is the response the secret was built from, or nil.
	Response *vaultclient.Response
	// Version is the version that was requested or written, or nil when no
	// specific version was involved.
	Version *int
	// Path is the secret's path within the engine, e.g. "foo/bar".
	Path string
}

// NewSecret builds a Secret from a response. resp may be nil, for a bare
// secret.
func NewSecret(p string, resp *vaultclient.Response) *Secret {
	return &Secret{Path: p, Response: resp}
}

// Data returns the "data" object of the response body, or nil.
func (s *Secret) Data() map[string]any {
	if s.Response == nil {
		return nil
	}

	d, _ := s.Response.Data["data"].(map[string]any)

	return d
}

// Value returns the secret's fields (the nested data.data object of a read
// response), or nil when absent.
func (s *Secret) Value() map[string]any {
	v, _ := s.Data()["data"].(map[string]any)

	return v
}

// Metadata returns the version metadata (data.metadata) of a read response,
// or nil when absent.
func (s *Secret) Metadata() map[string]any {
	m, _ := s.Data()["metadata"].(map[string]any)

	return m
}

// CurrentVersion returns the version reported by Vault: from the metadata of
// a read response, or from the body of a write response. It returns false
// when no version is known.
func (s *Secret) CurrentVersion() (int, bool) {
	if m := s.Metadata(); m != nil {
		return intValue(m["version"])
	}

	return intValue(s.Data()["version"])
}

// String renders the secret as "<path>: <JSON of its data>" - a bare secret
// renders with null data.
func (s *Secret) String() string {
	b, err := json.Marshal(s.Data())
	if err != nil {
		b = []byte(fmt.Sprintf("%q", err.Error()))
	}

	return s.Path + ": " + string(b)
}

// intValue handles the json.Number values produced by the Vault decoder, as
// well as plain numbers
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}

		return int(i), true
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
