package kv2

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/hairyhenderson/go-vaultkv/vaultclient"
)

// DefaultMount is the path the KV v2 engine is mounted at by default.
const DefaultMount = "secret"

// Engine accesses a KV v2 secrets engine through a [vaultclient.Client]. It
// holds no mutable state, and is safe for concurrent use.
type Engine struct {
	client       *vaultclient.Client
	mount        string
	dataPath     string
	metadataPath string
	configPath   string
}

// New creates an Engine for the KV v2 engine mounted at [DefaultMount], or at
// the mount given with [WithMount].
func New(client *vaultclient.Client, opts ...EngineOption) *Engine {
	e := &Engine{client: client, mount: DefaultMount}

	for _, opt := range opts {
		opt.apply(e)
	}

	base := "/v1/" + strings.Trim(e.mount, "/")
	e.dataPath = base + "/data"
	e.metadataPath = base + "/metadata"
	e.configPath = base + "/config"

	return e
}

// Mount returns the path the engine is mounted at.
func (e *Engine) Mount() string {
	return e.mount
}

// Config is the engine-wide configuration.
type Config struct {
	// DeleteVersionAfter is a duration string ("768h", "0s"); versions older
	// than this are soft-deleted. Empty means "0s" (never).
	DeleteVersionAfter string `json:"delete_version_after"`
	// MaxVersions is the number of versions to keep per secret. 0 means the
	// Vault default (10).
	MaxVersions int `json:"max_versions"`
	// CASRequired makes check-and-set mandatory for all writes.
	CASRequired bool `json:"cas_required"`
}

// Configure sets the engine-wide configuration.
func (e *Engine) Configure(ctx context.Context, cfg Config) (*vaultclient.Response, error) {
	if cfg.DeleteVersionAfter == "" {
		cfg.DeleteVersionAfter = "0s"
	}

	resp, err := e.client.Post(ctx, e.configPath, cfg)
	if err != nil {
		return nil, &Error{Kind: ErrConfigure, Path: e.configPath, Err: err}
	}

	return resp, nil
}

// ReadConfig reads the engine-wide configuration.
func (e *Engine) ReadConfig(ctx context.Context) (*Config, error) {
	resp, err := e.client.Get(ctx, e.configPath, nil)
	if err != nil {
		return nil, &Error{Kind: ErrConfigure, Path: e.configPath, Err: err}
	}

	data, ok := resp.Data["data"].(map[string]any)
	if !ok {
		return nil, &Error{Kind: ErrConfigure, Path: e.configPath, Err: ErrMissingData}
	}

	cfg := &Config{}
	cfg.MaxVersions, _ = intValue(data["max_versions"])
	cfg.CASRequired, _ = data["cas_required"].(bool)
	cfg.DeleteVersionAfter, _ = data["delete_version_after"].(string)

	return cfg, nil
}

// Read reads the latest version of the secret at p, or the version given
// with [Version]. The secret's fields are available from [Secret.Value].
func (e *Engine) Read(ctx context.Context, p string, opts ...ReadOption) (*Secret, error) {
	rc := readConfig{}
	for _, opt := range opts {
		opt(&rc)
	}

	apiPath, err := e.secretPath(e.dataPath, p)
	if err != nil {
		return nil, &Error{Kind: ErrSecretRead, Path: apiPath, Err: err}
	}

	var params url.Values
	if rc.version != nil {
		params = url.Values{"version": {strconv.Itoa(*rc.version)}}
	}

	resp, err := e.client.Get(ctx, apiPath, params)
	if err != nil {
		return nil, &Error{Kind: ErrSecretRead, Path: apiPath, Err: err}
	}

	if _, ok := resp.Data["data"].(map[string]any); !ok {
		return nil, &Error{Kind: ErrSecretRead, Path: apiPath, Err: ErrMissingData}
	}

	s := NewSecret(p, resp)
	s.Version = rc.version

	return s, nil
}

// CreateOrUpdate writes data as a new version of the secret at p. With
// [CAS], the write only succeeds if the secret's current version matches;
// a mismatch fails with [ErrSecretWrite].
//
// The returned secret wraps the write response, which carries the new
// version's metadata (see [Secret.CurrentVersion]) but not the data.
func (e *Engine) CreateOrUpdate(ctx context.Context, p string, data map[string]any,
	opts ...WriteOption,
) (*Secret, error) {
	wc := writeConfig{}
	for _, opt := range opts {
		opt(&wc)
	}

	apiPath, err := e.secretPath(e.dataPath, p)
	if err != nil {
		return nil, &Error{Kind: ErrSecretWrite, Path: apiPath, Err: err}
	}

	options := map[string]any{}
	if wc.cas != nil {
		options["cas"] = *wc.cas
	}

	if data == nil {
		data = map[string]any{}
	}

	body := map[string]any{"data": data, "options": options}

	resp, err := e.client.Post(ctx, apiPath, body)
	if err != nil {
		return nil, &Error{Kind: ErrSecretWrite, Path: apiPath, Err: err}
	}

	s := NewSecret(p, resp)
	s.Version = wc.cas

	return s, nil
}

// ReadMetadata reads the version history and settings of the secret at p.
// The body's "data" object is returned, e.g. with "current_version" and
// "versions" keys.
func (e *Engine) ReadMetadata(ctx context.Context, p string) (map[string]any, error) {
	apiPath, err := e.secretPath(e.metadataPath, p)
	if err != nil {
		return nil, &Error{Kind: ErrMetadata, Path: apiPath, Err: err}
	}

	resp, err := e.client.Get(ctx, apiPath, nil)
	if err != nil {
		return nil, &Error{Kind: ErrMetadata, Path: apiPath, Err: err}
	}

	data, ok := resp.Data["data"].(map[string]any)
	if !ok {
		return nil, &Error{Kind: ErrMetadata, Path: apiPath, Err: ErrMissingData}
	}

	return data, nil
}

// DeleteMetadata permanently deletes the secret at p, with all of its
// versions and metadata.
func (e *Engine) DeleteMetadata(ctx context.Context, p string) error {
	apiPath, err := e.secretPath(e.metadataPath, p)
	if err != nil {
		return &Error{Kind: ErrMetadata, Path: apiPath, Err: err}
	}

	if _, err := e.client.Delete(ctx, apiPath, nil); err != nil {
		return &Error{Kind: ErrMetadata, Path: apiPath, Err: err}
	}

	return nil
}

// List lists the keys directly under prefix ("" for the root of the engine).
// Keys ending in "/" are sub-directories. Vault answers 404 when there are
// no keys at all, which is returned as an error like any other.
func (e *Engine) List(ctx context.Context, prefix string) ([]string, error) {
	apiPath := e.metadataPath + "/"
	if p := strings.Trim(prefix, "/"); p != "" {
		apiPath += p + "/"
	}

	resp, err := e.client.List(ctx, apiPath, nil)
	if err != nil {
		return nil, &Error{Kind: ErrMetadata, Path: apiPath, Err: err}
	}

	data, _ := resp.Data["data"].(map[string]any)

	keys, ok := data["keys"].([]any)
	if !ok {
		return nil, &Error{
			Kind: ErrMetadata, Path: apiPath,
			Err: fmt.Errorf("keys missing from LIST response: %w", ErrMissingData),
		}
	}

	out := make([]string, 0, len(keys))

	for _, k := range keys {
		if s, ok := k.(string); ok {
			out = append(out, s)
		}
	}

	return out, nil
}

// secretPath joins a secret path under one of the engine's prefixes
func (e *Engine) secretPath(prefix, p string) (string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return prefix, errEmptyPath
	}

	return path.Join(prefix, p), nil
}
