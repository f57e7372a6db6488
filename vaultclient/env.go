package vaultclient

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/hairyhenderson/go-vaultkv/internal/env"
)

// DefaultAddress is used when $VAULT_ADDR is not set.
const DefaultAddress = "https://127.0.0.1:8200"

// EnvConfig holds connection parameters read from the environment.
type EnvConfig struct {
	Address   string
	Token     string
	Namespace string
}

// FromEnv reads the connection parameters from the same environment
// variables the Vault CLI uses:
//
//	$VAULT_ADDR		// defaults to DefaultAddress
//	$VAULT_TOKEN		// falls back to the $HOME/.vault-token file
//	$VAULT_NAMESPACE	// optional
//
// Each variable may instead be given as a file reference by appending _FILE
// to its name (e.g. $VAULT_TOKEN_FILE=/run/secrets/vault-token).
func FromEnv() (*EnvConfig, error) {
	return fromEnvFS(os.DirFS("/"))
}

func fromEnvFS(fsys fs.FS) (*EnvConfig, error) {
	cfg := &EnvConfig{
		Address:   env.GetenvFS(fsys, "VAULT_ADDR", DefaultAddress),
		Token:     env.GetenvFS(fsys, "VAULT_TOKEN"),
		Namespace: env.GetenvFS(fsys, "VAULT_NAMESPACE"),
	}

	if cfg.Token != "" {
		return cfg, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("no $VAULT_TOKEN set, and no home directory: %w", err)
	}

	p := strings.TrimPrefix(path.Join(homeDir, ".vault-token"), "/")

	b, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("no $VAULT_TOKEN set, and failed to read .vault-token file from %q: %w", homeDir, err)
	}

	cfg.Token = strings.TrimSpace(string(b))

	return cfg, nil
}

// NewClient creates a Client from the environment configuration. The
// namespace, when set, is applied before opts, so opts may override it.
func (e *EnvConfig) NewClient(opts ...Option) (*Client, error) {
	if e.Namespace != "" {
		opts = append([]Option{WithNamespace(e.Namespace)}, opts...)
	}

	return New(e.Address, e.Token, opts...)
}
