package kv2

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by an [Engine] is an *[Error] whose Kind
// is one of these, so callers can tell which operation failed with
// errors.Is, and still reach the underlying *vaultclient.ClientError with
// errors.As.
var (
	ErrSecretRead  = errors.New("secret read failed")
	ErrSecretWrite = errors.New("secret create/update failed")
	ErrConfigure   = errors.New("engine configuration failed")
	ErrMetadata    = errors.New("secret metadata operation failed")
)

// ErrMissingData is the cause of a read error when Vault answered with a
// success status, but without the expected "data" envelope.
var ErrMissingData = errors.New("response has no data")

var errEmptyPath = errors.New("secret path must not be empty")

// Error is a path-qualified failure of a KV v2 operation.
type Error struct {
	// Kind is one of ErrSecretRead, ErrSecretWrite, ErrConfigure, or
	// ErrMetadata.
	Kind error
	// Err is the cause - usually a *vaultclient.ClientError.
	Err error
	// Path is the full API path of the request, e.g. /v1/secret/data/foo.
	Path string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
