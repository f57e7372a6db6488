package kv2

// EngineOption configures an [Engine].
type EngineOption interface {
	apply(*Engine)
}

type engineOptionFunc func(*Engine)

func (o engineOptionFunc) apply(e *Engine) {
	o(e)
}

// WithMount sets the path the engine is mounted at. The default is
// [DefaultMount].
func WithMount(mount string) EngineOption {
	return engineOptionFunc(func(e *Engine) {
		if mount != "" {
			e.mount = mount
		}
	})
}

// ReadOption configures a single [Engine.Read].
type ReadOption func(*readConfig)

type readConfig struct {
	version *int
}

// Version reads a specific version of the secret, rather than the latest.
// Version 0 means the latest version.
func Version(n int) ReadOption {
	return func(c *readConfig) {
		c.version = &n
	}
}

// WriteOption configures a single [Engine.CreateOrUpdate].
type WriteOption func(*writeConfig)

type writeConfig struct {
	cas *int
}

// CAS makes the write conditional on the secret's current version being n
// (check-and-set). CAS(0) only succeeds if the secret does not exist yet.
func CAS(n int) WriteOption {
	return func(c *writeConfig) {
		c.cas = &n
	}
}
