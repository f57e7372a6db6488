package vaultclient

import (
	"log/slog"
	"net/http"

	"github.com/hashicorp/vault/api"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Client] at construction time.
type Option interface {
	apply(*config)
}

type config struct {
	vaultConfig *api.Config
	headers     http.Header
	propagators propagation.TextMapPropagator
	tp          trace.TracerProvider
	logger      *slog.Logger
	registerer  prometheus.Registerer
	namespace   string
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

// WithNamespace scopes every request to the given Vault Enterprise namespace,
// by sending it in the X-Vault-Namespace header.
func WithNamespace(namespace string) Option {
	return optionFunc(func(cfg *config) {
		cfg.namespace = namespace
	})
}

// WithHeaders adds fixed headers to every request. The token, content type,
// and namespace headers always take precedence over these.
func WithHeaders(headers http.Header) Option {
	return optionFunc(func(cfg *config) {
		if cfg.headers == nil {
			cfg.headers = http.Header{}
		}

		for k, vs := range headers {
			for _, v := range vs {
				cfg.headers.Add(k, v)
			}
		}
	})
}

// WithConfig uses the given Vault API configuration to build the underlying
// transport. Timeouts, TLS, proxies, and socket-level retries are all taken
// from it as-is. The address given to [New] overrides config.Address when
// set.
//
// When this option is not given, [api.DefaultConfig] is used with retries
// disabled.
func WithConfig(vaultConfig *api.Config) Option {
	return optionFunc(func(cfg *config) {
		cfg.vaultConfig = vaultConfig
	})
}

// WithTracerProvider specifies a tracer provider to use for creating a tracer.
// If none is specified, the global provider is used (see [otel.GetTracerProvider]).
func WithTracerProvider(provider trace.TracerProvider) Option {
	return optionFunc(func(cfg *config) {
		if provider != nil {
			cfg.tp = provider
		}
	})
}

// WithPropagators specifies propagators to use for injecting trace context
// into outgoing requests. If none are specified, global ones will be used.
func WithPropagators(propagators propagation.TextMapPropagator) Option {
	return optionFunc(func(cfg *config) {
		if propagators != nil {
			cfg.propagators = propagators
		}
	})
}

// WithLogger sets the logger used for per-request debug logging. By default
// nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithRegisterer enables request metrics, registering the collectors with
// the given Prometheus registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return optionFunc(func(cfg *config) {
		cfg.registerer = reg
	})
}
