// Package vaultclient is a minimal client for the Hashicorp Vault HTTP API.
//
// A [Client] issues authenticated requests and classifies every outcome into
// either a [Response] or a *[ClientError]. It does not try to model the
// whole Vault API - see the kv2 package for the versioned key/value secrets
// engine, built on top of this one.
//
// # Usage
//
// Create a client with a base address and a token:
//
//	client, err := vaultclient.New("https://vault.example.com:8200", token)
//
// Or read the address, token, and namespace from the environment the way
// the Vault CLI does:
//
//	cfg, err := vaultclient.FromEnv()
//	client, err := cfg.NewClient()
//
// Requests are sent with [Client.Get], [Client.List], [Client.Put],
// [Client.Post], and [Client.Delete], each taking an API path such as
// "/v1/sys/health", or with [Client.MakeRequest] for an absolute URL.
//
// # Status codes
//
// Vault overloads HTTP status codes with operational meaning, so a plain
// 2xx check is not enough. Every response status is classified into one of
// the [StatusCode] values; 200, 204, 429 (standby node) and 473 (performance
// standby node) are success-like and return a [Response]. Other known codes,
// and any code that is not in the table at all, return a *[ClientError].
//
// # Errors
//
// A *[ClientError] is either a transport error (no response was received -
// see [ClientError.Transport]) or a status error, carrying the HTTP status
// code and the response body. Nothing is retried: the underlying Vault
// client is built with retries disabled unless [WithConfig] says otherwise.
//
// # Instrumentation
//
// Each request is traced with OpenTelemetry (see [WithTracerProvider]),
// optionally logged at debug level (see [WithLogger]), and optionally
// counted with Prometheus metrics (see [WithRegisterer]).
package vaultclient
