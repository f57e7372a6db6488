package vaultclient

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	methodKey     = attribute.Key("http.request.method")
	urlKey        = attribute.Key("url.full")
	statusCodeKey = attribute.Key("vault.status_code")
	statusKey     = attribute.Key("vault.status")
	namespaceKey  = attribute.Key("vault.namespace")
)

// The HTTP method of the request.
//
// Type: string
// Required: Yes
// Examples: "GET", "LIST"
func methodAttr(method string) attribute.KeyValue {
	return methodKey.String(method)
}

// The URL of the request, without the query string.
//
// Type: string
// Required: Yes
// Examples: "https://vault.example.com:8200/v1/secret/data/foo"
func urlAttr(u string) attribute.KeyValue {
	return urlKey.String(u)
}

// The raw HTTP status code returned by Vault.
//
// Type: int
// Required: No
// Examples: 200, 404
func statusCodeAttr(code int) attribute.KeyValue {
	return statusCodeKey.Int(code)
}

// The classification of the status code.
//
// Type: string
// Required: No
// Examples: "SUCCESS_DATA", "INVALID_PATH"
func statusAttr(s StatusCode) attribute.KeyValue {
	return statusKey.String(s.String())
}

// The Vault Enterprise namespace the request is scoped to.
//
// Type: string
// Required: No
// Examples: "ns1", "team/prod"
func namespaceAttr(ns string) attribute.KeyValue {
	return namespaceKey.String(ns)
}
