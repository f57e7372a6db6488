package vaultclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

//nolint:gochecknoglobals
var (
	prop     = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	exporter = tracetest.NewInMemoryExporter()
	tp       = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
)

func attribmap(kvs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs))

	for _, attr := range kvs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}

	return m
}

func TestTracing(t *testing.T) {
	exporter.Reset()

	srv, req := newTestServer(t, http.StatusOK, `{}`)

	c, err := New(srv.URL, "abc123",
		WithNamespace("ns1"), WithTracerProvider(tp), WithPropagators(prop))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/v1/sys/health", nil)
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	assert.Equal(t, "vault.GET", spans[0].Name)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, map[string]interface{}{
		"http.request.method": "GET",
		"url.full":            srv.URL + "/v1/sys/health",
		"vault.namespace":     "ns1",
		"vault.status_code":   int64(200),
		"vault.status":        "SUCCESS_DATA",
	}, attribmap(spans[0].Attributes))

	// the span context is propagated to Vault
	assert.Contains(t, req.header.Get("Traceparent"), spans[0].SpanContext.TraceID().String())
}

func TestTracing_Errors(t *testing.T) {
	exporter.Reset()

	srv, _ := newTestServer(t, http.StatusNotFound, `{"errors":[]}`)

	c, err := New(srv.URL, "abc123", WithTracerProvider(tp), WithPropagators(prop))
	require.NoError(t, err)

	_, err = c.List(context.Background(), "/v1/secret/metadata/", nil)
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	assert.Equal(t, "vault.LIST", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "INVALID_PATH", attribmap(spans[0].Attributes)["vault.status"])
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)

	exporter.Reset()
	srv.Close()

	_, err = c.Get(context.Background(), "/v1/sys/health", nil)
	require.Error(t, err)

	spans = exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.NotContains(t, attribmap(spans[0].Attributes), "vault.status_code")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	srv, _ := newTestServer(t, http.StatusForbidden, `{"errors":["permission denied"]}`)

	c, err := New(srv.URL, "abc123", WithRegisterer(reg))
	require.NoError(t, err)

	// a second client shares the collectors
	c2, err := New(srv.URL, "abc123", WithRegisterer(reg))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/v1/secret/data/foo", nil)
	require.Error(t, err)

	_, err = c2.Get(context.Background(), "/v1/secret/data/foo", nil)
	require.Error(t, err)

	unknown, _ := newTestServer(t, http.StatusTeapot, "")

	_, err = c.MakeRequest(context.Background(), http.MethodGet, unknown.URL+"/v1/sys/health", nil, nil)
	require.Error(t, err)

	assert.InDelta(t, 2, testutil.ToFloat64(c.metrics.requests.WithLabelValues("GET", "FORBIDDEN")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.requests.WithLabelValues("GET", unknownStatusLabel)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(c.metrics.requests))
	assert.Equal(t, 1, testutil.CollectAndCount(c.metrics.duration))

	srv.Close()

	_, err = c.Get(context.Background(), "/v1/sys/health", nil)
	require.Error(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.requests.WithLabelValues("GET", transportErrorLabel)), 0)
}

func TestMetrics_Disabled(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)

	c, err := New(srv.URL, "abc123")
	require.NoError(t, err)
	assert.Nil(t, c.metrics)

	_, err = c.Get(context.Background(), "/v1/sys/health", nil)
	require.NoError(t, err)
}
