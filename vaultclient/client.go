package vaultclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MethodList is the non-standard HTTP verb Vault uses for listing keys.
const MethodList = "LIST"

const tracerName = "github.com/hairyhenderson/go-vaultkv/vaultclient"

// Client issues authenticated requests to the Vault HTTP API and classifies
// the results. The connection context (address, token, fixed headers) is set
// up once in [New] and never changes afterwards, so a Client is safe for
// concurrent use.
type Client struct {
	vault       *api.Client
	base        *url.URL
	tracer      trace.Tracer
	propagators propagation.TextMapPropagator
	logger      *slog.Logger
	metrics     *metrics
	namespace   string
}

// New creates a Client for the Vault server at addr, authenticating every
// request with token.
//
// The client may be configured with:
//
//	WithNamespace		// send X-Vault-Namespace
//	WithHeaders		// add fixed headers
//	WithConfig		// customise the underlying transport
//	WithTracerProvider	// trace requests
//	WithPropagators		// propagate trace context
//	WithLogger		// debug-log requests
//	WithRegisterer		// record request metrics
func New(addr, token string, opts ...Option) (*Client, error) {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	base, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid vault address %q: %w", addr, err)
	}

	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("invalid vault address %q: must be an absolute URL", addr)
	}

	vc := cfg.vaultConfig
	if vc == nil {
		vc = api.DefaultConfig()
		if vc.Error != nil {
			return nil, fmt.Errorf("vault configuration error: %w", vc.Error)
		}

		// failures are always surfaced to the caller, never retried here
		vc.MaxRetries = 0
		vc.AgentAddress = ""
	}

	vc.Address = base.String()

	vault, err := api.NewClient(vc)
	if err != nil {
		return nil, fmt.Errorf("vault client creation failed: %w", err)
	}

	vault.SetToken(token)

	headers := cfg.headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}

	headers.Del("X-Vault-Token")
	headers.Set("Content-Type", "application/json")

	// replaces any headers (including a namespace) picked up from the
	// environment by api.NewClient
	vault.SetHeaders(headers)

	if cfg.namespace != "" {
		vault.SetNamespace(cfg.namespace)
	}

	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}

	if cfg.propagators == nil {
		cfg.propagators = otel.GetTextMapPropagator()
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Client{
		vault:       vault,
		base:        base,
		tracer:      cfg.tp.Tracer(tracerName),
		propagators: cfg.propagators,
		logger:      cfg.logger,
		namespace:   cfg.namespace,
	}

	if cfg.registerer != nil {
		c.metrics, err = newMetrics(cfg.registerer)
		if err != nil {
			return nil, fmt.Errorf("register vault client metrics: %w", err)
		}
	}

	return c, nil
}

// Address returns the base address of the Vault server.
func (c *Client) Address() string {
	return c.base.String()
}

// Namespace returns the configured namespace, or "" if none.
func (c *Client) Namespace() string {
	return c.namespace
}

// Headers returns a copy of the fixed headers sent with every request. The
// token is sent separately and is not included.
func (c *Client) Headers() http.Header {
	return c.vault.Headers()
}

// URL resolves apiPath (e.g. "/v1/sys/health") against the base address.
func (c *Client) URL(apiPath string) (string, error) {
	rel, err := url.Parse(apiPath)
	if err != nil {
		return "", err
	}

	return c.base.ResolveReference(rel).String(), nil
}

// Get sends a GET request for apiPath, with optional query parameters.
func (c *Client) Get(ctx context.Context, apiPath string, params url.Values) (*Response, error) {
	return c.call(ctx, http.MethodGet, apiPath, params, nil)
}

// List sends a LIST request for apiPath, with optional query parameters.
func (c *Client) List(ctx context.Context, apiPath string, params url.Values) (*Response, error) {
	return c.call(ctx, MethodList, apiPath, params, nil)
}

// Delete sends a DELETE request for apiPath, with optional query parameters.
func (c *Client) Delete(ctx context.Context, apiPath string, params url.Values) (*Response, error) {
	return c.call(ctx, http.MethodDelete, apiPath, params, nil)
}

// Put sends a PUT request for apiPath with body encoded as JSON.
func (c *Client) Put(ctx context.Context, apiPath string, body any) (*Response, error) {
	return c.call(ctx, http.MethodPut, apiPath, nil, body)
}

// Post sends a POST request for apiPath with body encoded as JSON.
func (c *Client) Post(ctx context.Context, apiPath string, body any) (*Response, error) {
	return c.call(ctx, http.MethodPost, apiPath, nil, body)
}

func (c *Client) call(ctx context.Context, method, apiPath string, params url.Values, body any) (*Response, error) {
	u, err := c.URL(apiPath)
	if err != nil {
		return nil, &ClientError{Method: method, URL: apiPath, Err: err}
	}

	return c.MakeRequest(ctx, method, u, params, body)
}

// MakeRequest sends a request to the absolute URL rawURL and classifies the
// response. Query parameters already present in rawURL are merged with
// params. A non-nil body is sent as JSON.
//
// Success-like responses (see [StatusCode.OK]) are returned with their
// decoded body - an empty or unparseable body decodes to an empty map. All
// other outcomes return a *[ClientError].
func (c *Client) MakeRequest(ctx context.Context, method, rawURL string, params url.Values, body any) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &ClientError{Method: method, URL: rawURL, Err: err}
	}

	q := u.Query()

	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	displayURL := redactURL(u)

	attrs := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(methodAttr(method), urlAttr(displayURL)),
	}
	if c.namespace != "" {
		attrs = append(attrs, trace.WithAttributes(namespaceAttr(c.namespace)))
	}

	ctx, span := c.tracer.Start(ctx, "vault."+method, attrs...)
	defer span.End()

	start := time.Now()
	resp, err := c.roundTrip(ctx, method, displayURL, u, q, body)
	c.record(ctx, span, method, displayURL, resp, err, time.Since(start))

	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, method, displayURL string, u *url.URL,
	q url.Values, body any,
) (*Response, error) {
	req := c.vault.NewRequest(method, u.Path)
	req.URL.Scheme = u.Scheme
	req.URL.Host = u.Host
	req.URL.User = u.User
	req.URL.Path = u.Path
	req.URL.RawPath = u.RawPath
	req.Host = u.Host
	req.Params = q

	if req.Headers == nil {
		req.Headers = http.Header{}
	}

	c.propagators.Inject(ctx, propagation.HeaderCarrier(req.Headers))

	if body != nil {
		if err := req.SetJSONBody(body); err != nil {
			return nil, &ClientError{
				Method: method, URL: displayURL,
				Err: fmt.Errorf("failed to encode request body: %w", err),
			}
		}
	}

	resp, err := c.vault.RawRequestWithContext(ctx, req)

	// a ResponseError or an unfollowable redirect still means Vault answered
	rerr := &api.ResponseError{}

	switch {
	case resp == nil || resp.Response == nil:
	case err == nil, errors.As(err, &rerr), isRedirect(resp.StatusCode):
		defer resp.Body.Close()

		return classify(method, displayURL, resp)
	default:
		_ = resp.Body.Close()
	}

	if err == nil {
		err = errors.New("no response received")
	}

	return nil, &ClientError{Method: method, URL: displayURL, Err: err}
}

func isRedirect(code int) bool {
	return code >= 300 && code < 400
}

func classify(method, displayURL string, resp *api.Response) (*Response, error) {
	status, err := ParseStatusCode(resp.StatusCode)
	if err != nil || !status.OK() {
		if err == nil {
			err = fmt.Errorf("%w: %s", ErrStatus, status)
		}

		raw, _ := io.ReadAll(resp.Body)

		return nil, &ClientError{
			Method:     method,
			URL:        displayURL,
			StatusCode: resp.StatusCode,
			Body:       renderBody(raw),
			Err:        err,
		}
	}

	data := map[string]any{}
	if err := resp.DecodeJSON(&data); err != nil || data == nil {
		// empty (e.g. 204) and non-JSON bodies are not an error
		data = map[string]any{}
	}

	return &Response{Data: data, StatusCode: status, Errors: bodyErrors(data)}, nil
}

func (c *Client) record(ctx context.Context, span trace.Span, method, displayURL string,
	resp *Response, err error, elapsed time.Duration,
) {
	code := 0
	label := transportErrorLabel

	if resp != nil {
		code = int(resp.StatusCode)
		label = resp.StatusCode.String()
	} else if cerr := (&ClientError{}); errors.As(err, &cerr) && !cerr.Transport() {
		code = cerr.StatusCode
		label = unknownStatusLabel

		if s, perr := ParseStatusCode(code); perr == nil {
			label = s.String()
		}
	}

	if code != 0 {
		span.SetAttributes(statusCodeAttr(code))

		if s := StatusCode(code); s.Valid() {
			span.SetAttributes(statusAttr(s))
		}
	}

	c.metrics.observe(method, label, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		c.logger.DebugContext(ctx, "vault request failed",
			slog.String("method", method),
			slog.String("url", displayURL),
			slog.Int("status", code),
			slog.Duration("duration", elapsed),
			slog.Any("err", err))

		return
	}

	c.logger.DebugContext(ctx, "vault request",
		slog.String("method", method),
		slog.String("url", displayURL),
		slog.Int("status", code),
		slog.Duration("duration", elapsed))
}

// redactURL renders u without its query string or user info
func redactURL(u *url.URL) string {
	d := *u
	d.User = nil
	d.RawQuery = ""
	d.ForceQuery = false

	return d.String()
}

// renderBody renders an error body for humans - JSON is re-serialized
// compactly, anything else is returned as text
func renderBody(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}

	return strings.TrimSpace(string(raw))
}
