package nango

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hermes/pkg/domain/types"
	"github.com/secmon-lab/hermes/pkg/utils/safe"
)

const defaultBaseURL = "https://api.nango.dev"

// HTTPClient is the transport used by the client. *http.Client
// satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type client struct {
	http              HTTPClient
	baseURL           string
	secretKey         string
	providerConfigKey string
}

// Option is a functional option for client configuration.
type Option func(*client)

// WithBaseURL overrides the Nango API base URL.
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the HTTP transport.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *client) {
		c.http = hc
	}
}

// New creates a Nango client. secretKey authenticates against the Nango
// API; providerConfigKey routes proxy calls to the provider
// configuration registered on the Nango side.
func New(secretKey, providerConfigKey string, opts ...Option) (Client, error) {
	if secretKey == "" {
		return nil, goerr.New("Nango secret key is required",
			types.WithCode(types.ErrConfigurationError))
	}
	if providerConfigKey == "" {
		return nil, goerr.New("Nango provider config key is required",
			types.WithCode(types.ErrConfigurationError))
	}

	c := &client{
		http:              http.DefaultClient,
		baseURL:           defaultBaseURL,
		secretKey:         secretKey,
		providerConfigKey: providerConfigKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Proxy forwards a provider API call through the Nango proxy.
func (c *client) Proxy(ctx context.Context, req *ProxyRequest) (json.RawMessage, error) {
	if req.ConnectionID == "" {
		return nil, goerr.New("connection ID is required for proxy call",
			types.WithCode(types.ErrConfigurationError))
	}

	endpoint := strings.TrimLeft(req.Endpoint, "/")
	u := c.baseURL + "/proxy/" + endpoint
	if len(req.Params) > 0 {
		u += "?" + req.Params.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	return c.do(ctx, method, u, req.ConnectionID, req.Body)
}

// TriggerAction invokes a named Nango action for the connection.
func (c *client) TriggerAction(ctx context.Context, req *ActionRequest) (json.RawMessage, error) {
	if req.ConnectionID == "" {
		return nil, goerr.New("connection ID is required for action trigger",
			types.WithCode(types.ErrConfigurationError))
	}
	if req.Action == "" {
		return nil, goerr.New("action name is required",
			types.WithCode(types.ErrConfigurationError))
	}

	body := map[string]any{
		"action_name": req.Action,
		"input":       req.Input,
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/action/trigger", req.ConnectionID, body)
}

func (c *client) do(ctx context.Context, method, rawURL, connectionID string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.V("url", rawURL))
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Connection-Id", connectionID)
	httpReq.Header.Set("Provider-Config-Key", c.providerConfigKey)
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, goerr.Wrap(err, "connector request failed",
			types.WithCode(types.ErrServiceUnavailable),
			goerr.V("url", rawURL))
	}
	defer safe.Close(ctx, resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read connector response",
			types.WithCode(types.ErrAPIError))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, goerr.New("connector returned an error status",
			types.WithCode(classifyStatus(resp.StatusCode)),
			goerr.V("status", resp.StatusCode),
			goerr.V("url", rawURL),
			goerr.V("body", truncate(string(data), 512)),
		)
	}

	return json.RawMessage(data), nil
}

// classifyStatus maps transport-level failures to the error taxonomy
// before they reach per-operation handling.
func classifyStatus(status int) types.ErrCode {
	switch status {
	case http.StatusUnauthorized:
		return types.ErrAuthenticationFailed
	case http.StatusForbidden:
		return types.ErrInsufficientPermissions
	case http.StatusTooManyRequests:
		return types.ErrRateLimited
	default:
		return types.ErrAPIError
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
