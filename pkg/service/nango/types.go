package nango

import (
	"context"
	"encoding/json"
	"net/url"
)

// Client is the interface to the Nango connector bridge. Every call is
// made on behalf of a pre-authenticated connection; OAuth token storage
// and refresh live entirely on the Nango side.
type Client interface {
	// Proxy forwards an HTTP call to the provider API through the Nango
	// proxy endpoint. Non-2xx transport responses come back as
	// classified errors, never as a response value.
	Proxy(ctx context.Context, req *ProxyRequest) (json.RawMessage, error)

	// TriggerAction invokes a named server-side action bound to the
	// connection. Providers that refuse raw endpoint calls for an
	// operation (e.g. Slack message sends) are reached this way.
	TriggerAction(ctx context.Context, req *ActionRequest) (json.RawMessage, error)
}

// ProxyRequest describes one proxied provider call.
type ProxyRequest struct {
	ConnectionID string
	Method       string
	Endpoint     string
	Params       url.Values
	Body         any
}

// ActionRequest describes one action trigger.
type ActionRequest struct {
	ConnectionID string
	Action       string
	Input        any
}
