package slackchat

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/hermes/pkg/domain/model/integration"
	"github.com/secmon-lab/hermes/pkg/domain/types"
	"github.com/secmon-lab/hermes/pkg/service/nango"
	"github.com/secmon-lab/hermes/pkg/utils/logging"
)

const (
	integrationName        = "Slack"
	integrationDescription = "Slack chat operations through the Nango connector bridge"
	integrationVersion     = "1.0.0"
)

// Adapter implements interfaces.ChatIntegration for Slack. All
// provider calls go through the Nango proxy on behalf of the stored
// connection; the adapter never touches OAuth tokens itself.
//
// The configuration is immutable after Initialize, so concurrent
// operations on one instance share it read-only.
type Adapter struct {
	nango   nango.Client
	enabled bool
	debug   bool

	mu    sync.RWMutex
	cfg   *integration.Config
	state types.IntegrationState
}

// Option is a functional option for adapter construction.
type Option func(*Adapter)

// WithEnabled sets the registry enabled flag.
func WithEnabled(enabled bool) Option {
	return func(a *Adapter) {
		a.enabled = enabled
	}
}

// WithDebug attaches diagnostic details and stack traces to error
// envelopes. Keep this off in production.
func WithDebug(debug bool) Option {
	return func(a *Adapter) {
		a.debug = debug
	}
}

// New creates an uninitialized Slack adapter on top of the given Nango
// client.
func New(client nango.Client, opts ...Option) (*Adapter, error) {
	if client == nil {
		return nil, goerr.New("nango client is required",
			types.WithCode(types.ErrConfigurationError))
	}

	a := &Adapter{
		nango:   client,
		enabled: true,
		state:   types.StateUninitialized,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ID returns the integration identifier.
func (a *Adapter) ID() types.IntegrationID { return types.IntegrationSlack }

// Name returns the integration display name.
func (a *Adapter) Name() string { return integrationName }

// Description returns the integration description.
func (a *Adapter) Description() string { return integrationDescription }

// Version returns the adapter version.
func (a *Adapter) Version() string { return integrationVersion }

// Enabled reports whether the adapter participates in enabled-only
// registry snapshots.
func (a *Adapter) Enabled() bool { return a.enabled }

// State returns the adapter lifecycle state.
func (a *Adapter) State() types.IntegrationState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Adapter) setState(s types.IntegrationState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

func (a *Adapter) config() *integration.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Initialize validates and stores the configuration, then probes
// connectivity. An unhealthy probe fails initialization instead of
// deferring the failure to first use. Re-initializing replaces the
// configuration wholesale.
func (a *Adapter) Initialize(ctx context.Context, cfg *integration.Config) error {
	if err := cfg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid slack integration config")
	}

	a.mu.Lock()
	a.state = types.StateInitializing
	a.cfg = cfg
	a.mu.Unlock()

	hc, err := a.TestConnection(ctx)
	if err != nil {
		a.setState(types.StateFailed)
		return goerr.Wrap(err, "connectivity probe failed")
	}
	if hc.Status == types.HealthUnhealthy {
		a.setState(types.StateFailed)
		return goerr.New("slack connection is unhealthy",
			types.WithCode(types.ErrAuthenticationFailed),
			goerr.V("checks", hc.Checks),
			goerr.V("details", hc.Details))
	}

	a.setState(types.StateReady)
	logging.From(ctx).Info("slack integration initialized",
		"connection_id", cfg.ConnectionID,
		"health", hc.Status.String(),
	)
	return nil
}

// TestConnection probes authentication, API access, and permissions.
// The authentication probe runs first; when it fails the remaining
// probes are skipped and the result is unhealthy. API access and
// permission probes run concurrently and their failures are recorded,
// never raised.
func (a *Adapter) TestConnection(ctx context.Context) (*integration.HealthCheck, error) {
	if a.config() == nil {
		return nil, goerr.New("slack integration is not configured",
			types.WithCode(types.ErrConfigurationError))
	}

	var checks integration.HealthChecks
	var authDetail, apiDetail, permDetail string

	if err := a.probe(ctx, "auth.test", nil); err != nil {
		authDetail = err.Error()
	} else {
		checks.Authentication = true
	}

	if checks.Authentication {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			if err := a.probe(egCtx, "team.info", nil); err != nil {
				apiDetail = err.Error()
				return nil
			}
			checks.APIAccess = true
			return nil
		})
		eg.Go(func() error {
			params := url.Values{"limit": []string{"1"}}
			if err := a.probe(egCtx, "conversations.list", params); err != nil {
				permDetail = err.Error()
				return nil
			}
			checks.Permissions = true
			return nil
		})
		_ = eg.Wait() // probes report through checks, never through errors
	}

	hc := integration.NewHealthCheck(checks)
	if authDetail != "" {
		hc.WithDetail("authentication", authDetail)
	}
	if apiDetail != "" {
		hc.WithDetail("apiAccess", apiDetail)
	}
	if permDetail != "" {
		hc.WithDetail("permissions", permDetail)
	}
	return hc, nil
}

// probe performs one GET call and checks the provider-level ok flag.
func (a *Adapter) probe(ctx context.Context, endpoint string, params url.Values) error {
	raw, err := a.call(ctx, endpoint, params)
	if err != nil {
		return err
	}

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return goerr.Wrap(err, "unexpected provider response",
			goerr.V("endpoint", endpoint))
	}
	if !resp.OK {
		return goerr.New("provider rejected the probe",
			goerr.V("endpoint", endpoint),
			goerr.V("provider_code", resp.Error))
	}
	return nil
}

// Metadata returns the static adapter self-description.
func (a *Adapter) Metadata() *integration.Metadata {
	return &integration.Metadata{
		ID:          types.IntegrationSlack,
		Name:        integrationName,
		Description: integrationDescription,
		Version:     integrationVersion,
		Operations: []string{
			"sendMessage",
			"getUserInfo",
			"getUsers",
			"getChannels",
			"testConnection",
		},
		Scopes: []string{
			"chat:write",
			"users:read",
			"channels:read",
			"team:read",
		},
		ConfigFields: []integration.ConfigField{
			{
				Name:        "connectionId",
				Type:        "string",
				Required:    true,
				Description: "Nango connection ID of the pre-authenticated Slack session",
			},
			{
				Name:        "defaultChannel",
				Type:        "string",
				Required:    false,
				Description: "Channel used when a send request omits one",
			},
		},
	}
}

// call is the single proxy chokepoint for every operation except
// message sends. It attaches the stored connection ID; transport
// failures arrive already classified by the Nango client.
func (a *Adapter) call(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	cfg := a.config()
	if cfg == nil {
		return nil, goerr.New("slack integration is not configured",
			types.WithCode(types.ErrConfigurationError))
	}

	return a.nango.Proxy(ctx, &nango.ProxyRequest{
		ConnectionID: cfg.ConnectionID,
		Method:       "GET",
		Endpoint:     endpoint,
		Params:       params,
	})
}

// apiResponse is the provider-level status shared by all Slack Web API
// responses.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
