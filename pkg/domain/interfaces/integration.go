package interfaces

import (
	"context"

	"github.com/secmon-lab/hermes/pkg/domain/model/chat"
	"github.com/secmon-lab/hermes/pkg/domain/model/integration"
	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// Integration is the capability set every adapter implements. Identity
// fields (ID, Name, Description, Version) are fixed per adapter type,
// not per instance.
type Integration interface {
	ID() types.IntegrationID
	Name() string
	Description() string
	Version() string

	// Enabled reports whether the adapter participates in
	// Registry.GetEnabled snapshots.
	Enabled() bool

	// State reports the adapter lifecycle state. It reflects
	// configuration presence only; a failed health check does not demote
	// a Ready adapter.
	State() types.IntegrationState

	// Initialize validates the configuration, stores it, and performs a
	// connectivity probe. A failed probe fails initialization loudly
	// instead of deferring the failure to first use.
	Initialize(ctx context.Context, cfg *integration.Config) error

	// TestConnection probes authentication, API access, and permissions.
	// Permission probe failures are recorded, never raised.
	TestConnection(ctx context.Context) (*integration.HealthCheck, error)

	// Metadata returns the static adapter self-description.
	Metadata() *integration.Metadata
}

// ChatIntegration extends Integration with the chat operation set.
// Every operation returns an envelope; raw errors never escape the
// adapter boundary.
type ChatIntegration interface {
	Integration

	SendMessage(ctx context.Context, req *chat.SendMessageRequest) *integration.Envelope[*chat.StandardMessage]
	GetUserInfo(ctx context.Context, req *chat.GetUserInfoRequest) *integration.Envelope[*chat.StandardUser]
	GetUsers(ctx context.Context, req *chat.GetUsersRequest) *integration.Envelope[*chat.UsersPage]
	GetChannels(ctx context.Context, req *chat.GetChannelsRequest) *integration.Envelope[*chat.ChannelsPage]
}
