package chat

import (
	"fmt"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// Input bounds shared by the operation schemas.
const (
	MaxMessageLength = 4000
	MinPageLimit     = 1
	MaxPageLimit     = 1000
	DefaultPageLimit = 100
)

// SendMessageRequest is the input schema of the send-message operation.
type SendMessageRequest struct {
	Channel  string `json:"channel"`
	Text     string `json:"text"`
	ThreadTS string `json:"threadTs,omitempty"`
	Markdown bool   `json:"markdown,omitempty"`
}

// Validate checks the request against the operation schema. All issues
// are aggregated into a single error; the operation must not proceed
// partially on failure.
func (x *SendMessageRequest) Validate() error {
	var issues []string
	code := types.ErrInvalidRequest

	if x.Channel == "" {
		issues = append(issues, "channel is required")
		code = types.ErrMissingRequiredField
	}
	if x.Text == "" {
		issues = append(issues, "text is required")
		code = types.ErrMissingRequiredField
	} else if utf8.RuneCountInString(x.Text) > MaxMessageLength {
		issues = append(issues, fmt.Sprintf("text exceeds %d characters", MaxMessageLength))
	}

	if len(issues) > 0 {
		return goerr.New("invalid send-message request",
			types.WithCode(code), goerr.V("issues", issues))
	}
	return nil
}

// GetUserInfoRequest is the input schema of the get-user-info operation.
type GetUserInfoRequest struct {
	UserID string `json:"userId"`
}

// Validate checks the request against the operation schema.
func (x *GetUserInfoRequest) Validate() error {
	if x.UserID == "" {
		return goerr.New("invalid get-user-info request",
			types.WithCode(types.ErrMissingRequiredField),
			goerr.V("issues", []string{"userId is required"}))
	}
	return nil
}

// GetUsersRequest is the input schema of the list-users operation.
type GetUsersRequest struct {
	Limit         int    `json:"limit,omitempty"`
	Cursor        string `json:"cursor,omitempty"`
	IncludeLocale bool   `json:"includeLocale,omitempty"`
}

// ApplyDefaults fills schema defaults. Defaults live here, not in
// adapter logic, so they are independently testable.
func (x *GetUsersRequest) ApplyDefaults() {
	if x.Limit == 0 {
		x.Limit = DefaultPageLimit
	}
}

// Validate checks the request against the operation schema.
func (x *GetUsersRequest) Validate() error {
	if x.Limit < MinPageLimit || x.Limit > MaxPageLimit {
		return goerr.New("invalid list-users request",
			types.WithCode(types.ErrInvalidRequest),
			goerr.V("issues", []string{fmt.Sprintf("limit must be within [%d, %d]", MinPageLimit, MaxPageLimit)}))
	}
	return nil
}

// GetChannelsRequest is the input schema of the list-channels operation.
type GetChannelsRequest struct {
	Limit           int                 `json:"limit,omitempty"`
	Cursor          string              `json:"cursor,omitempty"`
	Types           []types.ChannelType `json:"types,omitempty"`
	ExcludeArchived *bool               `json:"excludeArchived,omitempty"`
}

// ApplyDefaults fills schema defaults: limit 100, archived exclusion
// on, and public+private channel types.
func (x *GetChannelsRequest) ApplyDefaults() {
	if x.Limit == 0 {
		x.Limit = DefaultPageLimit
	}
	if x.ExcludeArchived == nil {
		v := true
		x.ExcludeArchived = &v
	}
	if len(x.Types) == 0 {
		x.Types = []types.ChannelType{types.ChannelPublic, types.ChannelPrivate}
	}
}

// Validate checks the request against the operation schema.
func (x *GetChannelsRequest) Validate() error {
	var issues []string
	if x.Limit < MinPageLimit || x.Limit > MaxPageLimit {
		issues = append(issues, fmt.Sprintf("limit must be within [%d, %d]", MinPageLimit, MaxPageLimit))
	}
	for _, t := range x.Types {
		if !t.IsValid() {
			issues = append(issues, fmt.Sprintf("unknown channel type: %s", t))
		}
	}
	if len(issues) > 0 {
		return goerr.New("invalid list-channels request",
			types.WithCode(types.ErrInvalidRequest), goerr.V("issues", issues))
	}
	return nil
}
