package slackchat

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/secmon-lab/hermes/pkg/domain/model/chat"
	"github.com/secmon-lab/hermes/pkg/domain/model/integration"
	"github.com/secmon-lab/hermes/pkg/domain/types"
	"github.com/secmon-lab/hermes/pkg/service/nango"
)

// sendMessageAction is the Nango action dispatching message sends.
// Slack requires sends to go through this server-side action instead of
// a raw proxied endpoint call.
const sendMessageAction = "send-message"

func success[T any](data T) *integration.Envelope[T] {
	return integration.OK(types.IntegrationSlack, integrationVersion, data)
}

func failure[T any](a *Adapter, err error) *integration.Envelope[T] {
	return integration.Fail[T](types.IntegrationSlack, integrationVersion,
		integration.ErrorFrom(err, a.debug))
}

func failWith[T any](e *integration.Error) *integration.Envelope[T] {
	return integration.Fail[T](types.IntegrationSlack, integrationVersion, e)
}

// SendMessage posts a message to a channel. The request channel falls
// back to the configured default channel before validation. Provider
// rejections come back as an API_ERROR envelope carrying a remediation
// suggestion in error.details.
func (a *Adapter) SendMessage(ctx context.Context, req *chat.SendMessageRequest) *integration.Envelope[*chat.StandardMessage] {
	cfg := a.config()
	if cfg == nil {
		return failure[*chat.StandardMessage](a, goerr.New("slack integration is not configured",
			types.WithCode(types.ErrConfigurationError)))
	}

	r := *req
	if r.Channel == "" {
		r.Channel = cfg.DefaultChannel
	}
	if err := r.Validate(); err != nil {
		return failure[*chat.StandardMessage](a, err)
	}

	input := map[string]any{
		"channel": r.Channel,
		"text":    r.Text,
	}
	if r.ThreadTS != "" {
		input["thread_ts"] = r.ThreadTS
	}
	if r.Markdown {
		input["mrkdwn"] = true
	}

	raw, err := a.nango.TriggerAction(ctx, &nango.ActionRequest{
		ConnectionID: cfg.ConnectionID,
		Action:       sendMessageAction,
		Input:        input,
	})
	if err != nil {
		return failure[*chat.StandardMessage](a, err)
	}

	var resp postMessageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return failure[*chat.StandardMessage](a, goerr.Wrap(err, "unexpected send response",
			types.WithCode(types.ErrAPIError)))
	}

	if !resp.OK {
		e := integration.NewError(types.ErrAPIError, "provider rejected the message send").
			WithDetail("provider_code", resp.Error).
			WithDetail("suggestions", []string{suggestionFor(resp.Error)})
		return failWith[*chat.StandardMessage](e)
	}

	channelID := resp.Channel
	if channelID == "" {
		channelID = r.Channel
	}

	msg := resp.Message
	if msg == nil {
		msg = &slack.Msg{Timestamp: resp.TS, Text: r.Text}
	}
	if msg.Timestamp == "" {
		msg.Timestamp = resp.TS
	}

	return success(toStandardMessage(channelID, msg))
}

// GetUserInfo looks up a single user. An unsuccessful provider response
// or missing user payload is RESOURCE_NOT_FOUND, never a generic API
// error.
func (a *Adapter) GetUserInfo(ctx context.Context, req *chat.GetUserInfoRequest) *integration.Envelope[*chat.StandardUser] {
	if err := req.Validate(); err != nil {
		return failure[*chat.StandardUser](a, err)
	}

	params := url.Values{"user": []string{req.UserID}}
	raw, err := a.call(ctx, "users.info", params)
	if err != nil {
		return failure[*chat.StandardUser](a, err)
	}

	var resp userInfoResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return failure[*chat.StandardUser](a, goerr.Wrap(err, "unexpected user response",
			types.WithCode(types.ErrAPIError)))
	}

	if !resp.OK || resp.User == nil || resp.User.ID == "" {
		return failure[*chat.StandardUser](a, goerr.New("user not found",
			types.WithCode(types.ErrResourceNotFound),
			goerr.V("user_id", req.UserID),
			goerr.V("provider_code", resp.Error)))
	}

	return success(toStandardUser(resp.User))
}

// GetUsers lists users with opaque cursor pagination. The cursor is
// forwarded from the provider untouched.
func (a *Adapter) GetUsers(ctx context.Context, req *chat.GetUsersRequest) *integration.Envelope[*chat.UsersPage] {
	r := *req
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return failure[*chat.UsersPage](a, err)
	}

	params := url.Values{"limit": []string{strconv.Itoa(r.Limit)}}
	if r.Cursor != "" {
		params.Set("cursor", r.Cursor)
	}
	if r.IncludeLocale {
		params.Set("include_locale", "true")
	}

	raw, err := a.call(ctx, "users.list", params)
	if err != nil {
		return failure[*chat.UsersPage](a, err)
	}

	var resp usersListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return failure[*chat.UsersPage](a, goerr.Wrap(err, "unexpected users response",
			types.WithCode(types.ErrAPIError)))
	}
	if !resp.OK {
		return failure[*chat.UsersPage](a, goerr.New("provider rejected the user list call",
			types.WithCode(types.ErrAPIError),
			goerr.V("provider_code", resp.Error)))
	}

	page := &chat.UsersPage{
		Users:      make([]*chat.StandardUser, 0, len(resp.Members)),
		NextCursor: resp.ResponseMetadata.NextCursor,
	}
	for i := range resp.Members {
		if resp.Members[i].ID == "" {
			continue
		}
		page.Users = append(page.Users, toStandardUser(&resp.Members[i]))
	}

	return success(page)
}

// GetChannels lists channels with opaque cursor pagination.
func (a *Adapter) GetChannels(ctx context.Context, req *chat.GetChannelsRequest) *integration.Envelope[*chat.ChannelsPage] {
	r := *req
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return failure[*chat.ChannelsPage](a, err)
	}

	params := url.Values{
		"limit":            []string{strconv.Itoa(r.Limit)},
		"types":            []string{providerChannelTypes(r.Types)},
		"exclude_archived": []string{strconv.FormatBool(*r.ExcludeArchived)},
	}
	if r.Cursor != "" {
		params.Set("cursor", r.Cursor)
	}

	raw, err := a.call(ctx, "conversations.list", params)
	if err != nil {
		return failure[*chat.ChannelsPage](a, err)
	}

	var resp channelsListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return failure[*chat.ChannelsPage](a, goerr.Wrap(err, "unexpected channels response",
			types.WithCode(types.ErrAPIError)))
	}
	if !resp.OK {
		return failure[*chat.ChannelsPage](a, goerr.New("provider rejected the channel list call",
			types.WithCode(types.ErrAPIError),
			goerr.V("provider_code", resp.Error)))
	}

	page := &chat.ChannelsPage{
		Channels:   make([]*chat.StandardChannel, 0, len(resp.Channels)),
		NextCursor: resp.ResponseMetadata.NextCursor,
	}
	for i := range resp.Channels {
		if resp.Channels[i].ID == "" {
			continue
		}
		page.Channels = append(page.Channels, toStandardChannel(&resp.Channels[i]))
	}

	return success(page)
}

// providerChannelTypes renders the type filter in the provider's
// conversations.list vocabulary.
func providerChannelTypes(filter []types.ChannelType) string {
	names := make([]string, 0, len(filter))
	for _, t := range filter {
		switch t {
		case types.ChannelPublic:
			names = append(names, "public_channel")
		case types.ChannelPrivate:
			names = append(names, "private_channel")
		case types.ChannelDirect:
			names = append(names, "im")
		case types.ChannelGroup:
			names = append(names, "mpim")
		}
	}
	return strings.Join(names, ",")
}

type userInfoResponse struct {
	apiResponse
	User *slack.User `json:"user"`
}

type usersListResponse struct {
	apiResponse
	Members          []slack.User `json:"members"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

type channelsListResponse struct {
	apiResponse
	Channels         []slack.Channel `json:"channels"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

type postMessageResponse struct {
	apiResponse
	Channel string     `json:"channel"`
	TS      string     `json:"ts"`
	Message *slack.Msg `json:"message"`
}
