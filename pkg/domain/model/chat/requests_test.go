package chat_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hermes/pkg/domain/model/chat"
	"github.com/secmon-lab/hermes/pkg/domain/types"
)

func TestSendMessageRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      chat.SendMessageRequest
		wantCode types.ErrCode
	}{
		{
			name: "valid request",
			req:  chat.SendMessageRequest{Channel: "C123", Text: "hello"},
		},
		{
			name:     "missing channel",
			req:      chat.SendMessageRequest{Text: "hello"},
			wantCode: types.ErrMissingRequiredField,
		},
		{
			name:     "missing text",
			req:      chat.SendMessageRequest{Channel: "C123"},
			wantCode: types.ErrMissingRequiredField,
		},
		{
			name:     "missing both",
			req:      chat.SendMessageRequest{},
			wantCode: types.ErrMissingRequiredField,
		},
		{
			name: "text at the length bound",
			req:  chat.SendMessageRequest{Channel: "C123", Text: strings.Repeat("a", chat.MaxMessageLength)},
		},
		{
			name:     "text over the length bound",
			req:      chat.SendMessageRequest{Channel: "C123", Text: strings.Repeat("a", chat.MaxMessageLength+1)},
			wantCode: types.ErrInvalidRequest,
		},
		{
			// bounds count characters, not bytes
			name: "multi-byte text at the length bound",
			req:  chat.SendMessageRequest{Channel: "C123", Text: strings.Repeat("こ", chat.MaxMessageLength)},
		},
		{
			name:     "multi-byte text over the length bound",
			req:      chat.SendMessageRequest{Channel: "C123", Text: strings.Repeat("こ", chat.MaxMessageLength+1)},
			wantCode: types.ErrInvalidRequest,
		},
		{
			name:     "missing channel takes missing-field code even with oversized text",
			req:      chat.SendMessageRequest{Text: strings.Repeat("a", chat.MaxMessageLength+1)},
			wantCode: types.ErrMissingRequiredField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantCode == "" {
				gt.NoError(t, err)
				return
			}
			gt.Error(t, err)
			gt.V(t, types.CodeOf(err)).Equal(tt.wantCode)
		})
	}
}

func TestGetUserInfoRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := chat.GetUserInfoRequest{UserID: "U123"}
		gt.NoError(t, req.Validate())
	})

	t.Run("missing user ID", func(t *testing.T) {
		req := chat.GetUserInfoRequest{}
		err := req.Validate()
		gt.Error(t, err)
		gt.V(t, types.CodeOf(err)).Equal(types.ErrMissingRequiredField)
	})
}

func TestGetUsersRequest_Defaults(t *testing.T) {
	t.Run("zero limit gets the default", func(t *testing.T) {
		req := chat.GetUsersRequest{}
		req.ApplyDefaults()
		gt.N(t, req.Limit).Equal(chat.DefaultPageLimit)
		gt.NoError(t, req.Validate())
	})

	t.Run("explicit limit is kept", func(t *testing.T) {
		req := chat.GetUsersRequest{Limit: 7}
		req.ApplyDefaults()
		gt.N(t, req.Limit).Equal(7)
	})
}

func TestGetUsersRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{name: "lower bound", limit: chat.MinPageLimit},
		{name: "upper bound", limit: chat.MaxPageLimit},
		{name: "below lower bound", limit: chat.MinPageLimit - 1, wantErr: true},
		{name: "above upper bound", limit: chat.MaxPageLimit + 1, wantErr: true},
		{name: "negative", limit: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := chat.GetUsersRequest{Limit: tt.limit}
			err := req.Validate()
			if tt.wantErr {
				gt.Error(t, err)
				gt.V(t, types.CodeOf(err)).Equal(types.ErrInvalidRequest)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestGetChannelsRequest_Defaults(t *testing.T) {
	req := chat.GetChannelsRequest{}
	req.ApplyDefaults()

	gt.N(t, req.Limit).Equal(chat.DefaultPageLimit)
	gt.V(t, req.ExcludeArchived).NotNil()
	gt.B(t, *req.ExcludeArchived).True()
	gt.A(t, req.Types).Length(2).
		Has(types.ChannelPublic).
		Has(types.ChannelPrivate)
}

func TestGetChannelsRequest_DefaultsKeepExplicitValues(t *testing.T) {
	include := false
	req := chat.GetChannelsRequest{
		Limit:           50,
		Types:           []types.ChannelType{types.ChannelDirect},
		ExcludeArchived: &include,
	}
	req.ApplyDefaults()

	gt.N(t, req.Limit).Equal(50)
	gt.B(t, *req.ExcludeArchived).False()
	gt.A(t, req.Types).Length(1).Has(types.ChannelDirect)
}

func TestGetChannelsRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     chat.GetChannelsRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: chat.GetChannelsRequest{
				Limit: 100,
				Types: []types.ChannelType{types.ChannelPublic},
			},
		},
		{
			name:    "limit out of bounds",
			req:     chat.GetChannelsRequest{Limit: chat.MaxPageLimit + 1},
			wantErr: true,
		},
		{
			name: "unknown channel type",
			req: chat.GetChannelsRequest{
				Limit: 100,
				Types: []types.ChannelType{types.ChannelType("secret")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}
