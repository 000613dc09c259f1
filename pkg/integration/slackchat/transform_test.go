package slackchat_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack"

	"github.com/secmon-lab/hermes/pkg/domain/model/chat"
	"github.com/secmon-lab/hermes/pkg/domain/types"
	"github.com/secmon-lab/hermes/pkg/integration/slackchat"
)

func TestToStandardUser_NamePrecedence(t *testing.T) {
	tests := []struct {
		name string
		user slack.User
		want string
	}{
		{
			name: "display name wins",
			user: slack.User{
				ID:       "U1",
				Name:     "handle",
				RealName: "Top Real",
				Profile: slack.UserProfile{
					DisplayName: "Display",
					RealName:    "Profile Real",
				},
			},
			want: "Display",
		},
		{
			name: "profile real name beats top-level real name",
			user: slack.User{
				ID:       "U1",
				Name:     "handle",
				RealName: "Top Real",
				Profile: slack.UserProfile{
					RealName: "Profile Real",
				},
			},
			want: "Profile Real",
		},
		{
			name: "top-level real name beats handle",
			user: slack.User{
				ID:       "U1",
				Name:     "handle",
				RealName: "Top Real",
			},
			want: "Top Real",
		},
		{
			name: "handle beats ID",
			user: slack.User{
				ID:   "U1",
				Name: "handle",
			},
			want: "handle",
		},
		{
			name: "ID is the last resort",
			user: slack.User{ID: "U1"},
			want: "U1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slackchat.ToStandardUser(&tt.user)
			gt.S(t, got.Name).Equal(tt.want)
			gt.S(t, got.ID).Equal(tt.user.ID)
		})
	}
}

func TestToStandardUser_Metadata(t *testing.T) {
	user := slack.User{
		ID:      "U2",
		Name:    "botty",
		IsBot:   true,
		IsAdmin: true,
		Deleted: true,
		TZ:      "Asia/Tokyo",
		Profile: slack.UserProfile{
			Email:    "botty@example.com",
			Image192: "https://example.com/192.png",
			Image72:  "https://example.com/72.png",
		},
	}

	got := slackchat.ToStandardUser(&user)
	gt.S(t, got.Email).Equal("botty@example.com")
	gt.S(t, got.Avatar).Equal("https://example.com/192.png")
	gt.S(t, got.Metadata[chat.UserMetaIsBot]).Equal("true")
	gt.S(t, got.Metadata[chat.UserMetaIsAdmin]).Equal("true")
	gt.S(t, got.Metadata[chat.UserMetaDeleted]).Equal("true")
	gt.S(t, got.Metadata[chat.UserMetaTimezone]).Equal("Asia/Tokyo")
}

func TestToStandardUser_Status(t *testing.T) {
	tests := []struct {
		name string
		user slack.User
		want types.UserStatus
	}{
		{
			name: "active presence",
			user: slack.User{ID: "U1", Presence: "active"},
			want: types.UserOnline,
		},
		{
			name: "away presence",
			user: slack.User{ID: "U1", Presence: "away"},
			want: types.UserAway,
		},
		{
			name: "no presence",
			user: slack.User{ID: "U1"},
			want: types.UserOffline,
		},
		{
			name: "busy emoji overrides presence",
			user: slack.User{
				ID:       "U1",
				Presence: "active",
				Profile:  slack.UserProfile{StatusEmoji: ":no_entry_sign:"},
			},
			want: types.UserBusy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slackchat.ToStandardUser(&tt.user)
			gt.V(t, got.Status).Equal(tt.want)
		})
	}
}

func TestToStandardUser_Deterministic(t *testing.T) {
	user := slack.User{
		ID:       "U3",
		Name:     "handle",
		RealName: "Real",
		Profile:  slack.UserProfile{DisplayName: "Display"},
	}

	first := slackchat.ToStandardUser(&user)
	second := slackchat.ToStandardUser(&user)
	gt.V(t, first).Equal(second)

	// feeding the standardized fields back through re-derives the same
	// id, name, and status
	again := slackchat.ToStandardUser(&slack.User{ID: first.ID, Name: first.Name})
	gt.S(t, again.ID).Equal(first.ID)
	gt.S(t, again.Name).Equal(first.Name)
	gt.V(t, again.Status).Equal(first.Status)
}

func TestToStandardChannel_TypeDerivation(t *testing.T) {
	tests := []struct {
		name string
		conv slack.Conversation
		want types.ChannelType
	}{
		{
			name: "im is direct",
			conv: slack.Conversation{ID: "D1", IsIM: true},
			want: types.ChannelDirect,
		},
		{
			name: "im wins over private",
			conv: slack.Conversation{ID: "D1", IsIM: true, IsPrivate: true},
			want: types.ChannelDirect,
		},
		{
			name: "mpim is group",
			conv: slack.Conversation{ID: "G1", IsMpIM: true, IsPrivate: true},
			want: types.ChannelGroup,
		},
		{
			name: "group flag with private flag is group",
			conv: slack.Conversation{ID: "G1", IsGroup: true, IsPrivate: true},
			want: types.ChannelGroup,
		},
		{
			name: "private only",
			conv: slack.Conversation{ID: "C1", IsPrivate: true},
			want: types.ChannelPrivate,
		},
		{
			name: "no flags is public",
			conv: slack.Conversation{ID: "C1"},
			want: types.ChannelPublic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := slack.Channel{
				GroupConversation: slack.GroupConversation{Conversation: tt.conv},
			}
			got := slackchat.ToStandardChannel(&ch)
			gt.V(t, got.Type).Equal(tt.want)
		})
	}
}

func TestToStandardChannel_Fields(t *testing.T) {
	ch := slack.Channel{
		GroupConversation: slack.GroupConversation{
			Conversation: slack.Conversation{
				ID:         "C42",
				NumMembers: 7,
				IsShared:   true,
			},
			Name:       "general",
			IsArchived: true,
			Purpose:    slack.Purpose{Value: "Company-wide announcements"},
		},
		IsGeneral: true,
		IsMember:  true,
	}

	got := slackchat.ToStandardChannel(&ch)
	gt.S(t, got.ID).Equal("C42")
	gt.S(t, got.Name).Equal("general")
	gt.S(t, got.Description).Equal("Company-wide announcements")
	gt.N(t, got.MemberCount).Equal(7)
	gt.S(t, got.Metadata[chat.ChannelMetaArchived]).Equal("true")
	gt.S(t, got.Metadata[chat.ChannelMetaGeneral]).Equal("true")
	gt.S(t, got.Metadata[chat.ChannelMetaShared]).Equal("true")
	gt.S(t, got.Metadata[chat.ChannelMetaMember]).Equal("true")
}

func TestToStandardChannel_NameFallback(t *testing.T) {
	t.Run("normalized name", func(t *testing.T) {
		ch := slack.Channel{
			GroupConversation: slack.GroupConversation{
				Conversation: slack.Conversation{ID: "C1", NameNormalized: "norm"},
			},
		}
		gt.S(t, slackchat.ToStandardChannel(&ch).Name).Equal("norm")
	})

	t.Run("im falls back to counterpart user", func(t *testing.T) {
		ch := slack.Channel{
			GroupConversation: slack.GroupConversation{
				Conversation: slack.Conversation{ID: "D1", IsIM: true, User: "U9"},
			},
		}
		gt.S(t, slackchat.ToStandardChannel(&ch).Name).Equal("U9")
	})

	t.Run("ID is the last resort", func(t *testing.T) {
		ch := slack.Channel{
			GroupConversation: slack.GroupConversation{
				Conversation: slack.Conversation{ID: "C1"},
			},
		}
		gt.S(t, slackchat.ToStandardChannel(&ch).Name).Equal("C1")
	})
}

func TestToStandardMessage(t *testing.T) {
	msg := slack.Msg{
		Timestamp:       "1700000000.000100",
		Text:            "hello",
		User:            "U1",
		Username:        "alice",
		ThreadTimestamp: "1699999999.000001",
		ReplyCount:      3,
		Reactions: []slack.ItemReaction{
			{Name: "thumbsup"},
			{Name: "eyes"},
		},
	}

	got := slackchat.ToStandardMessage("C1", &msg)
	gt.S(t, got.ID).Equal("1700000000.000100")
	gt.S(t, got.Content).Equal("hello")
	gt.V(t, got.Type).Equal(types.MessageText)
	gt.V(t, got.Sender).NotNil()
	gt.S(t, got.Sender.ID).Equal("U1")
	gt.S(t, got.Sender.Name).Equal("alice")
	gt.V(t, got.Channel).NotNil()
	gt.S(t, got.Channel.ID).Equal("C1")
	gt.V(t, got.Timestamp).Equal(time.UnixMilli(1700000000000).UTC())
	gt.S(t, got.Metadata[chat.MessageMetaThreadID]).Equal("1699999999.000001")
	gt.S(t, got.Metadata[chat.MessageMetaReplyCount]).Equal("3")
	gt.S(t, got.Metadata[chat.MessageMetaReactions]).Equal("thumbsup,eyes")
	_, unparsed := got.Metadata[chat.MessageMetaTSUnparsed]
	gt.B(t, unparsed).False()
}

func TestToStandardMessage_UnparsableTimestamp(t *testing.T) {
	msg := slack.Msg{Timestamp: "not-a-timestamp", Text: "hi"}

	got := slackchat.ToStandardMessage("", &msg)
	gt.S(t, got.ID).Equal("not-a-timestamp")
	gt.B(t, got.Timestamp.IsZero()).True()
	gt.S(t, got.Metadata[chat.MessageMetaTSUnparsed]).Equal("true")
	gt.V(t, got.Sender).Nil()
	gt.V(t, got.Channel).Nil()
}

func TestMessageType(t *testing.T) {
	tests := []struct {
		name string
		msg  slack.Msg
		want types.MessageType
	}{
		{
			name: "plain text",
			msg:  slack.Msg{Text: "hi"},
			want: types.MessageText,
		},
		{
			name: "bot message is text",
			msg:  slack.Msg{SubType: "bot_message"},
			want: types.MessageText,
		},
		{
			name: "channel join is system",
			msg:  slack.Msg{SubType: "channel_join"},
			want: types.MessageSystem,
		},
		{
			name: "all image files",
			msg: slack.Msg{Files: []slack.File{
				{ID: "F1", Mimetype: "image/png"},
				{ID: "F2", Mimetype: "image/jpeg"},
			}},
			want: types.MessageImage,
		},
		{
			name: "mixed files downgrade to file",
			msg: slack.Msg{Files: []slack.File{
				{ID: "F1", Mimetype: "image/png"},
				{ID: "F2", Mimetype: "application/pdf"},
			}},
			want: types.MessageFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slackchat.ToStandardMessage("C1", &tt.msg)
			gt.V(t, got.Type).Equal(tt.want)
		})
	}
}

func TestToAttachment(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		f := slack.File{
			ID:         "F1",
			Name:       "report.pdf",
			Mimetype:   "application/pdf",
			URLPrivate: "https://example.com/private",
			Permalink:  "https://example.com/permalink",
			Size:       2048,
			PrettyType: "PDF",
		}
		got := slackchat.ToAttachment(&f)
		gt.S(t, got.Name).Equal("report.pdf")
		gt.S(t, got.Type).Equal("application/pdf")
		gt.S(t, got.URL).Equal("https://example.com/private")
		gt.N(t, got.Size).Equal(2048)
		gt.S(t, got.Metadata["pretty_type"]).Equal("PDF")
	})

	t.Run("empty record gets placeholders", func(t *testing.T) {
		got := slackchat.ToAttachment(&slack.File{ID: "F2"})
		gt.S(t, got.Name).Equal(chat.AttachmentNamePlaceholder)
		gt.S(t, got.Type).Equal(chat.AttachmentTypeUnknown)
		gt.S(t, got.URL).Equal("")
	})
}

func TestParseMessageTS(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "seconds with fraction",
			input: "1700000000.000100",
			want:  time.UnixMilli(1700000000000).UTC(),
			ok:    true,
		},
		{
			name:  "bare seconds",
			input: "1700000000",
			want:  time.UnixMilli(1700000000000).UTC(),
			ok:    true,
		},
		{
			name:  "sub-second precision kept to milliseconds",
			input: "1700000000.5",
			want:  time.UnixMilli(1700000000500).UTC(),
			ok:    true,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
		{
			name:  "not a number",
			input: "yesterday",
			ok:    false,
		},
		{
			name:  "negative",
			input: "-5",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := slackchat.ParseMessageTS(tt.input)
			if !tt.ok {
				gt.B(t, ok).False()
				return
			}
			gt.B(t, ok).True()
			gt.V(t, got).Equal(tt.want)
		})
	}
}

func TestSuggestionFor(t *testing.T) {
	gt.S(t, slackchat.SuggestionFor("not_in_channel")).
		Equal("Invite the app to the channel before sending (/invite in Slack).")
	gt.S(t, slackchat.SuggestionFor("no_such_code")).
		Equal("Check the provider error code against the Slack Web API documentation.")
}
