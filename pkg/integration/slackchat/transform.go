package slackchat

import (
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/secmon-lab/hermes/pkg/domain/model/chat"
	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// Transform functions are pure: every legal provider shape maps to a
// fully populated standardized entity, with optional fields left empty
// rather than failing. Callers must reject records without an ID before
// transforming; that is a data-integrity condition, not a transform
// concern.

// toStandardUser maps a provider user to the standardized shape.
// Profile-scoped fields win over top-level ones: many providers
// populate both with different values.
func toStandardUser(user *slack.User) *chat.StandardUser {
	name := firstNonEmpty(
		user.Profile.DisplayName,
		user.Profile.RealName,
		user.RealName,
		user.Name,
		user.ID,
	)

	su := &chat.StandardUser{
		ID:     user.ID,
		Name:   name,
		Email:  user.Profile.Email,
		Avatar: firstNonEmpty(user.Profile.Image512, user.Profile.Image192, user.Profile.Image72),
		Status: userStatus(user),
	}

	meta := make(map[string]string)
	if user.IsBot {
		meta[chat.UserMetaIsBot] = "true"
	}
	if user.IsAdmin {
		meta[chat.UserMetaIsAdmin] = "true"
	}
	if user.Deleted {
		meta[chat.UserMetaDeleted] = "true"
	}
	if user.TZ != "" {
		meta[chat.UserMetaTimezone] = user.TZ
	}
	if len(meta) > 0 {
		su.Metadata = meta
	}
	return su
}

// userStatus derives a presence snapshot. The result is informational,
// not authoritative.
func userStatus(user *slack.User) types.UserStatus {
	if user.Profile.StatusEmoji == ":no_entry_sign:" {
		return types.UserBusy
	}
	switch user.Presence {
	case "active":
		return types.UserOnline
	case "away":
		return types.UserAway
	default:
		return types.UserOffline
	}
}

// toStandardChannel maps a provider conversation to the standardized
// shape. Type derivation precedence is fixed:
// direct > group > private > public.
func toStandardChannel(ch *slack.Channel) *chat.StandardChannel {
	sc := &chat.StandardChannel{
		ID:          ch.ID,
		Name:        firstNonEmpty(ch.Name, ch.NameNormalized, ch.User, ch.ID),
		Description: ch.Purpose.Value,
		Type:        channelType(ch),
		MemberCount: ch.NumMembers,
	}

	meta := make(map[string]string)
	if ch.IsArchived {
		meta[chat.ChannelMetaArchived] = "true"
	}
	if ch.IsGeneral {
		meta[chat.ChannelMetaGeneral] = "true"
	}
	if ch.IsShared {
		meta[chat.ChannelMetaShared] = "true"
	}
	if ch.IsMember {
		meta[chat.ChannelMetaMember] = "true"
	}
	if len(meta) > 0 {
		sc.Metadata = meta
	}
	return sc
}

func channelType(ch *slack.Channel) types.ChannelType {
	switch {
	case ch.IsIM:
		return types.ChannelDirect
	case ch.IsMpIM || ch.IsGroup:
		return types.ChannelGroup
	case ch.IsPrivate:
		return types.ChannelPrivate
	default:
		return types.ChannelPublic
	}
}

// toStandardMessage maps a provider message to the standardized shape.
// The provider message ID doubles as the ordering key, and the
// timestamp is derived from it.
func toStandardMessage(channelID string, msg *slack.Msg) *chat.StandardMessage {
	sm := &chat.StandardMessage{
		ID:      msg.Timestamp,
		Content: msg.Text,
		Type:    messageType(msg),
	}

	if msg.User != "" || msg.Username != "" {
		sm.Sender = &chat.StandardUser{
			ID:     msg.User,
			Name:   firstNonEmpty(msg.Username, msg.User),
			Status: types.UserOffline,
		}
	}
	if channelID != "" {
		sm.Channel = &chat.StandardChannel{
			ID:   channelID,
			Name: channelID,
			Type: types.ChannelPublic,
		}
	}

	meta := make(map[string]string)
	ts, ok := parseMessageTS(msg.Timestamp)
	if ok {
		sm.Timestamp = ts
	} else {
		// The provider ID is assumed to be a decimal seconds-since-epoch
		// string; that assumption is validated here instead of trusted.
		meta[chat.MessageMetaTSUnparsed] = "true"
	}

	if msg.ThreadTimestamp != "" {
		meta[chat.MessageMetaThreadID] = msg.ThreadTimestamp
	}
	if msg.ReplyCount > 0 {
		meta[chat.MessageMetaReplyCount] = strconv.Itoa(msg.ReplyCount)
	}
	if len(msg.Reactions) > 0 {
		names := make([]string, 0, len(msg.Reactions))
		for _, r := range msg.Reactions {
			names = append(names, r.Name)
		}
		meta[chat.MessageMetaReactions] = strings.Join(names, ",")
	}
	if len(meta) > 0 {
		sm.Metadata = meta
	}

	for i := range msg.Files {
		sm.Attachments = append(sm.Attachments, toAttachment(&msg.Files[i]))
	}
	return sm
}

func messageType(msg *slack.Msg) types.MessageType {
	if len(msg.Files) > 0 {
		for i := range msg.Files {
			if !strings.HasPrefix(msg.Files[i].Mimetype, "image/") {
				return types.MessageFile
			}
		}
		return types.MessageImage
	}
	switch msg.SubType {
	case "", "bot_message", "thread_broadcast", "me_message":
		return types.MessageText
	default:
		return types.MessageSystem
	}
}

// toAttachment maps a provider file record. The URL is the first of
// several provider URL fields; name and type fall back to fixed
// placeholders.
func toAttachment(f *slack.File) chat.MessageAttachment {
	att := chat.MessageAttachment{
		ID:   f.ID,
		Name: firstNonEmpty(f.Name, f.Title, chat.AttachmentNamePlaceholder),
		Type: firstNonEmpty(f.Mimetype, f.Filetype, chat.AttachmentTypeUnknown),
		URL:  firstNonEmpty(f.URLPrivate, f.URLPrivateDownload, f.Permalink),
		Size: f.Size,
	}
	if f.PrettyType != "" {
		att.Metadata = map[string]string{"pretty_type": f.PrettyType}
	}
	return att
}

// parseMessageTS parses a "seconds.fraction" provider message ID into a
// wall-clock time with millisecond precision.
func parseMessageTS(ts string) (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	sec, err := strconv.ParseFloat(ts, 64)
	if err != nil || sec < 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(sec * 1000)).UTC(), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
