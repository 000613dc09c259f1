package chat

import (
	"time"

	"github.com/secmon-lab/hermes/pkg/domain/types"
)

// StandardUser is a provider-agnostic identity plus presence snapshot.
// Instances are rebuilt from the provider response on every call and
// never persisted.
type StandardUser struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email,omitempty"`
	Avatar   string            `json:"avatar,omitempty"`
	Status   types.UserStatus  `json:"status"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Well-known metadata keys for StandardUser. Anything else in the
// metadata bag is opaque passthrough.
const (
	UserMetaIsBot    = "is_bot"
	UserMetaIsAdmin  = "is_admin"
	UserMetaDeleted  = "deleted"
	UserMetaTimezone = "timezone"
)

// StandardChannel is a provider-agnostic conversation space.
type StandardChannel struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Type        types.ChannelType `json:"type"`
	MemberCount int               `json:"memberCount,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Well-known metadata keys for StandardChannel.
const (
	ChannelMetaArchived = "is_archived"
	ChannelMetaGeneral  = "is_general"
	ChannelMetaShared   = "is_shared"
	ChannelMetaMember   = "is_member"
)

// StandardMessage is a provider-agnostic unit of communication. The ID
// doubles as the ordering key; Timestamp is derived from it.
type StandardMessage struct {
	ID          string              `json:"id"`
	Content     string              `json:"content"`
	Sender      *StandardUser       `json:"sender,omitempty"`
	Channel     *StandardChannel    `json:"channel,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
	Type        types.MessageType   `json:"type"`
	Attachments []MessageAttachment `json:"attachments,omitempty"`
	Metadata    map[string]string   `json:"metadata,omitempty"`
}

// Well-known metadata keys for StandardMessage.
const (
	MessageMetaThreadID   = "thread_id"
	MessageMetaReplyCount = "reply_count"
	MessageMetaReactions  = "reactions"
	// MessageMetaTSUnparsed marks a message whose provider ID could not
	// be parsed as a seconds-since-epoch value. Timestamp is zero then.
	MessageMetaTSUnparsed = "ts_unparsed"
)

// MessageAttachment is a file or media entry attached to a message.
type MessageAttachment struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	URL      string            `json:"url"`
	Size     int               `json:"size,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Fallback values for attachments whose provider record lacks the field.
const (
	AttachmentNamePlaceholder = "untitled"
	AttachmentTypeUnknown     = "unknown"
)
