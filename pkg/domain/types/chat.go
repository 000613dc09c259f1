package types

import "fmt"

// UserStatus is a derived presence snapshot, not an authoritative state.
type UserStatus string

const (
	UserOnline  UserStatus = "online"
	UserOffline UserStatus = "offline"
	UserAway    UserStatus = "away"
	UserBusy    UserStatus = "busy"
)

// IsValid checks if the user status is valid.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserOnline, UserOffline, UserAway, UserBusy:
		return true
	default:
		return false
	}
}

// String returns the string representation of the user status.
func (s UserStatus) String() string {
	return string(s)
}

// ChannelType classifies a conversation space. Derivation from provider
// flags uses a fixed precedence: direct > group > private > public.
type ChannelType string

const (
	ChannelPublic  ChannelType = "public"
	ChannelPrivate ChannelType = "private"
	ChannelDirect  ChannelType = "direct"
	ChannelGroup   ChannelType = "group"
)

// IsValid checks if the channel type is valid.
func (t ChannelType) IsValid() bool {
	switch t {
	case ChannelPublic, ChannelPrivate, ChannelDirect, ChannelGroup:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel type.
func (t ChannelType) String() string {
	return string(t)
}

// ParseChannelType parses a string into a ChannelType.
func ParseChannelType(s string) (ChannelType, error) {
	t := ChannelType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid channel type: %s", s)
	}
	return t, nil
}

// MessageType classifies a message payload.
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageFile   MessageType = "file"
	MessageImage  MessageType = "image"
	MessageSystem MessageType = "system"
)

// IsValid checks if the message type is valid.
func (t MessageType) IsValid() bool {
	switch t {
	case MessageText, MessageFile, MessageImage, MessageSystem:
		return true
	default:
		return false
	}
}

// String returns the string representation of the message type.
func (t MessageType) String() string {
	return string(t)
}
