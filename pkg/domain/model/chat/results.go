package chat

// UsersPage is one page of the list-users operation. NextCursor is an
// opaque provider token forwarded as-is; absence means the last page.
type UsersPage struct {
	Users      []*StandardUser `json:"users"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

// ChannelsPage is one page of the list-channels operation.
type ChannelsPage struct {
	Channels   []*StandardChannel `json:"channels"`
	NextCursor string             `json:"nextCursor,omitempty"`
}
