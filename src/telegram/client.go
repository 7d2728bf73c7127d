package telegram

import "context"

// Client is the provider boundary: everything the MCP tool layer needs from
// a Telegram data source. The live MTProto connector, a local snapshot, and
// the test fakes all satisfy it.
type Client interface {
	// SearchMessages runs one normalized search. Params are expected to be
	// clamped already; providers may trust them.
	SearchMessages(ctx context.Context, params *SearchParams) (*SearchResult, error)

	// GetChannelInfo resolves a channel by @username or numeric id.
	GetChannelInfo(ctx context.Context, identifier string) (*Channel, error)

	// GetSubscribedChannels pages through the channels the account follows.
	GetSubscribedChannels(ctx context.Context, limit, offset uint32) ([]Channel, error)

	// IsConnected reports whether the provider can currently serve requests.
	IsConnected(ctx context.Context) bool
}
