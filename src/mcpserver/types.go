package mcpserver

import "github.com/telegram-connector/telegram-mcp/src/telegram"

// StatusResponse answers check_mcp_status.
type StatusResponse struct {
	TelegramConnected bool    `json:"telegram_connected"`
	RateLimiterTokens float64 `json:"rate_limiter_tokens"`
	ServerVersion     string  `json:"server_version"`
}

// ChannelsResponse answers get_subscribed_channels.
type ChannelsResponse struct {
	Channels []telegram.Channel `json:"channels"`
	Total    int                `json:"total"`
	HasMore  bool               `json:"has_more"`
}

// MessageLinkResponse answers generate_message_link. TGProtocolLink is
// omitted when the caller opted out.
type MessageLinkResponse struct {
	ChannelID      string `json:"channel_id"`
	MessageID      int64  `json:"message_id"`
	HTTPSLink      string `json:"https_link"`
	TGProtocolLink string `json:"tg_protocol_link,omitempty"`
}

// OpenMessageResponse answers open_message_in_telegram.
type OpenMessageResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	LinkUsed  string `json:"link_used"`
	AppOpened bool   `json:"app_opened"`
}

// SearchArgs is the raw search request before validation and clamping. Nil
// pointers mean the field was absent and takes its default.
type SearchArgs struct {
	Query     string
	ChannelID *string
	HoursBack *uint32
	Limit     *uint32
}
