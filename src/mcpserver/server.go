// Package mcpserver exposes the Telegram tool set over the Model Context
// Protocol. Each tool validates and normalizes its request, charges the
// shared rate limiter when the operation is billable, and only then delegates
// to the provider.
package mcpserver

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/telegram-connector/telegram-mcp/src/link"
	"github.com/telegram-connector/telegram-mcp/src/ratelimit"
	"github.com/telegram-connector/telegram-mcp/src/telegram"
)

// Version is reported by check_mcp_status and in the MCP server info.
const Version = "0.2.0"

// searchTokenCost is charged per search_messages call.
const searchTokenCost = 1.0

// LoggerFunc is the logging callback used across the server. It matches
// fmt.Printf to ease integration with standard loggers.
type LoggerFunc func(format string, args ...interface{})

func defaultLogger(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// Server dispatches MCP tool calls to the provider behind the rate gate.
// It is safe for concurrent use: the limiter serializes bucket access and
// the provider is a shared reentrant collaborator.
type Server struct {
	client   telegram.Client
	limiter  ratelimit.RateLimiting
	logger   LoggerFunc
	openLink openLinkFunc
}

// NewServer wires the dispatcher to its collaborators. A nil logger falls
// back to the standard library.
func NewServer(client telegram.Client, limiter ratelimit.RateLimiting, logger LoggerFunc) *Server {
	if logger == nil {
		logger = defaultLogger
	}
	return &Server{
		client:   client,
		limiter:  limiter,
		logger:   logger,
		openLink: openWithDesktop,
	}
}

// CheckStatus reports provider connectivity, the current token balance and
// the server version. Not billable.
func (s *Server) CheckStatus(ctx context.Context) (*StatusResponse, error) {
	return &StatusResponse{
		TelegramConnected: s.client.IsConnected(ctx),
		RateLimiterTokens: s.limiter.AvailableTokens(),
		ServerVersion:     Version,
	}, nil
}

// GetSubscribedChannels lists the account's channels with pagination. A zero
// limit means "absent" and defaults to 20. Not billable.
func (s *Server) GetSubscribedChannels(ctx context.Context, limit, offset uint32) (*ChannelsResponse, error) {
	if limit == 0 {
		limit = 20
	}

	channels, err := s.client.GetSubscribedChannels(ctx, limit, offset)
	if err != nil {
		return nil, &UpstreamError{Op: "get_subscribed_channels", Err: err}
	}

	return &ChannelsResponse{
		Channels: channels,
		Total:    len(channels),
		HasMore:  uint32(len(channels)) >= limit,
	}, nil
}

// GetChannelInfo resolves one channel by username or numeric id. Not
// billable.
func (s *Server) GetChannelInfo(ctx context.Context, identifier string) (*telegram.Channel, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, &InvalidInputError{Field: "channel_identifier", Reason: "cannot be empty"}
	}

	channel, err := s.client.GetChannelInfo(ctx, identifier)
	if err != nil {
		return nil, &UpstreamError{Op: "get_channel_info", Err: err}
	}
	return channel, nil
}

// GenerateMessageLink builds both deep-link flavors for a message. Pure
// computation, no provider call, not billable.
func (s *Server) GenerateMessageLink(channelID string, messageID int64, includeTGProtocol bool) (*MessageLinkResponse, error) {
	cid, mid, err := parseMessageRef(channelID, messageID)
	if err != nil {
		return nil, err
	}

	l := link.NewMessageLink(cid, mid)
	resp := &MessageLinkResponse{
		ChannelID: channelID,
		MessageID: messageID,
		HTTPSLink: l.HTTPSLink,
	}
	if includeTGProtocol {
		resp.TGProtocolLink = l.TGProtocolLink
	}
	return resp, nil
}

// OpenMessage launches the message in the desktop app. Platform-gated:
// unsupported hosts get a typed failure without any attempt. Not billable.
func (s *Server) OpenMessage(ctx context.Context, channelID string, messageID int64, useTGProtocol bool) (*OpenMessageResponse, error) {
	cid, mid, err := parseMessageRef(channelID, messageID)
	if err != nil {
		return nil, err
	}

	l := link.NewMessageLink(cid, mid)
	linkToOpen := l.TGProtocolLink
	if !useTGProtocol {
		linkToOpen = l.HTTPSLink
	}

	if err := s.openLink(ctx, linkToOpen); err != nil {
		var unsupported *UnsupportedError
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return &OpenMessageResponse{
			Success:  false,
			Message:  "failed to open link: " + err.Error(),
			LinkUsed: linkToOpen,
		}, nil
	}

	return &OpenMessageResponse{
		Success:   true,
		Message:   "message opened in Telegram",
		LinkUsed:  linkToOpen,
		AppOpened: true,
	}, nil
}

// SearchMessages is the one billable tool. Order is fixed: validate, clamp,
// acquire a token, delegate. A denied acquisition never reaches the provider;
// a provider failure after acquisition does not refund the token (the
// upstream request was attempted, not wasted).
func (s *Server) SearchMessages(ctx context.Context, args SearchArgs) (*telegram.SearchResult, error) {
	if strings.TrimSpace(args.Query) == "" {
		return nil, &InvalidInputError{Field: "query", Reason: "cannot be empty"}
	}

	var channelID *telegram.ChannelID
	if args.ChannelID != nil {
		cid, err := parseChannelID(*args.ChannelID)
		if err != nil {
			return nil, err
		}
		channelID = &cid
	}

	hoursBack := telegram.DefaultHoursBack
	if args.HoursBack != nil {
		hoursBack = *args.HoursBack
	}
	limit := telegram.DefaultLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	if limit == 0 {
		return nil, &InvalidInputError{Field: "limit", Reason: "must be greater than 0"}
	}

	params := telegram.SearchParams{
		Query:     args.Query,
		ChannelID: channelID,
		HoursBack: hoursBack,
		Limit:     limit,
	}
	params.Clamp()

	if err := s.limiter.Acquire(searchTokenCost); err != nil {
		return nil, err
	}

	result, err := s.client.SearchMessages(ctx, &params)
	if err != nil {
		return nil, &UpstreamError{Op: "search_messages", Err: err}
	}
	return result, nil
}

// parseMessageRef turns the wire-level string channel id and numeric message
// id into validated value objects.
func parseMessageRef(channelID string, messageID int64) (telegram.ChannelID, telegram.MessageID, error) {
	cid, err := parseChannelID(channelID)
	if err != nil {
		return 0, 0, err
	}
	mid, err := telegram.NewMessageID(messageID)
	if err != nil {
		return 0, 0, &InvalidInputError{Field: "message_id", Reason: err.Error()}
	}
	return cid, mid, nil
}

func parseChannelID(raw string) (telegram.ChannelID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &InvalidInputError{Field: "channel_id", Reason: strconv.Quote(raw) + " is not a valid number"}
	}
	cid, err := telegram.NewChannelID(n)
	if err != nil {
		return 0, &InvalidInputError{Field: "channel_id", Reason: err.Error()}
	}
	return cid, nil
}
