// Package telegram defines the data model shared between the MCP tool layer
// and the channel data provider, plus the provider boundary itself.
//
// Identifier types are validated at construction so that malformed input is
// rejected once, at the edge, and everything past the boundary can trust the
// values it holds.
package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNonPositiveID rejects identifiers that are zero or negative.
	ErrNonPositiveID = errors.New("identifier must be positive")

	// ErrEmptyChannelName rejects names that are blank after trimming.
	ErrEmptyChannelName = errors.New("channel name cannot be empty")
)

// ChannelID identifies a channel. Always positive.
type ChannelID int64

// NewChannelID validates and wraps a raw channel id.
func NewChannelID(v int64) (ChannelID, error) {
	if v <= 0 {
		return 0, fmt.Errorf("channel id %d: %w", v, ErrNonPositiveID)
	}
	return ChannelID(v), nil
}

// Int64 returns the underlying numeric value.
func (id ChannelID) Int64() int64 { return int64(id) }

// MessageID identifies a message within a channel. Always positive.
type MessageID int64

// NewMessageID validates and wraps a raw message id.
func NewMessageID(v int64) (MessageID, error) {
	if v <= 0 {
		return 0, fmt.Errorf("message id %d: %w", v, ErrNonPositiveID)
	}
	return MessageID(v), nil
}

// Int64 returns the underlying numeric value.
func (id MessageID) Int64() int64 { return int64(id) }

// UserID identifies a message sender. Always positive.
type UserID int64

// NewUserID validates and wraps a raw user id.
func NewUserID(v int64) (UserID, error) {
	if v <= 0 {
		return 0, fmt.Errorf("user id %d: %w", v, ErrNonPositiveID)
	}
	return UserID(v), nil
}

// Int64 returns the underlying numeric value.
func (id UserID) Int64() int64 { return int64(id) }

const (
	usernameMinLen = 5
	usernameMaxLen = 32
)

// Username is a Telegram username: 5-32 characters, alphanumeric or
// underscore.
type Username string

// NewUsername validates and wraps a raw username.
func NewUsername(s string) (Username, error) {
	if len(s) < usernameMinLen || len(s) > usernameMaxLen {
		return "", fmt.Errorf("username %q must be %d-%d characters", s, usernameMinLen, usernameMaxLen)
	}
	for _, r := range s {
		if !isUsernameRune(r) {
			return "", fmt.Errorf("username %q contains invalid character %q", s, r)
		}
	}
	return Username(s), nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}

// String returns the username text.
func (u Username) String() string { return string(u) }

// ChannelName is a display name, stored trimmed and never blank.
type ChannelName string

// NewChannelName trims surrounding whitespace and validates the result.
func NewChannelName(s string) (ChannelName, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyChannelName
	}
	return ChannelName(trimmed), nil
}

// String returns the trimmed display name.
func (n ChannelName) String() string { return string(n) }

// MediaType classifies message attachments.
type MediaType string

const (
	MediaNone      MediaType = "none"
	MediaPhoto     MediaType = "photo"
	MediaVideo     MediaType = "video"
	MediaDocument  MediaType = "document"
	MediaAudio     MediaType = "audio"
	MediaAnimation MediaType = "animation"
)

// Channel is the provider-shaped channel record.
type Channel struct {
	ID              ChannelID   `json:"id"`
	Name            ChannelName `json:"name"`
	Username        Username    `json:"username"`
	Description     string      `json:"description,omitempty"`
	MemberCount     uint64      `json:"member_count"`
	IsVerified      bool        `json:"is_verified"`
	IsPublic        bool        `json:"is_public"`
	IsSubscribed    bool        `json:"is_subscribed"`
	LastMessageDate *time.Time  `json:"last_message_date,omitempty"`
}

// Message is a single matched message in search results.
type Message struct {
	ID              MessageID   `json:"id"`
	ChannelID       ChannelID   `json:"channel_id"`
	ChannelName     ChannelName `json:"channel_name"`
	ChannelUsername Username    `json:"channel_username"`
	Text            string      `json:"text"`
	Timestamp       time.Time   `json:"timestamp"`
	SenderID        *UserID     `json:"sender_id,omitempty"`
	SenderName      string      `json:"sender_name,omitempty"`
	HasMedia        bool        `json:"has_media"`
	MediaType       MediaType   `json:"media_type"`
}

// Search window and result-size policy.
const (
	DefaultHoursBack uint32 = 48
	MaxHoursBack     uint32 = 72
	DefaultLimit     uint32 = 20
	MaxLimit         uint32 = 100
)

// SearchParams carries one normalized search request into the provider.
// Build it with NewSearchParams and it is already clamped.
type SearchParams struct {
	Query     string
	ChannelID *ChannelID
	HoursBack uint32
	Limit     uint32
}

// NewSearchParams applies defaults and ceilings. Zero hoursBack or limit
// means "not provided" and takes the default; values above the ceilings are
// clamped, not rejected.
func NewSearchParams(query string, channelID *ChannelID, hoursBack, limit uint32) SearchParams {
	if hoursBack == 0 {
		hoursBack = DefaultHoursBack
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	p := SearchParams{Query: query, ChannelID: channelID, HoursBack: hoursBack, Limit: limit}
	p.Clamp()
	return p
}

// Clamp enforces the hard ceilings in place.
func (p *SearchParams) Clamp() {
	if p.HoursBack > MaxHoursBack {
		p.HoursBack = MaxHoursBack
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// QueryMetadata echoes the effective query back to the caller.
type QueryMetadata struct {
	Query            string `json:"query"`
	HoursBack        uint32 `json:"hours_back"`
	ChannelsSearched uint32 `json:"channels_searched"`
}

// SearchResult is the provider's answer to one search.
type SearchResult struct {
	Messages      []Message     `json:"messages"`
	TotalFound    uint64        `json:"total_found"`
	SearchTimeMs  uint64        `json:"search_time_ms"`
	QueryMetadata QueryMetadata `json:"query_metadata"`
}
