package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/telegram-connector/telegram-mcp/src/json"
)

// ErrChannelNotFound is returned when an identifier resolves to nothing.
var ErrChannelNotFound = errors.New("channel not found")

// Snapshot is the on-disk shape consumed by StaticClient.
type Snapshot struct {
	Channels []Channel `json:"channels"`
	Messages []Message `json:"messages"`
}

// StaticClient serves Client calls from an in-memory snapshot. It backs the
// binary when no live connector is configured and doubles as the integration
// provider in tests. Safe for concurrent use: the snapshot is immutable after
// construction.
type StaticClient struct {
	channels []Channel
	messages []Message
	nowFunc  func() time.Time
}

// NewStaticClient builds a client over an already-parsed snapshot. Channels
// are kept sorted by id so pagination is stable.
func NewStaticClient(snap *Snapshot) *StaticClient {
	channels := make([]Channel, len(snap.Channels))
	copy(channels, snap.Channels)
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })

	messages := make([]Message, len(snap.Messages))
	copy(messages, snap.Messages)
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp.After(messages[j].Timestamp)
	})

	return &StaticClient{channels: channels, messages: messages, nowFunc: time.Now}
}

// LoadStaticClient reads a snapshot file and builds a client from it.
func LoadStaticClient(path string) (*StaticClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return NewStaticClient(&snap), nil
}

// IsConnected always reports true: the snapshot is local.
func (c *StaticClient) IsConnected(ctx context.Context) bool { return true }

// GetSubscribedChannels returns subscribed channels in id order, honoring
// limit and offset.
func (c *StaticClient) GetSubscribedChannels(ctx context.Context, limit, offset uint32) ([]Channel, error) {
	var subscribed []Channel
	for _, ch := range c.channels {
		if ch.IsSubscribed {
			subscribed = append(subscribed, ch)
		}
	}
	if offset >= uint32(len(subscribed)) {
		return []Channel{}, nil
	}
	subscribed = subscribed[offset:]
	if limit > 0 && uint32(len(subscribed)) > limit {
		subscribed = subscribed[:limit]
	}
	return subscribed, nil
}

// GetChannelInfo resolves "@name", a bare username, or a numeric id.
func (c *StaticClient) GetChannelInfo(ctx context.Context, identifier string) (*Channel, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("channel identifier cannot be empty")
	}

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		for i := range c.channels {
			if c.channels[i].ID.Int64() == id {
				return &c.channels[i], nil
			}
		}
		return nil, fmt.Errorf("%w: id %d", ErrChannelNotFound, id)
	}

	name := strings.TrimPrefix(identifier, "@")
	for i := range c.channels {
		if strings.EqualFold(c.channels[i].Username.String(), name) {
			return &c.channels[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrChannelNotFound, identifier)
}

// SearchMessages scans the snapshot: case-insensitive substring match over
// message text, restricted to the hours-back window and the optional channel
// filter, newest first, capped at params.Limit. TotalFound counts every
// match, not just the returned page.
func (c *StaticClient) SearchMessages(ctx context.Context, params *SearchParams) (*SearchResult, error) {
	start := c.nowFunc()
	cutoff := start.Add(-time.Duration(params.HoursBack) * time.Hour)
	needle := strings.ToLower(params.Query)

	var matched []Message
	for _, msg := range c.messages {
		if msg.Timestamp.Before(cutoff) {
			continue
		}
		if params.ChannelID != nil && msg.ChannelID != *params.ChannelID {
			continue
		}
		if !strings.Contains(strings.ToLower(msg.Text), needle) {
			continue
		}
		matched = append(matched, msg)
	}

	page := matched
	if uint32(len(page)) > params.Limit {
		page = page[:params.Limit]
	}
	if page == nil {
		page = []Message{}
	}

	channelsSearched := uint32(len(c.channels))
	if params.ChannelID != nil {
		channelsSearched = 1
	}

	elapsed := c.nowFunc().Sub(start)
	return &SearchResult{
		Messages:     page,
		TotalFound:   uint64(len(matched)),
		SearchTimeMs: uint64(elapsed.Milliseconds()),
		QueryMetadata: QueryMetadata{
			Query:            params.Query,
			HoursBack:        params.HoursBack,
			ChannelsSearched: channelsSearched,
		},
	}, nil
}

var _ Client = (*StaticClient)(nil)
