// Package link builds Telegram deep links for a (channel, message) pair.
// Link generation is pure string formatting: no network, no provider call.
package link

import (
	"fmt"

	"github.com/telegram-connector/telegram-mcp/src/telegram"
)

// MessageLink carries both link flavors for one message.
type MessageLink struct {
	ChannelID      telegram.ChannelID `json:"channel_id"`
	MessageID      telegram.MessageID `json:"message_id"`
	HTTPSLink      string             `json:"https_link"`
	TGProtocolLink string             `json:"tg_protocol_link"`
}

// NewMessageLink formats both links for the given identifiers. The inputs are
// validated value objects, so formatting cannot fail.
func NewMessageLink(channelID telegram.ChannelID, messageID telegram.MessageID) MessageLink {
	return MessageLink{
		ChannelID:      channelID,
		MessageID:      messageID,
		HTTPSLink:      fmt.Sprintf("https://t.me/c/%d/%d?single", channelID.Int64(), messageID.Int64()),
		TGProtocolLink: fmt.Sprintf("tg://resolve?channel=%d&post=%d&single", channelID.Int64(), messageID.Int64()),
	}
}
