// Package ws is the WebSocket transport. Its only job is decoding wire
// frames into domain commands and encoding outbound events back to wire
// form; every decision lives in the engine.
package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/eBu1171/winona-chat/domain"
	"github.com/eBu1171/winona-chat/domain/event"
)

// inboundFrame is the wire shape of client-to-server messages.
type inboundFrame struct {
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
	Text     string `json:"text,omitempty"`
	IsTyping bool   `json:"isTyping,omitempty"`
}

// outboundFrame is the wire shape of server-to-client messages.
// IsTyping is a pointer so typing frames always carry the field,
// including the false state.
type outboundFrame struct {
	Type      string `json:"type"`
	PartnerID string `json:"partnerId,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Text      string `json:"text,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	IsTyping  *bool  `json:"isTyping,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// DecodeCommand parses one wire frame from sender into its command variant.
func DecodeCommand(sender string, data []byte) (domain.Command, error) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch frame.Type {
	case "setAttribute":
		return domain.SetAttributeCommand{Sender: sender, Value: domain.Attribute(frame.Value)}, nil
	case "sendMessage":
		return domain.SendMessageCommand{Sender: sender, Content: frame.Text}, nil
	case "typing":
		return domain.TypingCommand{Sender: sender, IsTyping: frame.IsTyping}, nil
	case "endChat":
		return domain.EndChatCommand{Sender: sender}, nil
	case "findNewChat":
		return domain.FindNewChatCommand{Sender: sender}, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", frame.Type)
	}
}

// EncodeEvent serializes one outbound event to its wire frame.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	frame := outboundFrame{Type: e.EventName()}

	switch evt := e.(type) {
	case event.Waiting:
	case event.Matched:
		frame.PartnerID = evt.PartnerID
	case event.MessageReceived:
		frame.Sender = evt.Sender
		frame.Text = evt.Content
		frame.Timestamp = evt.At.Format(time.RFC3339Nano)
	case event.TypingChanged:
		frame.Sender = evt.Sender
		frame.IsTyping = &evt.IsTyping
	case event.ChatEnded:
		frame.Reason = string(evt.Reason)
	default:
		return nil, fmt.Errorf("unknown event variant %T", e)
	}

	return json.Marshal(frame)
}
