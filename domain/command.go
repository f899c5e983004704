package domain

// Command is the inbound event union consumed by the engine router.
// Every variant carries the opaque connection id of its sender; the
// transport layer's only job is to decode wire messages into these
// variants and encode outbound events back to wire form.
type Command interface {
	SenderID() string
}

// SetAttributeCommand declares (or re-declares) the sender's matching
// attribute and enters the matching pipeline.
type SetAttributeCommand struct {
	Sender string
	Value  Attribute
}

func (c SetAttributeCommand) SenderID() string { return c.Sender }

// SendMessageCommand relays a text message to the sender's current partner.
type SendMessageCommand struct {
	Sender  string
	Content string
}

func (c SendMessageCommand) SenderID() string { return c.Sender }

// TypingCommand forwards a typing-state change to the sender's partner.
type TypingCommand struct {
	Sender   string
	IsTyping bool
}

func (c TypingCommand) SenderID() string { return c.Sender }

// EndChatCommand voluntarily ends the sender's current session.
type EndChatCommand struct {
	Sender string
}

func (c EndChatCommand) SenderID() string { return c.Sender }

// FindNewChatCommand ends the current session, then re-enters matching
// with the previously declared attribute.
type FindNewChatCommand struct {
	Sender string
}

func (c FindNewChatCommand) SenderID() string { return c.Sender }

// DisconnectCommand is transport-triggered, never client-initiated.
// It retires the sender's connection id from every component.
type DisconnectCommand struct {
	Sender string
}

func (c DisconnectCommand) SenderID() string { return c.Sender }
