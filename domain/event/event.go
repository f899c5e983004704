// Package event defines the outbound event union emitted by the engine.
// Events are immutable; each one is addressed to a single participant
// by the engine at emission time.
package event

import "time"

type DomainEvent interface {
	EventName() string
}

// Waiting tells a queued participant that no partner is available yet.
type Waiting struct{}

func (Waiting) EventName() string { return "waiting" }

// Matched tells a participant a session has been formed with PartnerID.
// It is emitted to both members of the new session.
type Matched struct {
	PartnerID string
}

func (Matched) EventName() string { return "matched" }

// MessageReceived carries a relayed text message to the non-sender
// participant. The sender never receives its own message back.
type MessageReceived struct {
	Sender  string
	Content string
	At      time.Time
}

func (MessageReceived) EventName() string { return "message" }

// TypingChanged forwards a typing-state change to the non-sender participant.
type TypingChanged struct {
	Sender   string
	IsTyping bool
}

func (TypingChanged) EventName() string { return "typing" }

// EndReason explains to the remaining participant why its session ended.
type EndReason string

const (
	ReasonPartnerEnded        EndReason = "partner-ended"
	ReasonPartnerDisconnected EndReason = "partner-disconnected"
)

// ChatEnded is emitted to the remaining participant only; the participant
// that triggered the teardown receives nothing.
type ChatEnded struct {
	Reason EndReason
}

func (ChatEnded) EventName() string { return "chatEnded" }
