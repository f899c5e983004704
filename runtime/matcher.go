package runtime

import (
	"log/slog"

	"github.com/eBu1171/winona-chat/domain"
)

// Matcher decides whether an eligible partner exists for a participant
// entering the matching pipeline and, if so, forms the session. It is the
// sole creator of sessions. Calls must happen inside the engine's critical
// section: the queue pop and the dual table insert have to be observed as
// one atomic step.
type Matcher struct {
	log        *slog.Logger
	queue      *WaitQueue
	sessions   *SessionTable
	complement domain.Complement
}

func NewMatcher(log *slog.Logger, queue *WaitQueue, sessions *SessionTable, complement domain.Complement) *Matcher {
	return &Matcher{log: log, queue: queue, sessions: sessions, complement: complement}
}

// MatchResult describes the outcome of one TryMatch call.
// Exactly one of Session/Queued is set on the happy paths; both are unset
// when the command was ignored (unknown attribute, self-healed conflict).
type MatchResult struct {
	Session   *domain.Session
	PartnerID string
	Queued    bool
}

// TryMatch removes id from any bucket it occupies (handles re-queue), then
// pops the head of the complementary bucket. On a partner: fresh session,
// installed for both participants. Otherwise id is enqueued under value.
func (m *Matcher) TryMatch(id string, value domain.Attribute) MatchResult {
	m.queue.Remove(id)

	if _, ok := m.sessions.Lookup(id); ok {
		// Unreachable given the engine tears sessions down before matching.
		// Self-heal by refusing the queue slot instead of pairing twice.
		m.log.Error("participant still mapped to a session while entering matching",
			"participant", id)
		return MatchResult{}
	}

	opposite, ok := m.complement(value)
	if !ok {
		m.log.Warn("attribute value outside the configured space, ignoring",
			"participant", id, "value", string(value))
		return MatchResult{}
	}

	partner, found := m.queue.Dequeue(opposite)
	if !found {
		if err := m.queue.Enqueue(id, value); err != nil {
			m.log.Error("enqueue failed after removal", "participant", id, "error", err)
			return MatchResult{}
		}
		return MatchResult{Queued: true}
	}

	session := domain.NewSession(partner, id)
	m.sessions.InstallPair(session)
	m.log.Info("session formed",
		"session", session.ID.String(), "a", partner, "b", id)
	return MatchResult{Session: &session, PartnerID: partner}
}
