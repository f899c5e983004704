package runtime

import "github.com/eBu1171/winona-chat/domain"

// SessionTable maps each participant id to the session it currently
// occupies. For every session with members {a,b} both table[a] and table[b]
// point at that session, installed and removed as one step. Like WaitQueue,
// it relies on the engine's critical section for synchronization.
type SessionTable struct {
	byParticipant map[string]domain.Session
}

func NewSessionTable() *SessionTable {
	return &SessionTable{byParticipant: make(map[string]domain.Session)}
}

// Lookup returns the session id currently occupies, if any.
func (t *SessionTable) Lookup(id string) (domain.Session, bool) {
	s, ok := t.byParticipant[id]
	return s, ok
}

// InstallPair inserts the mapping for both members of s as one step.
func (t *SessionTable) InstallPair(s domain.Session) {
	t.byParticipant[s.A] = s
	t.byParticipant[s.B] = s
}

// RemovePair deletes the mapping for both members of the session holding id
// and returns the partner id. It is the single teardown primitive used by
// every ending path (voluntary end, disconnect, find-new-chat) so teardown
// semantics never diverge. No-op when id has no session.
func (t *SessionTable) RemovePair(id string) (string, bool) {
	s, ok := t.byParticipant[id]
	if !ok {
		return "", false
	}
	delete(t.byParticipant, s.A)
	delete(t.byParticipant, s.B)
	partner, _ := s.PartnerOf(id)
	return partner, true
}

// Count returns the number of distinct active sessions.
func (t *SessionTable) Count() int {
	return len(t.byParticipant) / 2
}

// Size returns the number of participant mappings (two per session).
func (t *SessionTable) Size() int {
	return len(t.byParticipant)
}
