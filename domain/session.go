package domain

import "github.com/google/uuid"

// Session is a live pairing of exactly two participants permitted to
// exchange messages. The pair is unordered and both ids are distinct.
type Session struct {
	ID uuid.UUID
	A  string
	B  string
}

func NewSession(a, b string) Session {
	return Session{ID: uuid.New(), A: a, B: b}
}

// PartnerOf returns the other member of the session.
// The boolean is false when id is not part of the session.
func (s Session) PartnerOf(id string) (string, bool) {
	switch id {
	case s.A:
		return s.B, true
	case s.B:
		return s.A, true
	default:
		return "", false
	}
}

// Contains reports whether id is one of the two members.
func (s Session) Contains(id string) bool {
	return id == s.A || id == s.B
}
