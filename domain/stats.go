package domain

// Stats is a read-only aggregate snapshot of the engine state,
// computed from current registry, queue, and session table sizes.
type Stats struct {
	Online         int               `json:"online"`
	Waiting        map[Attribute]int `json:"waiting"`
	ActiveSessions int               `json:"activeChats"`
}
