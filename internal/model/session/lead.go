package session

import "time"

// Lead is a denormalized snapshot of a session's contact fields taken at
// creation time. It outlives the in-memory session once persisted.
type Lead struct {
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	Grade     string    `json:"grade"`
	Intent    string    `json:"intent"`
	CreatedAt time.Time `json:"created_at"`
}

// LeadFrom captures the lead snapshot for a session.
func LeadFrom(s *Session) Lead {
	return Lead{
		SessionID: s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Mobile:    s.Mobile,
		Grade:     s.Grade,
		Intent:    s.Intent,
		CreatedAt: s.CreatedAt,
	}
}
