package session

import "time"

// Turn is a single role-tagged utterance in a conversation history.
// Turns are immutable once created; insertion order is conversation order.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	AudioFile string    `json:"audio_file,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Language  string    `json:"language,omitempty"`
}

// Session holds lead info and the conversation history for one caller.
type Session struct {
	ID               string    `json:"session_id"`
	Grade            string    `json:"grade"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Mobile           string    `json:"mobile"`
	Intent           string    `json:"intent"` // Admission, Fees, Demo, Syllabus, Other
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Conversation     []Turn    `json:"conversation"`
	DetectedLanguage string    `json:"detected_language,omitempty"`
}

// RecentTurns returns up to max of the newest turns in chronological order.
func (s *Session) RecentTurns(max int) []Turn {
	if max <= 0 || len(s.Conversation) <= max {
		return s.Conversation
	}
	return s.Conversation[len(s.Conversation)-max:]
}
