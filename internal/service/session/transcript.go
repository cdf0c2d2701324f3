package session

import (
	"fmt"
	"strings"
	"time"
)

const roleLabelUser = "Parent/Student"
const roleLabelAssistant = "Vikalp AI"

// Transcript renders the downloadable plain-text transcript for a session.
// Returns false when the session does not exist.
func (s *Service) Transcript(id string) (string, bool) {
	sess, ok := s.Get(id)
	if !ok {
		return "", false
	}

	rule := strings.Repeat("=", 60)
	thin := strings.Repeat("-", 60)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nVIKALP ONLINE SCHOOL - VOICE CHAT TRANSCRIPT\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Session ID: %s\n", sess.ID)
	fmt.Fprintf(&b, "Date: %s\n", sess.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Grade: %s\n", sess.Grade)
	fmt.Fprintf(&b, "Name: %s\n", sess.Name)
	fmt.Fprintf(&b, "Email: %s\n", sess.Email)
	fmt.Fprintf(&b, "Mobile: %s\n", sess.Mobile)
	fmt.Fprintf(&b, "Looking for: %s\n\n", sess.Intent)
	fmt.Fprintf(&b, "%s\nCONVERSATION\n%s\n\n", thin, thin)

	for _, turn := range sess.Conversation {
		label := roleLabelAssistant
		if turn.Role == "user" {
			label = roleLabelUser
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", turn.Timestamp.Format(time.RFC3339), label, turn.Text)
	}

	fmt.Fprintf(&b, "%s\nEnd of Transcript\n%s", thin, thin)
	return b.String(), true
}
