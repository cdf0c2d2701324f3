package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	model "github.com/vikalpedu/voice-agent/backend/internal/model/session"
)

// Service is the in-memory session registry. It is the sole owner of
// session state; values handed out by Get are snapshots, and all mutation
// goes through Service methods so concurrent connections never share a
// writable struct.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewService bootstraps the in-memory session store.
func NewService() *Service {
	return &Service{sessions: make(map[string]*model.Session)}
}

// Create provisions a session with a fresh identifier and empty conversation.
func (s *Service) Create(grade, name, email, mobile, intent string) model.Session {
	now := time.Now().UTC()
	sess := &model.Session{
		ID:           uuid.NewString(),
		Grade:        grade,
		Name:         name,
		Email:        email,
		Mobile:       mobile,
		Intent:       intent,
		CreatedAt:    now,
		UpdatedAt:    now,
		Conversation: make([]model.Turn, 0, 16),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return snapshot(sess)
}

// Get retrieves a snapshot of a session. Absence is a normal outcome, not
// an error: callers map ok=false to a not-found response.
func (s *Service) Get(id string) (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return model.Session{}, false
	}
	return snapshot(sess), true
}

// Delete removes a session. Returns false when the id is unknown.
func (s *Service) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// List returns snapshots of all live sessions.
func (s *Service) List() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, snapshot(sess))
	}
	return out
}

// AddTurn appends one turn to the session history. Append is the only way
// conversation state grows; order of calls is conversation order.
func (s *Service) AddTurn(id, role, text, audioFile, language string) (model.Turn, bool) {
	turn := model.Turn{
		Role:      role,
		Text:      text,
		AudioFile: audioFile,
		Timestamp: time.Now().UTC(),
		Language:  language,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return model.Turn{}, false
	}
	sess.Conversation = append(sess.Conversation, turn)
	sess.UpdatedAt = turn.Timestamp
	if language != "" {
		sess.DetectedLanguage = language
	}
	return turn, true
}

// SetDetectedLanguage records the language observed for a session.
func (s *Service) SetDetectedLanguage(id, language string) bool {
	if language == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.DetectedLanguage = language
	sess.UpdatedAt = time.Now().UTC()
	return true
}

// Reap deletes sessions idle for longer than ttl and returns how many went.
func (s *Service) Reap(ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartReaper runs Reap periodically until ctx is done. A ttl of zero
// disables eviction entirely.
func (s *Service) StartReaper(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(ttl / 4)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Reap(ttl); n > 0 {
					log.Printf("[session] reaped %d idle sessions", n)
				}
			}
		}
	}()
}

func snapshot(sess *model.Session) model.Session {
	out := *sess
	out.Conversation = append([]model.Turn(nil), sess.Conversation...)
	return out
}
