// Package lead persists captured leads and notifies staff by email.
// Both actions are best-effort: a lead failure never blocks or fails the
// session flow that produced it.
package lead

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
	model "github.com/vikalpedu/voice-agent/backend/internal/model/session"
)

// Service appends leads to a JSON file and sends an HTML notification when
// SMTP is configured.
type Service struct {
	mu       sync.Mutex
	filePath string
	cfg      config.LeadConfig
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates a lead service storing under dataDir.
func NewService(dataDir string, cfg config.LeadConfig) *Service {
	return &Service{
		filePath: filepath.Join(dataDir, cfg.File),
		cfg:      cfg,
		send:     smtp.SendMail,
	}
}

// Capture records the session's lead and fires the notification. Called in
// its own goroutine by session creation; errors are logged, not returned.
func (s *Service) Capture(sess *model.Session) {
	ld := model.LeadFrom(sess)

	if err := s.persist(ld); err != nil {
		log.Printf("[lead] persist failed session=%s: %v", ld.SessionID, err)
	}
	if !s.cfg.SMTPConfigured() {
		log.Printf("[lead] notification skipped, SMTP not configured")
		return
	}
	if err := s.notify(ld); err != nil {
		log.Printf("[lead] notification failed session=%s: %v", ld.SessionID, err)
	}
}

// persist appends to the leads file, read-modify-write under the lock so
// concurrent captures never clobber each other.
func (s *Service) persist(ld model.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var leads []model.Lead
	if data, err := os.ReadFile(s.filePath); err == nil {
		if err := json.Unmarshal(data, &leads); err != nil {
			log.Printf("[lead] corrupt leads file, starting fresh: %v", err)
			leads = nil
		}
	}

	leads = append(leads, ld)
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("encode leads: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o644); err != nil {
		return fmt.Errorf("write leads file: %w", err)
	}
	return nil
}

func (s *Service) notify(ld model.Lead) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.SMTPUser
	}

	subject := fmt.Sprintf("New Lead: %s - %s - %s", ld.Name, ld.Grade, ld.Intent)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.FromName, from)
	fmt.Fprintf(&msg, "To: %s\r\n", s.cfg.NotifyEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(renderHTML(ld))

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	if err := s.send(addr, auth, from, []string{s.cfg.NotifyEmail}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send lead email: %w", err)
	}
	log.Printf("[lead] notification sent to %s", s.cfg.NotifyEmail)
	return nil
}

func renderHTML(ld model.Lead) string {
	row := func(label, value string) string {
		return fmt.Sprintf(`<tr>
<td style="padding: 10px; border: 1px solid #e5e7eb; font-weight: bold;">%s</td>
<td style="padding: 10px; border: 1px solid #e5e7eb;">%s</td>
</tr>`, label, html.EscapeString(value))
	}

	return `<html><body style="font-family: Arial, sans-serif;">
<h2 style="color: #2563eb;">New Lead from Vikalp AI Voice Tutor</h2>
<table style="border-collapse: collapse;">` +
		row("Name", ld.Name) +
		row("Email", ld.Email) +
		row("Mobile", ld.Mobile) +
		row("Grade", ld.Grade) +
		row("Intent", ld.Intent) +
		row("Session ID", ld.SessionID) +
		row("Created At", ld.CreatedAt.Format("2006-01-02 15:04:05 MST")) +
		`</table>
</body></html>`
}
