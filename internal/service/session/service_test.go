package session_test

import (
	"strconv"
	"strings"
	"testing"
	"time"

	session "github.com/vikalpedu/voice-agent/backend/internal/service/session"
)

func TestCreateAndGet(t *testing.T) {
	svc := session.NewService()

	created := svc.Create("Grade 5", "Asha", "asha@example.com", "+911234567890", "Fees")
	if created.ID == "" {
		t.Fatal("expected generated session id")
	}
	if len(created.Conversation) != 0 {
		t.Fatalf("expected empty conversation, got %d turns", len(created.Conversation))
	}

	got, ok := svc.Get(created.ID)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got.Grade != "Grade 5" || got.Intent != "Fees" {
		t.Fatalf("unexpected session fields: %+v", got)
	}
}

func TestGetUnknownIsAbsentNotError(t *testing.T) {
	svc := session.NewService()
	if _, ok := svc.Get("missing"); ok {
		t.Fatal("expected absent for unknown id")
	}
}

func TestAddTurnAppendOnly(t *testing.T) {
	svc := session.NewService()
	created := svc.Create("Grade 3", "Ravi", "ravi@example.com", "+919999999999", "Demo")

	const n = 7
	for i := 0; i < n; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		if _, ok := svc.AddTurn(created.ID, role, "turn-"+strconv.Itoa(i), "", ""); !ok {
			t.Fatalf("AddTurn %d failed", i)
		}
	}

	got, ok := svc.Get(created.ID)
	if !ok {
		t.Fatal("expected session to be found")
	}
	if len(got.Conversation) != n {
		t.Fatalf("expected %d turns, got %d", n, len(got.Conversation))
	}
	for i, turn := range got.Conversation {
		if turn.Text != "turn-"+strconv.Itoa(i) {
			t.Fatalf("turn order broken at %d: %q", i, turn.Text)
		}
	}
}

func TestGetReturnsSnapshotNotLiveState(t *testing.T) {
	svc := session.NewService()
	created := svc.Create("Grade 1", "Meena", "meena@example.com", "+918888888888", "Other")

	first, _ := svc.Get(created.ID)
	svc.AddTurn(created.ID, "user", "hello", "", "")

	if len(first.Conversation) != 0 {
		t.Fatal("earlier snapshot must not observe later appends")
	}
	second, _ := svc.Get(created.ID)
	if len(second.Conversation) != 1 {
		t.Fatal("re-fetch must observe the append")
	}
}

func TestDeleteThenGetThenDeleteAgain(t *testing.T) {
	svc := session.NewService()
	created := svc.Create("Grade 9", "Kiran", "kiran@example.com", "+917777777777", "Admission")

	if !svc.Delete(created.ID) {
		t.Fatal("first delete should succeed")
	}
	if _, ok := svc.Get(created.ID); ok {
		t.Fatal("expected absent after delete")
	}
	if svc.Delete(created.ID) {
		t.Fatal("second delete should report false")
	}
}

func TestAddTurnOnDeletedSession(t *testing.T) {
	svc := session.NewService()
	created := svc.Create("Grade 2", "Dev", "dev@example.com", "+916666666666", "Syllabus")
	svc.Delete(created.ID)

	if _, ok := svc.AddTurn(created.ID, "user", "hi", "", ""); ok {
		t.Fatal("append to deleted session must fail")
	}
}

func TestReapRemovesIdleSessions(t *testing.T) {
	svc := session.NewService()
	stale := svc.Create("Grade 4", "Old", "old@example.com", "+915555555555", "Other")
	fresh := svc.Create("Grade 4", "New", "new@example.com", "+914444444444", "Other")
	svc.AddTurn(fresh.ID, "user", "keep me", "", "")

	time.Sleep(20 * time.Millisecond)
	// stale has not been touched for >10ms; fresh was appended to just now.
	svc.AddTurn(fresh.ID, "assistant", "still here", "", "")
	removed := svc.Reap(10 * time.Millisecond)

	if removed != 1 {
		t.Fatalf("expected 1 reaped, got %d", removed)
	}
	if _, ok := svc.Get(stale.ID); ok {
		t.Fatal("stale session should be gone")
	}
	if _, ok := svc.Get(fresh.ID); !ok {
		t.Fatal("fresh session should survive")
	}
}

func TestTranscriptRendering(t *testing.T) {
	svc := session.NewService()
	created := svc.Create("Grade 5", "Asha", "asha@example.com", "+911234567890", "Fees")
	svc.AddTurn(created.ID, "user", "What are the fees?", "", "")
	svc.AddTurn(created.ID, "assistant", "The annual fee is listed on our site.", "", "")

	text, ok := svc.Transcript(created.ID)
	if !ok {
		t.Fatal("expected transcript")
	}
	for _, want := range []string{
		"VOICE CHAT TRANSCRIPT",
		"Parent/Student",
		"Vikalp AI",
		"What are the fees?",
		"End of Transcript",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("transcript missing %q:\n%s", want, text)
		}
	}

	if _, ok := svc.Transcript("missing"); ok {
		t.Fatal("expected no transcript for unknown session")
	}
}
