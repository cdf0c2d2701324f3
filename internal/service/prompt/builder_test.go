package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	model "github.com/vikalpedu/voice-agent/backend/internal/model/session"
)

type fakeLookup struct {
	contexts map[string]string
}

func (f fakeLookup) Context(name string) (string, bool) {
	text, ok := f.contexts[name]
	return text, ok
}

func testSession() *model.Session {
	return &model.Session{
		ID:     "s-1",
		Grade:  "Grade 5",
		Name:   "Asha",
		Email:  "asha@example.com",
		Mobile: "+911234567890",
		Intent: "Fees",
	}
}

func TestBuildSystemPromptDeterministic(t *testing.T) {
	lookup := fakeLookup{contexts: map[string]string{"Grade 5": "fractions"}}
	b := NewBuilder(lookup)
	sess := testSession()
	sess.Conversation = []model.Turn{
		{Role: "user", Text: "hello", Timestamp: time.Unix(1, 0)},
		{Role: "assistant", Text: "hi there", Timestamp: time.Unix(2, 0)},
	}

	first := b.BuildSystemPrompt(sess, "What are the fees?")
	second := b.BuildSystemPrompt(sess, "What are the fees?")
	if first != second {
		t.Fatal("prompt assembly must be deterministic")
	}
}

func TestBuildSystemPromptEmbedsState(t *testing.T) {
	lookup := fakeLookup{contexts: map[string]string{"Grade 5": "fractions and decimals"}}
	b := NewBuilder(lookup)
	sess := testSession()
	sess.Conversation = []model.Turn{
		{Role: "user", Text: "tell me about math"},
		{Role: "assistant", Text: "we cover fractions"},
	}

	got := b.BuildSystemPrompt(sess, "and fees?")
	for _, want := range []string{
		"Grade Selected: Grade 5",
		"fractions and decimals",
		"Name: Asha",
		"Parent/Student: tell me about math",
		"Vikalp AI: we cover fractions",
		"and fees?",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptContextSentinel(t *testing.T) {
	b := NewBuilder(fakeLookup{})
	got := b.BuildSystemPrompt(testSession(), "hi")
	if !strings.Contains(got, "(Grade context not available)") {
		t.Fatal("expected context sentinel when curriculum is missing")
	}
}

func TestBuildSystemPromptEmptyHistory(t *testing.T) {
	b := NewBuilder(fakeLookup{})
	got := b.BuildSystemPrompt(testSession(), "hi")
	if !strings.Contains(got, "(No conversation history yet)") {
		t.Fatal("expected empty-history placeholder")
	}
}

func TestMemoryWindowKeepsLastTen(t *testing.T) {
	b := NewBuilder(fakeLookup{})
	sess := testSession()
	for i := 1; i <= 14; i++ {
		sess.Conversation = append(sess.Conversation, model.Turn{
			Role: "user",
			Text: fmt.Sprintf("turn-%02d", i),
		})
	}

	got := b.BuildSystemPrompt(sess, "now")
	// Turns 1-4 fall outside the ten-turn window; 5-14 stay.
	for _, absent := range []string{"turn-01", "turn-02", "turn-03", "turn-04"} {
		if strings.Contains(got, absent) {
			t.Fatalf("%s should be outside the memory window", absent)
		}
	}
	for _, present := range []string{"turn-05", "turn-14"} {
		if !strings.Contains(got, present) {
			t.Fatalf("%s must be inside the memory window", present)
		}
	}
}

func TestBuildMessagesShape(t *testing.T) {
	b := NewBuilder(fakeLookup{})
	msgs := b.BuildMessages(testSession(), "What are the fees?")
	if len(msgs) != 2 {
		t.Fatalf("expected system+user, got %d messages", len(msgs))
	}
	if string(msgs[0].Role) != "system" || string(msgs[1].Role) != "user" {
		t.Fatalf("unexpected roles: %s, %s", msgs[0].Role, msgs[1].Role)
	}
	if msgs[1].Content != "What are the fees?" {
		t.Fatalf("unexpected user content: %q", msgs[1].Content)
	}
}

func TestBuildDoesNotMutateSession(t *testing.T) {
	b := NewBuilder(fakeLookup{})
	sess := testSession()
	sess.Conversation = []model.Turn{{Role: "user", Text: "q"}}

	before := len(sess.Conversation)
	b.BuildMessages(sess, "again")
	if len(sess.Conversation) != before {
		t.Fatal("prompt assembly must not mutate the session")
	}
}
