package discord

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/chris/sambo/internal/reply"
	"github.com/chris/sambo/internal/tracker"
	"go.uber.org/zap"
)

type fakeTracker struct {
	seen []string
}

func (f *fakeTracker) Handle(_ context.Context, text string) tracker.Result {
	f.seen = append(f.seen, text)
	return tracker.Result{Outcome: tracker.OutcomeRecorded, Payload: reply.Payload{Text: "ok " + text}}
}

func testBot(owner string) (*Bot, *fakeTracker) {
	tr := &fakeTracker{}
	return &Bot{tracker: tr, ownerID: owner, logger: zap.NewNop()}, tr
}

func TestRespond_Owner(t *testing.T) {
	b, tr := testBot("42")
	p := b.respond(context.Background(), "42", "xx 150")
	if p.Text != "ok xx 150" {
		t.Errorf("got %q", p.Text)
	}
	if len(tr.seen) != 1 {
		t.Errorf("expected tracker to be called once, got %d", len(tr.seen))
	}
}

func TestRespond_StrangerDenied(t *testing.T) {
	b, tr := testBot("42")
	p := b.respond(context.Background(), "99", "x")
	if p != reply.AccessDenied() {
		t.Errorf("expected access denied, got %q", p.Text)
	}
	if len(tr.seen) != 0 {
		t.Error("tracker must not see messages from strangers")
	}
}

func TestRespond_NoOwnerServesEveryone(t *testing.T) {
	b, tr := testBot("")
	b.respond(context.Background(), "99", "1")
	if len(tr.seen) != 1 {
		t.Error("expected message to reach the tracker")
	}
}

func TestStripMention(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"standard", "<@123456> x", " x"},
		{"nickname", "<@!123456> x", " x"},
		{"both", "<@123456> <@!123456> he", "  he"},
		{"no mention", "zz 80", "zz 80"},
		{"other user", "<@999> 2", "<@999> 2"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripMention(tt.in, "123456"); got != tt.want {
				t.Errorf("stripMention(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitMessage_Short(t *testing.T) {
	chunks := splitMessage("✓ Coffee x1 recorded. Total today: 1", maxMessageLen)
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestSplitMessage_ExactLimit(t *testing.T) {
	s := strings.Repeat("a", maxMessageLen)
	chunks := splitMessage(s, maxMessageLen)
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk at exact limit, got %d", len(chunks))
	}
}

func TestSplitMessage_SplitsAtNewline(t *testing.T) {
	line := strings.Repeat("b", 1500)
	s := line + "\n" + line
	chunks := splitMessage(s, maxMessageLen)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0] != line+"\n" {
		t.Errorf("first chunk should end at the newline, got %d bytes", len(chunks[0]))
	}
	if chunks[1] != line {
		t.Errorf("second chunk = %d bytes, want %d", len(chunks[1]), len(line))
	}
}

func TestSplitMessage_NoNewlineFallback(t *testing.T) {
	s := strings.Repeat("c", 4500)
	chunks := splitMessage(s, maxMessageLen)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != s {
		t.Error("chunks should rejoin to the original")
	}
}

func TestSplitMessage_PrefersLastNewline(t *testing.T) {
	chunks := splitMessage("line1\nline2\nline3\nline4", 12)
	if chunks[0] != "line1\nline2\n" {
		t.Errorf("chunk[0] = %q, want %q", chunks[0], "line1\nline2\n")
	}
}

func TestSplitMessage_KeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
	}{
		{"cyrillic", strings.Repeat("кофе", 700), maxMessageLen},
		{"cjk", strings.Repeat("咖啡", 700), maxMessageLen},
		{"emoji", strings.Repeat("☕🙏", 500), maxMessageLen},
		{"limit below rune width", "🙏🙏🙏", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := splitMessage(tt.s, tt.maxLen)
			for i, c := range chunks {
				if !utf8.ValidString(c) {
					t.Errorf("chunk %d is not valid UTF-8", i)
				}
				if c == "" {
					t.Errorf("chunk %d is empty", i)
				}
			}
			if strings.Join(chunks, "") != tt.s {
				t.Error("chunks should rejoin to the original")
			}
		})
	}
}
