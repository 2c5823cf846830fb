package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/docchat/internal/domain/chatModel"
)

func TestBuildConversation_Shape(t *testing.T) {
	chunks := []string{"chunk one", "chunk two"}
	conv := BuildConversation("manual.pdf", chunks, nil, "how does it work?")

	if len(conv) != 2 {
		t.Fatalf("Expected system + user message, got %d messages", len(conv))
	}
	if conv[0].Role != chatModel.RoleSystem {
		t.Errorf("First message role got %s, want system", conv[0].Role)
	}
	if !strings.Contains(conv[0].Content, "manual.pdf") {
		t.Error("System message must name the document")
	}

	user := conv[len(conv)-1]
	if user.Role != chatModel.RoleUser {
		t.Errorf("Last message role got %s, want user", user.Role)
	}
	if !strings.Contains(user.Content, "chunk one\n\nchunk two") {
		t.Error("Context chunks must be joined with blank lines")
	}
	if !strings.Contains(user.Content, "question: how does it work?") {
		t.Error("User message must carry the literal query")
	}
}

func TestBuildConversation_HistoryWindow(t *testing.T) {
	var history []chatModel.Message
	for i := 0; i < 5; i++ {
		history = append(history,
			chatModel.NewMessage(chatModel.RoleUser, fmt.Sprintf("q%d", i)),
			chatModel.NewMessage(chatModel.RoleAssistant, fmt.Sprintf("a%d", i)),
		)
	}

	conv := BuildConversation("doc", []string{"ctx"}, history, "latest")

	// system + 6 history entries + user
	if len(conv) != 8 {
		t.Fatalf("Expected 8 messages, got %d", len(conv))
	}
	if conv[1].Content != "q2" {
		t.Errorf("Oldest injected entry got %q, want q2", conv[1].Content)
	}
	if conv[6].Content != "a4" {
		t.Errorf("Newest injected entry got %q, want a4", conv[6].Content)
	}
}

func TestTruncateMiddle(t *testing.T) {
	content := strings.Repeat("s", 100) + strings.Repeat("e", 100)

	got := TruncateMiddle(content, 60)

	if len(got) > 60+len(elisionMarker) {
		t.Errorf("Truncated length %d too large", len(got))
	}
	if !strings.HasPrefix(got, "ss") {
		t.Error("Head of the document must survive")
	}
	if !strings.HasSuffix(got, "ee") {
		t.Error("Tail of the document must survive")
	}
	if !strings.Contains(got, "[...]") {
		t.Error("Elision marker missing")
	}

	if TruncateMiddle("short", 60) != "short" {
		t.Error("Short content must pass through untouched")
	}
}

func TestTruncateHead(t *testing.T) {
	if got := TruncateHead("abcdef", 3); got != "abc" {
		t.Errorf("TruncateHead got %q, want abc", got)
	}
	if got := TruncateHead("abc", 10); got != "abc" {
		t.Errorf("TruncateHead got %q, want abc", got)
	}
}

func TestParseTopics(t *testing.T) {
	raw := "- rocket engines\nfuel systems\n\n-  guidance\n   \n- \n"

	got := ParseTopics(raw)

	want := []string{"rocket engines", "fuel systems", "guidance"}
	if len(got) != len(want) {
		t.Fatalf("Topics got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Topic %d got %q, want %q", i, got[i], want[i])
		}
	}
}
