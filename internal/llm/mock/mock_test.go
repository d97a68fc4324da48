package mock

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
	"unicode/utf8"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestNewNilLogger verifies that nil logger is rejected.
func TestNewNilLogger(t *testing.T) {
	_, err := New(Config{Region: "eu-west-1"}, nil)
	if err == nil {
		t.Error("New() should reject nil logger")
	}
}

// TestChatDeterministic verifies identical input yields identical output.
func TestChatDeterministic(t *testing.T) {
	provider, err := New(Config{Region: "eu-west-1"}, testLogger())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	messages := []Message{
		{Role: "system", Content: "You clarify objectives."},
		{Role: "user", Content: "Objective: Make login faster.\nContext: Mobile app"},
	}

	first, err := provider.Chat(context.Background(), messages, &ChatOptions{Model: "m1"})
	if err != nil {
		t.Fatalf("Chat() failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		next, err := provider.Chat(context.Background(), messages, &ChatOptions{Model: "m1"})
		if err != nil {
			t.Fatalf("Chat() failed: %v", err)
		}
		if *next != *first {
			t.Fatalf("Chat() not deterministic: %+v vs %+v", next, first)
		}
	}

	if first.Model != "m1" {
		t.Errorf("Model = %q, want m1", first.Model)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(first.Content), &body); err != nil {
		t.Fatalf("mock content should be JSON: %v", err)
	}
	got := body["recommended_objective"]
	if !strings.Contains(got, "make login faster") {
		t.Errorf("recommended_objective should restate the objective, got %q", got)
	}
	if !strings.Contains(got, "Mobile app") {
		t.Errorf("recommended_objective should carry the context, got %q", got)
	}
}

// TestChatDefaultModel verifies the default model name.
func TestChatDefaultModel(t *testing.T) {
	provider, _ := New(Config{}, testLogger())
	resp, err := provider.Chat(context.Background(), []Message{{Role: "user", Content: "ship it"}}, nil)
	if err != nil {
		t.Fatalf("Chat() failed: %v", err)
	}
	if resp.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", resp.Model, DefaultModel)
	}
	if resp.TokensTotal <= resp.TokensPrompt {
		t.Errorf("TokensTotal (%d) should exceed TokensPrompt (%d)", resp.TokensTotal, resp.TokensPrompt)
	}
}

// TestChatEmptyMessages verifies that Chat rejects empty message list.
func TestChatEmptyMessages(t *testing.T) {
	provider, _ := New(Config{}, testLogger())
	if _, err := provider.Chat(context.Background(), nil, nil); err == nil {
		t.Error("Chat() should reject empty messages")
	}
}

// TestChatCanceled verifies a canceled context is honored.
func TestChatCanceled(t *testing.T) {
	provider, _ := New(Config{}, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.Chat(ctx, []Message{{Role: "user", Content: "x"}}, nil); err == nil {
		t.Error("Chat() should fail on canceled context")
	}
}

// TestClarifyLowersFirstRune verifies multi-byte leading letters survive.
func TestClarifyLowersFirstRune(t *testing.T) {
	tests := []struct {
		name      string
		objective string
		want      string
	}{
		{"ascii", "Make login faster.", "Verify that make login faster in "},
		{"accented", "Éviter les pannes", "Verify that éviter les pannes in "},
		{"cyrillic", "Ускорить вход", "Verify that ускорить вход in "},
		{"empty", "  ", "Verify that the stated goal is met in "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clarify(tt.objective, "")
			if !utf8.ValidString(got) {
				t.Fatalf("clarify(%q) returned invalid UTF-8: %q", tt.objective, got)
			}
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("clarify(%q) = %q, want prefix %q", tt.objective, got, tt.want)
			}
		})
	}

	provider, _ := New(Config{}, testLogger())
	resp, err := provider.Chat(context.Background(), []Message{{Role: "user", Content: "Objective: Éviter les pannes"}}, nil)
	if err != nil {
		t.Fatalf("Chat() failed: %v", err)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(resp.Content), &body); err != nil {
		t.Fatalf("mock content should be JSON: %v", err)
	}
	if !strings.Contains(body["recommended_objective"], "éviter les pannes") {
		t.Errorf("recommended_objective = %q", body["recommended_objective"])
	}
}
