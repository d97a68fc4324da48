package prompt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/bimmerbailey/clarifier/internal/prompt"
)

// TestBuild_RequiresObjective verifies that ErrMissingField is returned when
// Objective is blank.
func TestBuild_RequiresObjective(t *testing.T) {
	for _, objective := range []string{"", "   ", "\n\t"} {
		_, err := prompt.Build(prompt.TypeClarifyObjective, prompt.BuildOptions{Objective: objective, Context: "x"})
		if !errors.Is(err, prompt.ErrMissingField) {
			t.Errorf("Build(%q) expected ErrMissingField, got %v", objective, err)
		}
	}
}

// TestBuild_UnknownType verifies unsupported types are rejected.
func TestBuild_UnknownType(t *testing.T) {
	_, err := prompt.Build(prompt.PromptType("summarize"), prompt.BuildOptions{Objective: "x"})
	if !errors.Is(err, prompt.ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

// TestBuild_MessageStructure verifies message count, roles and labelled lines.
func TestBuild_MessageStructure(t *testing.T) {
	tests := []struct {
		name        string
		opts        prompt.BuildOptions
		wantLines   []string
		unwantLines []string
	}{
		{
			name:        "objective only",
			opts:        prompt.BuildOptions{Objective: "Make login faster"},
			wantLines:   []string{"Objective: Make login faster"},
			unwantLines: []string{"Context:"},
		},
		{
			name:      "objective and context",
			opts:      prompt.BuildOptions{Objective: "Make login faster", Context: "Mobile app"},
			wantLines: []string{"Objective: Make login faster", "Context: Mobile app"},
		},
		{
			name:      "multi-line input is collapsed",
			opts:      prompt.BuildOptions{Objective: "Make login\nfaster", Context: "Mobile\n\napp"},
			wantLines: []string{"Objective: Make login faster", "Context: Mobile app"},
		},
		{
			name:        "blank context is omitted",
			opts:        prompt.BuildOptions{Objective: "ship", Context: "  "},
			wantLines:   []string{"Objective: ship"},
			unwantLines: []string{"Context:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, err := prompt.Build(prompt.TypeClarifyObjective, tt.opts)
			if err != nil {
				t.Fatalf("Build() failed: %v", err)
			}
			if len(msgs) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(msgs))
			}
			if msgs[0].Role != "system" || msgs[1].Role != "user" {
				t.Errorf("roles = %q, %q; want system, user", msgs[0].Role, msgs[1].Role)
			}

			lines := strings.Split(msgs[1].Content, "\n")
			for _, want := range tt.wantLines {
				found := false
				for _, l := range lines {
					if l == want {
						found = true
					}
				}
				if !found {
					t.Errorf("user message missing line %q:\n%s", want, msgs[1].Content)
				}
			}
			for _, unwant := range tt.unwantLines {
				if strings.Contains(msgs[1].Content, unwant) {
					t.Errorf("user message should not contain %q", unwant)
				}
			}
		})
	}
}

// TestBuild_SystemPromptRequestsJSON checks the reply contract.
func TestBuild_SystemPromptRequestsJSON(t *testing.T) {
	msgs, err := prompt.Build(prompt.TypeClarifyObjective, prompt.BuildOptions{Objective: "ship"})
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if !strings.Contains(msgs[0].Content, `"recommended_objective"`) {
		t.Error("system prompt should name the recommended_objective field")
	}
}

// TestBuild_Deterministic verifies identical input yields identical messages.
func TestBuild_Deterministic(t *testing.T) {
	opts := prompt.BuildOptions{Objective: "ship", Context: "web"}
	a, _ := prompt.Build(prompt.TypeClarifyObjective, opts)
	b, _ := prompt.Build(prompt.TypeClarifyObjective, opts)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("message %d differs between builds", i)
		}
	}
}
