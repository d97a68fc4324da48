package prompt

import (
	"strings"

	"github.com/bimmerbailey/clarifier/internal/llm"
)

// Build constructs a []llm.Message slice ready to be sent to any llm.Provider.
//
// The returned slice begins with a system message whose content is
// determined by pt, followed by a user message carrying the objective on an
// "Objective:" line and, when present, the context on a "Context:" line.
//
// Returns ErrMissingField if Objective is blank and ErrUnknownType for an
// unsupported pt.
func Build(pt PromptType, opts BuildOptions) ([]llm.Message, error) {
	if strings.TrimSpace(opts.Objective) == "" {
		return nil, missingField("Objective")
	}

	switch pt {
	case TypeClarifyObjective:
		return buildClarifyObjective(opts), nil
	default:
		return nil, ErrUnknownType
	}
}

func buildClarifyObjective(opts BuildOptions) []llm.Message {
	var sb strings.Builder
	sb.WriteString("Rewrite the following testing objective so it is specific and measurable.\n\n")
	sb.WriteString("Objective: ")
	sb.WriteString(singleLine(opts.Objective))
	sb.WriteString("\n")
	if ctx := singleLine(opts.Context); ctx != "" {
		sb.WriteString("Context: ")
		sb.WriteString(ctx)
		sb.WriteString("\n")
	}

	return []llm.Message{
		{Role: "system", Content: systemPrompt(TypeClarifyObjective)},
		{Role: "user", Content: sb.String()},
	}
}

// singleLine collapses whitespace runs, including newlines, so each field
// stays on its own labelled line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
