// Package prompt provides the prompt templates clarifier sends to its
// inference provider.
//
// # Overview
//
// Callers describe the request in a [BuildOptions] value and call [Build]
// to receive a []llm.Message slice that can be sent directly to any
// [llm.Provider].
//
// # Prompt types
//
//   - [TypeClarifyObjective] rewrites an objective into a measurable one
//
// # Basic usage
//
//	messages, err := prompt.Build(prompt.TypeClarifyObjective, prompt.BuildOptions{
//	    Objective: "make login faster",
//	    Context:   "mobile app, EU users",
//	})
//	if err != nil {
//	    return err
//	}
//	resp, err := provider.Chat(ctx, messages, &llm.ChatOptions{Model: modelID})
//
// # Reply format
//
// The system prompt asks for a bare JSON object with a
// "recommended_objective" field and an optional "rationale" field.
// internal/recommend tolerates code fences and surrounding prose when
// extracting it.
package prompt
