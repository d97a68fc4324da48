package prompt

import (
	"errors"
	"fmt"
)

// PromptType identifies the task a prompt is designed to perform.
type PromptType string

const (
	// TypeClarifyObjective asks the model to rewrite a vague objective into a
	// specific, measurable one and answer with a JSON object.
	TypeClarifyObjective PromptType = "clarify_objective"
)

// BuildOptions holds the information required to build a prompt.
type BuildOptions struct {
	// Objective is the user's original objective text. Required.
	Objective string

	// Context is optional background that narrows the objective
	// (product area, audience, constraints).
	Context string
}

// ErrMissingField is returned by [Build] when a required field for the
// requested [PromptType] is absent from [BuildOptions].
var ErrMissingField = errors.New("prompt: missing required field")

// ErrUnknownType is returned by [Build] for a [PromptType] it cannot build.
var ErrUnknownType = errors.New("prompt: unknown prompt type")

// missingField wraps [ErrMissingField] with the specific field name.
func missingField(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
