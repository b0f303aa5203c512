package providers

import "context"

// Prompt is a single generation request, constructed per inbound message.
type Prompt struct {
	UserMessage  string
	SystemPrompt string
}

// Result is the outcome of one generation attempt: either a text reply or
// no result. Provider faults never cross the adapter boundary as errors;
// they are absorbed and reported as NoResult.
type Result struct {
	Text string
	OK   bool
}

// NoResult signals the adapter produced no usable output.
var NoResult = Result{}

// TextReply wraps generated text in a successful Result.
func TextReply(text string) Result { return Result{Text: text, OK: true} }

// Provider is the interface all generation backends implement.
type Provider interface {
	// Generate attempts to produce text for the prompt within the
	// backend's own timeout. Transport errors, bad status codes, and
	// malformed payloads all come back as NoResult.
	Generate(ctx context.Context, p Prompt) Result

	// Name returns the backend identifier (e.g. "openai", "ollama").
	Name() string

	// Configured reports whether the backend can be attempted at all.
	// For credentialed backends this means the credential is present.
	Configured() bool
}
