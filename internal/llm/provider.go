package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction over a generative-content API.
// A single Generate call performs exactly one outbound request.
type Provider interface {
	// Generate sends a prompt to the model and returns its raw output.
	// When the request carries a Schema, the provider asks the vendor for
	// structured JSON output using its native mechanism. The returned
	// Content is the text as produced by the model; callers are
	// responsible for repairing and validating it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system instruction. Sets the model's role and constraints.
	System string

	// Messages is the conversation. The tutor is single-turn, so this
	// holds one user message.
	Messages []Message

	// Schema is the JSON Schema the response should conform to.
	// When nil, the provider asks for free-form text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	// Zero leaves the vendor default in place.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Zero leaves the vendor default in place.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// validation). Kebab-case, e.g. "tutor-response".
	Name string

	// Description is a human-readable description of what this schema
	// represents.
	Description string

	// Definition is the JSON Schema definition as a map. Gemini-style
	// "nullable" markers are honoured by the Gemini provider.
	Definition map[string]any

	// Strict requests strict schema adherence where the vendor supports
	// it. Strict mode requires every property to be listed as required.
	Strict bool
}

// Response holds the model's output.
type Response struct {
	// Content is the generated text, unmodified.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Text returns the response content as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
