package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/tutorpro/internal/llm"
	"github.com/abhisek/tutorpro/internal/modes"
)

const systemPreamble = `You are the core AI engine for a multi-feature AI Tutor that serves as an all-in-one learning hub for school and college students.
Your primary goal is to generate interactive and educational content based on the user's request and selected interaction mode.
You MUST ALWAYS structure your responses in the specified JSON format. The front-end depends entirely on this structure to render content correctly.`

const systemStyle = `Style & Personality:
- Be encouraging, clear, and engaging.
- Adapt explanations for different levels (Beginner, Intermediate, Advanced) if specified.
- Use analogies, examples, and simple language.
- For long topics, end with a "Quick Recap" in a text block and suggest a "Next Topic" in the summary.

CRITICAL: Your entire output must be a single, valid JSON object that conforms to the provided schema. No extra text, no markdown formatting outside of the JSON.`

const jsonOnlyReminder = `IMPORTANT:
Respond ONLY with a single valid JSON object matching the provided schema.
Do NOT include any extra text, explanations, or markdown outside of the JSON.`

// SystemInstruction is the fixed system prompt. It lists every mode with
// its hint.
var SystemInstruction = buildSystemInstruction()

func buildSystemInstruction() string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\nAvailable Interaction Modes and Your Role:\n")
	for _, m := range modes.All() {
		fmt.Fprintf(&b, "- %s: %s\n", m, m.Hint())
	}
	b.WriteString("\n")
	b.WriteString(systemStyle)
	return b.String()
}

// checkInput rejects a blank topic or an unregistered mode.
func checkInput(topic string, mode modes.Mode) error {
	if strings.TrimSpace(topic) == "" {
		return inputError("topic is required")
	}
	if !mode.Valid() {
		return inputError(fmt.Sprintf("unknown mode %q", mode))
	}
	return nil
}

// BuildRequest composes the structured generation request for topic. The
// topic is embedded exactly as given; only the emptiness check trims it.
// Token limits are left for the caller to set.
func BuildRequest(topic string, mode modes.Mode) (llm.Request, error) {
	if err := checkInput(topic, mode); err != nil {
		return llm.Request{}, err
	}
	return llm.Request{
		System: SystemInstruction,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Mode: %s\nTopic: %s\n\n%s", mode, topic, jsonOnlyReminder)},
		},
		Schema: ResponseSchema,
	}, nil
}

// BuildRawRequest composes the free-text request used by the raw proxy
// shape. It carries no schema and no system instruction.
func BuildRawRequest(topic string, mode modes.Mode) (llm.Request, error) {
	if err := checkInput(topic, mode); err != nil {
		return llm.Request{}, err
	}
	return llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Mode: %s\nTopic: %s", mode, topic)},
		},
	}, nil
}
