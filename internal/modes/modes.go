// Package modes defines the fixed set of tutoring modes a user can pick.
package modes

import (
	"errors"
	"fmt"
	"strings"
)

// Mode identifies a tutoring behavior. The string value is the wire
// identifier sent to the model and to the proxy.
type Mode string

const (
	Explain    Mode = "Explain"
	Code       Mode = "Code"
	Quiz       Mode = "Quiz"
	Flashcards Mode = "Flashcards"
	Exam       Mode = "Exam"
	Project    Mode = "Project"
	Plan       Mode = "Plan"
	Map        Mode = "Map"
)

// Default is the mode preselected by every front-end.
const Default = Explain

// ErrUnknownMode is returned by Parse for identifiers outside the registry.
var ErrUnknownMode = errors.New("unknown mode")

// All returns every mode in menu order.
func All() []Mode {
	return []Mode{Explain, Code, Quiz, Flashcards, Exam, Project, Plan, Map}
}

// Parse resolves an identifier case-insensitively.
func Parse(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: mode is required", ErrUnknownMode)
	}
	for _, m := range All() {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Valid reports whether m is one of the registered modes.
func (m Mode) Valid() bool {
	for _, known := range All() {
		if m == known {
			return true
		}
	}
	return false
}

// DisplayName returns the menu label.
func (m Mode) DisplayName() string {
	switch m {
	case Explain:
		return "Explain"
	case Code:
		return "Code"
	case Quiz:
		return "Quiz Me"
	case Flashcards:
		return "Flashcards"
	case Exam:
		return "Exam Prep"
	case Project:
		return "Project Ideas"
	case Plan:
		return "Study Plan"
	case Map:
		return "Mind Map"
	default:
		return string(m)
	}
}

// Description is the one-line blurb shown under the label in menus.
func (m Mode) Description() string {
	switch m {
	case Explain:
		return "Concepts from basics to advanced"
	case Code:
		return "Runnable code with explanations"
	case Quiz:
		return "Questions with hints and answers"
	case Flashcards:
		return "Q&A cards for memory practice"
	case Exam:
		return "Revision sheets and mock tests"
	case Project:
		return "Real-world projects, step by step"
	case Plan:
		return "Day-by-day learning schedule"
	case Map:
		return "Topic structure as a tree"
	default:
		return ""
	}
}

// Hint describes the model's role in this mode. It is embedded in the
// system instruction.
func (m Mode) Hint() string {
	switch m {
	case Explain:
		return "Teach concepts from basics to advanced with step-by-step explanations."
	case Code:
		return "Generate full, runnable code with explanations, sample outputs, and possible improvements."
	case Quiz:
		return "Create multiple-choice questions, fill-in-the-blank, and short answer quizzes with hints and answers."
	case Flashcards:
		return "Output Q&A flashcards for memory practice."
	case Exam:
		return "Provide quick revision sheets, formulas, mnemonics, and mock tests."
	case Project:
		return "Suggest real-world projects with step-by-step implementation plans."
	case Plan:
		return "Suggest a day-by-day or week-by-week learning plan."
	case Map:
		return "Create text-based mind maps of a topic's structure."
	default:
		return ""
	}
}
