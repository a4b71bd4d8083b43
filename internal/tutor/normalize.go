package tutor

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/abhisek/tutorpro/internal/llm"
)

var (
	openingFence = regexp.MustCompile("^```[A-Za-z]*\n?")
	closingFence = regexp.MustCompile("```$")
)

// StripCodeFence removes a markdown code fence around text. The opening
// fence may carry a language tag. Text that does not start with a fence is
// only trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = openingFence.ReplaceAllString(text, "")
	text = closingFence.ReplaceAllString(strings.TrimSpace(text), "")
	return strings.TrimSpace(text)
}

// RepairTrailingCommas drops a comma that directly precedes a closing brace
// or bracket, together with the whitespace between them. Commas inside
// string literals are left alone, so valid JSON comes back unchanged.
func RepairTrailingCommas(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			sb.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				i = j - 1
				continue
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Normalize turns raw model output into a validated Response. Parse
// failures and envelope violations are reported as distinct kinds, and no
// Response is returned with either.
func Normalize(raw string) (*Response, error) {
	text := RepairTrailingCommas(StripCodeFence(raw))
	if text == "" {
		return nil, &Error{Kind: KindParse, Message: "empty response from AI tutor"}
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &Error{Kind: KindParse, Message: "response is not valid JSON", Err: err}
	}

	if err := envelopeSchema.Validate(doc); err != nil {
		var se *llm.SchemaError
		if errors.As(err, &se) {
			return nil, &Error{Kind: KindValidation, Message: "invalid response format from AI: " + se.Details()}
		}
		return nil, &Error{Kind: KindInternal, Message: "envelope schema", Err: err}
	}

	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "invalid response format from AI", Err: err}
	}
	return &resp, nil
}
