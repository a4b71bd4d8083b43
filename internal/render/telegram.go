package render

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/tutorpro/internal/tutor"
)

// TelegramHTML renders blocks as Telegram HTML. Hints, answers and card
// backs are wrapped in spoilers so the reader taps to reveal them.
type TelegramHTML struct{}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

func spoiler(s string) string {
	return "<tg-spoiler>" + esc(s) + "</tg-spoiler>"
}

func (TelegramHTML) Separator() string { return "\n\n" }

func (TelegramHTML) Header(resp *tutor.Response) string {
	return "<b>" + esc(resp.Title) + "</b>\n<i>" + esc(resp.Summary) + "</i>"
}

func (TelegramHTML) Text(_ int, b tutor.TextBlock) string {
	return esc(b.Content)
}

func (TelegramHTML) Code(_ int, b tutor.CodeBlock) string {
	if lang := codeLanguage(b.Language); lang != "" {
		return `<pre><code class="language-` + lang + `">` + esc(b.Content) + "</code></pre>"
	}
	return "<pre>" + esc(b.Content) + "</pre>"
}

func (TelegramHTML) Quiz(_ int, b tutor.QuizBlock) string {
	parts := make([]string, 0, len(b.Questions))
	for i, q := range b.Questions {
		var sb strings.Builder
		fmt.Fprintf(&sb, "<b>Q%d:</b> %s", i+1, esc(q.Question))
		if showOptions(q) {
			for j, opt := range q.Options {
				fmt.Fprintf(&sb, "\n(%s) %s", OptionLabel(j), esc(opt))
			}
		}
		if q.Hint != "" {
			sb.WriteString("\nHint: " + spoiler(q.Hint))
		}
		sb.WriteString("\nAnswer: " + spoiler(q.Answer))
		parts = append(parts, sb.String())
	}
	if len(parts) == 0 {
		return "<i>(no questions)</i>"
	}
	return strings.Join(parts, "\n\n")
}

func (TelegramHTML) Flashcards(_ int, b tutor.FlashcardsBlock) string {
	parts := make([]string, 0, len(b.Cards))
	for i, c := range b.Cards {
		parts = append(parts, fmt.Sprintf("<b>%d.</b> %s\n%s", i+1, esc(c.Question), spoiler(c.Answer)))
	}
	if len(parts) == 0 {
		return "<i>(no cards)</i>"
	}
	return strings.Join(parts, "\n\n")
}

func (TelegramHTML) MindMap(_ int, b tutor.MindMapBlock) string {
	var sb strings.Builder
	for i, n := range b.Nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(esc(n.Topic))
		writeTree(&sb, n.Children, "", 1, func(_ int, s string) string { return esc(s) })
	}
	return "<pre>" + sb.String() + "</pre>"
}

func (TelegramHTML) Unsupported(_ int, blockType string) string {
	if blockType == "" {
		return "<i>Unsupported content type</i>"
	}
	return "<i>Unsupported content type: " + esc(blockType) + "</i>"
}

func (TelegramHTML) Extras(e *tutor.Extras) string {
	var sections []string
	for _, s := range extraSections(e) {
		var sb strings.Builder
		sb.WriteString("<b>" + esc(s.Title) + "</b>")
		for _, it := range s.Items {
			sb.WriteString("\n• " + esc(it))
		}
		sections = append(sections, sb.String())
	}
	return strings.Join(sections, "\n\n")
}

// codeLanguage keeps a language tag only if it is safe inside a class
// attribute.
func codeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, r := range lang {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '#' || r == '_') {
			return ""
		}
	}
	return lang
}
