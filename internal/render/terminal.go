package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorpro/internal/tutor"
	"github.com/abhisek/tutorpro/internal/ui/theme"
)

// Reveal controls which hidden parts a Terminal shows.
type Reveal struct {
	Hints   bool
	Answers bool
	Backs   bool
}

// Terminal renders blocks with lipgloss for the TUI and the CLI.
type Terminal struct {
	Width  int
	Reveal Reveal
}

// NewTerminal creates a Terminal renderer wrapping text at width columns.
func NewTerminal(width int) *Terminal {
	return &Terminal{Width: width}
}

func (t *Terminal) contentWidth() int {
	if t.Width <= 4 {
		return 76
	}
	return t.Width - 4
}

func (t *Terminal) Separator() string { return "\n\n" }

func (t *Terminal) Header(resp *tutor.Response) string {
	w := t.contentWidth()
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Width(w).Render(resp.Title)
	summary := lipgloss.NewStyle().Foreground(theme.TextDim).Width(w).Render(resp.Summary)
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", w))
	return title + "\n" + summary + "\n" + rule
}

func (t *Terminal) Text(_ int, b tutor.TextBlock) string {
	return theme.Body.Width(t.contentWidth()).Render(b.Content)
}

func (t *Terminal) Code(_ int, b tutor.CodeBlock) string {
	lang := b.Language
	if lang == "" {
		lang = "code"
	}
	label := theme.Hint.Render(lang)
	code := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.Border).
		PaddingLeft(1).
		Render(b.Content)
	return label + "\n" + code
}

func (t *Terminal) Quiz(_ int, b tutor.QuizBlock) string {
	w := t.contentWidth()
	qStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Width(w)
	numStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	optStyle := lipgloss.NewStyle().Foreground(theme.Text)
	labelStyle := lipgloss.NewStyle().Foreground(theme.Secondary)
	hintStyle := lipgloss.NewStyle().Foreground(theme.Accent)
	answerStyle := lipgloss.NewStyle().Foreground(theme.Success)

	var parts []string
	for i, q := range b.Questions {
		var sb strings.Builder
		sb.WriteString(qStyle.Render(numStyle.Render(fmt.Sprintf("Q%d:", i+1)) + " " + q.Question))
		if showOptions(q) {
			for j, opt := range q.Options {
				sb.WriteString("\n  ")
				sb.WriteString(labelStyle.Render("(" + OptionLabel(j) + ")"))
				sb.WriteString(" ")
				sb.WriteString(optStyle.Render(opt))
			}
		}
		if q.Hint != "" {
			sb.WriteString("\n")
			if t.Reveal.Hints {
				sb.WriteString(hintStyle.Render("Hint: " + q.Hint))
			} else {
				sb.WriteString(theme.Hint.Render("[h] show hint"))
			}
		}
		sb.WriteString("\n")
		if t.Reveal.Answers {
			sb.WriteString(answerStyle.Render("Answer: " + q.Answer))
		} else {
			sb.WriteString(theme.Hint.Render("[a] show answer"))
		}
		parts = append(parts, sb.String())
	}
	if len(parts) == 0 {
		return theme.Hint.Render("(no questions)")
	}
	return strings.Join(parts, "\n\n")
}

func (t *Terminal) Flashcards(_ int, b tutor.FlashcardsBlock) string {
	w := t.contentWidth()
	card := theme.Card.Width(min(w, 60))
	frontStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	backStyle := lipgloss.NewStyle().Foreground(theme.Success)

	var cards []string
	for i, c := range b.Cards {
		body := frontStyle.Render(fmt.Sprintf("%d. %s", i+1, c.Question)) + "\n"
		if t.Reveal.Backs {
			body += backStyle.Render(c.Answer)
		} else {
			body += theme.Hint.Render("[f] flip")
		}
		cards = append(cards, card.Render(body))
	}
	if len(cards) == 0 {
		return theme.Hint.Render("(no cards)")
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

var mindMapLevels = []lipgloss.Style{
	lipgloss.NewStyle().Bold(true).Foreground(theme.Text),
	lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
	lipgloss.NewStyle().Foreground(theme.Secondary),
	lipgloss.NewStyle().Foreground(theme.Accent),
}

func (t *Terminal) MindMap(_ int, b tutor.MindMapBlock) string {
	var sb strings.Builder
	for i, n := range b.Nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(mindMapLevels[0].Render(n.Topic))
		writeTree(&sb, n.Children, "", 1, func(level int, s string) string {
			return mindMapLevels[level%len(mindMapLevels)].Render(s)
		})
	}
	return sb.String()
}

func (t *Terminal) Unsupported(_ int, blockType string) string {
	msg := "Unsupported content type"
	if blockType != "" {
		msg += ": " + blockType
	}
	return lipgloss.NewStyle().Foreground(theme.Error).Render(msg)
}

func (t *Terminal) Extras(e *tutor.Extras) string {
	head := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	item := theme.Body.Width(t.contentWidth() - 2)

	var sections []string
	for _, s := range extraSections(e) {
		var sb strings.Builder
		sb.WriteString(head.Render(s.Title))
		for _, it := range s.Items {
			sb.WriteString("\n• ")
			sb.WriteString(item.Render(it))
		}
		sections = append(sections, sb.String())
	}
	return strings.Join(sections, "\n\n")
}

// writeTree writes children as an ASCII tree below their parent.
func writeTree(sb *strings.Builder, nodes []tutor.MindMapNode, prefix string, level int, style func(int, string) string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		sb.WriteString("\n")
		sb.WriteString(prefix + branch)
		sb.WriteString(style(level, n.Topic))
		if !n.Leaf() {
			writeTree(sb, n.Children, prefix+next, level+1, style)
		}
	}
}
