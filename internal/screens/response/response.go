// Package response is the topic screen: a topic input above the rendered
// tutor response for one mode.
package response

import (
	"context"
	"strings"
	"sync/atomic"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorpro/internal/modes"
	"github.com/abhisek/tutorpro/internal/render"
	"github.com/abhisek/tutorpro/internal/router"
	"github.com/abhisek/tutorpro/internal/screen"
	"github.com/abhisek/tutorpro/internal/tutor"
	"github.com/abhisek/tutorpro/internal/ui/components"
	"github.com/abhisek/tutorpro/internal/ui/layout"
	"github.com/abhisek/tutorpro/internal/ui/theme"
)

const topicCharLimit = 500

type focus int

const (
	focusInput focus = iota
	focusContent
)

var screenIDs atomic.Int64

// resultMsg carries a finished request back to the screen that sent it.
type resultMsg struct {
	screenID int64
	resp     *tutor.Response
	err      error
}

// Screen asks the tutor about a topic in one mode and shows the answer.
// Only one request is in flight at a time.
type Screen struct {
	id   int64
	svc  tutor.Service
	mode modes.Mode

	input    components.TextInput
	spinner  spinner.Model
	viewport viewport.Model
	focus    focus

	loading bool
	topic   string
	resp    *tutor.Response
	errMsg  string
	reveal  render.Reveal

	width, height int
}

var _ screen.Screen = (*Screen)(nil)

// New creates a Screen for mode, with the input prefilled with topic.
func New(svc tutor.Service, mode modes.Mode, topic string) *Screen {
	input := components.NewTextInput("e.g. Photosynthesis, binary search, the French Revolution", topicCharLimit)
	if topic != "" {
		input.Model.SetValue(topic)
	}
	return &Screen{
		id:       screenIDs.Add(1),
		svc:      svc,
		mode:     mode,
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Accent))),
		viewport: viewport.New(),
	}
}

// Mode returns the mode this screen asks in.
func (s *Screen) Mode() modes.Mode {
	return s.mode
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.screenID != s.id {
			return s, nil
		}
		s.finish(msg.resp, msg.err)
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.focus == focusInput {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.focus == focusInput {
		switch key {
		case "enter":
			return s, s.submit()
		case "tab":
			if s.resp != nil {
				s.focusContent()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	switch key {
	case "tab", "/", "i":
		s.focus = focusInput
		return s, s.input.Focus()
	case "h":
		s.reveal.Hints = !s.reveal.Hints
		s.refresh()
	case "a":
		s.reveal.Answers = !s.reveal.Answers
		s.refresh()
	case "f":
		s.reveal.Backs = !s.reveal.Backs
		s.refresh()
	case "]":
		return s, s.switchMode(1)
	case "[":
		return s, s.switchMode(-1)
	default:
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return s, cmd
	}
	return s, nil
}

// submit starts a request for the current input. It does nothing while a
// request is in flight or when the topic is blank.
func (s *Screen) submit() tea.Cmd {
	if s.loading || s.input.Blank() {
		return nil
	}
	s.topic = s.input.Value()
	s.loading = true
	s.resp = nil
	s.errMsg = ""
	s.reveal = render.Reveal{}
	s.refresh()

	svc, topic, mode, id := s.svc, s.topic, s.mode, s.id
	ask := func() tea.Msg {
		resp, err := svc.GetTutorResponse(context.Background(), topic, mode)
		return resultMsg{screenID: id, resp: resp, err: err}
	}
	return tea.Batch(s.spinner.Tick, ask)
}

func (s *Screen) finish(resp *tutor.Response, err error) {
	s.loading = false
	if err != nil {
		s.resp = nil
		s.errMsg = tutor.AsError(err).Message
		s.refresh()
		return
	}
	s.resp = resp
	s.errMsg = ""
	s.refresh()
	s.viewport.GotoTop()
	s.focusContent()
}

func (s *Screen) focusContent() {
	s.focus = focusContent
	s.input.Blur()
}

func (s *Screen) switchMode(step int) tea.Cmd {
	if s.loading {
		return nil
	}
	all := modes.All()
	next := all[0]
	for i, m := range all {
		if m == s.mode {
			next = all[(i+step+len(all))%len(all)]
			break
		}
	}
	topic := s.input.Value()
	svc := s.svc
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: New(svc, next, topic)}
	}
}

// refresh re-renders the response into the viewport.
func (s *Screen) refresh() {
	if s.resp == nil {
		s.viewport.SetContent("")
		return
	}
	r := render.NewTerminal(s.width)
	r.Reveal = s.reveal
	s.viewport.SetContent(render.Response(r, s.resp))
}

func (s *Screen) View(width, height int) string {
	if width != s.width {
		s.width = width
		s.input.SetWidth(max(width-12, 10))
		s.refresh()
	}
	s.height = height

	var top strings.Builder
	top.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + s.mode.Description()))
	top.WriteString("\n\n  ")
	top.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Topic "))
	top.WriteString(s.input.View())
	top.WriteString("\n")
	header := top.String()

	bodyHeight := max(height-lipgloss.Height(header)-1, 1)

	var body string
	switch {
	case s.loading:
		body = "  " + s.spinner.View() + theme.Hint.Render("Asking the tutor about "+s.topic+"...")
	case s.errMsg != "":
		body = lipgloss.NewStyle().MarginLeft(2).Render(
			theme.ErrorPanel.Width(min(max(width-6, 20), 80)).Render("Error: " + s.errMsg))
	case s.resp != nil:
		s.viewport.SetWidth(width)
		s.viewport.SetHeight(bodyHeight)
		body = s.viewport.View()
	default:
		body = theme.Hint.Render("  Type a topic and press Enter.")
	}

	return header + "\n" + body
}

func (s *Screen) Title() string {
	if s.topic != "" {
		return s.topic
	}
	return "New Topic"
}

// Badge shows the active mode in the header.
func (s *Screen) Badge() string {
	return s.mode.DisplayName()
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.focus == focusInput {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Ask"}}
		if s.resp != nil {
			hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Read"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "h", Description: "Hints"},
		{Key: "a", Description: "Answers"},
		{Key: "f", Description: "Flip"},
		{Key: "[ ]", Description: "Mode"},
		{Key: "Tab", Description: "New topic"},
		{Key: "Esc", Description: "Back"},
	}
}
