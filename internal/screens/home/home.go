package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorpro/internal/modes"
	"github.com/abhisek/tutorpro/internal/router"
	"github.com/abhisek/tutorpro/internal/screen"
	"github.com/abhisek/tutorpro/internal/screens/response"
	"github.com/abhisek/tutorpro/internal/tutor"
	"github.com/abhisek/tutorpro/internal/ui/components"
	"github.com/abhisek/tutorpro/internal/ui/theme"
)

// HomeScreen lists the learning modes. Choosing one opens the topic screen.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen whose mode items open a response screen
// backed by svc.
func New(svc tutor.Service) *HomeScreen {
	items := make([]components.MenuItem, 0, len(modes.All())+1)
	for _, m := range modes.All() {
		items = append(items, components.MenuItem{
			Label:       m.DisplayName(),
			Description: m.Description(),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: response.New(svc, m, "")}
				}
			},
		})
	}
	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := min(max(width-8, 20), 64)

	title := theme.Title.Width(cw).Render("What would you like to learn today?")
	subtitle := theme.Subtitle.Width(cw).Render("Pick a mode, then enter any topic.")
	menu := theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n"))

	content := strings.Join([]string{title, subtitle, menu}, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Choose a Mode"
}
