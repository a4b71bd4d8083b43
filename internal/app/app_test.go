package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

func TestViewShowsHeaderAndModes(t *testing.T) {
	m := newAppModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	out := ansi.Strip(updated.(AppModel).frame())
	for _, want := range []string{"AI Tutor Pro", "Choose a Mode", "Quiz Me", "Enter Select"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newAppModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	out := ansi.Strip(updated.(AppModel).frame())
	if !strings.Contains(out, "Terminal too small!") {
		t.Errorf("expected size warning, got:\n%s", out)
	}
}

func TestEscAtRootDoesNothing(t *testing.T) {
	m := newAppModel(nil)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Fatal("esc on the home screen should be a no-op")
	}
}
