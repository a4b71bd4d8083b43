package response

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/tutorpro/internal/modes"
	"github.com/abhisek/tutorpro/internal/router"
	"github.com/abhisek/tutorpro/internal/tutor"
)

type fakeService struct {
	mu    sync.Mutex
	calls []string
	resp  *tutor.Response
	err   error
}

func (f *fakeService) GetTutorResponse(_ context.Context, topic string, _ modes.Mode) (*tutor.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, topic)
	return f.resp, f.err
}

func photosynthesisQuiz() *tutor.Response {
	return &tutor.Response{
		Title:   "Photosynthesis",
		Summary: "How plants turn light into food.",
		ContentBlocks: []tutor.Block{
			tutor.QuizBlock{Questions: []tutor.QuizQuestion{{
				Question: "Which gas do plants release?",
				Type:     tutor.QuestionMultipleChoice,
				Options:  []string{"Nitrogen", "Oxygen", "Helium", "Argon"},
				Answer:   "B",
				Hint:     "You breathe it.",
			}}},
		},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

// runRequest executes the batch returned by submit and feeds the result
// back into the screen.
func runRequest(t *testing.T, s *Screen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected BatchMsg, got %T", cmd())
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if res, ok := c().(resultMsg); ok {
			s.Update(res)
			return
		}
	}
	t.Fatal("no result message in batch")
}

func view(s *Screen) string {
	return ansi.Strip(s.View(100, 40))
}

func TestSubmitRendersQuizWithHiddenAnswers(t *testing.T) {
	svc := &fakeService{resp: photosynthesisQuiz()}
	s := New(svc, modes.Quiz, "Photosynthesis")

	_, cmd := s.Update(enter())
	if !s.loading {
		t.Fatal("expected loading after submit")
	}
	if !strings.Contains(view(s), "Asking the tutor about Photosynthesis") {
		t.Errorf("expected loading indicator:\n%s", view(s))
	}
	runRequest(t, s, cmd)

	out := view(s)
	for _, want := range []string{"(A) Nitrogen", "(B) Oxygen", "(C) Helium", "(D) Argon", "[h] show hint", "[a] show answer"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "You breathe it.") {
		t.Error("hint should be hidden")
	}
	if s.Title() != "Photosynthesis" {
		t.Errorf("title = %q", s.Title())
	}

	s.Update(keyPress('h'))
	s.Update(keyPress('a'))
	out = view(s)
	if !strings.Contains(out, "You breathe it.") || !strings.Contains(out, "Answer: B") {
		t.Errorf("expected hint and answer after toggling:\n%s", out)
	}

	s.Update(keyPress('h'))
	if strings.Contains(view(s), "You breathe it.") {
		t.Error("hint should hide again")
	}
}

func TestBlankTopicIsNotSubmitted(t *testing.T) {
	svc := &fakeService{resp: photosynthesisQuiz()}
	s := New(svc, modes.Explain, "   ")

	_, cmd := s.Update(enter())
	if cmd != nil || s.loading {
		t.Fatal("blank topic must not start a request")
	}
	if len(svc.calls) != 0 {
		t.Fatalf("service called %d times", len(svc.calls))
	}
}

func TestSingleFlight(t *testing.T) {
	svc := &fakeService{resp: photosynthesisQuiz()}
	s := New(svc, modes.Quiz, "Photosynthesis")

	_, first := s.Update(enter())
	_, second := s.Update(enter())
	if second != nil {
		t.Fatal("second submit while loading must be ignored")
	}
	runRequest(t, s, first)
	if len(svc.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(svc.calls))
	}
}

func TestErrorClearsPreviousResponse(t *testing.T) {
	svc := &fakeService{resp: photosynthesisQuiz()}
	s := New(svc, modes.Quiz, "Photosynthesis")

	_, cmd := s.Update(enter())
	runRequest(t, s, cmd)

	svc.resp = nil
	svc.err = &tutor.Error{Kind: tutor.KindUpstream, Message: "failed to get response from AI tutor", Err: errors.New("boom")}

	s.Update(keyPress('/')) // back to the input
	_, cmd = s.Update(enter())
	runRequest(t, s, cmd)

	out := view(s)
	if !strings.Contains(out, "Error: failed to get response from AI tutor") {
		t.Errorf("expected error panel:\n%s", out)
	}
	if strings.Contains(out, "Nitrogen") {
		t.Errorf("previous response should be cleared:\n%s", out)
	}
	if strings.Contains(out, "boom") {
		t.Errorf("error cause leaked into view:\n%s", out)
	}
}

func TestStaleResultIgnored(t *testing.T) {
	s := New(&fakeService{}, modes.Explain, "")
	s.Update(resultMsg{screenID: s.id + 1000, resp: photosynthesisQuiz()})
	if s.resp != nil {
		t.Fatal("result for another screen must be ignored")
	}
}

func TestSwitchModeReplacesScreen(t *testing.T) {
	svc := &fakeService{resp: photosynthesisQuiz()}
	s := New(svc, modes.Quiz, "Photosynthesis")
	_, cmd := s.Update(enter())
	runRequest(t, s, cmd)

	_, cmd = s.Update(keyPress(']'))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	next := msg.Screen.(*Screen)
	if next.Mode() != modes.Flashcards {
		t.Errorf("next mode = %q, want %q", next.Mode(), modes.Flashcards)
	}
	if next.input.Value() != "Photosynthesis" {
		t.Errorf("topic not carried over: %q", next.input.Value())
	}
}

func TestKeyHintsFollowFocus(t *testing.T) {
	svc := &fakeService{resp: photosynthesisQuiz()}
	s := New(svc, modes.Quiz, "Photosynthesis")
	if got := s.KeyHints()[0].Description; got != "Ask" {
		t.Errorf("input hints start with %q", got)
	}

	_, cmd := s.Update(enter())
	runRequest(t, s, cmd)
	if got := s.KeyHints()[1].Description; got != "Hints" {
		t.Errorf("content hints = %+v", s.KeyHints())
	}
	if s.Badge() != "Quiz Me" {
		t.Errorf("badge = %q", s.Badge())
	}
}
