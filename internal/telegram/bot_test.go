package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/tutorpro/internal/modes"
	"github.com/abhisek/tutorpro/internal/tutor"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []tgbotapi.MessageConfig
	actions []tgbotapi.ChatActionConfig
	sendErr error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := c.(tgbotapi.ChatActionConfig); ok {
		f.actions = append(f.actions, a)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, m := range f.sent {
		out[i] = m.Text
	}
	return out
}

type serviceFunc func(ctx context.Context, topic string, mode modes.Mode) (*tutor.Response, error)

func (f serviceFunc) GetTutorResponse(ctx context.Context, topic string, mode modes.Mode) (*tutor.Response, error) {
	return f(ctx, topic, mode)
}

func quizResponse(topic string) *tutor.Response {
	return &tutor.Response{
		Title:   topic,
		Summary: "Test yourself.",
		ContentBlocks: []tutor.Block{
			tutor.QuizBlock{Questions: []tutor.QuizQuestion{{
				Question: "Which gas is released?",
				Type:     tutor.QuestionMultipleChoice,
				Options:  []string{"Nitrogen", "Oxygen"},
				Answer:   "B",
				Hint:     "You breathe it.",
			}}},
		},
	}
}

func TestHandleMessage_TopicUsesChatMode(t *testing.T) {
	var gotTopic string
	var gotMode modes.Mode
	svc := serviceFunc(func(_ context.Context, topic string, mode modes.Mode) (*tutor.Response, error) {
		gotTopic, gotMode = topic, mode
		return quizResponse(topic), nil
	})
	api := &fakeSender{}
	b := New(api, svc, nil)

	b.HandleMessage(context.Background(), 42, "/mode quiz")
	b.HandleMessage(context.Background(), 42, "  Photosynthesis ")

	if gotTopic != "Photosynthesis" || gotMode != modes.Quiz {
		t.Fatalf("service got (%q, %q)", gotTopic, gotMode)
	}
	if len(api.actions) != 1 || api.actions[0].Action != tgbotapi.ChatTyping {
		t.Fatalf("expected one typing action, got %+v", api.actions)
	}

	texts := api.texts()
	if len(texts) != 2 {
		t.Fatalf("expected 2 messages, got %d: %q", len(texts), texts)
	}
	if !strings.Contains(texts[0], "Quiz Me") {
		t.Errorf("mode confirmation = %q", texts[0])
	}
	reply := texts[1]
	for _, want := range []string{"<b>Photosynthesis</b>", "(A) Nitrogen", "(B) Oxygen", "<tg-spoiler>B</tg-spoiler>"} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q:\n%s", want, reply)
		}
	}
	for _, m := range api.sent {
		if m.ParseMode != tgbotapi.ModeHTML {
			t.Errorf("parse mode = %q, want HTML", m.ParseMode)
		}
	}
}

func TestHandleMessage_DefaultModeIsExplain(t *testing.T) {
	var gotMode modes.Mode
	svc := serviceFunc(func(_ context.Context, topic string, mode modes.Mode) (*tutor.Response, error) {
		gotMode = mode
		return &tutor.Response{Title: "T", Summary: "S"}, nil
	})
	b := New(&fakeSender{}, svc, nil)
	b.HandleMessage(context.Background(), 1, "gravity")
	if gotMode != modes.Default {
		t.Fatalf("mode = %q, want %q", gotMode, modes.Default)
	}
}

func TestHandleMessage_ModesArePerChat(t *testing.T) {
	b := New(&fakeSender{}, serviceFunc(nil), nil)
	b.HandleMessage(context.Background(), 1, "/mode code")
	if got := b.modeFor(1); got != modes.Code {
		t.Fatalf("chat 1 mode = %q", got)
	}
	if got := b.modeFor(2); got != modes.Default {
		t.Fatalf("chat 2 mode = %q", got)
	}
}

func TestHandleMessage_Commands(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "AI Tutor Pro"},
		{"/help", "/mode &lt;name&gt;"},
		{"/modes", "Mind Map"},
		{"/modes@tutorbot", "Learning modes"},
		{"/mode", "Current mode: <b>Explain</b>"},
		{"/mode poetry", "Unknown mode"},
		{"/frobnicate", "Unknown command"},
		{"   ", "Send me a topic"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			api := &fakeSender{}
			svc := serviceFunc(func(context.Context, string, modes.Mode) (*tutor.Response, error) {
				t.Fatal("service must not be called")
				return nil, nil
			})
			New(api, svc, nil).HandleMessage(context.Background(), 7, tt.text)

			texts := api.texts()
			if len(texts) != 1 || !strings.Contains(texts[0], tt.want) {
				t.Fatalf("reply = %q, want it to contain %q", texts, tt.want)
			}
		})
	}
}

func TestHandleMessage_ErrorReply(t *testing.T) {
	svc := serviceFunc(func(context.Context, string, modes.Mode) (*tutor.Response, error) {
		return nil, &tutor.Error{Kind: tutor.KindUpstream, Message: "failed to get response from AI tutor", Err: errors.New("secret detail")}
	})
	api := &fakeSender{}
	New(api, svc, nil).HandleMessage(context.Background(), 3, "gravity")

	texts := api.texts()
	if len(texts) != 1 || texts[0] != "Error: failed to get response from AI tutor" {
		t.Fatalf("unexpected reply: %q", texts)
	}
}

func TestHandleMessage_OneRequestPerChat(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := serviceFunc(func(_ context.Context, topic string, _ modes.Mode) (*tutor.Response, error) {
		close(started)
		<-release
		return &tutor.Response{Title: topic, Summary: "S"}, nil
	})
	api := &fakeSender{}
	b := New(api, svc, nil)

	done := make(chan struct{})
	go func() {
		b.HandleMessage(context.Background(), 9, "first")
		close(done)
	}()
	<-started

	b.HandleMessage(context.Background(), 9, "second")
	close(release)
	<-done

	texts := api.texts()
	if len(texts) != 2 {
		t.Fatalf("expected busy reply plus answer, got %q", texts)
	}
	if !strings.Contains(texts[0], "Still working") {
		t.Errorf("first reply = %q", texts[0])
	}
	if !strings.Contains(texts[1], "<b>first</b>") {
		t.Errorf("second reply = %q", texts[1])
	}

	// The gate is released afterwards.
	if !b.acquire(9) {
		t.Fatal("chat still marked busy")
	}
}
