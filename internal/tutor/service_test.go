package tutor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/tutorpro/internal/llm"
	"github.com/abhisek/tutorpro/internal/modes"
)

const quizReply = `{"title":"Photosynthesis","summary":"Quiz time.","content_blocks":[{"type":"quiz","questions":[{"question":"Which gas is released?","type":"multiple-choice","options":["Nitrogen","Oxygen","Helium","Argon"],"answer":"B","hint":"You breathe it."}]}]}`

// funcProvider adapts a function to llm.Provider.
type funcProvider func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f funcProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f funcProvider) ModelID() string { return "func" }

func TestDirect_Success(t *testing.T) {
	mock := llm.NewMockTextProvider("```json\n" + quizReply + "\n```")
	svc := NewDirect(mock, Config{Timeout: time.Second, MaxTokens: 2048, Temperature: 0.3})

	resp, err := svc.GetTutorResponse(context.Background(), "Photosynthesis", modes.Quiz)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	quiz, ok := resp.ContentBlocks[0].(QuizBlock)
	if !ok || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected blocks: %#v", resp.ContentBlocks)
	}

	req, _ := mock.LastRequest()
	if req.MaxTokens != 2048 || req.Temperature != 0.3 {
		t.Fatalf("config not applied: %+v", req)
	}
	if req.Schema != ResponseSchema {
		t.Fatal("expected response schema on request")
	}
}

func TestDirect_PurposeAndDeadline(t *testing.T) {
	var purpose string
	var hasDeadline bool
	p := funcProvider(func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		purpose = llm.PurposeFrom(ctx)
		_, hasDeadline = ctx.Deadline()
		return &llm.Response{Content: []byte(quizReply)}, nil
	})

	if _, err := NewDirect(p, DefaultConfig()).GetTutorResponse(context.Background(), "Photosynthesis", modes.Quiz); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purpose != PurposeTutor {
		t.Errorf("purpose = %q, want %q", purpose, PurposeTutor)
	}
	if !hasDeadline {
		t.Error("expected the configured timeout to set a deadline")
	}
}

func TestDirect_EmptyTopicMakesNoCall(t *testing.T) {
	mock := llm.NewMockTextProvider(quizReply)
	svc := NewDirect(mock, DefaultConfig())

	for _, topic := range []string{"", "   ", "\n\t"} {
		resp, err := svc.GetTutorResponse(context.Background(), topic, modes.Explain)
		if resp != nil || KindOf(err) != KindInput {
			t.Fatalf("topic %q: resp=%v err=%v", topic, resp, err)
		}
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected no provider calls, got %d", mock.CallCount())
	}
}

func TestDirect_Failures(t *testing.T) {
	tests := []struct {
		name string
		mock llm.MockResponse
		want Kind
	}{
		{"rate limited", llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("quota")}}, KindUpstream},
		{"unavailable", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("401 bad key")}}, KindUpstream},
		{"truncated", llm.MockResponse{Err: &llm.ErrMaxTokensExceeded{}}, KindUpstream},
		{"not json", llm.MockResponse{Content: []byte("Here you go!")}, KindParse},
		{"no title", llm.MockResponse{Content: []byte(`{"summary":"S","content_blocks":[]}`)}, KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDirect(llm.NewMockProvider(tt.mock), DefaultConfig())
			resp, err := svc.GetTutorResponse(context.Background(), "Gravity", modes.Explain)
			if resp != nil {
				t.Fatal("expected no response on failure")
			}
			if KindOf(err) != tt.want {
				t.Fatalf("kind = %q, want %q (err: %v)", KindOf(err), tt.want, err)
			}
		})
	}
}

func TestDirect_UpstreamErrorKeepsCause(t *testing.T) {
	cause := &llm.ErrRateLimit{Err: errors.New("quota")}
	svc := NewDirect(llm.NewMockProvider(llm.MockResponse{Err: cause}), DefaultConfig())

	_, err := svc.GetTutorResponse(context.Background(), "Gravity", modes.Explain)
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected wrapped ErrRateLimit, got %v", err)
	}
}

func TestDirect_Timeout(t *testing.T) {
	p := funcProvider(func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	svc := NewDirect(p, Config{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := svc.GetTutorResponse(context.Background(), "Gravity", modes.Explain)
	if KindOf(err) != KindTransport {
		t.Fatalf("kind = %q, want transport (err: %v)", KindOf(err), err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not enforced")
	}
}

func TestDirect_NoRetry(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: []byte(quizReply)},
	)
	svc := NewDirect(mock, DefaultConfig())
	if _, err := svc.GetTutorResponse(context.Background(), "Gravity", modes.Explain); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected exactly one call, got %d", mock.CallCount())
	}
}

func TestRaw_WrapsText(t *testing.T) {
	mock := llm.NewMockTextProvider("Recursion is a function calling itself.")
	svc := NewRaw(mock, DefaultConfig())

	resp, err := svc.GetTutorResponse(context.Background(), "recursion", modes.Code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "AI Tutor - recursion" {
		t.Errorf("title = %q", resp.Title)
	}
	if resp.Summary != "Here is your Code explanation for recursion" {
		t.Errorf("summary = %q", resp.Summary)
	}
	if len(resp.ContentBlocks) != 1 || resp.ContentBlocks[0] != (TextBlock{Content: "Recursion is a function calling itself."}) {
		t.Fatalf("blocks = %#v", resp.ContentBlocks)
	}

	req, _ := mock.LastRequest()
	if req.Schema != nil {
		t.Fatal("raw request must not carry a schema")
	}
}

func TestRaw_InputError(t *testing.T) {
	mock := llm.NewMockTextProvider("unused")
	if _, err := NewRaw(mock, DefaultConfig()).GetTutorResponse(context.Background(), " ", modes.Code); KindOf(err) != KindInput {
		t.Fatalf("kind = %q, want input", KindOf(err))
	}
	if mock.CallCount() != 0 {
		t.Fatal("expected no provider call")
	}
}
