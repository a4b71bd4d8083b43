package tutor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/tutorpro/internal/llm"
	"github.com/abhisek/tutorpro/internal/modes"
)

// Purpose labels recorded with each generation event.
const (
	PurposeTutor    = "tutor"
	PurposeTutorRaw = "tutor-raw"
)

var tracer = otel.Tracer("github.com/abhisek/tutorpro/internal/tutor")

// Service is the single entry point front-ends call. It returns either a
// fully validated Response or an *Error, never both.
type Service interface {
	GetTutorResponse(ctx context.Context, topic string, mode modes.Mode) (*Response, error)
}

// Direct calls the generation provider in-process.
type Direct struct {
	provider llm.Provider
	cfg      Config
}

// NewDirect creates a Service that talks to provider directly.
func NewDirect(provider llm.Provider, cfg Config) *Direct {
	return &Direct{provider: provider, cfg: cfg}
}

func (d *Direct) GetTutorResponse(ctx context.Context, topic string, mode modes.Mode) (*Response, error) {
	ctx, span := startSpan(ctx, "tutor.GetTutorResponse", topic, mode)
	defer span.End()

	req, err := BuildRequest(topic, mode)
	if err != nil {
		return nil, endSpan(span, err)
	}
	req.MaxTokens = d.cfg.MaxTokens
	req.Temperature = d.cfg.Temperature

	text, err := d.generate(llm.WithPurpose(ctx, PurposeTutor), req)
	if err != nil {
		return nil, endSpan(span, err)
	}

	resp, err := Normalize(text)
	if err != nil {
		return nil, endSpan(span, err)
	}
	span.SetAttributes(attribute.Int("tutor.blocks", len(resp.ContentBlocks)))
	return resp, nil
}

func (d *Direct) generate(ctx context.Context, req llm.Request) (string, error) {
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}
	resp, err := d.provider.Generate(ctx, req)
	if err != nil {
		return "", generationError(err)
	}
	return resp.Text(), nil
}

// Raw asks the model for free text and wraps it in a single text block.
// It backs the simplified proxy shape.
type Raw struct {
	direct *Direct
}

// NewRaw creates the free-text Service.
func NewRaw(provider llm.Provider, cfg Config) *Raw {
	return &Raw{direct: NewDirect(provider, cfg)}
}

func (r *Raw) GetTutorResponse(ctx context.Context, topic string, mode modes.Mode) (*Response, error) {
	ctx, span := startSpan(ctx, "tutor.GetRawResponse", topic, mode)
	defer span.End()

	req, err := BuildRawRequest(topic, mode)
	if err != nil {
		return nil, endSpan(span, err)
	}
	req.MaxTokens = r.direct.cfg.MaxTokens
	req.Temperature = r.direct.cfg.Temperature

	text, err := r.direct.generate(llm.WithPurpose(ctx, PurposeTutorRaw), req)
	if err != nil {
		return nil, endSpan(span, err)
	}
	return &Response{
		Title:         fmt.Sprintf("AI Tutor - %s", topic),
		Summary:       fmt.Sprintf("Here is your %s explanation for %s", mode, topic),
		ContentBlocks: []Block{TextBlock{Content: text}},
	}, nil
}

func startSpan(ctx context.Context, name, topic string, mode modes.Mode) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("tutor.mode", string(mode)),
		attribute.Int("tutor.topic_length", len(topic)),
	))
}

func endSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("tutor.error_kind", string(KindOf(err))))
	return err
}
