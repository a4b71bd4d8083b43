package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/tutorpro/internal/tutor"
)

// traceVisitor records which method handled each block.
type traceVisitor struct{}

func (traceVisitor) Separator() string                    { return "|" }
func (traceVisitor) Header(r *tutor.Response) string      { return "header:" + r.Title }
func (traceVisitor) Text(i int, _ tutor.TextBlock) string { return fmt.Sprintf("text#%d", i) }
func (traceVisitor) Code(i int, _ tutor.CodeBlock) string { return fmt.Sprintf("code#%d", i) }
func (traceVisitor) Quiz(i int, _ tutor.QuizBlock) string { return fmt.Sprintf("quiz#%d", i) }
func (traceVisitor) Flashcards(i int, _ tutor.FlashcardsBlock) string {
	return fmt.Sprintf("cards#%d", i)
}
func (traceVisitor) MindMap(i int, _ tutor.MindMapBlock) string { return fmt.Sprintf("map#%d", i) }
func (traceVisitor) Unsupported(i int, typ string) string {
	return fmt.Sprintf("unsupported#%d(%s)", i, typ)
}
func (traceVisitor) Extras(*tutor.Extras) string { return "extras" }

func TestDispatchAllVariants(t *testing.T) {
	resp := &tutor.Response{
		Title: "T",
		ContentBlocks: []tutor.Block{
			tutor.TextBlock{},
			tutor.CodeBlock{},
			tutor.QuizBlock{},
			tutor.FlashcardsBlock{},
			tutor.MindMapBlock{},
		},
	}
	got := Response(traceVisitor{}, resp)
	want := "header:T|text#0|code#1|quiz#2|cards#3|map#4"
	if got != want {
		t.Fatalf("Response() = %q, want %q", got, want)
	}
}

func TestDispatchUnknownKeepsSiblings(t *testing.T) {
	resp := &tutor.Response{
		Title: "T",
		ContentBlocks: []tutor.Block{
			tutor.TextBlock{Content: "before"},
			tutor.UnknownBlock{Type: "video"},
			nil,
			tutor.TextBlock{Content: "after"},
		},
		Extra: &tutor.Extras{ExamTips: []string{"tip"}},
	}
	got := Response(traceVisitor{}, resp)
	want := "header:T|text#0|unsupported#1(video)|unsupported#2()|text#3|extras"
	if got != want {
		t.Fatalf("Response() = %q, want %q", got, want)
	}
}

func TestResponseSkipsEmptyExtras(t *testing.T) {
	for _, extra := range []*tutor.Extras{nil, {}, {CommonMistakes: []string{}}} {
		got := Response(traceVisitor{}, &tutor.Response{Title: "T", Extra: extra})
		if strings.Contains(got, "extras") {
			t.Fatalf("extras rendered for %+v: %q", extra, got)
		}
	}
	if Response(traceVisitor{}, nil) != "" {
		t.Fatal("nil response should render nothing")
	}
}

func TestOptionLabel(t *testing.T) {
	tests := map[int]string{0: "A", 1: "B", 3: "D", 25: "Z", 26: "27"}
	for in, want := range tests {
		if got := OptionLabel(in); got != want {
			t.Errorf("OptionLabel(%d) = %q, want %q", in, got, want)
		}
	}
}
