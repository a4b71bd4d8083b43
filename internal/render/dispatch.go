// Package render turns a validated tutor.Response into presentation text.
// Dispatch is total: a block it cannot render becomes a placeholder and
// the remaining blocks still render.
package render

import (
	"strconv"
	"strings"

	"github.com/abhisek/tutorpro/internal/tutor"
)

// Visitor renders each block variant for one presentation surface. index
// is the block's position in the response and only serves as identity.
type Visitor interface {
	Header(resp *tutor.Response) string
	Text(index int, b tutor.TextBlock) string
	Code(index int, b tutor.CodeBlock) string
	Quiz(index int, b tutor.QuizBlock) string
	Flashcards(index int, b tutor.FlashcardsBlock) string
	MindMap(index int, b tutor.MindMapBlock) string
	Unsupported(index int, blockType string) string
	Extras(e *tutor.Extras) string

	// Separator joins rendered sections.
	Separator() string
}

// Dispatch renders one block with the matching visitor method.
func Dispatch(v Visitor, index int, b tutor.Block) string {
	switch block := b.(type) {
	case tutor.TextBlock:
		return v.Text(index, block)
	case tutor.CodeBlock:
		return v.Code(index, block)
	case tutor.QuizBlock:
		return v.Quiz(index, block)
	case tutor.FlashcardsBlock:
		return v.Flashcards(index, block)
	case tutor.MindMapBlock:
		return v.MindMap(index, block)
	case nil:
		return v.Unsupported(index, "")
	default:
		return v.Unsupported(index, b.BlockType())
	}
}

// Response renders the header, every block in order, then the extras when
// there are any.
func Response(v Visitor, resp *tutor.Response) string {
	return strings.Join(Sections(v, resp), v.Separator())
}

// Sections renders the same parts as Response without joining them.
func Sections(v Visitor, resp *tutor.Response) []string {
	if resp == nil {
		return nil
	}
	sections := make([]string, 0, len(resp.ContentBlocks)+2)
	sections = append(sections, v.Header(resp))
	for i, b := range resp.ContentBlocks {
		sections = append(sections, Dispatch(v, i, b))
	}
	if !resp.Extra.Empty() {
		sections = append(sections, v.Extras(resp.Extra))
	}
	return sections
}

// OptionLabel returns the letter shown before a multiple-choice option:
// A, B, C... and numbers past Z.
func OptionLabel(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// extraSections lists the extras in display order, skipping empty lists.
func extraSections(e *tutor.Extras) []extraSection {
	if e.Empty() {
		return nil
	}
	var out []extraSection
	for _, s := range []extraSection{
		{"Exam Tips", e.ExamTips},
		{"Common Mistakes", e.CommonMistakes},
		{"Real-World Applications", e.RealWorldApplications},
	} {
		if len(s.Items) > 0 {
			out = append(out, s)
		}
	}
	return out
}

type extraSection struct {
	Title string
	Items []string
}

// showOptions reports whether a question's options should be listed.
func showOptions(q tutor.QuizQuestion) bool {
	return q.Type == tutor.QuestionMultipleChoice && len(q.Options) > 0
}
