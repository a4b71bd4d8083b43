package tutor

import (
	"encoding/json"
	"fmt"
)

// Block type discriminants.
const (
	BlockText       = "text"
	BlockCode       = "code"
	BlockQuiz       = "quiz"
	BlockFlashcards = "flashcards"
	BlockMindMap    = "mindmap"
)

// Quiz question types.
const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionFillInBlank    = "fill-in-the-blank"
	QuestionShortAnswer    = "short-answer"
)

// Response is one validated tutoring answer.
type Response struct {
	Title         string  `json:"title"`
	Summary       string  `json:"summary"`
	ContentBlocks []Block `json:"content_blocks"`
	Extra         *Extras `json:"extra,omitempty"`
}

// Extras holds optional advisory lists shown after the blocks.
type Extras struct {
	ExamTips              []string `json:"exam_tips,omitempty"`
	CommonMistakes        []string `json:"common_mistakes,omitempty"`
	RealWorldApplications []string `json:"real_world_applications,omitempty"`
}

// Empty reports whether there is nothing to show.
func (e *Extras) Empty() bool {
	return e == nil || len(e.ExamTips)+len(e.CommonMistakes)+len(e.RealWorldApplications) == 0
}

// Block is one content block. The set of implementations is closed; a
// type this package does not know decodes to UnknownBlock.
type Block interface {
	BlockType() string
	isBlock()
}

// TextBlock is prose. Content may contain newlines.
type TextBlock struct {
	Content string `json:"content"`
}

// CodeBlock is a snippet in a named language.
type CodeBlock struct {
	Language string `json:"language"`
	Content  string `json:"content"`
}

// QuizBlock is an ordered list of questions.
type QuizBlock struct {
	Questions []QuizQuestion `json:"questions"`
}

// FlashcardsBlock is an ordered list of cards.
type FlashcardsBlock struct {
	Cards []Flashcard `json:"cards"`
}

// MindMapBlock is a forest of topic trees.
type MindMapBlock struct {
	Nodes []MindMapNode `json:"nodes"`
}

// UnknownBlock keeps a block whose type is not one of the known variants.
type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

// QuizQuestion is one quiz item. Options only matter for multiple choice.
type QuizQuestion struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer"`
	Hint     string   `json:"hint,omitempty"`
}

// Flashcard is a question/answer pair.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MindMapNode is a node in a topic tree. Children are owned by the parent.
type MindMapNode struct {
	Topic    string        `json:"topic"`
	Children []MindMapNode `json:"children,omitempty"`
}

// Leaf reports whether the node has no children.
func (n MindMapNode) Leaf() bool { return len(n.Children) == 0 }

func (TextBlock) BlockType() string       { return BlockText }
func (CodeBlock) BlockType() string       { return BlockCode }
func (QuizBlock) BlockType() string       { return BlockQuiz }
func (FlashcardsBlock) BlockType() string { return BlockFlashcards }
func (MindMapBlock) BlockType() string    { return BlockMindMap }
func (b UnknownBlock) BlockType() string  { return b.Type }

func (TextBlock) isBlock()       {}
func (CodeBlock) isBlock()       {}
func (QuizBlock) isBlock()       {}
func (FlashcardsBlock) isBlock() {}
func (MindMapBlock) isBlock()    {}
func (UnknownBlock) isBlock()    {}

func (b TextBlock) MarshalJSON() ([]byte, error) {
	type plain TextBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{BlockText, plain(b)})
}

func (b CodeBlock) MarshalJSON() ([]byte, error) {
	type plain CodeBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{BlockCode, plain(b)})
}

func (b QuizBlock) MarshalJSON() ([]byte, error) {
	type plain QuizBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{BlockQuiz, plain(b)})
}

func (b FlashcardsBlock) MarshalJSON() ([]byte, error) {
	type plain FlashcardsBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{BlockFlashcards, plain(b)})
}

func (b MindMapBlock) MarshalJSON() ([]byte, error) {
	type plain MindMapBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		plain
	}{BlockMindMap, plain(b)})
}

// MarshalJSON re-emits the block as it was received.
func (b UnknownBlock) MarshalJSON() ([]byte, error) {
	if len(b.Raw) > 0 {
		return b.Raw, nil
	}
	return json.Marshal(map[string]string{"type": b.Type})
}

// MarshalJSON always writes content_blocks as an array.
func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	p := plain(r)
	if p.ContentBlocks == nil {
		p.ContentBlocks = []Block{}
	}
	return json.Marshal(p)
}

// UnmarshalJSON decodes the envelope and each content block by its type.
func (r *Response) UnmarshalJSON(data []byte) error {
	var wire struct {
		Title         string            `json:"title"`
		Summary       string            `json:"summary"`
		ContentBlocks []json.RawMessage `json:"content_blocks"`
		Extra         *Extras           `json:"extra"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	blocks := make([]Block, 0, len(wire.ContentBlocks))
	for i, raw := range wire.ContentBlocks {
		b, err := DecodeBlock(raw)
		if err != nil {
			return fmt.Errorf("content_blocks[%d]: %w", i, err)
		}
		blocks = append(blocks, b)
	}

	*r = Response{
		Title:         wire.Title,
		Summary:       wire.Summary,
		ContentBlocks: blocks,
		Extra:         wire.Extra,
	}
	return nil
}

// DecodeBlock decodes a single content block. Only the fields of the
// variant named by "type" are read. Anything that is not an object with a
// known string type becomes an UnknownBlock.
func DecodeBlock(raw json.RawMessage) (Block, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return UnknownBlock{Raw: cloneRaw(raw)}, nil
	}
	var typ string
	if t, ok := fields["type"]; ok {
		if err := json.Unmarshal(t, &typ); err != nil {
			return UnknownBlock{Raw: cloneRaw(raw)}, nil
		}
	}

	var (
		block Block
		err   error
	)
	switch typ {
	case BlockText:
		var b TextBlock
		err = json.Unmarshal(raw, &b)
		block = b
	case BlockCode:
		var b CodeBlock
		err = json.Unmarshal(raw, &b)
		block = b
	case BlockQuiz:
		var b QuizBlock
		err = json.Unmarshal(raw, &b)
		block = b
	case BlockFlashcards:
		var b FlashcardsBlock
		err = json.Unmarshal(raw, &b)
		block = b
	case BlockMindMap:
		var b MindMapBlock
		err = json.Unmarshal(raw, &b)
		block = b
	default:
		return UnknownBlock{Type: typ, Raw: cloneRaw(raw)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s block: %w", typ, err)
	}
	return block, nil
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), raw...)
}
