package tutor

import "github.com/abhisek/tutorpro/internal/llm"

func stringList() map[string]any {
	return map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string"},
		"nullable": true,
	}
}

// mindMapNodeSchema describes three levels of a topic tree. Deeper trees are
// still accepted when decoding; the schema only bounds what the model is
// asked to produce.
var mindMapNodeSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"topic": map[string]any{"type": "string"},
		"children": map[string]any{
			"type":     "array",
			"nullable": true,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic": map[string]any{"type": "string"},
					"children": map[string]any{
						"type":     "array",
						"nullable": true,
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"topic": map[string]any{"type": "string"},
							},
							"required": []any{"topic"},
						},
					},
				},
				"required": []any{"topic"},
			},
		},
	},
	"required": []any{"topic"},
}

// ResponseSchema is the structured-output schema sent with every tutor
// request.
var ResponseSchema = &llm.Schema{
	Name:        "tutor-response",
	Description: "A structured tutoring answer made of typed content blocks",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "A concise and engaging title for the topic.",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "A brief, one-paragraph summary of the content.",
			},
			"content_blocks": map[string]any{
				"type":        "array",
				"description": "An array of different content blocks to be rendered.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"description": "Type of content: 'text', 'code', 'quiz', 'flashcards', 'mindmap'.",
							"enum":        []any{BlockText, BlockCode, BlockQuiz, BlockFlashcards, BlockMindMap},
						},
						"content": map[string]any{
							"type":        "string",
							"nullable":    true,
							"description": "Content for 'text' and 'code' blocks.",
						},
						"language": map[string]any{
							"type":        "string",
							"nullable":    true,
							"description": "Programming language for 'code' blocks (e.g., 'python', 'javascript').",
						},
						"questions": map[string]any{
							"type":        "array",
							"nullable":    true,
							"description": "An array of quiz questions for 'quiz' blocks.",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"question": map[string]any{"type": "string"},
									"type": map[string]any{
										"type": "string",
										"enum": []any{QuestionMultipleChoice, QuestionFillInBlank, QuestionShortAnswer},
									},
									"options": stringList(),
									"answer":  map[string]any{"type": "string"},
									"hint":    map[string]any{"type": "string", "nullable": true},
								},
								"required": []any{"question", "type", "answer"},
							},
						},
						"cards": map[string]any{
							"type":        "array",
							"nullable":    true,
							"description": "An array of Q&A pairs for 'flashcards' blocks.",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"question": map[string]any{"type": "string"},
									"answer":   map[string]any{"type": "string"},
								},
								"required": []any{"question", "answer"},
							},
						},
						"nodes": map[string]any{
							"type":        "array",
							"nullable":    true,
							"description": "An array of nodes for 'mindmap' blocks.",
							"items":       mindMapNodeSchema,
						},
					},
					"required": []any{"type"},
				},
			},
			"extra": map[string]any{
				"type":        "object",
				"nullable":    true,
				"description": "Additional helpful information.",
				"properties": map[string]any{
					"exam_tips":               stringList(),
					"common_mistakes":         stringList(),
					"real_world_applications": stringList(),
				},
			},
		},
		"required": []any{"title", "summary", "content_blocks"},
	},
}

// envelopeSchema is what a parsed answer must satisfy before it is decoded.
// Block payloads are checked by DecodeBlock, not here, so that unknown block
// types survive to the renderer.
var envelopeSchema = &llm.Schema{
	Name: "tutor-envelope",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":          map[string]any{"type": "string", "minLength": 1},
			"summary":        map[string]any{"type": "string", "minLength": 1},
			"content_blocks": map[string]any{"type": "array"},
		},
		"required": []any{"title", "summary", "content_blocks"},
	},
}
