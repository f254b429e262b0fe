package registry

import (
	"github.com/chatflowhq/chatflow/pkg/models"
)

// RegisterDefaultKinds registers all built-in node kinds with the registry.
func (r *Registry) RegisterDefaultKinds() {
	r.RegisterKind(messageKind())
	r.RegisterKind(inputKind())
	r.RegisterKind(interactiveButtonsKind())
	r.RegisterKind(interactiveListKind())
	r.RegisterKind(aiKind())
	r.RegisterKind(knowledgeBaseKind())
	r.RegisterKind(apiLibraryKind())
	r.RegisterKind(engineKind())
}

func messageKind() *KindDefinition {
	return &KindDefinition{
		ID:          models.NodeKindMessage,
		Name:        "Message",
		Description: "Sends a text message to the contact",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Message body. Supports rich text markup and {{variable}} references.",
				},
			},
		},
	}
}

func inputKind() *KindDefinition {
	return &KindDefinition{
		ID:          models.NodeKindInput,
		Name:        "Ask a Question",
		Description: "Sends a question and waits for the contact's reply",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questionText": map[string]any{
					"type":        "string",
					"description": "Question body sent to the contact",
				},
				"inputType": map[string]any{
					"type": "string",
					"enum": []string{"text", "email", "phone", "number", "textarea", "name"},
				},
				"saveToVariable": map[string]any{
					"type":        "string",
					"description": "Variable name the reply is stored under",
				},
			},
		},
	}
}

func interactiveButtonsKind() *KindDefinition {
	return &KindDefinition{
		ID:          models.NodeKindInteractiveButtons,
		Name:        "Buttons",
		Description: "Sends an interactive message with up to 3 reply buttons",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"header": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []string{"text", "image", "video", "document"},
						},
						"text": map[string]any{"type": "string"},
						"name": map[string]any{"type": "string"},
						"url":  map[string]any{"type": "string"},
					},
				},
				"message": map[string]any{"type": "string"},
				"footer":  map[string]any{"type": "string"},
				"buttons": map[string]any{
					"type":     "array",
					"maxItems": models.MaxButtons,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":          map[string]any{"type": "string"},
							"label":       map[string]any{"type": "string"},
							"value":       map[string]any{"type": "string"},
							"actionType":  map[string]any{"type": "string", "enum": []string{"connectToNode", "callNumber", "sendEmail", "openUrl"}},
							"actionValue": map[string]any{"type": "string"},
						},
					},
				},
				"saveToVariable": map[string]any{"type": "string"},
			},
		},
	}
}

func interactiveListKind() *KindDefinition {
	return &KindDefinition{
		ID:          models.NodeKindInteractiveList,
		Name:        "List",
		Description: "Sends an interactive list message with up to 10 sections",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headerText": map[string]any{"type": "string"},
				"message":    map[string]any{"type": "string"},
				"listTitle":  map[string]any{"type": "string"},
				"sections": map[string]any{
					"type":     "array",
					"maxItems": models.MaxSections,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":   map[string]any{"type": "string"},
							"name": map[string]any{"type": "string"},
							"buttons": map[string]any{
								"type":     "array",
								"maxItems": models.MaxSectionButtons,
							},
						},
					},
				},
				"footer":         map[string]any{"type": "string"},
				"saveToVariable": map[string]any{"type": "string"},
			},
		},
	}
}

func aiKind() *KindDefinition {
	return &KindDefinition{
		ID:          models.NodeKindAI,
		Name:        "AI",
		Description: "Answers the contact using a language model",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"model": map[string]any{"type": "string"},
				"maxTokens": map[string]any{
					"type":    "integer",
					"minimum": models.MinAITokens,
					"maximum": models.MaxAITokens,
				},
				"temperature": map[string]any{
					"type":    "number",
					"minimum": models.MinAITemperature,
					"maximum": models.MaxAITemperature,
				},
				"systemPrompt": map[string]any{"type": "string"},
				"question":     map[string]any{"type": "string"},
			},
		},
	}
}

func knowledgeBaseKind() *KindDefinition {
	return &KindDefinition{
		ID:          models.NodeKindKnowledgeBase,
		Name:        "Knowledge Base",
		Description: "Answers from uploaded documents and crawled pages",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"selectedDocuments": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"filename": map[string]any{"type": "string"},
							"chunks":   map[string]any{"type": "integer"},
						},
					},
				},
			},
		},
	}
}

func apiLibraryKind() *KindDefinition {
	return &KindDefinition{
		ID:          models.NodeKindAPILibrary,
		Name:        "API Library",
		Description: "Calls a saved API request and stores the response",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"apiId":     map[string]any{"type": "string"},
				"apiName":   map[string]any{"type": "string"},
				"apiMethod": map[string]any{"type": "string"},
			},
		},
	}
}

func engineKind() *KindDefinition {
	return &KindDefinition{
		ID:          models.NodeKindEngine,
		Name:        "Engine",
		Description: "Hands the conversation to an automation engine",
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}
