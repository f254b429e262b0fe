package models

import (
	"encoding/json"
	"fmt"
)

// NodeConfig is the typed configuration variant behind a node's raw Data.
// Implementations form a closed set keyed by NodeKind; dispatch happens on
// the kind tag, never on loose string checks.
type NodeConfig interface {
	Kind() NodeKind
	Clone() NodeConfig
}

// MessageConfig configures a plain message node.
type MessageConfig struct {
	Text RichText `json:"text"`
}

func (c MessageConfig) Kind() NodeKind { return NodeKindMessage }

func (c MessageConfig) Clone() NodeConfig { return c }

// InputConfig configures a node that asks the contact a question and waits
// for a typed answer.
type InputConfig struct {
	InputType      InputType   `json:"inputType"`
	QuestionText   RichText    `json:"questionText"`
	SaveToVariable VariableRef `json:"saveToVariable,omitempty"`
}

func (c InputConfig) Kind() NodeKind { return NodeKindInput }

func (c InputConfig) Clone() NodeConfig { return c }

// InteractiveButtonsConfig configures a WhatsApp interactive button message.
type InteractiveButtonsConfig struct {
	Header         *MediaRef   `json:"header,omitempty"`
	Message        RichText    `json:"message"`
	Footer         string      `json:"footer,omitempty"`
	Buttons        []Button    `json:"buttons"`
	SaveToVariable VariableRef `json:"saveToVariable,omitempty"`
}

func (c InteractiveButtonsConfig) Kind() NodeKind { return NodeKindInteractiveButtons }

func (c InteractiveButtonsConfig) Clone() NodeConfig {
	clone := c

	if c.Header != nil {
		header := *c.Header
		clone.Header = &header
	}

	clone.Buttons = make([]Button, len(c.Buttons))
	copy(clone.Buttons, c.Buttons)

	return clone
}

// InteractiveListConfig configures a WhatsApp interactive list message.
type InteractiveListConfig struct {
	HeaderText     string      `json:"headerText,omitempty"`
	Message        RichText    `json:"message"`
	ListTitle      string      `json:"listTitle"`
	Sections       []Section   `json:"sections"`
	Footer         string      `json:"footer,omitempty"`
	SaveToVariable VariableRef `json:"saveToVariable,omitempty"`
}

func (c InteractiveListConfig) Kind() NodeKind { return NodeKindInteractiveList }

func (c InteractiveListConfig) Clone() NodeConfig {
	clone := c
	clone.Sections = make([]Section, len(c.Sections))

	for i, section := range c.Sections {
		copied := section
		copied.Buttons = make([]Button, len(section.Buttons))
		copy(copied.Buttons, section.Buttons)
		clone.Sections[i] = copied
	}

	return clone
}

// AIConfig configures an AI response node.
type AIConfig struct {
	Model        string   `json:"model"`
	MaxTokens    int      `json:"maxTokens"`
	Temperature  float64  `json:"temperature"`
	SystemPrompt RichText `json:"systemPrompt"`
	Question     string   `json:"question,omitempty"`
}

func (c AIConfig) Kind() NodeKind { return NodeKindAI }

func (c AIConfig) Clone() NodeConfig { return c }

// KnowledgeBaseConfig configures which indexed documents a knowledge-base
// node answers from. The core stores identifiers only.
type KnowledgeBaseConfig struct {
	SelectedDocuments []DocRef `json:"selectedDocuments"`
}

func (c KnowledgeBaseConfig) Kind() NodeKind { return NodeKindKnowledgeBase }

func (c KnowledgeBaseConfig) Clone() NodeConfig {
	clone := c
	clone.SelectedDocuments = make([]DocRef, len(c.SelectedDocuments))
	copy(clone.SelectedDocuments, c.SelectedDocuments)

	return clone
}

// APILibraryConfig configures a call into a saved API-library entry.
type APILibraryConfig struct {
	APIID     string `json:"apiId,omitempty"`
	APIName   string `json:"apiName,omitempty"`
	APIMethod string `json:"apiMethod,omitempty"`
}

func (c APILibraryConfig) Kind() NodeKind { return NodeKindAPILibrary }

func (c APILibraryConfig) Clone() NodeConfig { return c }

// EngineConfig is the terminal engine node; it has no configurable fields.
type EngineConfig struct{}

func (c EngineConfig) Kind() NodeKind { return NodeKindEngine }

func (c EngineConfig) Clone() NodeConfig { return c }

// ExtractConfig converts a node's raw Data into its typed variant for the
// given kind. Missing collection fields default to empty ordered sequences
// rather than failing; in particular an interactive list persisted without
// sections seeds an empty slice, not a single default section.
func ExtractConfig(kind NodeKind, data map[string]any) (NodeConfig, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}

	switch kind {
	case NodeKindMessage:
		return decodeConfig[MessageConfig](data)
	case NodeKindInput:
		return decodeConfig[InputConfig](data)
	case NodeKindInteractiveButtons:
		config, err := decodeConfig[InteractiveButtonsConfig](data)
		if err != nil {
			return nil, err
		}

		if config.Buttons == nil {
			config.Buttons = make([]Button, 0)
		}

		return config, nil
	case NodeKindInteractiveList:
		config, err := decodeConfig[InteractiveListConfig](data)
		if err != nil {
			return nil, err
		}

		if config.Sections == nil {
			config.Sections = make([]Section, 0)
		}

		for i := range config.Sections {
			if config.Sections[i].Buttons == nil {
				config.Sections[i].Buttons = make([]Button, 0)
			}
		}

		return config, nil
	case NodeKindAI:
		return decodeConfig[AIConfig](data)
	case NodeKindKnowledgeBase:
		config, err := decodeConfig[KnowledgeBaseConfig](data)
		if err != nil {
			return nil, err
		}

		if config.SelectedDocuments == nil {
			config.SelectedDocuments = make([]DocRef, 0)
		}

		return config, nil
	case NodeKindAPILibrary:
		return decodeConfig[APILibraryConfig](data)
	case NodeKindEngine:
		return EngineConfig{}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}
}

// ConfigToMap converts a typed config back into the raw shape stored on the
// node. The output matches the variant's JSON shape exactly.
func ConfigToMap(config NodeConfig) (map[string]any, error) {
	payload, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s config: %w", config.Kind(), err)
	}

	raw := make(map[string]any)

	err = json.Unmarshal(payload, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", config.Kind(), err)
	}

	return raw, nil
}

func decodeConfig[T NodeConfig](data map[string]any) (T, error) {
	var config T

	payload, err := json.Marshal(data)
	if err != nil {
		return config, fmt.Errorf("failed to marshal config data: %w", err)
	}

	err = json.Unmarshal(payload, &config)
	if err != nil {
		return config, fmt.Errorf("failed to unmarshal %s config: %w", config.Kind(), err)
	}

	return config, nil
}
