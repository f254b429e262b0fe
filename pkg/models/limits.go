package models

// WhatsApp Business interactive-message constraints. These are fixed contract
// values mirrored from the messaging platform, not tunable defaults.
const (
	MaxMessageLength   = 1024 // plain-text projection of the message body
	MaxFooterLength    = 60
	MaxHeaderTextLength = 60
	MaxListTitleLength = 20
	MaxButtonLabel     = 20
	MaxMediaTextLength = 20
	MaxSectionName     = 24

	MinButtons        = 1
	MaxButtons        = 3
	MinSections       = 1
	MaxSections       = 10
	MaxSectionButtons = 10
)

// AI node parameter bounds.
const (
	MinAITokens      = 50
	MaxAITokens      = 4000
	MinAITemperature = 0.0
	MaxAITemperature = 1.0
)

// Limits bundles the numeric constraints that apply to one node kind. Zero
// fields mean no constraint of that sort applies to the kind.
type Limits struct {
	MaxMessage        int
	MaxFooter         int
	MaxHeaderText     int
	MaxListTitle      int
	MaxButtonLabel    int
	MaxMediaText      int
	MaxSectionName    int
	MinButtons        int
	MaxButtons        int
	MinSections       int
	MaxSections       int
	MaxSectionButtons int
}

var limitsByKind = map[NodeKind]Limits{
	NodeKindMessage: {
		MaxMessage: MaxMessageLength,
	},
	NodeKindInput: {
		MaxMessage: MaxMessageLength,
	},
	NodeKindInteractiveButtons: {
		MaxMessage:     MaxMessageLength,
		MaxFooter:      MaxFooterLength,
		MaxButtonLabel: MaxButtonLabel,
		MaxMediaText:   MaxMediaTextLength,
		MinButtons:     MinButtons,
		MaxButtons:     MaxButtons,
	},
	NodeKindInteractiveList: {
		MaxMessage:        MaxMessageLength,
		MaxFooter:         MaxFooterLength,
		MaxHeaderText:     MaxHeaderTextLength,
		MaxListTitle:      MaxListTitleLength,
		MaxButtonLabel:    MaxButtonLabel,
		MaxSectionName:    MaxSectionName,
		MinSections:       MinSections,
		MaxSections:       MaxSections,
		MaxSectionButtons: MaxSectionButtons,
	},
}

// LimitsFor returns the constraint table for a node kind. Kinds without
// messaging constraints (ai, knowledgeBase, apiLibrary, engine) return the
// zero value.
func LimitsFor(kind NodeKind) Limits {
	return limitsByKind[kind]
}
