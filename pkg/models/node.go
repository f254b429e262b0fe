// Package models defines the core domain models for conversational flow building
package models

// NodeKind identifies the closed set of node types a flow can contain.
type NodeKind string

const (
	NodeKindMessage            NodeKind = "message"
	NodeKindInput              NodeKind = "input"
	NodeKindInteractiveButtons NodeKind = "interactiveButtons"
	NodeKindInteractiveList    NodeKind = "interactiveList"
	NodeKindAI                 NodeKind = "ai"
	NodeKindKnowledgeBase      NodeKind = "knowledgeBase"
	NodeKindAPILibrary         NodeKind = "apiLibrary"
	NodeKindEngine             NodeKind = "engine"
)

// Valid reports whether k is a member of the closed node kind union.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeKindMessage, NodeKindInput, NodeKindInteractiveButtons,
		NodeKindInteractiveList, NodeKindAI, NodeKindKnowledgeBase,
		NodeKindAPILibrary, NodeKindEngine:
		return true
	default:
		return false
	}
}

// RichText is an opaque markup-bearing string used for message and question
// fields that support inline variable references. Length limits apply to its
// markup-stripped plain-text projection, never to the raw markup.
type RichText string

// VariableRef is an opaque identifier of a workspace-scoped variable a
// response may be saved into.
type VariableRef string

// ButtonActionType represents what tapping a button does.
type ButtonActionType string

const (
	ButtonActionConnectToNode ButtonActionType = "connectToNode"
	ButtonActionCallNumber    ButtonActionType = "callNumber"
	ButtonActionSendEmail     ButtonActionType = "sendEmail"
	ButtonActionOpenURL       ButtonActionType = "openUrl"
)

// Button is a tappable reply or action button on an interactive node.
// ActionValue carries the phone number, email address or URL when ActionType
// is not connectToNode; it is ignored for connectToNode.
type Button struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"                 validate:"required,max=20"`
	Value       string           `json:"value,omitempty"`
	ActionType  ButtonActionType `json:"actionType"`
	ActionValue string           `json:"actionValue,omitempty"`
}

// Section groups buttons inside an interactive list node.
type Section struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"    validate:"required,max=24"`
	Buttons []Button `json:"buttons"`
}

// MediaType represents the header media attached to an interactive node.
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
	MediaTypeText     MediaType = "text"
)

// MediaRef points at header media. Text is mandatory when Type is text and an
// optional caption otherwise.
type MediaRef struct {
	Type MediaType `json:"type"`
	URL  string    `json:"url,omitempty"`
	Name string    `json:"name,omitempty"`
	Text string    `json:"text,omitempty"`
}

// DocRef references an indexed knowledge-base document by filename.
type DocRef struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}

// InputType constrains what an input node accepts.
type InputType string

const (
	InputTypeText     InputType = "text"
	InputTypeEmail    InputType = "email"
	InputTypePhone    InputType = "phone"
	InputTypeNumber   InputType = "number"
	InputTypeTextarea InputType = "textarea"
	InputTypeName     InputType = "name"
)

// Node is a node instance placed on the canvas. Data holds the persisted
// configuration in its raw form; typed access goes through ExtractConfig.
// Data is owned exclusively by the node; the panel edits a working copy.
type Node struct {
	ID        string         `json:"id"    validate:"required"`
	Kind      NodeKind       `json:"kind"  validate:"required"`
	Label     string         `json:"label"`
	Data      map[string]any `json:"data"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
	Minimized bool           `json:"minimized"`
}
