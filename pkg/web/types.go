// Package web provides HTTP request and response types for the builder API.
package web

// CreateFlowRequest represents the request body for creating a new flow.
type CreateFlowRequest struct {
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Variables   map[string]any `json:"variables,omitempty"`
	Owner       string         `json:"owner"       validate:"required"`
}

// UpdateFlowRequest represents the request body for updating an existing flow.
// All fields are optional to support partial updates.
type UpdateFlowRequest struct {
	Name        *string        `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string        `json:"description,omitempty"`
	Variables   map[string]any `json:"variables,omitempty"`
}

// CreateNodeRequest represents the request body for adding a node to a flow.
type CreateNodeRequest struct {
	Kind      string         `json:"kind"       validate:"required"`
	Label     string         `json:"label"`
	Data      map[string]any `json:"data"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
}

// UpdateNodeRequest represents the request body for updating a node. Kind
// cannot be changed after creation.
type UpdateNodeRequest struct {
	Label     string         `json:"label"`
	Data      map[string]any `json:"data"`
	PositionX int            `json:"position_x"`
	PositionY int            `json:"position_y"`
	Minimized bool           `json:"minimized"`
}

// UpdateNodeLabelRequest renames a node.
type UpdateNodeLabelRequest struct {
	Label string `json:"label" validate:"required,min=1"`
}

// ToggleNodeMinimizeRequest sets a node's minimized state.
type ToggleNodeMinimizeRequest struct {
	Minimized bool `json:"minimized"`
}

// OpenEditorRequest opens a node's configuration panel.
type OpenEditorRequest struct {
	FlowID string `json:"flow_id" validate:"required"`
	NodeID string `json:"node_id" validate:"required"`
}

// AddButtonRequest appends a button to the open node or one of its sections.
type AddButtonRequest struct {
	Label       string `json:"label"`
	Value       string `json:"value,omitempty"`
	ActionType  string `json:"actionType,omitempty"`
	ActionValue string `json:"actionValue,omitempty"`
}

// AddSectionRequest appends a section to the open interactive-list node.
type AddSectionRequest struct {
	Name string `json:"name"`
}

// ReorderRequest replays a drag gesture moving one item to a new index.
type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// CrawlRequest indexes a website into the knowledge base.
type CrawlRequest struct {
	URL  string `json:"url"`
	Mode string `json:"mode"`
}

// CreateContactPropertyRequest adds a workspace contact property.
type CreateContactPropertyRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// UpdateContactPropertyRequest renames a contact property.
type UpdateContactPropertyRequest struct {
	Name string `json:"name"`
}
