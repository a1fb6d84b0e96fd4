// Package schema contains the wire contracts shared across mcp-telegram
// packages. Concrete behavior lives in the packages that implement it; this
// package is the single canonical source of truth for the shapes that cross
// package boundaries.
package schema

import "encoding/json"

// Tool is the self-describing descriptor advertised to MCP clients via
// tools/list.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is the JSON Schema fragment describing a tool's arguments.
// Only the flat object subset the tools actually use is modeled.
type InputSchema struct {
	Type       string               `json:"type"`
	Properties map[string]*Property `json:"properties,omitempty"`
	Required   []string             `json:"required,omitempty"`
}

// Property describes a single argument field. Default holds the raw JSON
// default value so that false and zero survive serialization.
type Property struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Default     json.RawMessage `json:"default,omitempty"`
}

// Object builds an object schema over props with the given required fields.
func Object(props map[string]*Property, required ...string) InputSchema {
	return InputSchema{Type: "object", Properties: props, Required: required}
}
