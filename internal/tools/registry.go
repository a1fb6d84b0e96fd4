// Package tools implements the Telegram operations exposed over MCP: the
// static definitions table, the typed argument binder and the dispatcher
// that runs calls against a live backend session.
package tools

import (
	"fmt"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
)

// Definition binds one tool name to its wire descriptor and handler.
// Instances come from define; the table in definitions.go is the single
// place new tools get added.
type Definition struct {
	Name        string
	Description string
	Schema      schema.InputSchema

	bind binderFunc
}

// Descriptor returns the wire descriptor advertised to clients.
func (d Definition) Descriptor() schema.Tool {
	return schema.Tool{Name: d.Name, Description: d.Description, InputSchema: d.Schema}
}

// Registry is the immutable name → definition table. It is built exactly
// once at startup, before the server accepts requests.
type Registry struct {
	byName map[string]Definition
	order  []string
}

// NewRegistry builds a Registry from defs. Listing order follows the table;
// a duplicated or empty name fails the build.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{byName: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("tools: definition with empty name")
		}
		if _, exists := r.byName[def.Name]; exists {
			return nil, fmt.Errorf("tools: %w: %s", schema.ErrDuplicateTool, def.Name)
		}
		r.byName[def.Name] = def
		r.order = append(r.order, def.Name)
	}
	return r, nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// List returns wire descriptors in registration order.
func (r *Registry) List() []schema.Tool {
	out := make([]schema.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Descriptor())
	}
	return out
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	return len(r.byName)
}
