package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// Invoker dispatches tool calls against the registry with a live backend
// session per call.
type Invoker struct {
	registry *Registry
	client   *telegram.Client
}

// NewInvoker wires the registry to the backend client.
func NewInvoker(registry *Registry, client *telegram.Client) *Invoker {
	return &Invoker{registry: registry, client: client}
}

// Invoke runs one tool call. arguments must be a JSON object; nil counts as
// empty. Unknown names, bad shapes and validation failures return their
// typed errors before any session is acquired. A failure inside the handler
// comes back as an ExecutionError carrying the handler's message, never its
// concrete type.
func (inv *Invoker) Invoke(ctx context.Context, name string, arguments any) ([]schema.Content, error) {
	raw, err := argumentsObject(arguments)
	if err != nil {
		return nil, err
	}

	def, ok := inv.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", schema.ErrUnknownTool, name)
	}

	call, err := def.bind(raw)
	if err != nil {
		return nil, err
	}

	slog.Debug("tools: invoke", "tool", name, "args", raw)

	var items []schema.Content
	err = inv.client.WithSession(ctx, func(sess *telegram.Session) error {
		var err error
		items, err = call(ctx, sess)
		return err
	})
	if err != nil {
		slog.Error("tools: invoke failed", "tool", name, "err", err)
		return nil, &schema.ExecutionError{Tool: name, Message: err.Error()}
	}
	return items, nil
}

// argumentsObject coerces the wire-level arguments value into a map. Absent
// arguments count as empty; any other shape is rejected.
func argumentsObject(arguments any) (map[string]any, error) {
	switch v := arguments.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w, got %T", schema.ErrBadArguments, arguments)
	}
}
