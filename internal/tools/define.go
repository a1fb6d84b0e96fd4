package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
	"github.com/mcp-telegram/mcp-telegram/internal/telegram"
)

// Runner executes one tool call with decoded arguments.
type Runner[A any] func(ctx context.Context, sess *telegram.Session, args A) ([]schema.Content, error)

// boundCall is a runner with its arguments already decoded and validated.
type boundCall func(ctx context.Context, sess *telegram.Session) ([]schema.Content, error)

// binderFunc validates raw arguments and closes over the decoded value.
// Binding happens before any backend session is acquired.
type binderFunc func(raw map[string]any) (boundCall, error)

// define builds a Definition whose handler receives arguments of type A.
// defaults seeds every optional field before decoding, so absent keys keep
// their declared defaults. A nil run marks the definition as unwired and
// calls to it fail with ErrNoHandler.
func define[A any](name, description string, inputSchema schema.InputSchema, defaults A, run Runner[A]) Definition {
	bind := func(raw map[string]any) (boundCall, error) {
		args, err := decodeArgs(name, inputSchema, defaults, raw)
		if err != nil {
			return nil, err
		}
		if run == nil {
			return nil, fmt.Errorf("%w: %s", schema.ErrNoHandler, name)
		}
		return func(ctx context.Context, sess *telegram.Session) ([]schema.Content, error) {
			return run(ctx, sess, args)
		}, nil
	}
	return Definition{Name: name, Description: description, Schema: inputSchema, bind: bind}
}

// decodeArgs checks required fields against the schema and unmarshals raw
// into a copy of defaults. Type mismatches surface as an ArgumentError
// naming the offending field. Unknown fields are ignored.
func decodeArgs[A any](tool string, inputSchema schema.InputSchema, defaults A, raw map[string]any) (A, error) {
	args := defaults

	for _, field := range inputSchema.Required {
		if _, ok := raw[field]; !ok {
			return args, &schema.ArgumentError{Tool: tool, Field: field, Reason: "required field missing"}
		}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return args, &schema.ArgumentError{Tool: tool, Reason: err.Error()}
	}
	if err := json.Unmarshal(data, &args); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return args, &schema.ArgumentError{
				Tool:   tool,
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}
		}
		return args, &schema.ArgumentError{Tool: tool, Reason: err.Error()}
	}
	return args, nil
}
