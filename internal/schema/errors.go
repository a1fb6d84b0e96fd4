package schema

import (
	"errors"
	"fmt"
)

// Dispatch errors. The protocol layer maps these onto JSON-RPC error
// responses; anything else coming out of a handler is wrapped as an
// ExecutionError before it crosses the boundary.
var (
	// ErrUnknownTool reports a call naming a tool absent from the registry.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrBadArguments reports a tools/call whose arguments are not an object.
	ErrBadArguments = errors.New("arguments must be an object")

	// ErrDuplicateTool reports two definitions sharing a name at registry
	// build time.
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrNoHandler reports a definition registered without a runner. It marks
	// a wiring defect in the definitions table, not a caller mistake.
	ErrNoHandler = errors.New("no handler registered")
)

// ArgumentError reports arguments that failed validation against the tool's
// input schema. Field names the offending argument when known.
type ArgumentError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: invalid arguments: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("%s: invalid argument %q: %s", e.Tool, e.Field, e.Reason)
}

// ExecutionError wraps a failure raised by a tool handler. The message is
// preserved for the caller; the handler's concrete error type never crosses
// the protocol boundary.
type ExecutionError struct {
	Tool    string
	Message string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}
