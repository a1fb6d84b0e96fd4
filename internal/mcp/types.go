package mcp

import (
	"encoding/json"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
)

// protocolVersion is the MCP revision this server implements.
const protocolVersion = "2024-11-05"

const serverName = "mcp-telegram"

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Request is one incoming JSON-RPC message. A missing ID marks it as a
// notification, which never receives a response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func (r *Request) isNotification() bool { return r.ID == nil }

// Response is one outgoing JSON-RPC message. Exactly one of Result and
// Error is set. ID stays un-omitted so parse errors carry an explicit null.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func errorResponse(id any, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}

func resultResponse(id any, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

// ---------------------------------------------------------------------------
// Method payloads

type empty struct{}

// serverCapabilities declares what this server can do. Prompts and resources
// are advertised but always empty.
type serverCapabilities struct {
	Tools     empty `json:"tools"`
	Prompts   empty `json:"prompts"`
	Resources empty `json:"resources"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      serverInfo         `json:"serverInfo"`
}

type toolsListResult struct {
	Tools []schema.Tool `json:"tools"`
}

type callToolParams struct {
	Name      string `json:"name"`
	Arguments any    `json:"arguments"`
}

type callToolResult struct {
	Content []schema.Content `json:"content"`
	IsError bool             `json:"isError,omitempty"`
}

type promptsListResult struct {
	Prompts []any `json:"prompts"`
}

type resourcesListResult struct {
	Resources []any `json:"resources"`
}

type resourceTemplatesListResult struct {
	ResourceTemplates []any `json:"resourceTemplates"`
}
