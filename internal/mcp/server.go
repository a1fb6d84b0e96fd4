// Package mcp serves the Model Context Protocol over newline-delimited
// JSON-RPC 2.0. One JSON message per line, requests answered in order,
// notifications answered never. Logs go to stderr; stdout is the wire.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcp-telegram/mcp-telegram/internal/schema"
)

// maxLineBytes bounds one inbound message.
const maxLineBytes = 4 * 1024 * 1024

// ToolLister is the registry view the server advertises.
type ToolLister interface {
	List() []schema.Tool
}

// ToolInvoker executes one tool call.
type ToolInvoker interface {
	Invoke(ctx context.Context, name string, arguments any) ([]schema.Content, error)
}

// Server answers MCP requests from a byte stream pair. Requests are handled
// one at a time; the response to a request is fully written before the next
// line is read.
type Server struct {
	tools   ToolLister
	invoker ToolInvoker
	version string

	mu  sync.Mutex
	enc *json.Encoder
}

// NewServer wires the registry and dispatcher into a protocol server.
// version is reported in the initialize handshake.
func NewServer(tools ToolLister, invoker ToolInvoker, version string) *Server {
	return &Server{tools: tools, invoker: invoker, version: version}
}

// Serve reads requests from r and writes responses to w until end of input,
// a transport failure or ctx cancellation. A clean end of input returns nil;
// a line that is not valid JSON is a framing failure and terminates the loop
// after a parse-error response.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.mu.Lock()
	s.enc = json.NewEncoder(w)
	s.enc.SetEscapeHTML(false)
	s.mu.Unlock()

	slog.Info("mcp: serving", "tools", len(s.tools.List()))

	var scanErr error
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if scanErr != nil {
					return fmt.Errorf("mcp: read request: %w", scanErr)
				}
				slog.Info("mcp: client disconnected")
				return nil
			}
			if err := s.handleLine(ctx, line); err != nil {
				return err
			}
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	var req Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.write(errorResponse(nil, codeParseError, "parse error: "+err.Error()))
		return fmt.Errorf("mcp: malformed request: %w", err)
	}

	slog.Debug("mcp: request", "method", req.Method, "id", req.ID)

	resp := s.handle(ctx, &req)
	if resp == nil {
		return nil
	}
	if err := s.write(resp); err != nil {
		return fmt.Errorf("mcp: write response: %w", err)
	}
	return nil
}

func (s *Server) write(resp *Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(resp)
}

func (s *Server) handle(ctx context.Context, req *Request) *Response {
	if req.isNotification() {
		// Notifications never get a response. Progress and the initialized
		// signal are accepted and ignored.
		switch req.Method {
		case "notifications/initialized", "initialized", "notifications/progress":
		default:
			slog.Debug("mcp: ignoring notification", "method", req.Method)
		}
		return nil
	}

	if req.JSONRPC != "" && req.JSONRPC != "2.0" {
		return errorResponse(req.ID, codeInvalidRequest, `invalid request: jsonrpc must be "2.0"`)
	}

	switch req.Method {
	case "initialize":
		return resultResponse(req.ID, initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    serverCapabilities{},
			ServerInfo:      serverInfo{Name: serverName, Version: s.version},
		})
	case "ping", "initialized", "notifications/initialized":
		return resultResponse(req.ID, empty{})
	case "tools/list":
		tools := s.tools.List()
		if tools == nil {
			tools = []schema.Tool{}
		}
		return resultResponse(req.ID, toolsListResult{Tools: tools})
	case "tools/call":
		return s.handleCall(ctx, req)
	case "prompts/list":
		return resultResponse(req.ID, promptsListResult{Prompts: []any{}})
	case "resources/list":
		return resultResponse(req.ID, resourcesListResult{Resources: []any{}})
	case "resources/templates/list":
		return resultResponse(req.ID, resourceTemplatesListResult{ResourceTemplates: []any{}})
	default:
		return errorResponse(req.ID, codeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleCall(ctx context.Context, req *Request) *Response {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "invalid params: "+err.Error())
	}

	items, err := s.invoker.Invoke(ctx, params.Name, params.Arguments)
	if err != nil {
		return errorResponse(req.ID, callErrorCode(err), err.Error())
	}
	if items == nil {
		items = []schema.Content{}
	}
	return resultResponse(req.ID, callToolResult{Content: items})
}

// callErrorCode maps dispatch failures onto JSON-RPC codes. Bad input is the
// caller's fault; everything that went wrong past validation is internal.
func callErrorCode(err error) int {
	var argErr *schema.ArgumentError
	switch {
	case errors.Is(err, schema.ErrUnknownTool),
		errors.Is(err, schema.ErrBadArguments),
		errors.As(err, &argErr):
		return codeInvalidParams
	default:
		return codeInternalError
	}
}
