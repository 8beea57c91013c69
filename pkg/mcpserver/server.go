// Package mcpserver implements the JSON-RPC 2.0 loop that exposes a tool
// registry over a line-delimited stream (MCP stdio transport).
//
// One input line is one request envelope; each response is written as one
// line, in request order. Faults while handling a single envelope are
// contained to that envelope: the loop keeps reading until the stream ends.
//
// Quick start:
//
//	registry := tool.NewRegistry()
//	registry.Register(&MyTool{})
//	server := mcpserver.New("my-server", "1.0.0", registry)
//	server.Serve(context.Background(), os.Stdin, os.Stdout)
package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phodal/gomodern/pkg/tool"
)

const protocolVersion = "2024-11-05"

// State is the server lifecycle state. Transitions are Idle -> Running ->
// Stopped, with no reentry to Running after Stopped.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Server dispatches JSON-RPC requests to a tool registry. The registry is
// injected, never created implicitly, so CLI entry points and tests share
// one explicit value.
type Server struct {
	name       string
	version    string
	registry   *tool.Registry
	middleware []Middleware
	logger     *slog.Logger

	mu      sync.Mutex
	state   State
	stopped bool
}

// New creates a server around an existing registry.
func New(name, version string, registry *tool.Registry) *Server {
	return &Server{
		name:     name,
		version:  version,
		registry: registry,
		logger:   slog.Default(),
	}
}

// SetLogger replaces the server's logger. The server logs to this logger
// only; the protocol stream never carries log output.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Use appends middleware to the processing chain. Middleware added first
// runs outermost.
func (s *Server) Use(mw Middleware) {
	s.middleware = append(s.middleware, mw)
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stop requests a graceful stop: the read loop exits at the next iteration
// boundary. In-flight work is not interrupted.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

// Serve runs the read loop over r and w until EOF, a hard stream error,
// Stop, or ctx cancellation observed between envelopes. A server serves at
// most once; calling Serve on a running or stopped server is an error.
//
// Malformed lines, unknown methods, and tool faults are reported on the
// stream and never terminate the session. Only an unreadable stream is
// fatal.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("server is %s, cannot serve again", state)
	}
	s.state = StateRunning
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = StateStopped
		s.mu.Unlock()
	}()

	s.logger.Info("starting server",
		"name", s.name, "version", s.version, "tools", s.registry.Count())

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.stopRequested() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp := s.HandleLine([]byte(line))
		if resp == nil {
			continue // notification, no response
		}
		if err := writeResponse(w, resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request stream: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) stopRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// HandleLine decodes one framed request line and returns the response to
// emit, or nil for notifications. A decode failure yields a parse-error
// envelope with a null id.
func (s *Server) HandleLine(line []byte) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Error("malformed request line", "error", err)
		return &Response{
			JSONRPC: "2.0",
			Error: &RPCError{
				Code:    CodeParseError,
				Message: "Parse error",
				Data:    err.Error(),
			},
		}
	}
	return s.HandleRequest(&req)
}

// HandleRequest runs a decoded request through the middleware chain.
func (s *Server) HandleRequest(req *Request) *Response {
	handler := s.coreHandler
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler(req)
}

func (s *Server) coreHandler(req *Request) *Response {
	resp := &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = s.handleInitialize()
	case "notifications/initialized":
		s.logger.Info("client initialized")
		return nil
	case "tools/list":
		resp.Result = s.handleToolsList()
	case "tools/call":
		result, rpcErr := s.handleToolCall(req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
	default:
		resp.Error = &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return resp
}

func (s *Server) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    s.name,
			Version: s.version,
		},
		SessionID: uuid.NewString(),
	}
}

func (s *Server) handleToolsList() *ToolsListResult {
	all := s.registry.All()
	defs := make([]ToolDef, 0, len(all))
	for _, t := range all {
		defs = append(defs, ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return &ToolsListResult{Tools: defs}
}

func (s *Server) handleToolCall(params json.RawMessage) (*ToolCallResult, *RPCError) {
	if len(params) == 0 {
		return nil, &RPCError{
			Code:    CodeInvalidParams,
			Message: "Invalid params",
			Data:    "params object required",
		}
	}

	var callParams struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(params, &callParams); err != nil {
		return nil, &RPCError{
			Code:    CodeInvalidParams,
			Message: "Invalid params",
			Data:    err.Error(),
		}
	}
	if callParams.Name == "" {
		return nil, &RPCError{
			Code:    CodeInvalidParams,
			Message: "Invalid params",
			Data:    "tool name required",
		}
	}

	t := s.registry.Get(callParams.Name)
	if t == nil {
		return nil, &RPCError{
			Code:    CodeInvalidParams,
			Message: "Invalid params",
			Data:    fmt.Sprintf("tool not found: %s", callParams.Name),
		}
	}

	outcome := tool.Run(t, callParams.Arguments)
	s.logger.Debug("executed tool", "name", callParams.Name, "success", outcome.Success)
	return wrapOutcome(outcome), nil
}

// wrapOutcome encodes a tool outcome as the single text content block the
// wire contract prescribes. A tool-level failure is still a protocol-level
// success: the RPC call delivered a well-formed answer describing it.
func wrapOutcome(res *tool.Result) *ToolCallResult {
	payload := map[string]any{
		"success":   res.Success,
		"timestamp": res.Timestamp.Format(time.RFC3339Nano),
	}
	if res.Success {
		payload["content"] = res.Content
		if len(res.Metadata) > 0 {
			payload["metadata"] = res.Metadata
		}
	} else {
		payload["error"] = res.Err
		if res.Code != "" {
			payload["code"] = res.Code
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		body = fmt.Appendf(nil, `{"success":false,"error":%q}`, err.Error())
	}
	return &ToolCallResult{
		Content: []Content{{Type: "text", Text: string(body)}},
		IsError: !res.Success,
	}
}

// writeResponse emits one response as a single line. json.Marshal never
// produces literal newlines, so the framing is preserved by construction.
func writeResponse(w io.Writer, resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
