package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/comptree/pkg/mcplog"
)

// loggingMiddleware records every tool call as a JSONL entry. Only
// installed when a call log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			var errStr *string
			switch {
			case err != nil:
				msg := err.Error()
				errStr = &msg
			case result != nil && result.IsError:
				msg := mcplog.ResultText(result)
				errStr = &msg
			}

			_ = s.callLog.Write(mcplog.LogEntry{
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Entry:         req.GetString("entry", ""),
				Params:        mcplog.SanitizeParams(req.GetArguments()),
				DurationMs:    time.Since(start).Milliseconds(),
				ResponseBytes: mcplog.ResponseBytes(result),
				Sessions:      s.sessions.Len(),
				Error:         errStr,
			})

			return result, err
		}
	}
}
