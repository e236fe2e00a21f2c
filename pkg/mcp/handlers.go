package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/comptree/pkg/render"
	"github.com/gnana997/comptree/pkg/resolver"
	"github.com/gnana997/comptree/pkg/tree"
)

func (s *Server) handleBuildTree(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := req.RequireString("entry")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, key, err := s.session(entry)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := session.Build(key); err != nil {
		if errors.Is(err, resolver.ErrProjectRootNotFound) {
			s.sessions.Remove(key)
		}
		return mcp.NewToolResultErrorFromErr("failed to build tree", err), nil
	}

	s.logger.Info("tree built", "entry", key, "sessions", s.sessions.Len())
	return s.renderResult(session, req)
}

func (s *Server) handleGetTree(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := req.RequireString("entry")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	session, err := s.existingSession(entry)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.renderResult(session, req)
}

func (s *Server) handleReparseFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := req.RequireString("entry")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	file, err = filepath.Abs(file)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid file", err), nil
	}

	session, err := s.existingSession(entry)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := session.Reparse(file)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to reparse", err), nil
	}
	if n == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no node in the tree for %s", file)), nil
	}

	s.logger.Debug("file reparsed", "entry", entry, "file", file, "nodes", n)
	return s.renderResult(session, req)
}

func (s *Server) handleToggleNode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := req.RequireString("entry")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	expanded := req.GetBool("expanded", true)

	session, err := s.existingSession(entry)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := session.Toggle(id, expanded); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{"id": id, "expanded": expanded})
}

// nodeMatch is one find_nodes result.
type nodeMatch struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FilePath     string `json:"filePath"`
	Depth        int    `json:"depth"`
	Count        int    `json:"count"`
	Expanded     bool   `json:"expanded"`
	ThirdParty   bool   `json:"thirdParty,omitempty"`
	ReduxConnect bool   `json:"reduxConnect,omitempty"`
	Error        string `json:"error,omitempty"`
}

func (s *Server) handleFindNodes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entry, err := req.RequireString("entry")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name := req.GetString("name", "")
	file := req.GetString("file", "")
	errorsOnly := req.GetBool("errors_only", false)

	if name == "" && file == "" && !errorsOnly {
		return mcp.NewToolResultError("at least one of name, file or errors_only is required"), nil
	}

	session, err := s.existingSession(entry)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches := []nodeMatch{}
	session.Traverse(func(node *tree.Node) {
		if name != "" && node.Name != name {
			return
		}
		if file != "" && !strings.Contains(node.FilePath, file) {
			return
		}
		if errorsOnly && node.Error == "" {
			return
		}
		matches = append(matches, nodeMatch{
			ID:           node.ID,
			Name:         node.Name,
			FilePath:     node.FilePath,
			Depth:        node.Depth,
			Count:        node.Count,
			Expanded:     node.Expanded,
			ThirdParty:   node.ThirdParty,
			ReduxConnect: node.ReduxConnect,
			Error:        node.Error,
		})
	})

	return jsonResult(matches)
}

func (s *Server) handleSetTree(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("tree")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	root, err := render.DecodeJSON(strings.NewReader(raw))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid tree", err), nil
	}

	session, key, err := s.session(root.FilePath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	session.SetTree(root)

	count := 0
	session.Traverse(func(*tree.Node) { count++ })

	return jsonResult(map[string]any{"entry": key, "nodes": count})
}

// renderResult renders the session's tree as text (default) or JSON.
func (s *Server) renderResult(session *tree.Session, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := session.Snapshot()

	if req.GetString("format", "text") == "json" {
		var buf bytes.Buffer
		if err := render.EncodeJSON(&buf, root); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(buf.String()), nil
	}

	return mcp.NewToolResultText(render.Text(root, render.TextOptions{
		ShowIDs:      true,
		ShowProps:    req.GetBool("show_props", false),
		ExpandedOnly: req.GetBool("expanded_only", false),
		MaxDepth:     req.GetInt("max_depth", 0),
	})), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
