package mcp

import "github.com/mark3labs/mcp-go/mcp"

func entryParam() mcp.ToolOption {
	return mcp.WithString("entry",
		mcp.Required(),
		mcp.Description("Path of the entry file the tree was built from, e.g. src/index.tsx"),
	)
}

func formatParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum("text", "json"),
		),
		mcp.WithBoolean("show_props",
			mcp.Description("Include prop names in text output"),
		),
		mcp.WithBoolean("expanded_only",
			mcp.Description("Only show children of expanded nodes in text output"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Stop text output below this depth (0 = unlimited)"),
		),
	}
}

func buildTreeTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Build the React component tree starting at an entry file. Replaces any tree previously built for the same entry."),
		entryParam(),
	}
	return mcp.NewTool("build_tree", append(opts, formatParams()...)...)
}

func getTreeTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Return the current component tree for an entry file, including expansion state."),
		entryParam(),
	}
	return mcp.NewTool("get_tree", append(opts, formatParams()...)...)
}

func reparseFileTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Re-analyse one file after it changed. Every node for that file is rebuilt; expanded descendants stay expanded when their depth and file are unchanged."),
		entryParam(),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the changed file; relative paths resolve against the server's working directory. Fails when no node in the tree comes from this file."),
		),
	}
	return mcp.NewTool("reparse_file", append(opts, formatParams()...)...)
}

func toggleNodeTool() mcp.Tool {
	return mcp.NewTool("toggle_node",
		mcp.WithDescription("Expand or collapse a node by id. Ids are shown as #id in text output and change whenever the node's parent is reparsed."),
		entryParam(),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Node id"),
		),
		mcp.WithBoolean("expanded",
			mcp.Description("New expansion state (default true)"),
		),
	)
}

func findNodesTool() mcp.Tool {
	return mcp.NewTool("find_nodes",
		mcp.WithDescription("Find nodes by component name and/or file path substring. Returns id, name, file, depth, count and error for each match."),
		entryParam(),
		mcp.WithString("name",
			mcp.Description("Exact component name"),
		),
		mcp.WithString("file",
			mcp.Description("Substring of the node's file path"),
		),
		mcp.WithBoolean("errors_only",
			mcp.Description("Only return nodes whose file failed to read or parse"),
		),
	)
}

func setTreeTool() mcp.Tool {
	return mcp.NewTool("set_tree",
		mcp.WithDescription("Replace the current tree with a previously exported JSON tree. The entry is taken from the tree's root filePath."),
		mcp.WithString("tree",
			mcp.Required(),
			mcp.Description("Tree JSON as returned by get_tree with format=json"),
		),
	)
}
