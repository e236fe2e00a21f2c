package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/comptree/pkg/mcp"
	"github.com/gnana997/comptree/pkg/mcplog"
	"github.com/gnana997/comptree/pkg/util"
)

func newServeCmd(a *app) *cobra.Command {
	var logPath string
	var maxSessions int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("log-path") {
				a.config.MCP.LogPath = logPath
			}
			if cmd.Flags().Changed("max-sessions") {
				a.config.MCP.MaxSessions = maxSessions
			}
			return a.runServe()
		},
	}

	cmd.Flags().StringVar(&logPath, "log-path", "", "append a JSONL record of every tool call to this file")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 0, "number of entry files kept in memory")
	return cmd
}

func (a *app) runServe() error {
	callLog, err := mcplog.NewLogger(a.config.MCP.LogPath)
	if err != nil {
		return err
	}
	if callLog != nil {
		defer callLog.Close()
	}

	fsys := util.NewOSFileSystem(a.logger)
	builderOpts := a.config.builderOptions(a.logger)
	builderOpts.FS = fsys

	srv, err := mcp.NewServer(mcp.Config{
		Builder:     builderOpts,
		MaxSessions: a.config.MCP.MaxSessions,
		Logger:      a.logger,
		CallLog:     callLog,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	a.logger.Info("starting MCP server", "max_sessions", a.config.MCP.MaxSessions)
	err = srv.ServeStdio()
	a.logger.Debug("MCP server stopped",
		"sessions", srv.SessionCount(),
		"mmap_fallbacks", fsys.MmapFailures())
	return err
}
