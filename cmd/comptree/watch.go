package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/comptree/pkg/render"
	"github.com/gnana997/comptree/pkg/resolver"
	"github.com/gnana997/comptree/pkg/tree"
	"github.com/gnana997/comptree/pkg/util"
	"github.com/gnana997/comptree/pkg/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	opts := &treeOptions{}
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch <entry>",
		Short: "Print the component tree and reprint it whenever a project file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if cmd.Flags().Changed("debounce") {
				a.config.Watch.DebounceMs = debounceMs
			}
			return a.runWatch(ctx, cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowProps, "props", false, "show the props passed to each component")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "stop below this depth (0 = unlimited)")
	cmd.Flags().IntVar(&debounceMs, "debounce", 0, "debounce interval in milliseconds")
	return cmd
}

func (a *app) runWatch(ctx context.Context, cmd *cobra.Command, entry string, opts *treeOptions) error {
	entry, err := filepath.Abs(entry)
	if err != nil {
		return err
	}

	fsys := util.NewOSFileSystem(a.logger)
	builderOpts := a.config.builderOptions(a.logger)
	builderOpts.FS = fsys

	builder, err := tree.NewBuilder(builderOpts)
	if err != nil {
		return err
	}
	session := tree.NewSession(builder)
	defer session.Close()

	if _, err := session.Build(entry); err != nil {
		return err
	}

	projectRoot, err := resolver.FindProjectRoot(fsys, entry, a.config.Manifest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var outMu sync.Mutex
	show := func(header string) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprint(out, header+render.Text(session.Snapshot(), opts.TextOptions))
	}
	show("")

	watchOpts := a.config.watchOptions()
	watchOpts.OnChange = func(ev watch.Event) {
		if ev.Err != nil {
			a.logger.Warn("reparse failed", "file", ev.Path, "error", ev.Err)
			return
		}
		if len(ev.Reparsed) == 0 {
			return
		}
		show(fmt.Sprintf("\n%s %s changed\n", time.Now().Format(time.TimeOnly), ev.Path))
	}

	w, err := watch.New(session, watchOpts, a.logger)
	if err != nil {
		return err
	}
	if err := w.Start(projectRoot); err != nil {
		return err
	}
	defer w.Stop()
	defer func() {
		stats := w.GetStats()
		a.logger.Debug("stopping watch",
			"pending_reparses", stats.PendingReparses,
			"mmap_fallbacks", fsys.MmapFailures())
	}()

	a.logger.Info("watching for changes", "root", projectRoot)
	<-ctx.Done()
	return nil
}
