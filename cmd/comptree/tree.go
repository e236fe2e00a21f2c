package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/comptree/pkg/render"
	"github.com/gnana997/comptree/pkg/tree"
)

type treeOptions struct {
	json   bool
	output string
	render.TextOptions
}

func newTreeCmd(a *app) *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree <entry>",
		Short: "Build and print the component tree for an entry file",
		Example: `  comptree tree src/index.tsx
  comptree tree src/index.tsx --props --max-depth 3
  comptree tree src/index.tsx --json -o tree.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTree(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the tree as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.ShowProps, "props", false, "show the props passed to each component")
	cmd.Flags().BoolVar(&opts.ShowIDs, "ids", false, "show node ids")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "stop below this depth (0 = unlimited)")
	return cmd
}

func (a *app) runTree(cmd *cobra.Command, entry string, opts *treeOptions) error {
	builder, err := tree.NewBuilder(a.config.builderOptions(a.logger))
	if err != nil {
		return err
	}
	defer builder.Close()

	root, err := builder.Build(entry)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeTree(out, root, opts)
}

func writeTree(w io.Writer, root *tree.Node, opts *treeOptions) error {
	if opts.json {
		return render.EncodeJSON(w, root)
	}
	_, err := io.WriteString(w, render.Text(root, opts.TextOptions))
	return err
}
