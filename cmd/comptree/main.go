package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

// app carries the resolved configuration into every subcommand.
type app struct {
	configPath string
	config     *ProjectConfig
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "comptree",
		Short: "Map the React component tree of a project",
		Long: `comptree statically analyses a React project from one entry file and
reports which components render which, following imports through the
project and marking third-party and redux-connected components.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", defaultConfigPath, "path to the project config file")
	flags.String("alias-prefix", "", "import alias that maps to the project source root (default \"@/\")")
	flags.String("manifest", "", "file that marks the project root (default \"package.json\")")
	flags.String("redux-package", "", "module that exports connect (default \"react-redux\")")
	flags.Bool("allow-partial", false, "analyse files that contain syntax errors")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")

	root.AddCommand(
		newTreeCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

// configure loads the config file and applies explicitly set flags on top.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := loadProjectConfig(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("alias-prefix") {
		cfg.AliasPrefix, _ = flags.GetString("alias-prefix")
	}
	if flags.Changed("manifest") {
		cfg.Manifest, _ = flags.GetString("manifest")
	}
	if flags.Changed("redux-package") {
		cfg.ReduxPackage, _ = flags.GetString("redux-package")
	}
	if flags.Changed("allow-partial") {
		cfg.AllowPartial, _ = flags.GetBool("allow-partial")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}

	logger, err := cfg.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.config = cfg
	a.logger = logger
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "comptree %s\n", version)
		},
	}
}
