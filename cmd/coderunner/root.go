package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"coderunner/internal/app"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "coderunner",
		Short: "Terminal code editor that runs snippets on remote runners",
		Long: `coderunner - write JavaScript, Python, C, C++ or Java in the terminal and
run it on a remote execution service.

Without a subcommand the interactive editor starts. The run subcommand
executes a file or stdin without the UI.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runEditor,
	}

	f := root.PersistentFlags()
	f.String("data-dir", "", "Directory for the settings and history database")
	f.String("log", "", "Write JSON logs to this file")
	f.String("catalog", "", "YAML file overriding or extending the language catalog")
	f.String("endpoint-base", "", "Send runs to this scheme://host instead of the catalog hosts")
	f.StringP("lang", "l", "", "Language id to start with (js, python, c, cpp, java)")
	f.String("export-dir", "", "Directory for downloaded main.<ext> files")
	f.Bool("ephemeral", false, "Keep settings and history in memory only")
	root.Flags().Bool("ascii", false, "Draw panels with ASCII characters")
	root.Flags().Bool("no-motion", false, "Disable the help overlay animation")
	root.Flags().Bool("debug-layout", false, "Show terminal size and layout in the header")

	root.AddCommand(
		newRunCmd(),
		newLanguagesCmd(),
		newHistoryCmd(),
		newThemeCmd(),
	)
	return root
}

// loadConfig layers flags explicitly set on cmd over the environment.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return app.Config{}, err
	}
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}
	str("data-dir", &cfg.DataDir)
	str("log", &cfg.LogPath)
	str("catalog", &cfg.CatalogPath)
	str("endpoint-base", &cfg.EndpointBase)
	str("lang", &cfg.Language)
	str("export-dir", &cfg.ExportDir)
	boolean("ephemeral", &cfg.Ephemeral)
	boolean("ascii", &cfg.ASCIIOnly)
	boolean("no-motion", &cfg.NoMotion)
	boolean("debug-layout", &cfg.DebugLayout)

	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

func runEditor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}
