package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"coderunner/internal/app"
	"coderunner/internal/session"

	"github.com/spf13/cobra"
)

var errRunFailed = errors.New("run failed")

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run code without the editor",
		Long: `Execute code on the remote runner for its language and print the output.

Code can be provided via:
  - File argument: coderunner run main.py
  - Inline flag: coderunner run -l python -c 'print(1)'
  - Stdin: echo 'print(1)' | coderunner run -l python

The language comes from --lang, the file extension, or detection on the source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}
	cmd.Flags().StringP("code", "c", "", "Code to execute")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	code, _ := cmd.Flags().GetString("code")

	var source, filename string
	switch {
	case code != "":
		source = code
	case len(args) > 0:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		source = string(data)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		source = string(data)
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	langID := cfg.Language
	if langID == "" {
		lang, err := a.Catalog().Detect(filename, source)
		if err != nil {
			return fmt.Errorf("language required: use --lang (%w)", err)
		}
		langID = lang.ID
	}

	st, err := a.RunSource(cmd.Context(), langID, source)
	if err != nil {
		return err
	}
	if st.Phase != session.Succeeded {
		fmt.Fprintln(cmd.ErrOrStderr(), st.Error)
		return errRunFailed
	}
	fmt.Fprint(cmd.OutOrStdout(), st.Output)
	return nil
}
