package main

import (
	"fmt"

	"coderunner/internal/app"
	"coderunner/internal/session"

	"github.com/spf13/cobra"
)

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the persisted editor theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light"},
		RunE:      runTheme,
	}
}

func runTheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := app.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		t, ok := session.ParseTheme(args[0])
		if !ok {
			return fmt.Errorf("unknown theme %q: use dark or light", args[0])
		}
		if err := store.Set(cmd.Context(), session.ThemeKey, t.String()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	}

	raw, ok, err := store.Get(cmd.Context(), session.ThemeKey)
	if err != nil {
		return err
	}
	t := session.ThemeDark
	if ok {
		if parsed, valid := session.ParseTheme(raw); valid {
			t = parsed
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}
