package main

import (
	"fmt"
	"text/tabwriter"

	"coderunner/internal/app"
	"coderunner/internal/export"

	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the language catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cat, err := app.LoadCatalog(cfg)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFILE\tENDPOINT")
			for _, l := range cat.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.Name, export.FileName(l), l.Endpoint)
			}
			return w.Flush()
		},
	}
}
