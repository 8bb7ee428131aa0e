package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iyunix/lexbrief/internal/export"
)

var (
	exportOutput string
	exportDark   bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
	exportCmd.Flags().BoolVar(&exportDark, "dark", false, "use the dark page theme")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved session as a standalone HTML page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		s, ok := a.store.Get(args[0])
		if !ok {
			return fmt.Errorf("session %q not found", args[0])
		}

		opts := export.DefaultOptions()
		if exportDark {
			opts.Theme = "dark"
		}
		exporter := export.NewHTMLExporter(opts)

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}
		if err := exporter.Export(out, s); err != nil {
			return err
		}
		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d messages to %s\n", len(s.Messages), exportOutput)
		}
		return nil
	},
}
