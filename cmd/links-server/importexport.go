package main

import (
	"encoding/json"
	"os"

	"github.com/AR-26710/plugin-links/pkg/links/importexport"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import groups and links from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "open import file")
		}
		defer f.Close()

		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		result, err := importexport.NewService(rt.db, rt.logger).Import(cmd.Context(), f)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all groups and links as JSON, to stdout when no file is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return errors.Wrap(err, "create export file")
			}
			defer f.Close()
			out = f
		}

		return importexport.NewService(rt.db, rt.logger).Export(cmd.Context(), out)
	},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd)
}
