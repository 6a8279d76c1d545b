package cmd

import (
	"fmt"

	"github.com/materials-commons/assetpack/pkg/catalog/audit"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <catalog.db>",
	Short: "Check a catalog against its packed data files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := homedir.Expand(args[0])
		if err != nil {
			return err
		}

		report, err := audit.VerifyCatalog(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, blob := range report.Blobs {
			_, _ = fmt.Fprintf(out, "%-14s %-9s %6d rows %12d bytes (file %d)\n",
				blob.PackedData.FilePath, blob.PackedData.DataType, blob.Rows, blob.Bytes, blob.FileSize)
		}

		for _, problem := range report.Problems {
			_, _ = fmt.Fprintf(out, "problem: %s\n", problem)
		}

		if !report.OK() {
			return errors.Errorf("%s has %d problems", path, len(report.Problems))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
