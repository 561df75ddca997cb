package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fraatlas/entities"
	"fraatlas/pkg/claim/repository"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		out    string
		f      repository.Filter
		status string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export claims as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				st, ok := entities.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				f.Status = st
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			svc := a.claims(a.cfg.CategoryPolicy)

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			switch strings.ToLower(format) {
			case "csv":
				return svc.ExportCSV(cmd.Context(), f, w)
			case "xlsx":
				if out == "" {
					return fmt.Errorf("xlsx export needs --out")
				}
				return svc.ExportXLSX(cmd.Context(), f, w)
			}
			return fmt.Errorf("unknown format %q", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv|xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
	cmd.Flags().StringVar(&f.State, "state", "", "filter by state")
	cmd.Flags().StringVar(&f.District, "district", "", "filter by district")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}
