package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fraatlas/pkg/ingest"
)

func newImportCmd() *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a CSV, XLSX, HTML or JSON sheet of claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			p, err := policyFlag(policy, a.cfg.CategoryPolicy)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := a.claims(p).Import(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVar(&policy, "category-policy", "", "unknown|random (default from ATLAS_CATEGORY_POLICY)")
	return cmd
}

// newNormalizeCmd is a dry run: rows are normalised and printed, not stored.
func newNormalizeCmd() *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Show how a sheet would be imported without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := policyFlag(policy, ingest.PolicyUnknown)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sheet, err := ingest.ReadFile(filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			res := ingest.NewNormalizer(p, nil).NormalizeSheet(sheet)
			return printJSON(cmd, struct {
				*ingest.Result
				Claims any `json:"claims"`
			}{res, res.Claims})
		},
	}
	cmd.Flags().StringVar(&policy, "category-policy", "", "unknown|random")
	return cmd
}

func policyFlag(flag string, def ingest.CategoryPolicy) (ingest.CategoryPolicy, error) {
	if flag == "" {
		return def, nil
	}
	return ingest.ParseCategoryPolicy(flag)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
