package main

import (
	"github.com/spf13/cobra"

	"fraatlas/entities"
	"fraatlas/pkg/ai"
	"fraatlas/pkg/analysis/serviceImp"
	"fraatlas/pkg/claim/repositoryImp"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		offline bool
		in      ai.Input
		soil    string
		water   string
		status  string
	)
	cmd := &cobra.Command{
		Use:   "analyze <claim-id>",
		Short: "Print the synthetic analysis for a claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if offline {
				in.ClaimID = args[0]
				in.Soil, _ = entities.ParseSoilType(soil)
				in.Water, _ = entities.ParseWaterAvailability(water)
				in.Status, _ = entities.ParseStatus(status)
				return printJSON(cmd, ai.Generate(in))
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			client := ai.NewSynthetic()
			if a.cache != nil {
				client = ai.NewCached(client, a.cache)
			}
			svc := serviceImp.New(repositoryImp.New(a.db), client)
			rec, err := svc.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "generate from flags instead of the stored claim")
	cmd.Flags().StringVar(&soil, "soil", "", "soil type (offline)")
	cmd.Flags().StringVar(&water, "water", "", "water availability (offline)")
	cmd.Flags().StringVar(&status, "status", "", "claim status (offline)")
	cmd.Flags().Float64Var(&in.Area, "area", 0, "area in acres (offline)")
	return cmd
}
