package main

import (
	"github.com/spf13/cobra"

	"github.com/marchon-locator/internal/usecase/dto"
)

func newLayersCmd(opts *rootOptions) *cobra.Command {
	var (
		checked   []string
		reference string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "layers",
		Short: "Partition features into map layers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build()
			if err != nil {
				return err
			}

			resp, _, err := a.layers.Partition(cmd.Context(), dto.LayerQuery{
				Dataset:     fileDataset,
				Checked:     checked,
				Reference:   reference,
				AllFeatures: all,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringSliceVar(&checked, "checked", nil, "checked layer ids (repeatable)")
	cmd.Flags().StringVar(&reference, "reference", "", "reference date YYYY-MM-DD")
	cmd.Flags().BoolVar(&all, "all", true, "keep events before the display cutoff")

	return cmd
}
