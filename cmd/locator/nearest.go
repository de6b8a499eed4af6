package main

import (
	"github.com/spf13/cobra"

	"github.com/marchon-locator/internal/usecase/dto"
)

func newNearestCmd(opts *rootOptions) *cobra.Command {
	var (
		lat, lon       float64
		excludeSources []string
		requireSource  bool
		layerIDs       []string
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "nearest",
		Short: "Find the feature closest to a point",
		Long:  "Prints the nearest feature by great-circle distance, optionally with a ranked list of the next closest ones.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build()
			if err != nil {
				return err
			}

			resp, err := a.nearest.FindNearest(cmd.Context(), dto.NearestRequest{
				Dataset:        fileDataset,
				Lat:            &lat,
				Lon:            &lon,
				ExcludeSources: excludeSources,
				RequireSource:  requireSource,
				Layers:         layerIDs,
				Limit:          limit,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the reference point")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude of the reference point")
	cmd.Flags().StringSliceVar(&excludeSources, "exclude-source", nil, "skip features with this source (repeatable)")
	cmd.Flags().BoolVar(&requireSource, "require-source", false, "skip features without a source")
	cmd.Flags().StringSliceVar(&layerIDs, "layer", nil, "only features of these layers (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 1, "size of the ranked list")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}
