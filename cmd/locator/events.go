package main

import (
	"github.com/spf13/cobra"

	"github.com/marchon-locator/internal/usecase/dto"
)

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var (
		reference string
		cutoff    string
		past      bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming or past events",
		Long:  "Classifies dated features against a cutoff. Prints upcoming events sorted by date and name, or past ones with --past.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.build()
			if err != nil {
				return err
			}

			q := dto.EventQuery{
				Dataset:   fileDataset,
				Reference: reference,
				Cutoff:    cutoff,
				Limit:     limit,
			}
			if cmd.Flags().Changed("grace-days") {
				q.GraceDays = &opts.graceDays
			}

			if past {
				resp, err := a.events.Classified(cmd.Context(), q)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), dto.UpcomingEventsResponse{
					Dataset: resp.Dataset,
					Cutoff:  resp.Cutoff,
					Events:  resp.Past,
				})
			}

			resp, err := a.events.Upcoming(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&reference, "reference", "", "reference date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&cutoff, "cutoff", "", "fixed cutoff date YYYY-MM-DD")
	cmd.Flags().BoolVar(&past, "past", false, "print past events instead of upcoming")
	cmd.Flags().IntVar(&limit, "limit", 0, "max upcoming events (0: all)")

	return cmd
}
