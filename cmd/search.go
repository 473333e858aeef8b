package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Look up cities by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			geocoding, err := service.NewGeocodingServiceWithConfig(cfg.Geocoding, log.Logger, tele)
			if err != nil {
				return err
			}

			results, err := geocoding.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cities found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tREGION\tCOUNTRY\tLAT\tLON")
			for _, r := range results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.4f\t%.4f\n", r.ID, r.Name, r.Admin1, r.Country, r.Latitude, r.Longitude)
			}
			return w.Flush()
		},
	}
}
