package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/app"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/location"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func nowCmd() *cobra.Command {
	var (
		lat, lon      float64
		name, country string
	)

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the dashboard for the current or a given location",
		Long: `Resolve the device location (falling back to New York) or use --lat/--lon,
fetch the forecast once and print the dashboard view as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
			if latSet != lonSet {
				return errors.New("--lat and --lon must be given together")
			}

			a, err := app.New(config.GetConfig(), log.Logger, tele)
			if err != nil {
				return err
			}
			defer a.Close()

			if latSet {
				err = a.Dashboard.FetchLocation(cmd.Context(), location.Target{
					Coordinates: service.Coordinates{Latitude: lat, Longitude: lon},
					Name:        name,
					Country:     country,
				})
			} else {
				err = a.Dashboard.Locate(cmd.Context())
			}
			if err != nil {
				log.Error("Failed to load dashboard", zap.Error(err))
			}

			out, jerr := json.MarshalIndent(a.Dashboard.View(), "", "  ")
			if jerr != nil {
				return jerr
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	cmd.Flags().StringVar(&name, "name", "", "display name of the location")
	cmd.Flags().StringVar(&country, "country", "", "display country of the location")

	return cmd
}
