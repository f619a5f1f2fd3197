package cmd

import (
	"context"
	"fmt"
	"time"

	"daybrief/internal/model"

	"github.com/spf13/cobra"
)

var (
	weatherLat  float64
	weatherLon  float64
	weatherCity string
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show current weather for coordinates or a city",
	RunE: func(cmd *cobra.Command, args []string) error {
		var where model.Location
		switch {
		case cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon"):
			where = model.Coords(weatherLat, weatherLon)
		default:
			where = model.Location{City: weatherCity}
		}
		return withApp(func(ctx context.Context, a *app) error {
			snap, err := a.weather.Current(ctx, where, skipCache)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, %s  %d°C (feels like %d°C)  %s\n", snap.City.Name, snap.City.Country, snap.TempC, snap.FeelsLikeC, snap.Description)
			fmt.Fprintf(out, "humidity %d%%  pressure %d hPa  wind %.1f m/s @ %d°\n", snap.HumidityPct, snap.PressureHpa, snap.WindSpeed, snap.WindDegrees)
			if snap.VisibilityKm != nil {
				fmt.Fprintf(out, "visibility %.1f km\n", *snap.VisibilityKm)
			}
			fmt.Fprintf(out, "sunrise %s  sunset %s\n",
				time.UnixMilli(snap.SunriseMs).In(a.loc).Format("15:04"),
				time.UnixMilli(snap.SunsetMs).In(a.loc).Format("15:04"))
			return nil
		})
	},
}

func init() {
	weatherCmd.Flags().Float64Var(&weatherLat, "lat", 0, "latitude")
	weatherCmd.Flags().Float64Var(&weatherLon, "lon", 0, "longitude")
	weatherCmd.Flags().StringVar(&weatherCity, "city", "", "city name (used when no coordinates are given)")
	weatherCmd.Flags().BoolVar(&skipCache, "fresh", false, "bypass the cache and fetch from the provider")
	rootCmd.AddCommand(weatherCmd)
}
