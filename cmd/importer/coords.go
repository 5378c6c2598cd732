package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seedtracker-api/internal/coords"
)

func newCoordsCmd() *cobra.Command {
	var latHemisphere, lngHemisphere string

	cmd := &cobra.Command{
		Use:   "coords <raw>...",
		Short: "Parse a DMS coordinate string",
		Long: `Parse a raw "Cords" value the way the loader does and print decimal degrees.

Examples:
  importer coords "41° 30' 0.0\" N 93° 30' 0.0\" W"
  importer coords 41 30 0 93 30 0`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := coords.ParseHemisphere(latHemisphere, coords.North, coords.South)
			if err != nil {
				return fmt.Errorf("--lat-hemisphere: %w", err)
			}
			lng, err := coords.ParseHemisphere(lngHemisphere, coords.East, coords.West)
			if err != nil {
				return fmt.Errorf("--lng-hemisphere: %w", err)
			}

			raw := strings.Join(args, " ")
			c, ok := coords.ParseWith(raw, coords.Defaults{Lat: lat, Lng: lng})
			if !ok {
				return fmt.Errorf("no coordinate found in %q", raw)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.6f %.6f\n", c.Lat, c.Lng)
			return nil
		},
	}

	cmd.Flags().StringVar(&latHemisphere, "lat-hemisphere", "N", "hemisphere for latitudes without a letter (N or S)")
	cmd.Flags().StringVar(&lngHemisphere, "lng-hemisphere", "W", "hemisphere for longitudes without a letter (E or W)")
	return cmd
}
