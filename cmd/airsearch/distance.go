package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(distanceCmd)
	rootCmd.AddCommand(nearbyCmd)
	rootCmd.AddCommand(locateCmd)
}

var distanceCmd = &cobra.Command{
	Use:   "distance <code> <code>",
	Short: "Great-circle distance between two airports",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		d, err := catalog.DistanceBetween(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s - %s: %.1f km (%.1f mi)\n", args[0], args[1], d.Km, d.Miles)
		return nil
	},
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby <code> [radius-km]",
	Short: "Airports within a radius of a reference airport",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		radius := 100.0
		if len(args) == 2 {
			r, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid radius %q: %w", args[1], err)
			}
			radius = r
		}

		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		ref, nearby, err := catalog.NearbyAirports(args[0], radius)
		if err != nil {
			return err
		}

		fmt.Printf("%d airport(s) within %.0f km of %s (%s):\n", len(nearby), radius, ref.Codes(), ref.Name)
		for _, n := range nearby {
			fmt.Printf("  %7.1f km  %-8s %s, %s\n", n.DistanceKm, n.Record.Codes(), n.Record.Name, n.Record.City)
		}
		return nil
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate <lat> <lng>",
	Short: "Nearest airport to a coordinate pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: %w", args[0], err)
		}
		lng, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: %w", args[1], err)
		}

		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		r, ok := catalog.Nearest(lat, lng)
		if !ok {
			fmt.Println("no airport near those coordinates")
			return nil
		}
		printAirport(r)
		fmt.Printf("         geohash %s\n", r.Geohash())
		return nil
	},
}
