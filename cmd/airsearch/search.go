package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airnav/airsearch"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search airports by code, city, country or name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		result := newEngine(catalog).Search(query)

		if result.Empty() {
			fmt.Printf("no airports found for %q\n", query)
			for _, s := range result.Suggestions {
				fmt.Printf("  did you mean: %s\n", s)
			}
			return nil
		}

		fmt.Printf("found %d airport(s) for %q (matched by %s):\n", len(result.Records), query, result.Strategy)
		for _, r := range result.Records {
			printAirport(r)
		}
		return nil
	},
}

func printAirport(r airsearch.AirportRecord) {
	fmt.Printf("%-8s %s\n", r.Codes(), r.Name)
	fmt.Printf("         %s, %s (%.4f, %.4f)\n", r.City, r.Country, r.Latitude, r.Longitude)
	if r.Elevation != 0 {
		fmt.Printf("         elevation %d ft\n", r.Elevation)
	}
	if r.Timezone != "" {
		fmt.Printf("         tz %s\n", r.Timezone)
	}
}
