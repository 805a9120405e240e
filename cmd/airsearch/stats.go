package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airnav/airsearch"
)

func init() {
	statsCmd.Flags().Int("top", 20, "number of entries in rankings")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(exportCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [country]",
	Short: "Global overview, rankings, or a per-country report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		stats := airsearch.NewStatistics(newEngine(catalog))

		if len(args) == 1 {
			report, err := stats.CountryReport(args[0])
			if err != nil {
				return err
			}
			printCountryReport(report)
			return nil
		}

		top, _ := cmd.Flags().GetInt("top")
		o := stats.Overview()
		fmt.Printf("airports: %d  countries: %d  cities: %d\n", o.Airports, o.Countries, o.Cities)
		fmt.Printf("with IATA code: %d  regional/minor: %d\n", o.IATAAirports, o.Regional)

		fmt.Printf("\ntop %d countries by airport count:\n", top)
		for i, t := range stats.TopCountries(top) {
			fmt.Printf("%3d. %-30s %d\n", i+1, t.Name, t.Count)
		}

		fmt.Printf("\ncities with multiple airports:\n")
		for _, t := range stats.TopCities(top) {
			if t.Count > 1 {
				fmt.Printf("     %-40s %d\n", t.Name, t.Count)
			}
		}
		return nil
	},
}

func printCountryReport(report airsearch.CountryReport) {
	fmt.Printf("%s: %d airport(s) in %d city(ies), %d with IATA code\n",
		report.Country, len(report.Airports), report.Cities, report.IATAAirports)

	currentCity := ""
	for _, r := range report.Airports {
		if r.City != currentCity {
			currentCity = r.City
			fmt.Printf("\n%s:\n", currentCity)
		}
		fmt.Printf("  %-8s %s\n", r.Codes(), r.Name)
	}
}

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List every country with its airport count",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		ix := catalog.Indexes()
		for _, name := range ix.CountryKeys() {
			fmt.Printf("%-40s %d\n", name, len(ix.ByCountry(name)))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <country> [file]",
	Short: "Export a country's airports as JSON",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog()
		if err != nil {
			return err
		}
		stats := airsearch.NewStatistics(newEngine(catalog))

		out := os.Stdout
		if len(args) == 2 {
			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[1], err)
			}
			defer f.Close()
			out = f
		}
		if err := stats.ExportCountry(args[0], out); err != nil {
			return err
		}
		if len(args) == 2 {
			fmt.Fprintf(os.Stderr, "exported to %s\n", args[1])
		}
		return nil
	},
}
