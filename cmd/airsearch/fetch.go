package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/airnav/airsearch"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the raw airport feed and build the snapshot files",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder := airsearch.NewDatasetBuilder(
			airsearch.WithDataDir(viper.GetString("data-dir")),
			airsearch.WithSnapshotDir(viper.GetString("snapshot-dir")),
			airsearch.WithLogger(newLogger()),
		)
		if err := builder.Fetch(); err != nil {
			// Build falls back to the sample dataset, so a failed
			// download is reported but not fatal.
			fmt.Printf("download failed, continuing with sample data: %v\n", err)
		}
		n, err := builder.Build()
		if err != nil {
			return err
		}
		fmt.Printf("snapshot written to %s (%d airports)\n", viper.GetString("snapshot-dir"), n)
		return nil
	},
}
