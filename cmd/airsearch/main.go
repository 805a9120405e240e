// Command airsearch is the interactive shell around the airport lookup
// engine: dataset fetching, code/city/country/name search, distance and
// nearby queries, statistics and exports.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/airnav/airsearch"
)

var rootCmd = &cobra.Command{
	Use:           "airsearch",
	Short:         "Lookup and proximity queries over the worldwide airport dataset",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("snapshot-dir", "./airsearch-snapshot", "directory with airports.json and index files")
	rootCmd.PersistentFlags().String("data-dir", "./airsearch-data", "directory for raw dataset downloads")
	rootCmd.PersistentFlags().Float64("threshold", airsearch.DefaultSimilarityThreshold, "fuzzy-match similarity threshold")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())
	viper.SetEnvPrefix("AIRSEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !viper.GetBool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}
	return logger
}

func openCatalog() (*airsearch.Catalog, error) {
	return airsearch.OpenCatalog(
		airsearch.WithSnapshotDir(viper.GetString("snapshot-dir")),
		airsearch.WithSearchOptions(airsearch.SearchOptions{
			SimilarityThreshold: viper.GetFloat64("threshold"),
		}),
		airsearch.WithLogger(newLogger()),
	)
}

func newEngine(c *airsearch.Catalog) *airsearch.SearchEngine {
	return airsearch.NewSearchEngine(c, airsearch.SearchOptions{
		SimilarityThreshold: viper.GetFloat64("threshold"),
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
