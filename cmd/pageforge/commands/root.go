// Package commands implements the CLI commands for pageforge.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pageforge",
	Short: "Declarative web data extraction",
	Long: `Pageforge extracts structured records from web pages using
declarative rules: selectors locate the data, filter pipelines turn the
raw text into typed values.

Examples:
  # Extract records from a page with a rules file
  pageforge extract -u "https://example.com/products" -r products.yaml

  # Script-rendered site, JSONL output
  pageforge extract -u "https://example.com/app" -r items.yaml \
      --fetch-mode dynamic --format jsonl

  # Check a rules file without fetching anything
  pageforge rules check products.yaml`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.pageforge.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".pageforge")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PAGEFORGE")
	viper.AutomaticEnv()

	// Missing config file is fine, flags and env cover everything.
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
