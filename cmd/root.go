// Package cmd implements the CLI commands for ar5iv2md using Cobra.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xhiroga/ar5iv2md/core/fetch"
)

var rootCmd = &cobra.Command{
	Use:   "ar5iv2md",
	Short: "ar5iv2md — convert ar5iv paper pages into portable Markdown",
	Long: `ar5iv2md fetches an ar5iv HTML rendering of a paper and converts it into
a self-contained Markdown document: images are downloaded next to the
output, math is preserved as TeX, and bibliography anchors survive the
conversion so in-text citations keep working.

Usage:
  ar5iv2md convert <source> [flags]`,
	// Execute prints the error itself; without these a fatal failure
	// would produce two stderr lines instead of one.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ar5iv2md.yaml or ~/.config/ar5iv2md/config.yaml)")
}

// initConfig loads optional configuration: flags override the config
// file, the config file overrides built-in defaults.
func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ar5iv2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ar5iv2md"))
		}
	}

	viper.SetDefault("download_dir", ".")
	viper.SetDefault("timeout_seconds", int(fetch.DefaultTimeout.Seconds()))
	viper.SetDefault("user_agent", fetch.DefaultUserAgent)

	// A missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}
