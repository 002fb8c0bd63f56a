// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the canvas-fetch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the canvas-fetch CLI.
var rootCmd = &cobra.Command{
	Use:   "canvas-fetch",
	Short: "Download Canvas assignment submissions",
	Long: `canvas-fetch retrieves student submissions for a Canvas assignment,
saves every attachment to disk under a collision-resistant name, optionally
converts image attachments to JPEG or PNG, and writes a CSV manifest with
one row per downloaded attachment.

The API token and the course URL come from the CANVAS_API_KEY and
CANVAS_COURSE_URL environment variables (or a .secrets/ directory).`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./canvas-fetch.yaml or ~/.config/canvas-fetch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("canvas-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "canvas-fetch"))
		}
	}

	viper.SetEnvPrefix("CANVAS_FETCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
