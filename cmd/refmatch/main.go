// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refmatch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refmatch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets *secrets.Store

// openAlexEmail returns flag when set, otherwise the resolved polite-pool
// address (environment, then key file).
func openAlexEmail(flag string) string {
	if flag != "" {
		return flag
	}
	return loadedSecrets.OpenAlexEmail()
}

// rootCmd is the base command for the refmatch CLI.
var rootCmd = &cobra.Command{
	Use:   "refmatch",
	Short: "Match systematic-review references against OpenAlex",
	Long: `refmatch takes the study list of a systematic review and matches each
bibliographic reference against the OpenAlex catalog. Strategies are tried
in priority order, identifier (DOI/PMID) first and progressively looser
title-based searches after, and each study ends up found, not found, rejected
(candidates existed but fell below the similarity thresholds), or skipped.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine; explicit environment always wins.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refmatch.yaml or ~/.config/refmatch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refmatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refmatch"))
		}
	}

	viper.SetEnvPrefix("REFMATCH")
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
