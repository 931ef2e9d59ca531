// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refmatch/internal/match"
	"github.com/pdiddy/refmatch/internal/openalex"
	"github.com/pdiddy/refmatch/internal/report"
	"github.com/pdiddy/refmatch/internal/studyfile"
	"github.com/pdiddy/refmatch/pkg/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a review's study list against OpenAlex",
	Long: `Match loads a study list (JSON or YAML), runs the strategy cascade for
each study, and prints a per-study table with a run summary, or raw JSON
with --json. Individual studies that cannot be matched are results, not
errors: the command exits 0 as long as the run itself completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		studiesPath, _ := cmd.Flags().GetString("studies")
		if studiesPath == "" {
			return fmt.Errorf("--studies is required")
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		log := report.NewLogger(cfg.Logging)

		if err := cfg.Match.Validate(); err != nil {
			return fmt.Errorf("invalid match configuration: %w", err)
		}

		studies, err := studyfile.Load(studiesPath)
		if err != nil {
			return err
		}
		log.Info().Int("studies", len(studies)).Str("file", studiesPath).Msg("study list loaded")

		client, err := openalex.NewClient(cfg.OpenAlex, log)
		if err != nil {
			return err
		}
		defer client.Close()

		svc := match.NewService(client, cfg.Match, log)

		start := time.Now()
		results := make([]types.MatchResult, 0, len(studies))
		for _, study := range studies {
			results = append(results, svc.MatchStudy(cmd.Context(), study))
		}
		elapsed := time.Since(start)

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			data, err := report.FormatJSON(results)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
		} else {
			fmt.Print(report.FormatTable(results))
			fmt.Println()
			fmt.Print(report.FormatSummary(report.Summarize(results, elapsed)))
		}

		if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
			if err := studyfile.WriteResults(outPath, results); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, "Results written to:", outPath)
		}
		return nil
	},
}

// buildConfig layers defaults, the config file / environment, the secrets
// directory and finally the command-line flags.
func buildConfig(cmd *cobra.Command) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("title-threshold") {
		cfg.Match.TitleSimilarityThreshold, _ = flags.GetFloat64("title-threshold")
	}
	if flags.Changed("author-threshold") {
		cfg.Match.AuthorSimilarityThreshold, _ = flags.GetFloat64("author-threshold")
	}
	if flags.Changed("title-only-threshold") {
		cfg.Match.TitleOnlySimilarityThreshold, _ = flags.GetFloat64("title-only-threshold")
	}
	if flags.Changed("disable") {
		cfg.Match.DisableStrategies, _ = flags.GetStringSlice("disable")
	}
	if flags.Changed("allow-missing-year") {
		cfg.Match.AllowMissingYear, _ = flags.GetBool("allow-missing-year")
	}
	if flags.Changed("cache") {
		cfg.OpenAlex.CachePath, _ = flags.GetString("cache")
	}

	email, _ := flags.GetString("email")
	if email == "" {
		email = cfg.OpenAlex.Email
	}
	cfg.OpenAlex.Email = openAlexEmail(email)

	return cfg, nil
}

func init() {
	matchCmd.Flags().String("studies", "", "study list file (JSON or YAML)")
	matchCmd.Flags().Bool("json", false, "output results as JSON")
	matchCmd.Flags().String("out", "", "write results to a file (JSON or YAML by extension)")
	matchCmd.Flags().StringSlice("disable", nil, "strategies to disable (e.g. identifier,title_only)")
	matchCmd.Flags().Bool("allow-missing-year", false, "allow title searches for references without a year")
	matchCmd.Flags().Float64("title-threshold", 0.85, "minimum title similarity")
	matchCmd.Flags().Float64("author-threshold", 0.90, "minimum author similarity")
	matchCmd.Flags().Float64("title-only-threshold", 0, "title-only threshold override (default: title threshold + 0.10)")
	matchCmd.Flags().String("email", "", "email for the OpenAlex polite pool")
	matchCmd.Flags().String("cache", "", "SQLite file for caching OpenAlex lookups")

	rootCmd.AddCommand(matchCmd)
}
