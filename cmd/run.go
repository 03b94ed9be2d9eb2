package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/classify"
	"github.com/agilemorph/firewatch/internal/pipeline"
	"github.com/agilemorph/firewatch/internal/queryspace"
	"github.com/agilemorph/firewatch/internal/report"
	anthropicpkg "github.com/agilemorph/firewatch/pkg/anthropic"
	"github.com/agilemorph/firewatch/pkg/firenews"
	"github.com/agilemorph/firewatch/pkg/twitterapi"
)

var (
	runWindowHours int
	runMaxCombo    int
	runKeywordFile string
	runAccountFile string
	runOutputDir   string
	runSendReport  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full detection sweep",
	Long:  "Expands the keyword vocabulary into per-state search queries, sweeps watched accounts, classifies every novel candidate, and persists verified incidents as they are found.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Search.Key == "" {
			return eris.New("search API key not configured (FIREWATCH_SEARCH_KEY)")
		}
		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key not configured (FIREWATCH_ANTHROPIC_KEY)")
		}

		outputDir := runOutputDir
		if outputDir == "" {
			outputDir = cfg.Store.OutputDir
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return eris.Wrap(err, "create output dir")
		}
		jsonPath, xlsxPath := outputPaths(outputDir)

		st, err := openStore(outputDir, jsonPath)
		if err != nil {
			return err
		}
		defer st.Close()

		window := runWindowHours
		if window == 0 {
			window = cfg.Search.WindowHours
		}
		searchClient := twitterapi.NewClient(cfg.Search.Key,
			twitterapi.WithBaseURL(cfg.Search.BaseURL),
			twitterapi.WithWindowHours(window),
			twitterapi.WithCooldown(time.Duration(cfg.Search.CooldownSecs)*time.Second),
			twitterapi.WithRateLimit(cfg.Search.RatePerSec),
		)

		anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
		classifier := classify.New(anthropicClient, cfg.Anthropic, cfg.Classify)

		keywordFile := runKeywordFile
		if keywordFile == "" {
			keywordFile = cfg.Search.KeywordFile
		}
		accountFile := runAccountFile
		if accountFile == "" {
			accountFile = cfg.Search.AccountFile
		}
		keywords := queryspace.LoadKeywords(keywordFile)
		accounts := queryspace.LoadAccounts(accountFile)

		maxCombo := runMaxCombo
		if maxCombo == 0 {
			maxCombo = cfg.Search.MaxComboLength
		}

		zap.L().Info("search space",
			zap.Int("locations", len(queryspace.DefaultLocations)),
			zap.Int("keywords", len(keywords.Words)),
			zap.Bool("keywords_default", keywords.Fallback),
			zap.Int("accounts", len(accounts.Words)),
			zap.Int("queries", queryspace.Size(len(queryspace.DefaultLocations), len(keywords.Words), maxCombo)),
		)

		p := pipeline.New(searchClient, classifier, st, pipeline.Config{
			Locations:   queryspace.DefaultLocations,
			Keywords:    keywords.Words,
			Accounts:    accounts.Words,
			MaxComboLen: maxCombo,
			MaxResults:  cfg.Search.MaxResults,
			XLSXPath:    xlsxPath,
		})

		summary, err := p.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run output",
			zap.String("json", jsonPath),
			zap.String("xlsx", xlsxPath),
		)

		if runSendReport {
			records, err := st.Records(ctx)
			if err != nil {
				return eris.Wrap(err, "load records for report")
			}
			if len(records) == 0 {
				zap.L().Info("no verified incidents, skipping report")
			} else {
				var uploader firenews.Client
				if cfg.Export.UploadURL != "" {
					uploader = firenews.NewClient(cfg.Export.UploadURL)
				}
				if err := report.New(cfg.Mail, uploader).Send(ctx, xlsxPath, jsonPath, records); err != nil {
					zap.L().Error("report delivery incomplete", zap.Error(err))
				}
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	runCmd.Flags().IntVar(&runWindowHours, "window", 0, "search recency window in hours (default from config)")
	runCmd.Flags().IntVar(&runMaxCombo, "max-combo", 0, "maximum keyword permutation length (default from config)")
	runCmd.Flags().StringVar(&runKeywordFile, "keywords", "", "YAML keyword vocabulary file")
	runCmd.Flags().StringVar(&runAccountFile, "accounts", "", "YAML watched-account file")
	runCmd.Flags().StringVar(&runOutputDir, "output", "", "output directory (default from config)")
	runCmd.Flags().BoolVar(&runSendReport, "report", false, "email results and upload to the fire-news API when the run completes")
	rootCmd.AddCommand(runCmd)
}
