package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/classify"
	"github.com/agilemorph/firewatch/internal/dedupe"
	"github.com/agilemorph/firewatch/internal/model"
	"github.com/agilemorph/firewatch/internal/store"
	anthropicpkg "github.com/agilemorph/firewatch/pkg/anthropic"
)

var verifyOutputDir string

var verifyCmd = &cobra.Command{
	Use:   "verify [candidates.json]",
	Short: "Classify previously fetched candidates",
	Long:  "Runs the two-stage classifier over a saved candidate file without searching. With no argument, picks the most recent candidate file in the output directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key not configured (FIREWATCH_ANTHROPIC_KEY)")
		}

		outputDir := verifyOutputDir
		if outputDir == "" {
			outputDir = cfg.Store.OutputDir
		}

		var inputPath string
		if len(args) == 1 {
			inputPath = args[0]
		} else {
			latest, err := latestMatch(outputDir, "tweets_*.json")
			if err != nil {
				return err
			}
			inputPath = latest
			zap.L().Info("verify: using most recent candidate file",
				zap.String("path", inputPath),
			)
		}

		data, err := os.ReadFile(inputPath)
		if err != nil {
			return eris.Wrap(err, "read candidate file")
		}
		var candidates []model.Candidate
		if err := json.Unmarshal(data, &candidates); err != nil {
			return eris.Wrap(err, "parse candidate file")
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

		seedIDs, err := st.SeenIDs(ctx)
		if err != nil {
			return eris.Wrap(err, "load seen ids")
		}
		novel := dedupe.FilterNovel(candidates, dedupe.NewSeenSet(seedIDs))

		anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
		classifier := classify.New(anthropicClient, cfg.Anthropic, cfg.Classify)

		var verified, skipped int
		for _, cand := range novel {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "verify cancelled")
			}
			if classifier.TooShort(cand.Text) {
				skipped++
				continue
			}
			inc, ok := classifier.Classify(ctx, cand)
			if !ok {
				continue
			}
			inserted, err := st.Append(ctx, *inc)
			if err != nil {
				zap.L().Error("verify: persist failed",
					zap.String("tweet_id", inc.TweetID),
					zap.Error(err),
				)
				continue
			}
			if inserted {
				verified++
			}
		}

		records, err := st.Records(ctx)
		if err != nil {
			return eris.Wrap(err, "load records")
		}
		if err := store.WriteXLSX(xlsxPath, records); err != nil {
			zap.L().Warn("verify: write xlsx mirror", zap.Error(err))
		}

		zap.L().Info("verify complete",
			zap.Int("candidates", len(candidates)),
			zap.Int("novel", len(novel)),
			zap.Int("skipped_short", skipped),
			zap.Int("verified", verified),
			zap.String("json", jsonPath),
			zap.String("xlsx", xlsxPath),
		)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyOutputDir, "output", "", "output directory (default from config)")
	rootCmd.AddCommand(verifyCmd)
}
