package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/dedupe"
	"github.com/agilemorph/firewatch/internal/model"
	"github.com/agilemorph/firewatch/internal/store"
)

var (
	dedupeFile      string
	dedupeOut       string
	dedupeThreshold float64
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove near-duplicate incidents from a spreadsheet",
	Long:  "Scans a results spreadsheet for rows whose content is nearly identical (retweets, syndicated posts) and keeps only the first occurrence of each.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dedupeFile
		if path == "" {
			latest, err := latestMatch(cfg.Store.OutputDir, "verified_fires_*.xlsx")
			if err != nil {
				return err
			}
			path = latest
		}

		records, err := store.ReadXLSX(path)
		if err != nil {
			return eris.Wrap(err, "read spreadsheet")
		}

		var kept []model.Incident
		removed := 0
		for _, rec := range records {
			dup := false
			for _, k := range kept {
				if dedupe.Similar(rec.Content, k.Content, dedupeThreshold) {
					dup = true
					break
				}
			}
			if dup {
				removed++
				zap.L().Debug("dedupe: dropping near-duplicate",
					zap.String("tweet_id", rec.TweetID),
				)
				continue
			}
			kept = append(kept, rec)
		}

		out := dedupeOut
		if out == "" {
			out = path
		}
		if err := store.WriteXLSX(out, kept); err != nil {
			return eris.Wrap(err, "write spreadsheet")
		}

		zap.L().Info("dedupe complete",
			zap.String("file", path),
			zap.String("out", out),
			zap.Int("rows", len(records)),
			zap.Int("removed", removed),
			zap.Int("kept", len(kept)),
		)
		return nil
	},
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeFile, "file", "", "spreadsheet to clean (default: most recent)")
	dedupeCmd.Flags().StringVar(&dedupeOut, "out", "", "write cleaned rows here instead of in place")
	dedupeCmd.Flags().Float64Var(&dedupeThreshold, "threshold", dedupe.DefaultSimilarityThreshold, "content similarity threshold")
	rootCmd.AddCommand(dedupeCmd)
}
