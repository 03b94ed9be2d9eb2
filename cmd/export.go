package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/model"
	"github.com/agilemorph/firewatch/internal/report"
	"github.com/agilemorph/firewatch/pkg/firenews"
)

var (
	exportJSONFile string
	exportXLSXFile string
	exportNoMail   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Email and upload an existing result set",
	Long:  "Sends the verified-incident report for a finished run: emails the spreadsheet and JSON to the configured recipients and bulk-uploads the records to the fire-news API. Defaults to the most recent files in the output directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		outputDir := cfg.Store.OutputDir

		jsonPath := exportJSONFile
		if jsonPath == "" {
			latest, err := latestMatch(outputDir, "live_verified_fires_*.json")
			if err != nil {
				return err
			}
			jsonPath = latest
		}
		xlsxPath := exportXLSXFile
		if xlsxPath == "" {
			if latest, err := latestMatch(outputDir, "verified_fires_*.xlsx"); err == nil {
				xlsxPath = latest
			} else {
				zap.L().Warn("export: no spreadsheet found, emailing JSON only", zap.Error(err))
			}
		}

		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return eris.Wrap(err, "read result file")
		}
		var records []model.Incident
		if err := json.Unmarshal(data, &records); err != nil {
			return eris.Wrap(err, "parse result file")
		}

		zap.L().Info("export: sending report",
			zap.String("json", jsonPath),
			zap.String("xlsx", xlsxPath),
			zap.Int("records", len(records)),
		)

		var uploader firenews.Client
		if cfg.Export.UploadURL != "" {
			uploader = firenews.NewClient(cfg.Export.UploadURL)
		}
		mailCfg := cfg.Mail
		if exportNoMail {
			mailCfg.Recipients = nil
		}

		return report.New(mailCfg, uploader).Send(ctx, xlsxPath, jsonPath, records)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportJSONFile, "file", "", "verified-incident JSON file (default: most recent)")
	exportCmd.Flags().StringVar(&exportXLSXFile, "xlsx", "", "spreadsheet to attach (default: most recent)")
	exportCmd.Flags().BoolVar(&exportNoMail, "no-mail", false, "skip email, upload to the API only")
	rootCmd.AddCommand(exportCmd)
}
