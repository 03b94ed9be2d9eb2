// Package report delivers finished run output: an email with the
// spreadsheet and JSON attached, and a bulk upload to the fire-news
// ingestion API.
package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agilemorph/firewatch/internal/config"
	"github.com/agilemorph/firewatch/internal/model"
	"github.com/agilemorph/firewatch/pkg/firenews"
)

// Reporter sends run results to the configured recipients and endpoint.
// Either channel may be disabled by leaving its configuration empty.
type Reporter struct {
	mailCfg  config.MailConfig
	uploader firenews.Client
}

// New creates a Reporter. uploader may be nil to disable the API upload.
func New(mailCfg config.MailConfig, uploader firenews.Client) *Reporter {
	return &Reporter{mailCfg: mailCfg, uploader: uploader}
}

// Send delivers the run report over both channels concurrently. The two
// deliveries are independent; one failing does not stop the other, and
// the combined error reports whichever failed.
func (r *Reporter) Send(ctx context.Context, xlsxPath, jsonPath string, records []model.Incident) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if r.mailCfg.From == "" || len(r.mailCfg.Recipients) == 0 {
			zap.L().Info("report: mail not configured, skipping email")
			return nil
		}
		if err := r.email(ctx, xlsxPath, jsonPath, len(records)); err != nil {
			zap.L().Error("report: email delivery failed", zap.Error(err))
			return err
		}
		zap.L().Info("report: email sent",
			zap.Int("recipients", len(r.mailCfg.Recipients)),
		)
		return nil
	})

	g.Go(func() error {
		if r.uploader == nil {
			zap.L().Info("report: upload endpoint not configured, skipping")
			return nil
		}
		if _, err := r.uploader.BulkUpload(ctx, records); err != nil {
			zap.L().Error("report: bulk upload failed", zap.Error(err))
			return err
		}
		return nil
	})

	return g.Wait()
}

func (r *Reporter) email(ctx context.Context, xlsxPath, jsonPath string, verifiedCount int) error {
	msg := mail.NewMsg()
	if err := msg.From(r.mailCfg.From); err != nil {
		return eris.Wrap(err, "report: set sender")
	}
	if err := msg.To(r.mailCfg.Recipients...); err != nil {
		return eris.Wrap(err, "report: set recipients")
	}
	msg.Subject(fmt.Sprintf("Fire Incident Verification Results - %s",
		time.Now().Format("2006-01-02 15:04")))
	msg.SetBodyString(mail.TypeTextPlain, reportBody(verifiedCount))

	for _, path := range []string{xlsxPath, jsonPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			zap.L().Warn("report: attachment missing, sending without it",
				zap.String("path", path),
			)
			continue
		}
		msg.AttachFile(path)
	}

	client, err := mail.NewClient(r.mailCfg.Host,
		mail.WithPort(r.mailCfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(r.mailCfg.From),
		mail.WithPassword(r.mailCfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return eris.Wrap(err, "report: create mail client")
	}

	return eris.Wrap(client.DialAndSendWithContext(ctx, msg), "report: send mail")
}

func reportBody(verifiedCount int) string {
	return fmt.Sprintf(`Fire Incident Verification Complete!

Summary:
- Total verified fire incidents: %d
- Verification completed: %s

Files attached:
1. Excel file with detailed results
2. JSON file with raw data

This automated report contains verified fire-related tweets from the last 72 hours.
`, verifiedCount, time.Now().Format("2006-01-02 15:04:05"))
}
