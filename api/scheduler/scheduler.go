package scheduler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/diulnf/lostfound-api/databases"
	"github.com/diulnf/lostfound-api/models"
	templates "github.com/diulnf/lostfound-api/templates/html"
)

// Scheduler handles periodic background jobs for the lost and found office
type Scheduler struct {
	cron *cron.Cron
	FDB  databases.FoundReportDatabase
	ADB  databases.AdminDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(fDB databases.FoundReportDatabase, aDB databases.AdminDatabase) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		FDB:  fDB,
		ADB:  aDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Send the daily stock-take digest to the roster at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.sendDailyDigest)
	if err != nil {
		zap.S().Errorw("failed to register daily digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Lost and found scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Lost and found scheduler stopped")
}

// sendDailyDigest mails every roster admin a summary of items stored in the
// last 24 hours plus a count of stored items older than 30 days that nobody
// has claimed. DIGEST_RECIPIENTS overrides the roster when set.
func (s *Scheduler) sendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	oneDayAgo := now.Add(-24 * time.Hour)
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)

	zap.S().Info("Running daily digest job")

	recent, err := s.FDB.Find(ctx, bson.M{
		"status":   models.FoundStatusStored,
		"storedAt": bson.M{"$gte": primitive.NewDateTimeFromTime(oneDayAgo)},
	})
	if err != nil {
		zap.S().Errorw("failed to find recently stored items", "error", err)
		return
	}

	staleCount, err := s.FDB.CountDocuments(ctx, bson.M{
		"status":   models.FoundStatusStored,
		"storedAt": bson.M{"$lt": primitive.NewDateTimeFromTime(thirtyDaysAgo)},
		"claims.0": bson.M{"$exists": false},
	})
	if err != nil {
		zap.S().Errorw("failed to count stale stored items", "error", err)
		return
	}

	var storedLines []string
	for _, report := range recent {
		storedLines = append(storedLines, fmt.Sprintf("%s %s (%s)", report.ReportID, report.ItemName, report.FoundLocation))
	}

	recipients, err := s.digestRecipients(ctx)
	if err != nil {
		zap.S().Errorw("failed to resolve digest recipients", "error", err)
		return
	}
	if len(recipients) == 0 {
		zap.S().Debug("no digest recipients configured, skipping")
		return
	}

	subject := "Lost & Found daily digest"
	htmlContent := templates.RenderAdminDigestEmail(storedLines, staleCount)
	plainText := fmt.Sprintf("%d items stored in the last 24 hours, %d stored over 30 days with no claims.", len(storedLines), staleCount)

	sent := 0
	for _, recipient := range recipients {
		if err := s.sendEmail(recipient, recipient, subject, htmlContent, plainText); err != nil {
			zap.S().Errorw("failed to send digest email", "error", err, "to", recipient)
			continue
		}
		sent++
	}

	zap.S().Infow("Daily digest complete",
		"storedLast24h", len(storedLines),
		"staleUnclaimed", staleCount,
		"recipients", sent,
	)
}

// digestRecipients returns the comma separated DIGEST_RECIPIENTS override
// when set, otherwise every email on the admin roster
func (s *Scheduler) digestRecipients(ctx context.Context) ([]string, error) {
	if override := os.Getenv("DIGEST_RECIPIENTS"); override != "" {
		var recipients []string
		for _, email := range strings.Split(override, ",") {
			if email = strings.TrimSpace(email); email != "" {
				recipients = append(recipients, email)
			}
		}
		return recipients, nil
	}

	admins, err := s.ADB.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, admin.Email)
	}
	return recipients, nil
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		zap.S().Debugw("sendgrid api key not set, skipping email", "to", toEmail)
		return nil
	}
	from := mail.NewEmail("Campus Lost & Found", "no-reply@lostfound.diu.edu")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
