// Command seeder prepares a database for local development. It applies
// pending migrations, ensures the default intent template exists, and can
// optionally insert a demo user with a handful of processed recordings.
//
// Flags:
//
//	--demo  also insert the demo user and sample recordings
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/altis0725/insurance-ai-backend/db"
	"github.com/altis0725/insurance-ai-backend/internal/adapter/postgres"
	compliancerepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/compliance"
	extractionrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/extraction"
	recordingrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/recording"
	templaterepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/template"
	userrepo "github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/user"
	"github.com/altis0725/insurance-ai-backend/internal/app"
	"github.com/altis0725/insurance-ai-backend/internal/config"
	"github.com/altis0725/insurance-ai-backend/internal/domain"
	templatesvc "github.com/altis0725/insurance-ai-backend/internal/service/template"
)

func main() {
	demoFlag := flag.Bool("demo", false, "insert demo user and sample recordings")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, *demoFlag); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("seeding finished")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, demo bool) error {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool, db.Migrations, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	templates := templaterepo.New(pool)
	txManager := postgres.NewTxManager(pool)
	templateService := templatesvc.NewService(logger, templates, txManager)
	if err := templateService.EnsureDefault(ctx); err != nil {
		return fmt.Errorf("seed default template: %w", err)
	}

	if !demo {
		return nil
	}
	return seedDemoData(ctx, pool, logger)
}

// seedDemoData inserts a demo user and three completed recordings with
// extraction and compliance results, enough to exercise the list, detail,
// document and insight endpoints without running the pipeline.
func seedDemoData(ctx context.Context, pool postgres.Querier, logger *slog.Logger) error {
	users := userrepo.New(pool)
	recordings := recordingrepo.New(pool)
	extractions := extractionrepo.New(pool)
	compliances := compliancerepo.New(pool)

	email := "demo@example.com"
	method := "local"
	user, err := users.Upsert(ctx, &domain.User{
		OpenID:      "demo-user",
		Name:        "Demo User",
		Email:       &email,
		LoginMethod: &method,
		Role:        domain.RoleUser,
	})
	if err != nil {
		return fmt.Errorf("upsert demo user: %w", err)
	}

	samples := []struct {
		customer   string
		meeting    domain.MeetingType
		category   domain.ProductCategory
		daysAgo    int
		transcript string
	}{
		{
			customer:   "Morgan Reyes",
			meeting:    domain.MeetingInitial,
			category:   domain.ProductLife,
			daysAgo:    7,
			transcript: "We discussed life cover for the family. The customer wants protection for two children and a mortgage, around 300 a month.",
		},
		{
			customer:   "Avery Lin",
			meeting:    domain.MeetingFollowup,
			category:   domain.ProductMedical,
			daysAgo:    3,
			transcript: "Follow-up on the medical plan. Existing contract with another insurer expires next spring; the customer asked about hospitalization riders.",
		},
		{
			customer:   "Jordan Blake",
			meeting:    domain.MeetingProposal,
			category:   domain.ProductSavings,
			daysAgo:    1,
			transcript: "Presented the savings proposal. Monthly budget of 200, looking for a ten-year horizon and flexible withdrawal terms.",
		},
	}

	now := time.Now()
	for i, s := range samples {
		transcript := s.transcript
		category := s.category
		rec, err := recordings.Create(ctx, &domain.Recording{
			UserID:          user.ID,
			RecordedAt:      now.AddDate(0, 0, -s.daysAgo),
			StaffName:       "Demo User",
			CustomerName:    s.customer,
			MeetingType:     s.meeting,
			Status:          domain.StatusCompleted,
			ProductCategory: &category,
			DurationSeconds: 600 + i*120,
			Transcription:   &transcript,
		})
		if err != nil {
			return fmt.Errorf("create sample recording: %w", err)
		}

		data := domain.ExtractionData{
			domain.FieldInsurancePurpose:  {Value: "Financial protection for the family", Confidence: 90},
			domain.FieldFamilyStructure:   {Value: "Married, two children", Confidence: 85},
			domain.FieldIncomeExpenses:    {Value: "Stable income, monthly budget discussed", Confidence: 70},
			domain.FieldDesiredConditions: {Value: "Affordable monthly premium", Confidence: 80},
		}
		if _, err := extractions.Upsert(ctx, rec.ID, data, data.OverallConfidence()); err != nil {
			return fmt.Errorf("create sample extraction: %w", err)
		}

		coolingOff := domain.MandatoryItem{Item: "Cooling-off period explained", Detected: true}
		if i == 1 {
			coolingOff.Detected = false
			coolingOff.Reason = "not mentioned in the conversation"
		}
		compliance := domain.ComplianceData{
			MandatoryItems: []domain.MandatoryItem{
				{Item: "Important matters explained", Detected: true},
				coolingOff,
			},
			NGWords: []domain.NGWord{
				{Word: "guaranteed returns", Detected: false},
			},
		}
		if _, err := compliances.Upsert(ctx, rec.ID, compliance, compliance.IsCompliant()); err != nil {
			return fmt.Errorf("create sample compliance result: %w", err)
		}

		logger.Info("sample recording created",
			slog.String("recording_id", rec.ID.String()),
			slog.String("customer", s.customer),
		)
	}

	return nil
}
