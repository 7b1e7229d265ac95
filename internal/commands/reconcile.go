package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/divrecon-dev/divrecon/internal/audit"
	"github.com/divrecon-dev/divrecon/internal/classify"
	"github.com/divrecon-dev/divrecon/internal/config"
	"github.com/divrecon-dev/divrecon/internal/enrich"
	"github.com/divrecon-dev/divrecon/internal/ingest"
	"github.com/divrecon-dev/divrecon/internal/match"
	"github.com/divrecon-dev/divrecon/internal/model"
	"github.com/divrecon-dev/divrecon/internal/normalize"
	"github.com/divrecon-dev/divrecon/internal/report"
)

// apiKeyEnv is the credential for the live classifier. Its absence is a
// normal operating mode, not an error.
const apiKeyEnv = "GEMINI_API_KEY"

// modelEnv overrides the configured classification model.
const modelEnv = "DIVRECON_MODEL"

type reconcileOptions struct {
	ownerPath     string
	custodianPath string
	outPath       string
	configPath    string
	auditPath     string

	classifyBreaks bool
	maxCalls       int
	verbose        bool
}

func runReconcile(cmd *cobra.Command, opts *reconcileOptions) error {
	logger := newLogger(opts.verbose)

	// Pick up GEMINI_API_KEY and friends from a local .env, if present.
	_ = godotenv.Load()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	ownerTable, err := ingest.ReadFile(opts.ownerPath)
	if err != nil {
		return err
	}
	custTable, err := ingest.ReadFile(opts.custodianPath)
	if err != nil {
		return err
	}

	ownerRecs := normalize.Owner(ownerTable)
	custRecs := normalize.Custodian(custTable)
	joined := match.Join(ownerRecs, custRecs)

	tol := tolerances(cfg)
	rows := make([]model.ResultRow, len(joined))
	breaks := 0
	for i, j := range joined {
		status := classify.Status(j, tol)
		rows[i] = model.ResultRow{Joined: j, Status: status}
		if !status.IsMatched() {
			breaks++
		}
	}
	logger.Info().
		Int("owner_rows", len(ownerRecs)).
		Int("custodian_rows", len(custRecs)).
		Int("joined", len(joined)).
		Int("breaks", breaks).
		Msg("reconciled")

	if opts.classifyBreaks {
		if err := classifyBreaks(cmd.Context(), logger, cfg, opts, rows); err != nil {
			return err
		}
	}

	if err := report.WriteFile(opts.outPath, rows, opts.classifyBreaks); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.outPath)
	return nil
}

func classifyBreaks(ctx context.Context, logger zerolog.Logger, cfg *config.Config, opts *reconcileOptions, rows []model.ResultRow) error {
	budget := opts.maxCalls
	if budget < 0 {
		budget = cfg.Classifier.MaxCalls
	}

	var live enrich.Classifier
	if key := os.Getenv(apiKeyEnv); key != "" {
		modelID := cfg.Classifier.Model
		if v := os.Getenv(modelEnv); v != "" {
			modelID = v
		}
		gc, err := enrich.NewGeminiClassifier(ctx, key, modelID)
		if err != nil {
			logger.Warn().Err(err).Msg("live classifier unavailable, using fallback taxonomy")
		} else {
			live = gc
		}
	} else {
		logger.Info().Msg("no API key configured, using fallback taxonomy")
	}

	gateway := enrich.NewGateway(live, budget)
	gateway.Enrich(ctx, rows)
	logger.Info().
		Int64("attempts", gateway.Attempts()).
		Int("budget", budget).
		Msg("classified breaks")

	if opts.auditPath != "" {
		if entries := gateway.AuditLog(); len(entries) > 0 {
			if err := audit.Append(opts.auditPath, entries); err != nil {
				return err
			}
		}
	}
	return nil
}

func tolerances(cfg *config.Config) classify.Tolerances {
	tol := classify.Default()
	if cfg.Tolerances.DateDays > 0 {
		tol.DateDays = cfg.Tolerances.DateDays
	}
	if cfg.Tolerances.Amount > 0 {
		tol.Amount = decimal.NewFromFloat(cfg.Tolerances.Amount)
	}
	if cfg.Tolerances.FXRelative > 0 {
		tol.FXRelative = decimal.NewFromFloat(cfg.Tolerances.FXRelative)
	}
	return tol
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
