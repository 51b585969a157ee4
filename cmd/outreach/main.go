package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"ResearchOutreach/internal/app"
	"ResearchOutreach/internal/config"
	"ResearchOutreach/internal/infrastructure/mailer"
	"ResearchOutreach/internal/logging"
)

func main() {
	cliApp := &cli.App{
		Name:  "outreach",
		Usage: "draft personalized research outreach emails from a resume and university faculty directories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "resume",
				Usage:    "path to the resume PDF",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "destination email address for the generated CSV",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file (defaults to $OUTREACH_CONFIG)",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "path of the generated CSV report",
				Value: "research_outreach_emails.csv",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the configured log level",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "generate the CSV but skip mail delivery",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	_ = godotenv.Load()

	cfg := config.Load(c.String("config"))

	level := cfg.Logging.Level
	if c.String("log-level") != "" {
		level = c.String("log-level")
	}
	logger := logging.New(level)

	opts := app.Options{
		ResumePath: c.String("resume"),
		To:         c.String("to"),
		OutputPath: c.String("output"),
		DryRun:     c.Bool("dry-run"),
	}

	// Setup errors abort before any work begins.
	if err := cfg.Validate(!opts.DryRun); err != nil {
		return err
	}
	if _, err := os.Stat(opts.ResumePath); err != nil {
		return fmt.Errorf("resume file not found: %s", opts.ResumePath)
	}
	if !opts.DryRun {
		if err := mailer.ValidateAddress(opts.To); err != nil {
			return err
		}
	}

	application := app.New(cfg, logger, opts)
	if err := application.Run(context.Background()); err != nil {
		logger.Error("run stopped", "error", err)
		return err
	}
	return nil
}
