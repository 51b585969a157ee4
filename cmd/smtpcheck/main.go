package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"ResearchOutreach/internal/config"
	"ResearchOutreach/internal/infrastructure/mailer"
	"ResearchOutreach/internal/logging"
)

const (
	checkSubject = "SMTP Test Successful"
	checkBody    = "This is a test email to confirm that your SMTP setup is working."
)

// smtpcheck verifies the mail-submission credentials by sending a short
// plaintext message, defaulting to the sender's own address.
func main() {
	cliApp := &cli.App{
		Name:  "smtpcheck",
		Usage: "verify SMTP credentials by sending a test message",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "to",
				Usage: "destination address (defaults to the sender address)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file (defaults to $OUTREACH_CONFIG)",
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
	logger := logging.New(cfg.Logging.Level)

	if cfg.SMTP.Sender == "" || cfg.SMTP.Password == "" {
		return fmt.Errorf("mail credentials not set: export SENDER_EMAIL and EMAIL_PASSWORD")
	}

	to := c.String("to")
	if to == "" {
		to = cfg.SMTP.Sender
	}
	if err := mailer.ValidateAddress(to); err != nil {
		return err
	}

	m := mailer.NewMailer(cfg.SMTP, logger.With("component", "mailer"))
	if err := m.SendPlain(context.Background(), to, checkSubject, checkBody); err != nil {
		return fmt.Errorf("smtp check failed: %w", err)
	}

	logger.Info("test email sent; check the inbox", "to", to)
	return nil
}
