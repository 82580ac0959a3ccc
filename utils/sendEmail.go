package utils

import (
	"fmt"
	"strconv"

	"github.com/muhammedanshif/rentEase/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Initialize the SMTP mailer once and store it in a global variable
var mailer *gomail.Dialer

// InitializeMailer sets up the mailer using environment variables.
// With no SMTP_HOST the mailer stays unset and emails are skipped.
func InitializeMailer() {
	mailHost := config.GetEnv("SMTP_HOST")
	if mailHost == "" {
		config.Logger.Warn("SMTP_HOST not set, outgoing email disabled")
		return
	}

	mailPort := config.GetEnvDefault("SMTP_PORT", "587")
	port, err := strconv.Atoi(mailPort)
	if err != nil {
		config.Logger.Error("Invalid SMTP_PORT value, defaulting to port 25",
			zap.String("provided_port", mailPort),
			zap.Error(err),
		)
		port = 25
	}

	mailer = gomail.NewDialer(mailHost, port, config.GetEnv("SMTP_USER"), config.GetEnv("SMTP_PASSWORD"))
	config.Logger.Info("Mailer initialized successfully")
}

// MailerConfigured reports whether SendEmail can deliver anything.
func MailerConfigured() bool {
	return mailer != nil
}

// SendEmail sends an HTML email with a plain text alternative.
func SendEmail(email string, subject string, plainBody string, htmlBody string) error {
	if mailer == nil {
		err := fmt.Errorf("mailer is not initialized")
		config.Logger.Warn("Email skipped: mailer is not initialized",
			zap.String("to_email", email),
			zap.String("subject", subject),
		)
		return err
	}
	if email == "" {
		return fmt.Errorf("recipient email is empty")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.GetEnvDefault("SMTP_FROM", config.GetEnv("SMTP_USER")))
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	if err := mailer.DialAndSend(m); err != nil {
		config.Logger.Error("Failed to send email via SMTP",
			zap.String("to_email", email),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	config.Logger.Info("Email sent successfully",
		zap.String("to_email", email),
		zap.String("subject", subject),
	)
	return nil
}
