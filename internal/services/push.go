package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"nearmeet-server/internal/config"
	"nearmeet-server/internal/logger"
)

// PushSender delivers best-effort notifications. Implementations must never
// block the caller on failure; delivery problems are logged, not returned.
type PushSender interface {
	Send(ctx context.Context, tokens []string, title, body string)
}

// FCMSender sends via Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

func NewFCMSender(ctx context.Context, cfg *config.Config) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: cfg.FirebaseProjectID},
		option.WithCredentialsFile(cfg.FirebaseCredentialsPath),
	)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, tokens []string, title, body string) {
	if len(tokens) == 0 {
		return
	}
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		logger.L().WithError(err).Warn("push send failed")
		return
	}
	if response.FailureCount > 0 {
		logger.L().WithField("failures", response.FailureCount).Warn("push partially delivered")
	}
}

// NoopSender is used when Firebase is not configured.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, tokens []string, title, body string) {
	logger.L().WithField("recipients", len(tokens)).Debug("push sender not configured, dropping notification")
}
