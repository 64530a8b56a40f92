package notification

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/google/uuid"

	"github.com/domuslabs/domus/pkg/email"
)

// Service creates notifications and optionally mirrors them to email.
// Email failures never fail the notification; the in-app record is the
// source of truth.
type Service struct {
	repo   *Repository
	sender email.EmailSender
	logger *slog.Logger
}

// NewService wires the repository and an optional email sender. A nil
// sender disables fan-out.
func NewService(repo *Repository, sender email.EmailSender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, sender: sender, logger: logger}
}

func (s *Service) Notify(ctx context.Context, userID uuid.UUID, title, body string, kind Kind) (*Notification, error) {
	n, err := s.repo.Create(ctx, userID, title, body, kind)
	if err != nil {
		return nil, err
	}

	if s.sender != nil {
		if err := s.fanOut(ctx, userID, title, body); err != nil {
			s.logger.WarnContext(ctx, "notification email fan-out failed",
				slog.String("user_id", userID.String()), slog.Any("error", err))
		}
	}
	return n, nil
}

func (s *Service) fanOut(ctx context.Context, userID uuid.UUID, title, body string) error {
	addr, err := s.repo.UserEmail(ctx, userID)
	if err != nil {
		return err
	}
	return s.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   addr,
		Subject:  title,
		BodyHTML: fmt.Sprintf("<p>%s</p>", html.EscapeString(body)),
		Tag:      "notification",
	})
}
