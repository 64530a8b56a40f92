package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

// Config holds the outbound mail settings. The Postmark tokens may stay
// empty in environments where delivery is disabled; the sender identity is
// always required because it travels into every message.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
}

type postmarkSender struct {
	client *postmark.Client
	from   string
	reply  string
}

// NewPostmarkClient builds the production sender. All four config fields
// must be present and the addresses well-formed.
func NewPostmarkClient(cfg Config) (EmailSender, error) {
	switch {
	case cfg.PostmarkServerToken == "":
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	case cfg.PostmarkAccountToken == "":
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	case !emailRegex.MatchString(cfg.SenderEmail):
		return nil, fmt.Errorf("%w: SenderEmail must be a valid address", ErrInvalidConfig)
	case !emailRegex.MatchString(cfg.SupportEmail):
		return nil, fmt.Errorf("%w: SupportEmail must be a valid address", ErrInvalidConfig)
	}

	return &postmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:   cfg.SenderEmail,
		reply:  cfg.SupportEmail,
	}, nil
}

// MustNewPostmarkClient panics on invalid config so a broken mail setup
// stops the process at startup.
func MustNewPostmarkClient(cfg Config) EmailSender {
	sender, err := NewPostmarkClient(cfg)
	if err != nil {
		panic(err)
	}
	return sender
}

// SendEmail delivers through Postmark's transactional API. Replies go to
// the support address; open and HTML link tracking are on.
func (s *postmarkSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.from,
		ReplyTo:    s.reply,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrFailedToSendEmail,
			fmt.Errorf("postmark %d: %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
