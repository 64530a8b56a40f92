package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DevSender writes messages to a local directory instead of delivering
// them. Each send produces an HTML body file and a JSON sidecar with the
// envelope, named <timestamp>_<tag-or-subject>.
type DevSender struct {
	dir string
}

// NewDevSender returns a sender writing into dir, creating it on first use.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devEnvelope struct {
	SentAt  time.Time `json:"sent_at"`
	SendTo  string    `json:"send_to"`
	Subject string    `json:"subject"`
	Tag     string    `json:"tag,omitempty"`
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating outbox dir: %v", ErrFailedToSendEmail, err)
	}

	label := params.Tag
	if label == "" {
		label = params.Subject
	}
	now := time.Now()
	base := now.Format("20060102_150405") + "_" + safeFilename(label)

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: writing body: %v", ErrFailedToSendEmail, err)
	}

	meta, err := json.MarshalIndent(devEnvelope{
		SentAt:  now,
		SendTo:  params.SendTo,
		Subject: params.Subject,
		Tag:     params.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding envelope: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0o644); err != nil {
		return fmt.Errorf("%w: writing envelope: %v", ErrFailedToSendEmail, err)
	}
	return nil
}

// safeFilename lowercases the label and collapses anything outside
// [a-z0-9-] into single underscores.
func safeFilename(label string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			underscore = false
		default:
			if !underscore {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "message"
	}
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}
