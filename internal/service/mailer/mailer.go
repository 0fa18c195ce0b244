package mailer

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/config"
	"github.com/docudetect/docu-detect/internal/service/report"
	"github.com/docudetect/docu-detect/internal/storage"
)

var (
	// ErrNotConfigured means SMTP settings are absent; distinct from a
	// missing report so callers can surface different messages.
	ErrNotConfigured  = errors.New("email not configured on server")
	ErrReportNotFound = errors.New("report not found")
)

// Service emails rendered report artifacts as PDF attachments.
type Service struct {
	cfg    config.SMTPConfig
	store  storage.Storage
	logger zerolog.Logger
}

func NewService(cfg config.SMTPConfig, store storage.Storage, logger zerolog.Logger) *Service {
	return &Service{cfg: cfg, store: store, logger: logger}
}

func (s *Service) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != ""
}

// Check verifies the report artifact exists and SMTP is configured,
// without sending anything. Lets queue producers reject bad tasks before
// enqueueing them.
func (s *Service) Check(ctx context.Context, reportID string) error {
	exists, err := s.store.Exists(ctx, report.ArtifactKey(reportID))
	if err != nil {
		return fmt.Errorf("failed to check report artifact: %w", err)
	}
	if !exists {
		return ErrReportNotFound
	}
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	return nil
}

// SendReport attaches the stored artifact for reportID and mails it.
func (s *Service) SendReport(ctx context.Context, reportID, recipient string) error {
	key := report.ArtifactKey(reportID)

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check report artifact: %w", err)
	}
	if !exists {
		return ErrReportNotFound
	}

	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	content, err := s.store.Read(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read report artifact: %w", err)
	}

	msg := s.buildMessage(recipient, reportID, content)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("email failed: %w", err)
	}

	s.logger.Info().Str("report_id", reportID).Str("recipient", recipient).Msg("Report emailed")
	return nil
}

func (s *Service) buildMessage(recipient, reportID string, attachment []byte) string {
	boundary := generateBoundary()
	filename := reportID + ".pdf"

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString("Subject: Your DOCU-DETECT Report\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString("Attached is your analysis report from DOCU-DETECT.\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString(fmt.Sprintf("Content-Type: application/pdf; name=\"%s\"\r\n", filename))
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", filename))
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64WithLineBreaks(attachment))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return msg.String()
}

func generateBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "docu-detect-boundary"
	}
	return "b" + hex.EncodeToString(b)
}

// encodeBase64WithLineBreaks wraps encoded output at 76 characters per
// RFC 2045.
func encodeBase64WithLineBreaks(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var out strings.Builder
	for len(encoded) > 76 {
		out.WriteString(encoded[:76])
		out.WriteString("\r\n")
		encoded = encoded[76:]
	}
	out.WriteString(encoded)
	return out.String()
}
