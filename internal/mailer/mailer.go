package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"studyflow/config"
	mqcontracts "studyflow/contracts/mq"
)

// Mailer delivers invitation emails. SMTP is optional: with no host
// configured every send is a logged no-op and the invite link carries
// the invitation instead.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func New(cfg config.SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: logger,
	}
}

func (m *Mailer) Configured() bool {
	return m.cfg.Host != ""
}

// SendInvite emails the join link to the invitee.
func (m *Mailer) SendInvite(ctx context.Context, p mqcontracts.InvitationCreatedPayload) error {
	if !m.Configured() {
		m.logger.Info("SMTP not configured, skipping invite email",
			zap.Int("invitation_id", p.InvitationID),
			zap.String("email", p.Email),
		)
		return nil
	}

	m.logger.Info("Sending invite email",
		zap.Int("invitation_id", p.InvitationID),
		zap.String("email", p.Email),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", p.Email)
	fmt.Fprintf(&b, "Subject: You've been invited to a StudyFlow leaderboard\r\n")
	fmt.Fprintf(&b, "\r\n")
	fmt.Fprintf(&b, "You've been invited to join a study leaderboard.\r\n\r\n")
	fmt.Fprintf(&b, "Join here: %s\r\n\r\n", p.JoinURL)
	fmt.Fprintf(&b, "This invitation expires on %s.\r\n", p.ExpiresAt.Format("Jan 2, 2006"))

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{p.Email}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}

	m.logger.Info("Invite email sent", zap.Int("invitation_id", p.InvitationID))
	return nil
}
