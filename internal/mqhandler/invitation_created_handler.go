package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	mqcontracts "studyflow/contracts/mq"
	"studyflow/internal/mailer"
)

// InvitationCreatedHandler consumes invitation.created events and sends
// the invite email. Delivery is best effort: every failure is logged and
// the message is acked, never requeued. The invite link works without
// the email.
type InvitationCreatedHandler struct {
	mailer *mailer.Mailer
	logger *zap.Logger
}

func NewInvitationCreatedHandler(m *mailer.Mailer, logger *zap.Logger) *InvitationCreatedHandler {
	return &InvitationCreatedHandler{
		mailer: m,
		logger: logger,
	}
}

func (h *InvitationCreatedHandler) Handle(ctx context.Context, data json.RawMessage) error {
	var payload mqcontracts.InvitationCreatedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Error("Failed to decode invitation.created payload", zap.Error(err))
		return nil
	}

	if err := h.mailer.SendInvite(ctx, payload); err != nil {
		h.logger.Warn("Invite email delivery failed",
			zap.Int("invitation_id", payload.InvitationID),
			zap.Error(err),
		)
	}
	return nil
}
