package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	mqcontracts "studyflow/contracts/mq"
	"studyflow/internal/apperr"
	"studyflow/internal/model"
	"studyflow/internal/util"
	"studyflow/pkg/metrics"
)

// invitationTTL is how long a pending invitation stays valid.
const invitationTTL = 7 * 24 * time.Hour

type InvitationStore interface {
	Insert(ctx context.Context, inv *model.LeaderboardInvitation) error
	FindByToken(ctx context.Context, token string) (*model.LeaderboardInvitation, error)
	FindPendingByToken(ctx context.Context, token string) (*model.LeaderboardInvitation, error)
	ListByLeaderboard(ctx context.Context, leaderboardID int) ([]model.LeaderboardInvitation, error)
	UpdateStatus(ctx context.Context, id int, status model.InvitationStatus) error
}

type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// InvitationPreview is what the join page shows before the user decides.
// Expired is derived from (status, expires_at, now) at read time and is
// never persisted on this path.
type InvitationPreview struct {
	Invitation      *model.LeaderboardInvitation `json:"invitation"`
	LeaderboardName string                       `json:"leaderboard_name"`
	Expired         bool                         `json:"expired"`
}

// SendInvitation creates a pending invitation and fires the email event.
// The email side channel is best effort: a publish failure is logged and
// swallowed, the invitation stands either way.
func (s *LeaderboardService) SendInvitation(ctx context.Context, leaderboardID, inviterID int, email string) (*model.LeaderboardInvitation, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid invitee email is required")
	}

	if _, err := s.boards.FindByID(ctx, leaderboardID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, leaderboardID, inviterID); err != nil {
		return nil, err
	}

	now := s.now()
	inv := &model.LeaderboardInvitation{
		LeaderboardID: leaderboardID,
		Email:         email,
		Token:         util.NewInviteToken(),
		Status:        model.InvitationPending,
		InvitedBy:     inviterID,
		ExpiresAt:     now.Add(invitationTTL),
	}
	if err := s.invites.Insert(ctx, inv); err != nil {
		return nil, err
	}
	metrics.IncrementInvitation("sent")

	if s.events != nil {
		payload := mqcontracts.InvitationCreatedPayload{
			InvitationID:  inv.ID,
			LeaderboardID: inv.LeaderboardID,
			Email:         inv.Email,
			Token:         inv.Token,
			InvitedBy:     inv.InvitedBy,
			JoinURL:       s.JoinURL(inv),
			ExpiresAt:     inv.ExpiresAt,
			CreatedAt:     inv.CreatedAt,
		}
		if err := s.events.Publish("invitation.created", payload); err != nil {
			s.logger.Warn("invite email event not published, share the link instead",
				zap.Int("invitation_id", inv.ID),
				zap.Error(err),
			)
		}
	}

	return inv, nil
}

// JoinURL builds the shareable link for an invitation.
func (s *LeaderboardService) JoinURL(inv *model.LeaderboardInvitation) string {
	return fmt.Sprintf("%s/join-leaderboard?token=%s", s.origin, inv.Token)
}

// ResolveInvitation is the join page's read path. It mutates nothing:
// expiry is computed against the clock even when the stored status still
// reads pending.
func (s *LeaderboardService) ResolveInvitation(ctx context.Context, token string) (*InvitationPreview, error) {
	inv, err := s.invites.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	lb, err := s.boards.FindByID(ctx, inv.LeaderboardID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &InvitationPreview{
		Invitation:      inv,
		LeaderboardName: lb.Name,
		Expired:         inv.IsExpired(now) || inv.Status != model.InvitationPending,
	}, nil
}

// AcceptInvitation consumes a pending token and adds the caller to the
// board. The stored status transitions to accepted in the same operation
// so the token cannot be replayed; the unique (leaderboard, user)
// constraint is the backstop either way.
func (s *LeaderboardService) AcceptInvitation(ctx context.Context, token string, userID int) (*model.LeaderboardMember, error) {
	inv, err := s.invites.FindPendingByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if inv.IsExpired(s.now()) {
		// Lazily reflect the derived state; validity itself never depends
		// on this write landing.
		if err := s.invites.UpdateStatus(ctx, inv.ID, model.InvitationExpired); err != nil {
			s.logger.Warn("failed to mark invitation expired", zap.Int("invitation_id", inv.ID), zap.Error(err))
		}
		metrics.IncrementInvitation("expired")
		return nil, apperr.Expired("invitation")
	}

	alreadyMember, err := s.boards.IsMember(ctx, inv.LeaderboardID, userID)
	if err != nil {
		return nil, err
	}
	if alreadyMember {
		return nil, apperr.Validation("already a member of this leaderboard")
	}

	member := &model.LeaderboardMember{
		LeaderboardID: inv.LeaderboardID,
		UserID:        userID,
	}
	if err := s.boards.InsertMember(ctx, member); err != nil {
		return nil, err
	}

	if err := s.invites.UpdateStatus(ctx, inv.ID, model.InvitationAccepted); err != nil {
		s.logger.Warn("membership created but invitation status not updated",
			zap.Int("invitation_id", inv.ID),
			zap.Error(err),
		)
	}

	metrics.IncrementInvitation("accepted")
	s.invalidateStandings(ctx, inv.LeaderboardID)
	return member, nil
}

// DeclineInvitation marks a pending invitation declined. No membership
// is touched.
func (s *LeaderboardService) DeclineInvitation(ctx context.Context, token string) error {
	inv, err := s.invites.FindPendingByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.invites.UpdateStatus(ctx, inv.ID, model.InvitationDeclined); err != nil {
		return err
	}
	metrics.IncrementInvitation("declined")
	return nil
}

// ListInvitations returns a board's invitations to one of its members.
func (s *LeaderboardService) ListInvitations(ctx context.Context, leaderboardID, userID int) ([]model.LeaderboardInvitation, error) {
	if err := s.requireMember(ctx, leaderboardID, userID); err != nil {
		return nil, err
	}
	return s.invites.ListByLeaderboard(ctx, leaderboardID)
}
