package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mqcontracts "studyflow/contracts/mq"
	"studyflow/internal/apperr"
	"studyflow/internal/model"
)

func TestSendInvitation(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)

	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	assert.Equal(t, model.InvitationPending, inv.Status)
	assert.NotEmpty(t, inv.Token)
	assert.Equal(t, testNow.Add(7*24*time.Hour), inv.ExpiresAt)
	assert.Equal(t, 1, inv.InvitedBy)

	require.Len(t, f.events.published, 1)
	assert.Equal(t, "invitation.created", f.events.published[0].routingKey)
	payload := f.events.published[0].payload.(mqcontracts.InvitationCreatedPayload)
	assert.Equal(t, "friend@example.com", payload.Email)
	assert.Equal(t, "http://localhost:5173/join-leaderboard?token="+inv.Token, payload.JoinURL)
}

func TestSendInvitation_Validation(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)

	for _, email := range []string{"", "   ", "not-an-email"} {
		_, err := f.svc.SendInvitation(ctx, lb.ID, 1, email)
		assert.True(t, apperr.IsValidation(err), "email %q should be rejected", email)
	}
}

func TestSendInvitation_InviterMustBeMember(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)

	_, err = f.svc.SendInvitation(ctx, lb.ID, 99, "friend@example.com")
	assert.True(t, apperr.IsForbidden(err))
}

func TestSendInvitation_PublishFailureIsSwallowed(t *testing.T) {
	f := newBoardFixture()
	f.events.err = errors.New("broker down")
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)

	// The invitation stands even when the email event cannot go out.
	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	stored, err := f.invites.FindByToken(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, model.InvitationPending, stored.Status)
}

func TestResolveInvitation(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)
	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	preview, err := f.svc.ResolveInvitation(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, "Exam crew", preview.LeaderboardName)
	assert.False(t, preview.Expired)
}

func TestResolveInvitation_ExpiredByClock(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)
	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	// Past the TTL the preview reads expired even though the stored status
	// is still pending. Resolving never writes.
	f.svc.now = func() time.Time { return testNow.Add(8 * 24 * time.Hour) }

	preview, err := f.svc.ResolveInvitation(ctx, inv.Token)
	require.NoError(t, err)
	assert.True(t, preview.Expired)
	assert.Equal(t, model.InvitationPending, f.invites.status(inv.ID))
}

func TestResolveInvitation_UnknownToken(t *testing.T) {
	f := newBoardFixture()

	_, err := f.svc.ResolveInvitation(context.Background(), "nope")
	assert.True(t, apperr.IsNotFound(err))
}

func TestAcceptInvitation(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)
	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	member, err := f.svc.AcceptInvitation(ctx, inv.Token, 2)
	require.NoError(t, err)
	assert.Equal(t, lb.ID, member.LeaderboardID)
	assert.Equal(t, 2, member.UserID)

	// Exactly one new membership, status consumed, standings invalidated.
	assert.Equal(t, 2, f.boards.memberCount(lb.ID))
	assert.Equal(t, model.InvitationAccepted, f.invites.status(inv.ID))
	assert.Contains(t, f.cache.invalidations, "standings:1")

	// The token cannot be replayed once consumed.
	_, err = f.svc.AcceptInvitation(ctx, inv.Token, 3)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 2, f.boards.memberCount(lb.ID))
}

func TestAcceptInvitation_Expired(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)
	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	f.svc.now = func() time.Time { return testNow.Add(8 * 24 * time.Hour) }

	_, err = f.svc.AcceptInvitation(ctx, inv.Token, 2)
	assert.True(t, apperr.IsExpired(err))
	assert.Equal(t, 1, f.boards.memberCount(lb.ID))
	// Accepting lazily records the derived state.
	assert.Equal(t, model.InvitationExpired, f.invites.status(inv.ID))
}

func TestAcceptInvitation_ExpiredEvenWhenMarkingFails(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)
	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	f.svc.now = func() time.Time { return testNow.Add(8 * 24 * time.Hour) }
	f.invites.statusErr = errors.New("store down")

	// Validity is derived from the clock, not from the status write.
	_, err = f.svc.AcceptInvitation(ctx, inv.Token, 2)
	assert.True(t, apperr.IsExpired(err))
	assert.Equal(t, 1, f.boards.memberCount(lb.ID))
}

func TestAcceptInvitation_AlreadyMember(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)
	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "admin@example.com")
	require.NoError(t, err)

	// The admin is already a member; the token stays pending.
	_, err = f.svc.AcceptInvitation(ctx, inv.Token, 1)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 1, f.boards.memberCount(lb.ID))
	assert.Equal(t, model.InvitationPending, f.invites.status(inv.ID))
}

func TestDeclineInvitation(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)
	inv, err := f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeclineInvitation(ctx, inv.Token))
	assert.Equal(t, model.InvitationDeclined, f.invites.status(inv.ID))
	assert.Equal(t, 1, f.boards.memberCount(lb.ID))

	// Declined tokens are no longer pending and cannot be declined again.
	err = f.svc.DeclineInvitation(ctx, inv.Token)
	assert.True(t, apperr.IsNotFound(err))
}

func TestListInvitations_MemberOnly(t *testing.T) {
	f := newBoardFixture()
	ctx := context.Background()

	lb, err := f.svc.Create(ctx, "Exam crew", model.MetricStudyTime, 1)
	require.NoError(t, err)
	_, err = f.svc.SendInvitation(ctx, lb.ID, 1, "friend@example.com")
	require.NoError(t, err)

	invs, err := f.svc.ListInvitations(ctx, lb.ID, 1)
	require.NoError(t, err)
	assert.Len(t, invs, 1)

	_, err = f.svc.ListInvitations(ctx, lb.ID, 42)
	assert.True(t, apperr.IsForbidden(err))
}
