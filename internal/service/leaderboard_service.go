package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"studyflow/internal/apperr"
	"studyflow/internal/cache"
	"studyflow/internal/model"
	"studyflow/internal/stats"
	"studyflow/pkg/metrics"
)

// scoreWindow is the trailing span standings are computed over.
const scoreWindow = 7 * 24 * time.Hour

// memberFetchLimit bounds the per-member scoring fan-out.
const memberFetchLimit = 8

type LeaderboardStore interface {
	Insert(ctx context.Context, lb *model.Leaderboard) error
	FindByID(ctx context.Context, id int) (*model.Leaderboard, error)
	ListByUser(ctx context.Context, userID int) ([]model.Leaderboard, error)
	Delete(ctx context.Context, id int) error
	InsertMember(ctx context.Context, m *model.LeaderboardMember) error
	ListMembers(ctx context.Context, leaderboardID int) ([]model.LeaderboardMember, error)
	FindMemberByID(ctx context.Context, id int) (*model.LeaderboardMember, error)
	IsMember(ctx context.Context, leaderboardID, userID int) (bool, error)
	DeleteMember(ctx context.Context, id int) error
	DeleteMemberByUser(ctx context.Context, leaderboardID, userID int) error
}

type SessionSource interface {
	ListByUserSince(ctx context.Context, userID int, since time.Time) ([]model.StudySession, error)
}

type HabitSource interface {
	CountByUser(ctx context.Context, userID int) (int, error)
	CountLogsByUserSince(ctx context.Context, userID int, since time.Time) (int, error)
}

type ProfileSource interface {
	FindProfile(ctx context.Context, userID int) (*model.Profile, error)
}

// StandingsCache is the read-through cache for computed standings.
type StandingsCache interface {
	GetJSON(ctx context.Context, key string, dest any) bool
	SetJSON(ctx context.Context, key string, v any)
	Invalidate(ctx context.Context, keys ...string)
}

// LeaderboardService owns boards, memberships and the per-metric scoring
// of members over the trailing week.
type LeaderboardService struct {
	boards   LeaderboardStore
	invites  InvitationStore
	sessions SessionSource
	habits   HabitSource
	profiles ProfileSource
	cache    StandingsCache
	events   EventPublisher
	origin   string
	logger   *zap.Logger
	now      func() time.Time
}

func NewLeaderboardService(
	boards LeaderboardStore,
	invites InvitationStore,
	sessions SessionSource,
	habits HabitSource,
	profiles ProfileSource,
	standingsCache StandingsCache,
	events EventPublisher,
	origin string,
	logger *zap.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		boards:   boards,
		invites:  invites,
		sessions: sessions,
		habits:   habits,
		profiles: profiles,
		cache:    standingsCache,
		events:   events,
		origin:   origin,
		logger:   logger,
		now:      time.Now,
	}
}

// Create inserts a board and its first member, the admin. A board never
// exists without its admin membership.
func (s *LeaderboardService) Create(ctx context.Context, name string, metric model.RankingMetric, adminID int) (*model.Leaderboard, error) {
	if name == "" {
		return nil, apperr.Validation("leaderboard name is required")
	}
	if !metric.Valid() {
		return nil, apperr.Validation("unknown ranking metric")
	}

	lb := &model.Leaderboard{
		Name:          name,
		RankingMetric: metric,
		AdminUserID:   adminID,
	}
	if err := s.boards.Insert(ctx, lb); err != nil {
		return nil, err
	}

	member := &model.LeaderboardMember{
		LeaderboardID: lb.ID,
		UserID:        adminID,
	}
	if err := s.boards.InsertMember(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("Leaderboard created",
		zap.Int("leaderboard_id", lb.ID),
		zap.Int("admin_user_id", adminID),
		zap.String("metric", string(metric)),
	)
	return lb, nil
}

func (s *LeaderboardService) ListForUser(ctx context.Context, userID int) ([]model.Leaderboard, error) {
	return s.boards.ListByUser(ctx, userID)
}

// Get returns a board to one of its members.
func (s *LeaderboardService) Get(ctx context.Context, id, userID int) (*model.Leaderboard, error) {
	lb, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, id, userID); err != nil {
		return nil, err
	}
	return lb, nil
}

// Delete removes a board and, via cascade, its members and invitations.
// Admin only.
func (s *LeaderboardService) Delete(ctx context.Context, id, callerID int) error {
	lb, err := s.boards.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if lb.AdminUserID != callerID {
		return apperr.Forbidden("only the admin can delete a leaderboard")
	}
	if err := s.boards.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStandings(ctx, id)
	return nil
}

// RemoveMember deletes another user's membership row. Admin only; the
// admin's own row is untouchable so the board never loses its admin.
func (s *LeaderboardService) RemoveMember(ctx context.Context, leaderboardID, callerID, memberID int) error {
	lb, err := s.boards.FindByID(ctx, leaderboardID)
	if err != nil {
		return err
	}
	if lb.AdminUserID != callerID {
		return apperr.Forbidden("only the admin can remove members")
	}

	member, err := s.boards.FindMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member.LeaderboardID != leaderboardID {
		return apperr.NotFound("member")
	}
	if member.UserID == lb.AdminUserID {
		return apperr.Forbidden("the admin membership cannot be removed")
	}

	if err := s.boards.DeleteMember(ctx, memberID); err != nil {
		return err
	}
	s.invalidateStandings(ctx, leaderboardID)
	return nil
}

// Leave deletes the caller's own membership. The admin cannot leave,
// only delete the board.
func (s *LeaderboardService) Leave(ctx context.Context, leaderboardID, userID int) error {
	lb, err := s.boards.FindByID(ctx, leaderboardID)
	if err != nil {
		return err
	}
	if lb.AdminUserID == userID {
		return apperr.Forbidden("the admin cannot leave the leaderboard")
	}

	if err := s.boards.DeleteMemberByUser(ctx, leaderboardID, userID); err != nil {
		return err
	}
	s.invalidateStandings(ctx, leaderboardID)
	return nil
}

// Standings computes the ranked member list for the board's metric over
// the trailing week. Results are served through the read-through cache;
// member data is fetched concurrently and joined.
func (s *LeaderboardService) Standings(ctx context.Context, leaderboardID, userID int) ([]model.MemberStanding, error) {
	lb, err := s.boards.FindByID(ctx, leaderboardID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, leaderboardID, userID); err != nil {
		return nil, err
	}

	key := cache.Key("standings", leaderboardID)
	started := s.now()

	if s.cache != nil {
		var cached []model.MemberStanding
		if s.cache.GetJSON(ctx, key, &cached) {
			metrics.RecordScoreCompute(string(lb.RankingMetric), "cache", time.Since(started))
			return cached, nil
		}
	}

	members, err := s.boards.ListMembers(ctx, leaderboardID)
	if err != nil {
		return nil, err
	}

	standings := make([]model.MemberStanding, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(memberFetchLimit)

	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			standing, err := s.scoreMember(gctx, lb.RankingMetric, m)
			if err != nil {
				return err
			}
			standings[i] = standing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Score descending; ties by join time then member id so equal scores
	// rank the same way on every fetch.
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		if !standings[i].JoinedAt.Equal(standings[j].JoinedAt) {
			return standings[i].JoinedAt.Before(standings[j].JoinedAt)
		}
		return standings[i].MemberID < standings[j].MemberID
	})

	if s.cache != nil {
		s.cache.SetJSON(ctx, key, standings)
	}
	metrics.RecordScoreCompute(string(lb.RankingMetric), "store", time.Since(started))
	return standings, nil
}

// scoreMember fetches one member's profile and activity and computes the
// metric score. A missing profile is not an error: the member is listed
// with a nil profile and a real score.
func (s *LeaderboardService) scoreMember(ctx context.Context, metric model.RankingMetric, m model.LeaderboardMember) (model.MemberStanding, error) {
	profile, err := s.profiles.FindProfile(ctx, m.UserID)
	if err != nil {
		return model.MemberStanding{}, err
	}

	score, err := s.computeScore(ctx, metric, m.UserID)
	if err != nil {
		return model.MemberStanding{}, err
	}

	return model.MemberStanding{
		MemberID: m.ID,
		UserID:   m.UserID,
		JoinedAt: m.JoinedAt,
		Profile:  profile,
		Score:    score,
	}, nil
}

func (s *LeaderboardService) computeScore(ctx context.Context, metric model.RankingMetric, userID int) (int, error) {
	since := s.now().Add(-scoreWindow)

	switch metric {
	case model.MetricStudyTime:
		return s.studyMinutes(ctx, userID, since)

	case model.MetricHabitCompletion:
		return s.habitCompletion(ctx, userID, since)

	case model.MetricProductivity:
		minutes, err := s.studyMinutes(ctx, userID, since)
		if err != nil {
			return 0, err
		}
		completion, err := s.habitCompletion(ctx, userID, since)
		if err != nil {
			return 0, err
		}
		return minutes + completion, nil
	}

	return 0, apperr.Validation("unknown ranking metric")
}

func (s *LeaderboardService) studyMinutes(ctx context.Context, userID int, since time.Time) (int, error) {
	sessions, err := s.sessions.ListByUserSince(ctx, userID, since)
	if err != nil {
		return 0, err
	}
	seconds := 0
	for _, session := range sessions {
		seconds += session.Duration
	}
	return stats.RoundMinutes(seconds), nil
}

// habitCompletion is round(logged / (habits * 7) * 100), and 0 for
// members without habits.
func (s *LeaderboardService) habitCompletion(ctx context.Context, userID int, since time.Time) (int, error) {
	habitCount, err := s.habits.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if habitCount == 0 {
		return 0, nil
	}

	logCount, err := s.habits.CountLogsByUserSince(ctx, userID, since)
	if err != nil {
		return 0, err
	}

	possible := habitCount * 7
	return int(math.Round(float64(logCount) / float64(possible) * 100)), nil
}

func (s *LeaderboardService) requireMember(ctx context.Context, leaderboardID, userID int) error {
	isMember, err := s.boards.IsMember(ctx, leaderboardID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperr.Forbidden("not a member of this leaderboard")
	}
	return nil
}

func (s *LeaderboardService) invalidateStandings(ctx context.Context, leaderboardID int) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.Key("standings", leaderboardID))
	}
}
