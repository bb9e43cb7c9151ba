package model

import "time"

type RankingMetric string

const (
	MetricStudyTime       RankingMetric = "study_time"
	MetricHabitCompletion RankingMetric = "habit_completion"
	MetricProductivity    RankingMetric = "productivity_score"
)

func (m RankingMetric) Valid() bool {
	switch m {
	case MetricStudyTime, MetricHabitCompletion, MetricProductivity:
		return true
	}
	return false
}

type Leaderboard struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	RankingMetric RankingMetric `json:"ranking_metric"`
	AdminUserID   int           `json:"admin_user_id"`
	CreatedAt     time.Time     `json:"created_at"`
}

type LeaderboardMember struct {
	ID            int       `json:"id"`
	LeaderboardID int       `json:"leaderboard_id"`
	UserID        int       `json:"user_id"`
	JoinedAt      time.Time `json:"joined_at"`
}

// MemberStanding is one ranked row of a leaderboard. Profile is nil when
// the member has no profile record; the score is computed regardless.
type MemberStanding struct {
	MemberID int       `json:"member_id"`
	UserID   int       `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
	Profile  *Profile  `json:"profile"`
	Score    int       `json:"score"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

type LeaderboardInvitation struct {
	ID            int              `json:"id"`
	LeaderboardID int              `json:"leaderboard_id"`
	Email         string           `json:"email"`
	Token         string           `json:"token"`
	Status        InvitationStatus `json:"status"`
	InvitedBy     int              `json:"invited_by"`
	CreatedAt     time.Time        `json:"created_at"`
	ExpiresAt     time.Time        `json:"expires_at"`
}

// IsExpired derives validity from the clock; the stored status may still
// read pending after the expiry instant passes.
func (i *LeaderboardInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

func (i *LeaderboardInvitation) IsPending(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}
