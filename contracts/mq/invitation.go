package mq

import "time"

type InvitationCreatedPayload struct {
	InvitationID  int       `json:"invitation_id"`
	LeaderboardID int       `json:"leaderboard_id"`
	Email         string    `json:"email"`
	Token         string    `json:"token"`
	InvitedBy     int       `json:"invited_by"`
	JoinURL       string    `json:"join_url"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}
