package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studyflow/internal/service"
)

type InvitationHandler struct {
	leaderboardService *service.LeaderboardService
}

func NewInvitationHandler(leaderboardService *service.LeaderboardService) *InvitationHandler {
	return &InvitationHandler{
		leaderboardService: leaderboardService,
	}
}

// Send handles POST /leaderboards/:id/invitations
func (h *InvitationHandler) Send(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid leaderboard id"})
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	inv, err := h.leaderboardService.SendInvitation(c.Request.Context(), id, userID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invitation": inv,
		"join_url":   h.leaderboardService.JoinURL(inv),
	})
}

// List handles GET /leaderboards/:id/invitations
func (h *InvitationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid leaderboard id"})
		return
	}

	invitations, err := h.leaderboardService.ListInvitations(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// Resolve handles GET /invitations/:token, the public join page read.
func (h *InvitationHandler) Resolve(c *gin.Context) {
	preview, err := h.leaderboardService.ResolveInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// Accept handles POST /invitations/:token/accept
func (h *InvitationHandler) Accept(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	member, err := h.leaderboardService.AcceptInvitation(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"joined":        true,
		"leaderboard":   member.LeaderboardID,
		"membership_id": member.ID,
	})
}

// Decline handles POST /invitations/:token/decline
func (h *InvitationHandler) Decline(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	if err := h.leaderboardService.DeclineInvitation(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"declined": true})
}
