package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *AuthHandler,
	subjectHandler *SubjectHandler,
	sessionHandler *SessionHandler,
	habitHandler *HabitHandler,
	taskHandler *TaskHandler,
	leaderboardHandler *LeaderboardHandler,
	invitationHandler *InvitationHandler,
	jwtSecret string,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/invitations/:token", invitationHandler.Resolve)
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/profile", authHandler.GetProfile)
		auth.PUT("/profile", authHandler.UpdateProfile)

		auth.POST("/subjects", subjectHandler.Create)
		auth.GET("/subjects", subjectHandler.List)
		auth.PUT("/subjects/:id", subjectHandler.Update)
		auth.DELETE("/subjects/:id", subjectHandler.Delete)

		auth.POST("/sessions", sessionHandler.Create)
		auth.GET("/sessions", sessionHandler.List)
		auth.DELETE("/sessions/:id", sessionHandler.Delete)
		auth.GET("/stats/daily", sessionHandler.DailyStats)
		auth.GET("/stats/weekly", sessionHandler.WeeklyStats)

		auth.POST("/habits", habitHandler.Create)
		auth.GET("/habits", habitHandler.List)
		auth.DELETE("/habits/:id", habitHandler.Delete)
		auth.GET("/habits/logs", habitHandler.Logs)
		auth.POST("/habits/:id/toggle", habitHandler.Toggle)
		auth.GET("/habits/streaks", habitHandler.Streaks)

		auth.POST("/tasks", taskHandler.Create)
		auth.GET("/tasks", taskHandler.List)
		auth.PUT("/tasks/:id", taskHandler.Update)
		auth.POST("/tasks/:id/toggle", taskHandler.Toggle)
		auth.DELETE("/tasks/:id", taskHandler.Delete)

		auth.POST("/leaderboards", leaderboardHandler.Create)
		auth.GET("/leaderboards", leaderboardHandler.List)
		auth.GET("/leaderboards/:id", leaderboardHandler.Get)
		auth.DELETE("/leaderboards/:id", leaderboardHandler.Delete)
		auth.GET("/leaderboards/:id/standings", leaderboardHandler.Standings)
		auth.DELETE("/leaderboards/:id/members/:memberId", leaderboardHandler.RemoveMember)
		auth.POST("/leaderboards/:id/leave", leaderboardHandler.Leave)

		auth.POST("/leaderboards/:id/invitations", invitationHandler.Send)
		auth.GET("/leaderboards/:id/invitations", invitationHandler.List)
		auth.POST("/invitations/:token/accept", invitationHandler.Accept)
		auth.POST("/invitations/:token/decline", invitationHandler.Decline)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
