package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizforge/quizforge-backend/internal/config"
	"github.com/quizforge/quizforge-backend/internal/handler"
	"github.com/quizforge/quizforge-backend/internal/middleware"
	"github.com/quizforge/quizforge-backend/internal/response"
	"github.com/quizforge/quizforge-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth           *handler.AuthHandler
	Attempt        *handler.AttemptHandler
	AdminQuiz      *handler.AdminQuizHandler
	AdminUser      *handler.AdminUserHandler
	Analytics      *handler.AnalyticsHandler
	Recommendation *handler.RecommendationHandler
	Monitor        *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID middleware runs globally so every response carries metadata.
	router.Use(response.RequestIDMiddleware())

	router.GET("/api/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth endpoints are rate limited per IP against credential stuffing.
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Generation burns AI quota; keep it on a tighter limit.
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := router.Group("/api")

	// ─── Public ────────────────────────────────────────────────────────
	api.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
	api.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

	// ─── Authenticated user surface ────────────────────────────────────
	user := api.Group("/")
	user.Use(middleware.RequireAuth(authService))
	{
		user.GET("/user", handlers.Auth.Me)
		user.PUT("/user/profile", handlers.Auth.UpdateProfile)
		user.PUT("/user/password", handlers.Auth.ChangePassword)
		user.GET("/user/submissions", handlers.Attempt.SubmissionHistory)
		user.GET("/recommendations", handlers.Recommendation.Suggestions)

		user.GET("/quiz/upcoming", handlers.Attempt.Upcoming)
		user.GET("/quiz/registered", handlers.Attempt.RegisteredQuizzes)
		user.POST("/quiz/register/:quiz_id", handlers.Attempt.Register)
		user.GET("/quiz/register/:quiz_id/check", handlers.Attempt.CheckRegistration)
		user.GET("/quiz/:quiz_id", handlers.Attempt.FetchQuiz)
		user.POST("/quiz/submit/:quiz_id", handlers.Attempt.Submit)
		user.GET("/quiz/results/:quiz_id", handlers.Attempt.Results)
		user.GET("/quiz/leaderboard/:quiz_id", handlers.Attempt.Leaderboard)
	}

	// Quiz generation sits outside /api/admin for historical client
	// compatibility but is admin-gated all the same.
	api.POST("/quiz/generate",
		middleware.RequireAdmin(authService),
		generateLimiter.Middleware(),
		handlers.AdminQuiz.Generate,
	)

	// ─── Admin surface ─────────────────────────────────────────────────
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin(authService))
	{
		admin.GET("/quiz/history", handlers.AdminQuiz.History)
		admin.GET("/quiz/trending", handlers.AdminQuiz.TrendingTopics)
		admin.GET("/quiz/:quiz_id", handlers.AdminQuiz.Get)
		admin.DELETE("/quiz/:quiz_id", handlers.AdminQuiz.Delete)
		admin.POST("/quiz/review", handlers.AdminQuiz.Review)
		admin.POST("/quiz/regenerate", handlers.AdminQuiz.Regenerate)
		admin.POST("/quiz/schedule", handlers.AdminQuiz.Schedule)

		admin.GET("/users", handlers.AdminUser.List)
		admin.POST("/users", handlers.AdminUser.Create)
		admin.PUT("/users/:user_id", handlers.AdminUser.Update)
		admin.DELETE("/users/:user_id", handlers.AdminUser.Delete)
		admin.POST("/users/:user_id/reset-history", handlers.AdminUser.ResetHistory)

		admin.GET("/analytics/summary", handlers.Analytics.Summary)
		admin.GET("/analytics/submissions", handlers.Analytics.SubmissionsPerDay)
		admin.GET("/analytics/user-activity", handlers.Analytics.UserActivity)
		admin.GET("/analytics/top-quizzes", handlers.Analytics.TopQuizzes)
		admin.GET("/analytics/type-distribution", handlers.Analytics.TypeDistribution)
	}

	// ─── WebSocket ─────────────────────────────────────────────────────
	ws := router.Group("/ws")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/quiz/:quiz_id/monitor", handlers.Monitor.MonitorQuiz)
	}

	return router
}
