package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/quizforge/quizforge-backend/internal/config"
	"github.com/quizforge/quizforge-backend/internal/middleware"
	"github.com/quizforge/quizforge-backend/internal/model"
	"github.com/quizforge/quizforge-backend/internal/response"
	"github.com/quizforge/quizforge-backend/internal/service"
	ws "github.com/quizforge/quizforge-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live quiz activity to admins over WebSocket.
type MonitorHandler struct {
	rdb          *redis.Client
	adminService *service.QuizAdminService
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(rdb *redis.Client, adminService *service.QuizAdminService, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		rdb:          rdb,
		adminService: adminService,
		log:          log.With().Str("component", "monitor_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// MonitorQuiz godoc
// WS /ws/quiz/:quiz_id/monitor?token=...
// Relays submission and leaderboard events for a quiz as they happen.
func (h *MonitorHandler) MonitorQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.Role != model.RoleAdmin {
		response.Fail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
		return
	}

	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}
	if _, err := h.adminService.Get(c.Request.Context(), quizID); err != nil {
		failService(c, err)
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()

	wsLog := h.log.With().Str("quiz_id", quizID.String()).Logger()
	wsLog.Info().Msg("Admin attached to live monitor")

	reqCtx := c.Request.Context()
	channel := config.CacheKey.QuizMonitorChannel(quizID.String())
	pubsub := h.rdb.Subscribe(reqCtx, channel)
	defer pubsub.Close()

	// Reader goroutine: consumes pings and detects the client going away.
	// Replies go through the wrapped conn, which serializes writes
	// against the relay loop below.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			switch msg.Action {
			case ws.ActionPing:
				_ = conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
			default:
				_ = conn.WriteError("unknown action")
			}
		}
	}()

	events := pubsub.Channel()
	for {
		select {
		case <-reqCtx.Done():
			return
		case <-done:
			wsLog.Info().Msg("Admin disconnected")
			return
		case msg, open := <-events:
			if !open {
				return
			}
			if err := conn.WriteRaw([]byte(msg.Payload)); err != nil {
				wsLog.Warn().Err(err).Msg("monitor write failed")
				return
			}
		}
	}
}
