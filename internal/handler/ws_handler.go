package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/middleware"
	"github.com/stemsi/classgrid-backend/internal/notify"
	"github.com/stemsi/classgrid-backend/internal/response"
	ws "github.com/stemsi/classgrid-backend/internal/websocket"
)

// Notification stream scopes.
const (
	ScopeOwn = "own"
	ScopeAll = "all"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
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

// WSHandler streams admin notifications over WebSocket.
type WSHandler struct {
	subscriber notify.Subscriber
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(subscriber notify.Subscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		subscriber: subscriber,
		log:        log.With().Str("component", "ws_handler").Logger(),
		upgrader:   buildUpgrader(allowedOrigins),
	}
}

// NotificationStream godoc
// WS /ws/v1/notifications?token=...&scope=own|all
// Pushes the caller's notifications (or everyone's with scope=all) as they are raised.
func (h *WSHandler) NotificationStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	scope := c.DefaultQuery("scope", ScopeOwn)
	if scope != ScopeOwn && scope != ScopeAll {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"scope": "scope must be one of: own all"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("username", claims.Username).Str("scope", scope).Logger()
	wsLog.Info().Msg("Admin connected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, stop := h.subscriber.Subscribe(ctx)
	defer stop()

	// Only this goroutine writes to conn; the reader hands its replies over.
	replies := make(chan any, 4)
	go h.readLoop(conn, wsLog, replies, cancel)

	if err := ws.WriteTyped(conn, ws.ReadyResponse{Event: ws.EventReady, Scope: scope}); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Connection closed")
			return
		case reply := <-replies:
			if err := ws.WriteTyped(conn, reply); err != nil {
				return
			}
		case n, ok := <-events:
			if !ok {
				return
			}
			if scope == ScopeOwn && n.Actor != claims.Username {
				continue
			}
			if err := ws.WriteTyped(conn, ws.NotificationEvent{Event: ws.EventNotification, Notification: n}); err != nil {
				wsLog.Warn().Err(err).Msg("Write failed")
				return
			}
		}
	}
}

// readLoop answers pings until the client goes away, then cancels the stream.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, replies chan<- any, cancel context.CancelFunc) {
	defer cancel()
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var reply any
		switch msg.Action {
		case ws.ActionPing:
			reply = ws.PongResponse{Event: ws.EventPong}
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			reply = ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)}
		}
		select {
		case replies <- reply:
		default:
		}
	}
}
