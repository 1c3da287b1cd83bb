package checkout

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"cinebook/internal/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers cannot set headers on websocket requests, so the origin
	// check stays permissive; auth happens via the token query param.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler exposes the payment status stream over websockets.
type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
	loggerf    func(format string, args ...interface{})
}

func NewHandler(hub *Hub, jwtService *jwt.Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{hub: hub, jwtService: jwtService, loggerf: loggerf}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/payments/:order_id", h.Stream)
}

// Stream upgrades the connection and keeps it registered for capture
// events until the client disconnects.
//
// Endpoint: GET /ws/payments/:order_id?token=JWT_TOKEN
func (h *Handler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Token is required. Use ?token=YOUR_JWT_TOKEN",
		})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid or expired token",
		})
		return
	}

	orderID := c.Param("order_id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "order_id is required",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.loggerf("level=error msg=websocket upgrade failed err=%v", err)
		return
	}

	h.hub.Register(orderID, conn)
	h.loggerf("level=info msg=payment stream opened order_id=%s user_id=%d", orderID, claims.UserID)

	defer func() {
		h.hub.Unregister(orderID)
		h.loggerf("level=info msg=payment stream closed order_id=%s", orderID)
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	go h.pingLoop(orderID)
	h.readLoop(conn, orderID)
}

// pingLoop keeps the connection alive through the hub so pings and capture
// events never write concurrently.
func (h *Handler) pingLoop(orderID string) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := h.hub.Ping(orderID); err != nil {
			return
		}
	}
}

// readLoop drains client frames. Subscribers only listen, so anything
// except a close is discarded.
func (h *Handler) readLoop(conn *websocket.Conn, orderID string) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				h.loggerf("level=warn msg=payment stream error order_id=%s err=%v", orderID, err)
			}
			return
		}
	}
}
