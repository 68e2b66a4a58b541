package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/internal/chat/repository"
	"nexus_chat_service/pkg/logger"
	"nexus_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// DefaultPingInterval server 主動 ping 的間隔
const DefaultPingInterval = time.Minute

// MembershipChecker 訂閱前檢查 team 成員
type MembershipChecker interface {
	IsTeamMember(ctx context.Context, teamID, userID string) error
}

// RealtimeHandler 把 redis change feed 轉成 websocket frame
type RealtimeHandler struct {
	feed         repository.ChangeFeed
	members      MembershipChecker
	pingInterval time.Duration
}

// NewRealtimeHandler create RealtimeHandler
func NewRealtimeHandler(feed repository.ChangeFeed, members MembershipChecker, pingInterval time.Duration) *RealtimeHandler {
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	return &RealtimeHandler{feed: feed, members: members, pingInterval: pingInterval}
}

// realtimeConn 一條連線的狀態; websocket 不允許並行寫入
type realtimeConn struct {
	conn   *websocket.Conn
	userID string

	writeMu sync.Mutex
	subs    map[string]context.CancelFunc
}

func (c *realtimeConn) send(resp domain.WSResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		logger.Log.Error("marshal ws response", zap.Error(err))
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Debug("write message error", zap.String("user_id", c.userID), zap.Error(err))
	}
}

func (c *realtimeConn) control(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(messageType, data, time.Now().Add(time.Second))
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *RealtimeHandler) HandleConnection(conn *websocket.Conn) {
	userID, _ := conn.Locals(middlewares.TokenUserID).(string)
	logger.Log.Info("websocket open", zap.String("user_id", userID))

	c := &realtimeConn{conn: conn, userID: userID, subs: map[string]context.CancelFunc{}}
	ticker := time.NewTicker(h.pingInterval)
	ctx, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		cancel()
		for teamID, stop := range c.subs {
			stop()
			delete(c.subs, teamID)
		}
		logger.Log.Info("websocket close", zap.String("user_id", userID))
		conn.Close()
	}()

	//client發出ping, 手動回 pong 以便共用寫入鎖
	conn.SetPingHandler(func(appData string) error {
		return c.control(websocket.PongMessage, []byte(appData))
	})

	// 定期發送 Ping
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.control(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Debug("ping error", zap.String("user_id", userID), zap.Error(err))
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Debug("connection closed", zap.String("user_id", userID))
			} else {
				//直接斷線 1006
				logger.Log.Warn("websocket read error", zap.String("user_id", userID), zap.Error(err))
			}
			return
		}

		if mt != websocket.TextMessage {
			c.send(domain.WSResponse{Action: domain.Error, Error: "text frames only"})
			continue
		}
		h.handleRequest(ctx, c, message)
	}
}

func (h *RealtimeHandler) handleRequest(ctx context.Context, c *realtimeConn, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		c.send(domain.WSResponse{Action: domain.Error, Error: "malformed request"})
		return
	}

	switch req.Action {
	case domain.Subscribe:
		h.subscribe(ctx, c, req.TeamID)

	case domain.Unsubscribe:
		if stop, ok := c.subs[req.TeamID]; ok {
			stop()
			delete(c.subs, req.TeamID)
		}
		c.send(domain.WSResponse{Action: domain.Closed, Success: true, TeamID: req.TeamID})

	case domain.Ping:
		c.send(domain.WSResponse{Action: domain.Pong, Success: true})

	default:
		c.send(domain.WSResponse{Action: domain.Error, Error: "unknown action " + string(req.Action)})
	}
}

func (h *RealtimeHandler) subscribe(ctx context.Context, c *realtimeConn, teamID string) {
	if teamID == "" {
		c.send(domain.WSResponse{Action: domain.Error, Error: "team_id is required"})
		return
	}
	if _, ok := c.subs[teamID]; ok {
		c.send(domain.WSResponse{Action: domain.Subscribed, Success: true, TeamID: teamID})
		return
	}
	if err := h.members.IsTeamMember(ctx, teamID, c.userID); err != nil {
		c.send(domain.WSResponse{Action: domain.Error, TeamID: teamID, Error: err.Error()})
		return
	}

	subCtx, stop := context.WithCancel(ctx)
	err := h.feed.Subscribe(subCtx, domain.TeamChannel(teamID), func(payload []byte) {
		var event domain.ChangeEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Log.Warn("malformed change event", zap.String("team_id", teamID), zap.Error(err))
			return
		}
		c.send(domain.WSResponse{Action: domain.Change, Success: true, TeamID: teamID, Event: &event})
	})
	if err != nil {
		stop()
		logger.Log.Error("feed subscribe", zap.String("team_id", teamID), zap.Error(err))
		c.send(domain.WSResponse{Action: domain.Error, TeamID: teamID, Error: "subscribe failed"})
		return
	}

	c.subs[teamID] = stop
	c.send(domain.WSResponse{Action: domain.Subscribed, Success: true, TeamID: teamID})
}
