package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"eventcore/internal/domain/entities"
	"eventcore/internal/infrastructure/notify"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

var (
	errObserverClosed = errors.New("observer connection closed")
	errObserverSlow   = errors.New("observer send buffer full")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Registry is the part of the hub the websocket endpoint needs.
type Registry interface {
	Connect(o notify.Observer)
	Disconnect(id string)
}

// wsObserver forwards hub messages to one websocket connection. Send only
// enqueues; writePump owns all writes to conn.
type wsObserver struct {
	id     string
	conn   *websocket.Conn
	send   chan entities.Notification
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

func newWSObserver(conn *websocket.Conn, userID string, logger *slog.Logger) *wsObserver {
	return &wsObserver{
		id:     "ws:" + userID + ":" + uuid.NewString(),
		conn:   conn,
		send:   make(chan entities.Notification, sendBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

func (o *wsObserver) ID() string { return o.id }

func (o *wsObserver) Send(_ context.Context, msg entities.Notification) error {
	select {
	case <-o.done:
		return errObserverClosed
	default:
	}
	select {
	case o.send <- msg:
		return nil
	default:
		return errObserverSlow
	}
}

func (o *wsObserver) close() {
	o.once.Do(func() {
		close(o.done)
		_ = o.conn.Close()
	})
}

func (o *wsObserver) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		o.close()
	}()
	for {
		select {
		case <-o.done:
			return
		case msg := <-o.send:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteJSON(msg); err != nil {
				o.logger.Debug("websocket write failed", "observer", o.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and returns when the peer goes away.
func (o *wsObserver) readPump() {
	defer o.close()
	o.conn.SetReadLimit(maxMessageSize)
	_ = o.conn.SetReadDeadline(time.Now().Add(pongWait))
	o.conn.SetPongHandler(func(string) error {
		return o.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := o.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) observeEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	obs := newWSObserver(conn, identity(c).UserID, s.logger)
	s.hub.Connect(obs)
	s.logger.Info("observer connected", "observer", obs.id)

	go obs.writePump()
	obs.readPump()

	s.hub.Disconnect(obs.id)
	s.logger.Info("observer disconnected", "observer", obs.id)
}
