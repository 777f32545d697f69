package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"typerace/internal/app"
	"typerace/internal/core"
	"typerace/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller runs the per-connection protocol state machine on top of
// the shared registries.
type Controller struct {
	Registry *app.Registry
	Rooms    *app.Rooms
	Coord    *app.Coordinator
	Pool     *core.SentencePool
	Limiter  *ActionRateLimiter

	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

// wsConn wraps the raw socket with a buffered outbound channel so
// pushes from other connections never block on a slow reader.
type wsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// client is one connection's view of the world: its identity, its
// transport and its protocol state. Only its own readPump touches it.
type client struct {
	player domain.Player
	conn   *wsConn
	state  connState
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) HandleSocket(ctx context.Context, c *gin.Context) {
	sid := domain.PlayerID(c.GetString("client_token"))
	log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("new connection")

	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}
	if ctl.ReadLimit > 0 {
		sock.SetReadLimit(ctl.ReadLimit)
	}

	buffer := ctl.SendBuffer
	if buffer <= 0 {
		buffer = 32
	}
	conn := &wsConn{
		conn: sock,
		send: make(chan []byte, buffer),
	}

	// One live session per token. The stale connection gets canceled
	// rather than silently overwritten, otherwise its cleanup would tear
	// down the replacement's registry entry. The client retries once the
	// old session is gone.
	if _, _, ok := ctl.Registry.Get(sid); ok {
		log.Warn().Str("module", "ws").Str("sid", string(sid)).Msg("session already exists, kicking stale connection")
		ctl.Registry.Cancel(sid)
		conn.Close()
		return
	}

	player := domain.Player{ID: sid, Addr: sock.RemoteAddr().String()}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctl.Registry.Bind(player, conn, cancel)

	cl := &client{player: player, conn: conn, state: stateConnected}

	go ctl.writePump(ctx, conn)
	ctl.readPump(ctx, cl)
}

func (ctl *Controller) sendJSON(push app.Pusher, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("sendJSON marshal")
		return
	}
	if err := push.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "ws").Msg("push dropped")
	}
}

func (ctl *Controller) sendError(cl *client, message string) {
	ctl.sendJSON(cl.conn, errorMsg{Type: "error", Message: message})
}
