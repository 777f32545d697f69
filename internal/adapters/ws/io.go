package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"typerace/internal/metrics"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	pingPeriod := ctl.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "ws").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "ws").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives the state machine until the client goes away or
// reaches a terminal state, then runs cleanup for the session.
func (ctl *Controller) readPump(ctx context.Context, cl *client) {
	sid := cl.player.ID
	defer func() {
		log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("readPump closing")
		ctl.disconnect(cl)
		cl.conn.Close()
	}()

	// ReadMessage blocks with no deadline, so cancellation has to close
	// the socket out from under it.
	stop := context.AfterFunc(ctx, cl.conn.Close)
	defer stop()

	for {
		_, data, err := cl.conn.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("module", "ws").Str("sid", string(sid)).Msg("readPump ctx done")
			} else if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "ws").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		ctl.handleMessage(cl, data)
	}
}

func (ctl *Controller) handleMessage(cl *client, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		metrics.ProtocolErrorsCounter.Inc()
		log.Error().Err(err).Str("module", "ws").Msg("bad json")
		return
	}

	switch env.Type {
	case typeChooseMode:
		ctl.handleChooseMode(cl, env.Payload)
	case typeAction:
		ctl.handleAction(cl, env.Payload)
	case typeSubmit:
		ctl.handleSubmit(cl, env.Payload)
	case typePing:
		ctl.handlePing(cl)
	default:
		metrics.ProtocolErrorsCounter.Inc()
		log.Warn().Str("module", "ws").Str("type", env.Type).Str("state", string(cl.state)).Msg("unknown message type")
	}
}

func (ctl *Controller) handlePing(cl *client) {
	ctl.sendJSON(cl.conn, pongMsg{Type: "pong"})
}

// disconnect tears the session down and tells a still-connected
// opponent, if any, that the race is over for them.
func (ctl *Controller) disconnect(cl *client) {
	for _, push := range ctl.Coord.Disconnect(cl.player.ID) {
		ctl.sendJSON(push, opponentLeftMsg{Type: "opponent_left"})
	}
	if ctl.Limiter != nil {
		ctl.Limiter.Forget(cl.player.ID)
	}
}
