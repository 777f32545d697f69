package ws

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"typerace/internal/domain"
	"typerace/internal/metrics"
)

func (ctl *Controller) handleAction(cl *client, payload []byte) {
	if cl.state != stateMenu {
		log.Warn().Str("module", "ws").Str("sid", string(cl.player.ID)).Str("state", string(cl.state)).Msg("multiplayer_action out of state")
		return
	}

	var p actionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		metrics.ProtocolErrorsCounter.Inc()
		log.Error().Err(err).Str("module", "ws").Msg("bad multiplayer_action payload")
		return
	}

	if ctl.Limiter != nil && !ctl.Limiter.Allow(cl.player.ID) {
		ctl.sendError(cl, "Too many room actions, slow down.")
		return
	}

	switch p.Action {
	case "create":
		ctl.createRoom(cl)
	case "join":
		ctl.joinRoom(cl, domain.RoomID(p.RoomID))
	default:
		ctl.sendError(cl, "Invalid multiplayer action.")
	}
}

func (ctl *Controller) createRoom(cl *client) {
	rid := ctl.Rooms.Create(cl.player)
	ctl.Registry.SetRoom(cl.player.ID, rid)
	cl.state = stateRoomWaiting
	ctl.sendJSON(cl.conn, roomCreatedMsg{Type: "room_created", RoomID: string(rid)})
}

func (ctl *Controller) joinRoom(cl *client, rid domain.RoomID) {
	sentence, players, err := ctl.Rooms.TryJoin(rid, cl.player)
	if err != nil {
		// Joiner stays in the menu so it can retry another room.
		log.Warn().Err(err).Str("module", "ws").Str("room", string(rid)).Msg("join rejected")
		ctl.sendError(cl, fmt.Sprintf("Cannot join room %s (Not found, full, or already playing).", rid))
		return
	}

	ctl.Registry.SetRoom(cl.player.ID, rid)
	cl.state = stateRoomPlaying

	// The creator's state machine only learns the race started through
	// this push; its own state advances on its next submission.
	start := gameStartMsg{Type: "game_start", Sentence: sentence}
	for _, player := range players {
		if player.ID == cl.player.ID {
			ctl.sendJSON(cl.conn, start)
			continue
		}
		if _, push, ok := ctl.Registry.Get(player.ID); ok {
			ctl.sendJSON(push, start)
		}
	}
	log.Info().Str("module", "ws").Str("sid", string(cl.player.ID)).Str("room", string(rid)).Msg("joined room, game starting")
}
