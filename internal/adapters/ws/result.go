package ws

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"typerace/internal/app"
	"typerace/internal/core"
	"typerace/internal/metrics"
)

func (ctl *Controller) handleSubmit(cl *client, payload []byte) {
	var p submitPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		metrics.ProtocolErrorsCounter.Inc()
		log.Error().Err(err).Str("module", "ws").Msg("bad submit_result payload")
		return
	}

	if cl.state == stateSinglePlayer {
		result := core.Score(p.Original, p.Text, p.Time)
		ctl.sendJSON(cl.conn, gameResultMsg{Type: "game_result", Results: result})
		cl.state = stateFinished
		metrics.RacesCounter.Inc()
		log.Info().Str("module", "ws").Str("sid", string(cl.player.ID)).Int("wpm", result.WPM).Msg("single player race finished")
		return
	}

	// Multiplayer: the room's status is authoritative, which also covers
	// the creator, whose local state is still in_room_waiting when its
	// first submission arrives.
	rid, ok := ctl.Registry.RoomOf(cl.player.ID)
	if !ok {
		log.Warn().Str("module", "ws").Str("sid", string(cl.player.ID)).Str("state", string(cl.state)).Msg("submit_result without a room")
		return
	}

	out, err := ctl.Rooms.Record(rid, cl.player.ID, p.Text, p.Time)
	if err != nil {
		if errors.Is(err, app.ErrDuplicateResult) {
			log.Warn().Str("module", "ws").Str("sid", string(cl.player.ID)).Str("room", string(rid)).Msg("duplicate submission ignored")
			return
		}
		log.Warn().Err(err).Str("module", "ws").Str("room", string(rid)).Msg("submission ignored")
		return
	}

	if cl.state == stateRoomWaiting {
		cl.state = stateRoomPlaying
	}
	if !out.Complete {
		return
	}

	// Exactly one submission per room observes completion, so this
	// broadcast happens once.
	over := gameOverMsg{Type: "game_over", Results: out.Results, Winner: out.Winner}
	for _, player := range out.Players {
		if player.ID == cl.player.ID {
			ctl.sendJSON(cl.conn, over)
			continue
		}
		if _, push, ok := ctl.Registry.Get(player.ID); ok {
			ctl.sendJSON(push, over)
		}
	}
	ctl.Coord.FinishRoom(rid, out.Players)
	cl.state = stateFinished
}
