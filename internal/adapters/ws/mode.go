package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"typerace/internal/metrics"
)

func (ctl *Controller) handleChooseMode(cl *client, payload []byte) {
	if cl.state != stateConnected {
		log.Warn().Str("module", "ws").Str("sid", string(cl.player.ID)).Str("state", string(cl.state)).Msg("choose_mode out of state")
		return
	}

	var p chooseModePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		metrics.ProtocolErrorsCounter.Inc()
		log.Error().Err(err).Str("module", "ws").Msg("bad choose_mode payload")
		return
	}

	switch p.Mode {
	case "single":
		cl.state = stateSinglePlayer
		sentence := ctl.Pool.Pick()
		ctl.sendJSON(cl.conn, challengeMsg{Type: "challenge", Sentence: sentence})
		log.Info().Str("module", "ws").Str("sid", string(cl.player.ID)).Msg("single player challenge issued")
	case "multiplayer":
		cl.state = stateMenu
	default:
		ctl.sendError(cl, "Invalid mode.")
	}
}
