package app

import (
	"github.com/rs/zerolog/log"

	"typerace/internal/domain"
)

// Coordinator glues the two registries for lifecycle steps that touch
// both: tearing a room down on disconnect, and retiring a room once its
// final results went out.
type Coordinator struct {
	Registry *Registry
	Rooms    *Rooms
}

// Disconnect removes the session and, if it owned a room, deletes that
// room outright. It returns the transports of any still-connected
// opponents so the caller can tell them the player left. This is the
// only path that deletes a room for a reason other than both results
// being delivered.
func (c *Coordinator) Disconnect(sid domain.PlayerID) []Pusher {
	var survivors []Pusher

	if rid, ok := c.Registry.RoomOf(sid); ok {
		if view, ok := c.Rooms.Get(rid); ok {
			for _, p := range view.Players {
				if p.ID == sid {
					continue
				}
				if _, push, ok := c.Registry.Get(p.ID); ok {
					survivors = append(survivors, push)
					c.Registry.ClearRoom(p.ID)
				}
			}
			c.Rooms.Delete(rid)
			log.Info().Str("module", "app.coordinator").Str("room", string(rid)).Str("sid", string(sid)).Msg("room removed on disconnect")
		}
	}

	c.Registry.Unbind(sid)
	return survivors
}

// FinishRoom retires a room after the game-over broadcast: there is no
// retained history, so the room goes away as soon as both players have
// their results.
func (c *Coordinator) FinishRoom(rid domain.RoomID, players []domain.Player) {
	for _, p := range players {
		c.Registry.ClearRoom(p.ID)
	}
	c.Rooms.Delete(rid)
}
