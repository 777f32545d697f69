package core

import (
	"math/rand/v2"
	"strconv"

	"typerace/internal/domain"
)

// NewRoomID allocates a short 4-digit decimal id, retrying until taken
// reports it free. Callers must hold whatever lock makes taken
// consistent with the registration of the returned id; retired ids may
// be handed out again once their room is gone.
func NewRoomID(taken func(domain.RoomID) bool) domain.RoomID {
	for {
		id := domain.RoomID(strconv.Itoa(1000 + rand.IntN(9000)))
		if !taken(id) {
			return id
		}
	}
}
