package domain

type (
	RoomID     string
	RoomStatus string
)

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// MaxRoomPlayers is fixed: a race is always one-on-one.
const MaxRoomPlayers = 2
