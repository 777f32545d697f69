package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"typerace/internal/core"
	"typerace/internal/domain"
	"typerace/internal/metrics"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room full")
	ErrRoomNotWaiting  = errors.New("room not waiting for players")
	ErrRoomNotPlaying  = errors.New("room not playing")
	ErrDuplicateResult = errors.New("result already recorded")
)

type roomState struct {
	players  []domain.Player
	sentence string
	results  map[domain.PlayerID]domain.Result
	status   domain.RoomStatus
}

// Outcome is what Record reports back. Complete is true for exactly one
// of the two submissions of a race; that caller owns the game-over
// broadcast.
type Outcome struct {
	Complete bool
	Winner   string
	Players  []domain.Player
	Results  map[string]domain.Result
}

// RoomView is a read-only snapshot of one room.
type RoomView struct {
	ID       domain.RoomID
	Status   domain.RoomStatus
	Sentence string
	Players  []domain.Player
}

// Rooms owns the full room lifecycle. Every multi-step operation
// (create with id allocation, join with sentence assignment, record
// with completion check) runs inside one critical section, so two
// joiners or two submitters racing on the same room serialize here.
type Rooms struct {
	mu    sync.Mutex
	rooms map[domain.RoomID]*roomState
	pool  *core.SentencePool
}

func NewRooms(pool *core.SentencePool) *Rooms {
	return &Rooms{
		rooms: make(map[domain.RoomID]*roomState),
		pool:  pool,
	}
}

// Create allocates a fresh id and opens a waiting room with the given
// player as its sole member.
func (r *Rooms) Create(player domain.Player) domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()

	rid := core.NewRoomID(func(id domain.RoomID) bool {
		_, ok := r.rooms[id]
		return ok
	})
	r.rooms[rid] = &roomState{
		players: []domain.Player{player},
		results: make(map[domain.PlayerID]domain.Result),
		status:  domain.StatusWaiting,
	}
	metrics.RoomsGauge.Inc()
	log.Info().Str("module", "app.rooms").Str("room", string(rid)).Str("addr", player.Addr).Msg("room created")
	return rid
}

// TryJoin adds player as the second member, assigns the race sentence
// and flips the room to playing, all as one step. At most one of two
// concurrent joiners can observe the waiting state and succeed.
func (r *Rooms) TryJoin(rid domain.RoomID, player domain.Player) (string, []domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[rid]
	if !ok {
		return "", nil, ErrRoomNotFound
	}
	if room.status != domain.StatusWaiting {
		return "", nil, ErrRoomNotWaiting
	}
	if len(room.players) != domain.MaxRoomPlayers-1 {
		return "", nil, ErrRoomFull
	}

	room.players = append(room.players, player)
	room.sentence = r.pool.Pick()
	room.status = domain.StatusPlaying

	players := make([]domain.Player, len(room.players))
	copy(players, room.players)
	log.Info().Str("module", "app.rooms").Str("room", string(rid)).Str("addr", player.Addr).Msg("player joined, game starting")
	return room.sentence, players, nil
}

// Record scores the submission against the room's own sentence and
// stores it. The completion check runs in the same critical section as
// the store, so of two concurrent submissions exactly one sees the race
// turn complete.
func (r *Rooms) Record(rid domain.RoomID, sid domain.PlayerID, typed string, elapsed float64) (Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[rid]
	if !ok {
		return Outcome{}, ErrRoomNotFound
	}
	if room.status != domain.StatusPlaying {
		return Outcome{}, ErrRoomNotPlaying
	}
	if _, dup := room.results[sid]; dup {
		return Outcome{}, ErrDuplicateResult
	}

	room.results[sid] = core.Score(room.sentence, typed, elapsed)

	if len(room.results) < domain.MaxRoomPlayers || len(room.players) != domain.MaxRoomPlayers {
		return Outcome{}, nil
	}
	// The status flip and the all-results check share this critical
	// section, so the game can finish exactly once.
	room.status = domain.StatusFinished

	a, b := room.players[0], room.players[1]
	ra, rb := room.results[a.ID], room.results[b.ID]
	winner := domain.WinnerDraw
	switch {
	case ra.WPM > rb.WPM:
		winner = a.Addr
	case rb.WPM > ra.WPM:
		winner = b.Addr
	}

	players := make([]domain.Player, len(room.players))
	copy(players, room.players)
	metrics.RacesCounter.Inc()
	log.Info().Str("module", "app.rooms").Str("room", string(rid)).Str("winner", winner).Msg("race finished")

	return Outcome{
		Complete: true,
		Winner:   winner,
		Players:  players,
		Results:  map[string]domain.Result{a.Addr: ra, b.Addr: rb},
	}, nil
}

// Delete removes the room outright, whatever its status.
func (r *Rooms) Delete(rid domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[rid]; !ok {
		return
	}
	delete(r.rooms, rid)
	metrics.RoomsGauge.Dec()
	log.Info().Str("module", "app.rooms").Str("room", string(rid)).Msg("room deleted")
}

// Get returns a snapshot of the room, if it exists.
func (r *Rooms) Get(rid domain.RoomID) (RoomView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[rid]
	if !ok {
		return RoomView{}, false
	}
	players := make([]domain.Player, len(room.players))
	copy(players, room.players)
	return RoomView{ID: rid, Status: room.status, Sentence: room.sentence, Players: players}, true
}

func (r *Rooms) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
