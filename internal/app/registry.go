package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"typerace/internal/domain"
	"typerace/internal/metrics"
)

// Pusher is the outbound side of a session's transport. Owned by the
// adapter; the registry only fans messages out through it.
type Pusher interface {
	TrySend([]byte) error
}

type sessionEntry struct {
	Player domain.Player
	RoomID domain.RoomID
	Push   Pusher
	Cancel context.CancelFunc
}

// Registry maps live sessions to their player identity, transport and
// room association. Every connection goroutine reads and writes it, so
// all access goes through the lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.PlayerID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.PlayerID]*sessionEntry)}
}

func (r *Registry) Bind(player domain.Player, push Pusher, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[player.ID] = &sessionEntry{Player: player, Push: push, Cancel: cancel}
	metrics.SessionsGauge.Inc()
	log.Info().Str("module", "app.registry").Str("sid", string(player.ID)).Str("addr", player.Addr).Msg("bound session")
}

func (r *Registry) Unbind(sid domain.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; !ok {
		return
	}
	delete(r.sessions, sid)
	metrics.SessionsGauge.Dec()
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbound session")
}

// Get returns the player identity and transport of a live session.
func (r *Registry) Get(sid domain.PlayerID) (domain.Player, Pusher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return domain.Player{}, nil, false
	}
	return e.Player, e.Push, true
}

func (r *Registry) SetRoom(sid domain.PlayerID, rid domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		e.RoomID = rid
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(rid)).Msg("joined room")
	}
}

func (r *Registry) ClearRoom(sid domain.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		e.RoomID = ""
	}
}

// RoomOf returns the room a session currently belongs to, if any.
func (r *Registry) RoomOf(sid domain.PlayerID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cancel fires the session's cancel func, unblocking its pumps.
func (r *Registry) Cancel(sid domain.PlayerID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}
