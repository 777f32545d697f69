// Package domain contains entities without logic, just meta-data.
package domain

// PlayerID is the stable identity of one connection, issued as a
// client token by the http layer.
type PlayerID string

// Player pairs the connection identity with the address shown to
// opponents in results and winner announcements.
type Player struct {
	ID   PlayerID `json:"-"`
	Addr string   `json:"addr"`
}
