// Package model defines domain entities used by services and repositories.
package model

import "time"

// Game is a cataloged board game. ID is assigned by storage on insert and
// immutable afterwards; Name is unique across the catalog.
type Game struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	MinPlayers int    `json:"minPlayers"`
	MaxPlayers int    `json:"maxPlayers"`
	GameType   string `json:"gameType"`
}

// Review is a free-text review owned by a game. GameID is set at creation
// and never changes; only Text is updatable.
type Review struct {
	ID     int64  `json:"id"`
	GameID int64  `json:"gameId"`
	Text   string `json:"text"`
}

// Principal is a stored account: unique username, bcrypt password hash and
// a non-empty set of role names. Only "USER" and "MANAGER" carry meaning to
// the access policy; other role strings are stored but ignored by it.
type Principal struct {
	Username string
	PwdHash  []byte
	Roles    []string
}

// HasRole reports whether the principal holds the named role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Session is an issued browser session token.
type Session struct {
	Token     string
	ExpiresAt time.Time // for cookie expiry and diagnostics
}
