package shared

import "github.com/google/uuid"

// Player represents a person seated at a Skat table.
type Player struct {
	ID   string `json:"id"`   // Unique identifier for the player
	Name string `json:"name"` // Player's chosen name
}

// NewPlayer creates a new player with the given ID and name.
// An empty ID gets a fresh UUID.
func NewPlayer(id string, name string) *Player {
	if id == "" {
		id = uuid.NewString()
	}
	return &Player{
		ID:   id,
		Name: name,
	}
}
