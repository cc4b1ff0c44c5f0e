package model

import (
	"errors"
	"slices"
)

// NewGame is a game that has not been stored yet.
type NewGame struct {
	Title       string            `json:"title"`
	Developer   string            `json:"developer"`
	Genres      []string          `json:"genres"`
	Tags        []string          `json:"tags"`
	Rating      float64           `json:"rating"`
	Status      string            `json:"status"`
	Description string            `json:"description"`
	MyThoughts  string            `json:"my_thoughts"`
	Links       map[string]string `json:"links"`
	CoverImage  string            `json:"cover_image"`
	Explicit    bool              `json:"explicit"`
	Percent     float64           `json:"percent"`
	Bad         bool              `json:"bad"`
	Color       string            `json:"color,omitempty"`
}

// Validate checks if the game has required fields.
func (g *NewGame) Validate() error {
	if g.Title == "" {
		return errors.New("game title is required")
	}
	if g.Percent < 0 || g.Percent > 100 {
		return errors.New("game percent must be between 0 and 100")
	}
	return nil
}

// Game is a stored game.
type Game struct {
	ID ObjectID `json:"_id"`
	NewGame
}

// HasTag checks if the game has the specified tag.
func (g *Game) HasTag(tag string) bool {
	return slices.Contains(g.Tags, tag)
}

// IsCompleted returns true once the game has reached 100 percent.
func (g *Game) IsCompleted() bool {
	return g.Percent >= 100
}

// Link returns the named external link, if any.
func (g *Game) Link(name string) (string, bool) {
	link, ok := g.Links[name]
	return link, ok
}

// GameQuery filters a game search. Progress bounds apply to Percent.
type GameQuery struct {
	Title         string
	Developer     string
	Genres        []string
	Tags          []string
	MinRating     *float64
	MaxRating     *float64
	ExactRating   *float64
	MinProgress   *float64
	MaxProgress   *float64
	ExactProgress *float64
	Status        string
	Explicit      *bool
	Sort          string
	Bad           *bool
}
