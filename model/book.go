package model

import (
	"errors"
	"slices"
)

// NewBook is a book that has not been stored yet.
type NewBook struct {
	Title       string            `json:"title"`
	Author      string            `json:"author"`
	Genres      []string          `json:"genres"`
	Tags        []string          `json:"tags"`
	Rating      float64           `json:"rating"`
	Status      string            `json:"status"`
	Description string            `json:"description"`
	MyThoughts  string            `json:"my_thoughts"`
	Links       map[string]string `json:"links"`
	CoverImage  string            `json:"cover_image"`
	Explicit    bool              `json:"explicit"`
	Color       string            `json:"color,omitempty"`
}

// Validate checks if the book has required fields.
func (b *NewBook) Validate() error {
	if b.Title == "" {
		return errors.New("book title is required")
	}
	return nil
}

// Book is a stored book.
type Book struct {
	ID ObjectID `json:"_id"`
	NewBook
}

// HasTag checks if the book has the specified tag.
func (b *Book) HasTag(tag string) bool {
	return slices.Contains(b.Tags, tag)
}

// HasGenre checks if the book has the specified genre.
func (b *Book) HasGenre(genre string) bool {
	return slices.Contains(b.Genres, genre)
}

// Link returns the named external link, if any.
func (b *Book) Link(name string) (string, bool) {
	link, ok := b.Links[name]
	return link, ok
}

// BookQuery filters a book search. Empty strings and slices and nil
// pointers are left out of the request.
type BookQuery struct {
	Title     string
	Author    string
	Genres    []string
	Tags      []string
	MinRating *float64
	MaxRating *float64
	Status    string
	Explicit  *bool
	Sort      string
}
