// Package importer reads RSS/Atom shelf feeds (a Goodreads shelf, for
// example) and turns their items into books ready to be created.
package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bearodactyl/readwatch/model"
	"github.com/mmcdole/gofeed"
	"github.com/spf13/afero"
)

// Statuses given to imported books, keyed by shelf name.
var shelfStatus = map[string]string{
	"read":              "Finished",
	"currently-reading": "Reading",
	"to-read":           "Planned",
}

// DefaultStatus is used when an item names no known shelf.
const DefaultStatus = "Planned"

// Importer fetches and parses shelf feeds.
type Importer struct {
	parser *gofeed.Parser
	fs     afero.Fs
}

// New creates an Importer reading local files from fs.
func New(fs afero.Fs) *Importer {
	return &Importer{
		parser: gofeed.NewParser(),
		fs:     fs,
	}
}

// Load reads books from source, which is either an http(s) URL or a path
// on the importer's filesystem.
func (i *Importer) Load(ctx context.Context, source string) ([]model.NewBook, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return i.Fetch(ctx, source)
	}
	return i.ParseFile(source)
}

// Fetch retrieves and parses a feed from a URL.
func (i *Importer) Fetch(ctx context.Context, url string) ([]model.NewBook, error) {
	feed, err := i.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed from %s: %w", url, err)
	}
	return convert(feed), nil
}

// ParseFile parses a feed stored at path.
func (i *Importer) ParseFile(path string) ([]model.NewBook, error) {
	f, err := i.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()

	feed, err := i.parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", path, err)
	}
	return convert(feed), nil
}

// Parse parses feed content from a string.
func (i *Importer) Parse(content string) ([]model.NewBook, error) {
	if content == "" {
		return nil, fmt.Errorf("feed content is empty")
	}

	feed, err := i.parser.ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return convert(feed), nil
}

// convert keeps the items that carry a title.
func convert(feed *gofeed.Feed) []model.NewBook {
	books := []model.NewBook{}
	for _, item := range feed.Items {
		book := convertItem(item)
		if err := book.Validate(); err != nil {
			continue
		}
		books = append(books, book)
	}
	return books
}

func convertItem(item *gofeed.Item) model.NewBook {
	book := model.NewBook{
		Title:  strings.TrimSpace(item.Title),
		Genres: []string{},
		Tags:   []string{},
		Links:  map[string]string{},
		Status: DefaultStatus,
	}

	// Goodreads puts most of the book in non-standard elements.
	custom := item.Custom

	switch {
	case custom["author_name"] != "":
		book.Author = custom["author_name"]
	case len(item.Authors) > 0 && item.Authors[0] != nil:
		book.Author = item.Authors[0].Name
	}

	switch {
	case custom["book_description"] != "":
		book.Description = custom["book_description"]
	case item.Description != "":
		book.Description = item.Description
	default:
		book.Description = item.Content
	}

	switch {
	case custom["book_large_image_url"] != "":
		book.CoverImage = custom["book_large_image_url"]
	case custom["book_image_url"] != "":
		book.CoverImage = custom["book_image_url"]
	case item.Image != nil:
		book.CoverImage = item.Image.URL
	}

	if rating, err := strconv.ParseFloat(strings.TrimSpace(custom["user_rating"]), 64); err == nil {
		book.Rating = rating
	}
	book.MyThoughts = strings.TrimSpace(custom["user_review"])

	for _, category := range item.Categories {
		addUnique(&book.Tags, strings.TrimSpace(category))
	}
	for _, shelf := range strings.Split(custom["user_shelves"], ",") {
		shelf = strings.TrimSpace(shelf)
		if status, ok := shelfStatus[shelf]; ok {
			book.Status = status
			continue
		}
		addUnique(&book.Tags, shelf)
	}

	if item.Link != "" {
		book.Links["source"] = item.Link
	}

	return book
}

func addUnique(list *[]string, v string) {
	if v == "" {
		return
	}
	for _, existing := range *list {
		if existing == v {
			return
		}
	}
	*list = append(*list, v)
}
