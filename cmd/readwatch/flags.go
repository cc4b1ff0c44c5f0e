package main

import (
	"fmt"
	"strings"

	"github.com/bearodactyl/readwatch/model"
	"github.com/urfave/cli/v2"
)

// itemFlags are the fields books and games share. creator names the
// author/developer flag.
func itemFlags(creator string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title"},
		&cli.StringFlag{Name: creator, Usage: "Name of the " + creator},
		&cli.StringSliceFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Genre (repeatable, replaces existing genres)"},
		&cli.StringSliceFlag{Name: "tag", Usage: "Tag (repeatable, replaces existing tags)"},
		&cli.Float64Flag{Name: "rating", Aliases: []string{"r"}, Usage: "Rating"},
		&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Status, e.g. Reading or Finished"},
		&cli.StringFlag{Name: "description", Usage: "Description"},
		&cli.StringFlag{Name: "thoughts", Usage: "Personal notes"},
		&cli.StringSliceFlag{Name: "link", Usage: "External link as name=url (repeatable)"},
		&cli.StringFlag{Name: "cover", Usage: "Cover image URL or path"},
		&cli.BoolFlag{Name: "explicit", Usage: "Mark as explicit"},
		&cli.StringFlag{Name: "color", Usage: "Display color"},
	}
}

func bookFlags() []cli.Flag {
	return itemFlags("author")
}

func gameFlags() []cli.Flag {
	return append(itemFlags("developer"),
		&cli.Float64Flag{Name: "percent", Aliases: []string{"p"}, Usage: "Completion percentage"},
		&cli.BoolFlag{Name: "bad", Usage: "Mark as bad"},
	)
}

func filterFlags(creator string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Match title"},
		&cli.StringFlag{Name: creator, Usage: "Match " + creator},
		&cli.StringSliceFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Require genre (repeatable)"},
		&cli.StringSliceFlag{Name: "tag", Usage: "Require tag (repeatable)"},
		&cli.Float64Flag{Name: "min-rating", Usage: "Minimum rating"},
		&cli.Float64Flag{Name: "max-rating", Usage: "Maximum rating"},
		&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Match status"},
		&cli.BoolFlag{Name: "explicit", Usage: "Match explicit flag (--explicit=false to exclude)"},
		&cli.StringFlag{Name: "sort", Usage: "Sort directive passed to the API"},
	}
}

func bookFilterFlags() []cli.Flag {
	return filterFlags("author")
}

func gameFilterFlags() []cli.Flag {
	return append(filterFlags("developer"),
		&cli.Float64Flag{Name: "exact-rating", Usage: "Exact rating"},
		&cli.Float64Flag{Name: "min-progress", Usage: "Minimum completion percentage"},
		&cli.Float64Flag{Name: "max-progress", Usage: "Maximum completion percentage"},
		&cli.Float64Flag{Name: "exact-progress", Usage: "Exact completion percentage"},
		&cli.BoolFlag{Name: "bad", Usage: "Match bad flag"},
	)
}

// itemFields points at the fields of a book or game that the shared flags
// write to.
type itemFields struct {
	title, creator, status, description, thoughts, cover, color *string
	genres, tags                                                *[]string
	rating                                                      *float64
	explicit                                                    *bool
	links                                                       *map[string]string
}

// apply copies every flag the user set onto the fields.
func (f itemFields) apply(c *cli.Context, creator string) error {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setString("title", f.title)
	setString(creator, f.creator)
	setString("status", f.status)
	setString("description", f.description)
	setString("thoughts", f.thoughts)
	setString("cover", f.cover)
	setString("color", f.color)

	if c.IsSet("genre") {
		*f.genres = c.StringSlice("genre")
	}
	if c.IsSet("tag") {
		*f.tags = c.StringSlice("tag")
	}
	if c.IsSet("rating") {
		*f.rating = c.Float64("rating")
	}
	if c.IsSet("explicit") {
		*f.explicit = c.Bool("explicit")
	}
	if c.IsSet("link") {
		links, err := parseLinks(c.StringSlice("link"))
		if err != nil {
			return err
		}
		if *f.links == nil {
			*f.links = map[string]string{}
		}
		for name, url := range links {
			(*f.links)[name] = url
		}
	}
	return nil
}

func applyBookFlags(c *cli.Context, b *model.NewBook) error {
	fields := itemFields{
		title: &b.Title, creator: &b.Author, status: &b.Status, description: &b.Description,
		thoughts: &b.MyThoughts, cover: &b.CoverImage, color: &b.Color,
		genres: &b.Genres, tags: &b.Tags, rating: &b.Rating, explicit: &b.Explicit, links: &b.Links,
	}
	return fields.apply(c, "author")
}

func applyGameFlags(c *cli.Context, g *model.NewGame) error {
	fields := itemFields{
		title: &g.Title, creator: &g.Developer, status: &g.Status, description: &g.Description,
		thoughts: &g.MyThoughts, cover: &g.CoverImage, color: &g.Color,
		genres: &g.Genres, tags: &g.Tags, rating: &g.Rating, explicit: &g.Explicit, links: &g.Links,
	}
	if err := fields.apply(c, "developer"); err != nil {
		return err
	}
	if c.IsSet("percent") {
		g.Percent = c.Float64("percent")
	}
	if c.IsSet("bad") {
		g.Bad = c.Bool("bad")
	}
	return nil
}

func bookQuery(c *cli.Context) (model.BookQuery, error) {
	q := model.BookQuery{
		Title:     c.String("title"),
		Author:    c.String("author"),
		Genres:    c.StringSlice("genre"),
		Tags:      c.StringSlice("tag"),
		MinRating: optFloat(c, "min-rating"),
		MaxRating: optFloat(c, "max-rating"),
		Status:    c.String("status"),
		Explicit:  optBool(c, "explicit"),
		Sort:      c.String("sort"),
	}
	if err := checkRange(q.MinRating, q.MaxRating, "rating"); err != nil {
		return q, err
	}
	return q, nil
}

func gameQuery(c *cli.Context) (model.GameQuery, error) {
	q := model.GameQuery{
		Title:         c.String("title"),
		Developer:     c.String("developer"),
		Genres:        c.StringSlice("genre"),
		Tags:          c.StringSlice("tag"),
		MinRating:     optFloat(c, "min-rating"),
		MaxRating:     optFloat(c, "max-rating"),
		ExactRating:   optFloat(c, "exact-rating"),
		MinProgress:   optFloat(c, "min-progress"),
		MaxProgress:   optFloat(c, "max-progress"),
		ExactProgress: optFloat(c, "exact-progress"),
		Status:        c.String("status"),
		Explicit:      optBool(c, "explicit"),
		Sort:          c.String("sort"),
		Bad:           optBool(c, "bad"),
	}
	if err := checkRange(q.MinRating, q.MaxRating, "rating"); err != nil {
		return q, err
	}
	if err := checkRange(q.MinProgress, q.MaxProgress, "progress"); err != nil {
		return q, err
	}
	return q, nil
}

func checkRange(lo, hi *float64, name string) error {
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("min-%s %v is greater than max-%s %v", name, *lo, name, *hi)
	}
	return nil
}

func optFloat(c *cli.Context, name string) *float64 {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Float64(name)
	return &v
}

func optBool(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}

// parseLinks parses name=url pairs.
func parseLinks(pairs []string) (map[string]string, error) {
	links := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, url, ok := strings.Cut(pair, "=")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("invalid link %q (expected name=url)", pair)
		}
		links[name] = url
	}
	return links, nil
}
