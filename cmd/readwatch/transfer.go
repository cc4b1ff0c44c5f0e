package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/bearodactyl/readwatch/importer"
	"github.com/bearodactyl/readwatch/model"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import books from an RSS/Atom shelf feed (URL or file)",
		ArgsUsage: "<url-or-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the parsed books without creating them",
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Value:   4,
				Usage:   "Maximum number of books created at once",
			},
		},
		Action: importBooks,
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all books and games as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (default: stdout)",
			},
		},
		Action: exportCatalog,
	}
}

func openCommand() *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Open an external link of a book or game in the browser",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "link",
				Aliases: []string{"l"},
				Usage:   "Link name (default: source, then the first link)",
			},
			&cli.BoolFlag{
				Name:  "game",
				Usage: "The id is a game",
			},
		},
		Action: openItem,
	}
}

func importBooks(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: readwatch import <url-or-file>", ExitUsageError)
	}

	books, err := importer.New(afero.NewOsFs()).Load(c.Context, c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	if c.Bool("dry-run") {
		return outputJSON(map[string]interface{}{
			"count": len(books),
			"books": books,
		})
	}

	client, s, err := getClient(c)
	if err != nil {
		return err
	}
	defer s.Close()

	result := createAll(c.Context, client.Books().Create, books, c.Int("concurrency"))

	return outputJSON(map[string]interface{}{
		"success":  len(result.Errors) == 0,
		"imported": len(result.Imported),
		"failed":   len(result.Errors),
		"total":    len(books),
		"ids":      result.Imported,
		"errors":   result.Errors,
	})
}

type importResult struct {
	Imported []string
	Errors   []string
}

// createAll creates books with at most limit requests in flight. A failed
// book does not stop the others.
func createAll(
	ctx context.Context,
	create func(context.Context, model.NewBook) (*model.Book, error),
	books []model.NewBook,
	limit int,
) importResult {
	if limit < 1 {
		limit = 1
	}

	var (
		mu     sync.Mutex
		result importResult
		g      errgroup.Group
	)
	g.SetLimit(limit)

	for _, book := range books {
		g.Go(func() error {
			created, err := create(ctx, book)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", book.Title, err))
				return nil
			}
			result.Imported = append(result.Imported, created.ID.OID)
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(result.Imported)
	slices.Sort(result.Errors)
	return result
}

type catalogExport struct {
	ExportedAt time.Time    `json:"exported_at"`
	Books      []model.Book `json:"books"`
	Games      []model.Game `json:"games"`
}

func exportCatalog(c *cli.Context) error {
	client, s, err := getClient(c)
	if err != nil {
		return err
	}
	defer s.Close()

	books, err := client.Books().List(c.Context)
	if err != nil {
		return apiExit(err)
	}
	games, err := client.Games().List(c.Context)
	if err != nil {
		return apiExit(err)
	}

	catalog := catalogExport{
		ExportedAt: time.Now().UTC(),
		Books:      books,
		Games:      games,
	}

	outputPath := c.String("output")
	if outputPath == "" {
		return outputJSON(catalog)
	}

	if err := writeExport(afero.NewOsFs(), outputPath, catalog); err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"success": true,
		"file":    outputPath,
		"books":   len(books),
		"games":   len(games),
	})
}

func writeExport(fs afero.Fs, path string, catalog catalogExport) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := afero.WriteFile(fs, path, append(data, '\n'), os.FileMode(0o644)); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func openItem(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: readwatch open <id>", ExitUsageError)
	}
	id := c.Args().Get(0)

	client, s, err := getClient(c)
	if err != nil {
		return err
	}
	defer s.Close()

	var links map[string]string
	if c.Bool("game") {
		game, err := client.Games().Get(c.Context, id)
		if err != nil {
			return apiExit(err)
		}
		links = game.Links
	} else {
		book, err := client.Books().Get(c.Context, id)
		if err != nil {
			return apiExit(err)
		}
		links = book.Links
	}

	link, err := pickLink(links, c.String("link"))
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	if err := open.Run(link); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to open %s: %v", link, err), ExitGeneralError)
	}

	return outputJSON(map[string]interface{}{
		"opened": link,
	})
}

// pickLink returns the named link, or "source", or the alphabetically
// first one.
func pickLink(links map[string]string, name string) (string, error) {
	if name != "" {
		link, ok := links[name]
		if !ok {
			return "", fmt.Errorf("no link named %q", name)
		}
		return link, nil
	}
	if link, ok := links["source"]; ok {
		return link, nil
	}
	if len(links) == 0 {
		return "", fmt.Errorf("item has no links")
	}

	names := make([]string, 0, len(links))
	for n := range links {
		names = append(names, n)
	}
	slices.Sort(names)
	return links[names[0]], nil
}
