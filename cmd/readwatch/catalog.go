package main

import (
	"fmt"

	"github.com/bearodactyl/readwatch/api"
	"github.com/bearodactyl/readwatch/model"
	"github.com/urfave/cli/v2"
)

func booksCommand() *cli.Command {
	return &cli.Command{
		Name:  "books",
		Usage: "List and edit books",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all books, ordered by title",
				Action: listAction((*api.Client).Books),
			},
			{
				Name:      "get",
				Usage:     "Show one book",
				ArgsUsage: "<id>",
				Action:    getAction((*api.Client).Books),
			},
			{
				Name:   "add",
				Usage:  "Add a book",
				Flags:  bookFlags(),
				Action: addBook,
			},
			{
				Name:      "update",
				Usage:     "Change fields of a book",
				ArgsUsage: "<id>",
				Flags:     bookFlags(),
				Action:    updateBook,
			},
			{
				Name:      "delete",
				Usage:     "Delete a book",
				ArgsUsage: "<id>",
				Action:    deleteAction((*api.Client).Books),
			},
			{
				Name:  "search",
				Usage: "Search books",
				Flags: bookFilterFlags(),
				Action: func(c *cli.Context) error {
					query, err := bookQuery(c)
					if err != nil {
						return cli.Exit(err.Error(), ExitUsageError)
					}
					return searchAction((*api.Client).Books, query)(c)
				},
			},
		},
	}
}

func gamesCommand() *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "List and edit games",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all games, ordered by title",
				Action: listAction((*api.Client).Games),
			},
			{
				Name:      "get",
				Usage:     "Show one game",
				ArgsUsage: "<id>",
				Action:    getAction((*api.Client).Games),
			},
			{
				Name:   "add",
				Usage:  "Add a game",
				Flags:  gameFlags(),
				Action: addGame,
			},
			{
				Name:      "update",
				Usage:     "Change fields of a game",
				ArgsUsage: "<id>",
				Flags:     gameFlags(),
				Action:    updateGame,
			},
			{
				Name:      "delete",
				Usage:     "Delete a game",
				ArgsUsage: "<id>",
				Action:    deleteAction((*api.Client).Games),
			},
			{
				Name:  "search",
				Usage: "Search games",
				Flags: gameFilterFlags(),
				Action: func(c *cli.Context) error {
					query, err := gameQuery(c)
					if err != nil {
						return cli.Exit(err.Error(), ExitUsageError)
					}
					return searchAction((*api.Client).Games, query)(c)
				},
			},
		},
	}
}

func listAction[I, N, Q any](collection func(*api.Client) *api.Collection[I, N, Q]) cli.ActionFunc {
	return func(c *cli.Context) error {
		client, s, err := getClient(c)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := collection(client).List(c.Context)
		if err != nil {
			return apiExit(err)
		}

		return outputJSON(map[string]interface{}{
			"count": len(items),
			"items": items,
		})
	}
}

func getAction[I, N, Q any](collection func(*api.Client) *api.Collection[I, N, Q]) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit(fmt.Sprintf("Usage: readwatch %s <id>", c.Command.FullName()), ExitUsageError)
		}

		client, s, err := getClient(c)
		if err != nil {
			return err
		}
		defer s.Close()

		item, err := collection(client).Get(c.Context, c.Args().Get(0))
		if err != nil {
			return apiExit(err)
		}

		return outputJSON(item)
	}
}

func deleteAction[I, N, Q any](collection func(*api.Client) *api.Collection[I, N, Q]) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit(fmt.Sprintf("Usage: readwatch %s <id>", c.Command.FullName()), ExitUsageError)
		}

		client, s, err := getClient(c)
		if err != nil {
			return err
		}
		defer s.Close()

		id := c.Args().Get(0)
		if err := collection(client).Delete(c.Context, id); err != nil {
			return apiExit(err)
		}

		return outputJSON(map[string]interface{}{
			"success": true,
			"id":      id,
		})
	}
}

func searchAction[I, N, Q any](collection func(*api.Client) *api.Collection[I, N, Q], query Q) cli.ActionFunc {
	return func(c *cli.Context) error {
		client, s, err := getClient(c)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := collection(client).Search(c.Context, query)
		if err != nil {
			return apiExit(err)
		}

		return outputJSON(map[string]interface{}{
			"count": len(items),
			"items": items,
		})
	}
}

func addBook(c *cli.Context) error {
	book := model.NewBook{
		Genres: []string{},
		Tags:   []string{},
		Links:  map[string]string{},
	}
	if err := applyBookFlags(c, &book); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	if err := book.Validate(); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	client, s, err := getClient(c)
	if err != nil {
		return err
	}
	defer s.Close()

	created, err := client.Books().Create(c.Context, book)
	if err != nil {
		return apiExit(err)
	}

	return outputJSON(map[string]interface{}{
		"success": true,
		"book":    created,
	})
}

func updateBook(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: readwatch books update <id>", ExitUsageError)
	}
	id := c.Args().Get(0)

	client, s, err := getClient(c)
	if err != nil {
		return err
	}
	defer s.Close()

	// Updates replace the whole record, so start from the stored one.
	book, err := client.Books().Get(c.Context, id)
	if err != nil {
		return apiExit(err)
	}
	if err := applyBookFlags(c, &book.NewBook); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	updated, err := client.Books().Update(c.Context, id, *book)
	if err != nil {
		return apiExit(err)
	}

	return outputJSON(map[string]interface{}{
		"success": true,
		"book":    updated,
	})
}

func addGame(c *cli.Context) error {
	game := model.NewGame{
		Genres: []string{},
		Tags:   []string{},
		Links:  map[string]string{},
	}
	if err := applyGameFlags(c, &game); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	if err := game.Validate(); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	client, s, err := getClient(c)
	if err != nil {
		return err
	}
	defer s.Close()

	created, err := client.Games().Create(c.Context, game)
	if err != nil {
		return apiExit(err)
	}

	return outputJSON(map[string]interface{}{
		"success": true,
		"game":    created,
	})
}

func updateGame(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: readwatch games update <id>", ExitUsageError)
	}
	id := c.Args().Get(0)

	client, s, err := getClient(c)
	if err != nil {
		return err
	}
	defer s.Close()

	game, err := client.Games().Get(c.Context, id)
	if err != nil {
		return apiExit(err)
	}
	if err := applyGameFlags(c, &game.NewGame); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	if err := game.Validate(); err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	updated, err := client.Games().Update(c.Context, id, *game)
	if err != nil {
		return apiExit(err)
	}

	return outputJSON(map[string]interface{}{
		"success": true,
		"game":    updated,
	})
}
