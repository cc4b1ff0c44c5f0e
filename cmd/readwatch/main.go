package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bearodactyl/readwatch/api"
	"github.com/bearodactyl/readwatch/credential"
	"github.com/bearodactyl/readwatch/logger"
	"github.com/bearodactyl/readwatch/store"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "readwatch",
		Usage:   "Manage the books and games catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   api.DefaultBaseURL,
				Usage:   "API base URL",
				EnvVars: []string{"READWATCH_API"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Value:   getDefaultDBPath(),
				Usage:   "Local database file path (holds the API token)",
				EnvVars: []string{"READWATCH_DB"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "API token, overrides the stored one",
				EnvVars: []string{"READWATCH_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "locale",
				Usage:   "BCP 47 locale for sorting and search (e.g. en, de-AT)",
				EnvVars: []string{"READWATCH_LOCALE"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log failed requests to stderr",
			},
		},
		Commands: []*cli.Command{
			booksCommand(),
			gamesCommand(),
			tokenCommand(),
			importCommand(),
			exportCommand(),
			openCommand(),
		},
	}
}

func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "readwatch.db"
	}
	return filepath.Join(home, ".config", "readwatch", "readwatch.db")
}

func getStore(c *cli.Context) (*store.Store, error) {
	dbPath := c.String("db")

	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return s, nil
}

// getClient builds an API client whose token comes from --token first and
// the local store second. The caller closes the returned store.
func getClient(c *cli.Context) (*api.Client, *store.Store, error) {
	locale := language.Und
	if tag := c.String("locale"); tag != "" {
		parsed, err := language.Parse(tag)
		if err != nil {
			return nil, nil, cli.Exit(fmt.Sprintf("Invalid locale %q: %v", tag, err), ExitUsageError)
		}
		locale = parsed
	}

	s, err := getStore(c)
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), ExitDataError)
	}

	log := logger.New()
	if c.Bool("verbose") {
		log.SetOutput(os.Stderr)
	}

	opts := api.DefaultOptions()
	opts.BaseURL = c.String("api")
	opts.Locale = locale
	opts.Logger = log.With("readwatch")
	opts.Credentials = credential.Chain{
		credential.Static(c.String("token")),
		credential.NewKV(s),
	}

	client, err := api.New(opts)
	if err != nil {
		s.Close()
		return nil, nil, cli.Exit(err.Error(), ExitUsageError)
	}
	return client, s, nil
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// apiExit maps an access error to an exit code.
func apiExit(err error) error {
	return cli.Exit(err.Error(), ExitDataError)
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage the stored API token",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Store the API token",
				ArgsUsage: "<token>",
				Action:    setToken,
			},
			{
				Name:   "show",
				Usage:  "Show the stored API token (masked)",
				Action: showToken,
			},
			{
				Name:   "clear",
				Usage:  "Remove the stored API token",
				Action: clearToken,
			},
		},
	}
}

func setToken(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: readwatch token set <token>", ExitUsageError)
	}

	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	if err := credential.NewKV(s).Set(c.Args().Get(0)); err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"success": true,
	})
}

func showToken(c *cli.Context) error {
	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	token, err := credential.NewKV(s).Token(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"stored": token != "",
		"token":  maskToken(token),
	})
}

func clearToken(c *cli.Context) error {
	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	if err := credential.NewKV(s).Clear(); err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"success": true,
	})
}

// maskToken keeps the first four characters of tokens long enough to
// identify.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"[:len(token)]
	}
	return token[:4] + "********"
}
