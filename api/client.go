// Package api is the client for the readwatch catalog API.
//
// Every operation sends exactly one request. Failures are logged and
// returned as *RequestError; nothing is retried or cached.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bearodactyl/readwatch/credential"
	"github.com/bearodactyl/readwatch/logger"
	"github.com/bearodactyl/readwatch/model"
	"golang.org/x/text/language"
)

const (
	DefaultBaseURL = "https://api.bearodactyl.dev"

	BooksPath = "read-watch"
	GamesPath = "games"
)

// Books is the book collection.
type Books = Collection[model.Book, model.NewBook, model.BookQuery]

// Games is the game collection.
type Games = Collection[model.Game, model.NewGame, model.GameQuery]

// Options configures a Client.
type Options struct {
	// BaseURL of the API, scheme and host required.
	BaseURL string

	// HTTPClient sends the requests.
	HTTPClient *http.Client

	// Credentials supplies the bearer token, read again on every request.
	Credentials credential.Provider

	// Locale orders List results and is sent with searches.
	// language.Und uses the root collation and sends no locale.
	Locale language.Tag

	// Logger receives one line per failed operation.
	Logger *logger.Logger
}

// DefaultOptions constructs default Options.
//
// Note: Credentials is empty; set it unless the API is public.
func DefaultOptions() Options {
	return Options{
		BaseURL:     DefaultBaseURL,
		HTTPClient:  &http.Client{},
		Credentials: credential.Static(""),
		Locale:      language.Und,
		Logger:      logger.New(),
	}
}

// Client is the readwatch API client. It is safe for concurrent use.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	credentials credential.Provider
	locale      language.Tag
	logger      *logger.Logger

	books *Books
	games *Games
}

// New constructs a Client. Zero-valued options fall back to the defaults.
func New(options Options) (*Client, error) {
	defaults := DefaultOptions()
	if options.BaseURL == "" {
		options.BaseURL = defaults.BaseURL
	}
	if options.HTTPClient == nil {
		options.HTTPClient = defaults.HTTPClient
	}
	if options.Credentials == nil {
		options.Credentials = defaults.Credentials
	}
	if options.Logger == nil {
		options.Logger = defaults.Logger
	}

	u, err := url.Parse(options.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", options.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", options.BaseURL)
	}

	c := &Client{
		baseURL:     u,
		httpClient:  options.HTTPClient,
		credentials: options.Credentials,
		locale:      options.Locale,
		logger:      options.Logger,
	}
	c.books = &Books{
		client:   c,
		path:     BooksPath,
		singular: "book",
		plural:   "books",
		title:    func(b *model.Book) string { return b.Title },
		encode:   encodeBookQuery,
	}
	c.games = &Games{
		client:   c,
		path:     GamesPath,
		singular: "game",
		plural:   "games",
		title:    func(g *model.Game) string { return g.Title },
		encode:   encodeGameQuery,
	}
	return c, nil
}

// Books returns the book collection.
func (c *Client) Books() *Books {
	return c.books
}

// Games returns the game collection.
func (c *Client) Games() *Games {
	return c.games
}

// Locale returns the configured locale.
func (c *Client) Locale() language.Tag {
	return c.locale
}

func (c *Client) request(
	ctx context.Context,
	method string,
	path []string,
	params url.Values,
	body any,
	res any,
) error {
	u := c.baseURL.JoinPath(path...)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return err
	}

	token, err := c.credentials.Token(ctx)
	if err != nil {
		return err
	}
	req.Header = headers(token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if res == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty response body")
		}
		return err
	}
	return nil
}

func headers(token string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("Authorization", "Bearer "+token)
	return h
}

// fail logs err once and wraps it for the caller.
func (c *Client) fail(op, id string, err error) error {
	reqErr := &RequestError{Op: op, ID: id, Err: err}
	c.logger.Log("%v", reqErr)
	return reqErr
}
