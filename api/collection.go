package api

import (
	"context"
	"net/http"
	"net/url"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collection is one resource collection of the API. Item is the stored
// record, New the record before the API assigns it an id, and Query the
// search filter.
type Collection[Item, New, Query any] struct {
	client   *Client
	path     string
	singular string
	plural   string
	title    func(*Item) string
	encode   func(Query) url.Values
}

// List fetches every item, ordered by title under the client's locale.
func (c *Collection[Item, New, Query]) List(ctx context.Context) ([]Item, error) {
	op := "fetch " + c.plural
	var items []Item
	if err := c.client.request(ctx, http.MethodGet, []string{c.path}, nil, nil, &items); err != nil {
		return nil, c.client.fail(op, "", err)
	}
	sortByTitle(items, c.title, c.client.locale)
	return items, nil
}

// Get fetches one item by id.
func (c *Collection[Item, New, Query]) Get(ctx context.Context, id string) (*Item, error) {
	op := "fetch " + c.singular
	if id == "" {
		return nil, c.client.fail(op, id, ErrMissingID)
	}
	var item Item
	if err := c.client.request(ctx, http.MethodGet, []string{c.path, id}, nil, nil, &item); err != nil {
		return nil, c.client.fail(op, id, err)
	}
	return &item, nil
}

// Create stores item and returns it with its assigned id.
func (c *Collection[Item, New, Query]) Create(ctx context.Context, item New) (*Item, error) {
	op := "create " + c.singular
	var created Item
	if err := c.client.request(ctx, http.MethodPost, []string{c.path}, nil, item, &created); err != nil {
		return nil, c.client.fail(op, "", err)
	}
	return &created, nil
}

// Update replaces the item stored under id.
func (c *Collection[Item, New, Query]) Update(ctx context.Context, id string, item Item) (*Item, error) {
	op := "update " + c.singular
	if id == "" {
		return nil, c.client.fail(op, id, ErrMissingID)
	}
	var updated Item
	if err := c.client.request(ctx, http.MethodPut, []string{c.path, id}, nil, item, &updated); err != nil {
		return nil, c.client.fail(op, id, err)
	}
	return &updated, nil
}

// Delete removes the item stored under id.
func (c *Collection[Item, New, Query]) Delete(ctx context.Context, id string) error {
	op := "delete " + c.singular
	if id == "" {
		return c.client.fail(op, id, ErrMissingID)
	}
	if err := c.client.request(ctx, http.MethodDelete, []string{c.path, id}, nil, nil, nil); err != nil {
		return c.client.fail(op, id, err)
	}
	return nil
}

// Search fetches the items matching q, in the order the API returns them.
func (c *Collection[Item, New, Query]) Search(ctx context.Context, q Query) ([]Item, error) {
	op := "search " + c.plural
	params := c.encode(q)
	if c.client.locale != language.Und {
		params.Set("locale", c.client.locale.String())
	}
	var items []Item
	if err := c.client.request(ctx, http.MethodGet, []string{c.path, "search"}, params, nil, &items); err != nil {
		return nil, c.client.fail(op, "", err)
	}
	return items, nil
}

// sortByTitle orders items by title using locale collation. Equal titles
// keep the order the API sent them in.
func sortByTitle[Item any](items []Item, title func(*Item) string, locale language.Tag) {
	col := collate.New(locale)
	slices.SortStableFunc(items, func(a, b Item) int {
		return col.CompareString(title(&a), title(&b))
	})
}
