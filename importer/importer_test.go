package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shelfRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Someone's bookshelf: all</title>
    <item>
      <title>Dune</title>
      <link>https://www.goodreads.com/review/show/1</link>
      <author_name>Frank Herbert</author_name>
      <book_large_image_url>https://images.example.com/dune.jpg</book_large_image_url>
      <book_description>Spice and sand.</book_description>
      <user_rating>5</user_rating>
      <user_review>Still great.</user_review>
      <user_shelves>read, sci-fi</user_shelves>
    </item>
    <item>
      <title>  Piranesi  </title>
      <link>https://www.goodreads.com/review/show/2</link>
      <author_name>Susanna Clarke</author_name>
      <user_rating>0</user_rating>
      <user_shelves>to-read</user_shelves>
    </item>
    <item>
      <title></title>
      <link>https://www.goodreads.com/review/show/3</link>
    </item>
  </channel>
</rss>`

const plainRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Reading log</title>
    <item>
      <title>The Left Hand of Darkness</title>
      <link>https://example.com/books/lhod</link>
      <description>Winter on Gethen.</description>
      <category>sci-fi</category>
      <category>classic</category>
      <category>sci-fi</category>
    </item>
  </channel>
</rss>`

func TestImporter_ParseShelf(t *testing.T) {
	books, err := New(afero.NewMemMapFs()).Parse(shelfRSS)
	require.NoError(t, err)
	require.Len(t, books, 2, "items without a title are skipped")

	dune := books[0]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "Frank Herbert", dune.Author)
	assert.Equal(t, "https://images.example.com/dune.jpg", dune.CoverImage)
	assert.Equal(t, "Spice and sand.", dune.Description)
	assert.Equal(t, 5.0, dune.Rating)
	assert.Equal(t, "Still great.", dune.MyThoughts)
	assert.Equal(t, "Finished", dune.Status)
	assert.Equal(t, []string{"sci-fi"}, dune.Tags)
	assert.Equal(t, "https://www.goodreads.com/review/show/1", dune.Links["source"])

	piranesi := books[1]
	assert.Equal(t, "Piranesi", piranesi.Title)
	assert.Equal(t, "Planned", piranesi.Status)
	assert.Empty(t, piranesi.Tags)
}

func TestImporter_ParsePlainFeed(t *testing.T) {
	books, err := New(afero.NewMemMapFs()).Parse(plainRSS)
	require.NoError(t, err)
	require.Len(t, books, 1)

	book := books[0]
	assert.Equal(t, "The Left Hand of Darkness", book.Title)
	assert.Equal(t, "Winter on Gethen.", book.Description)
	assert.Equal(t, []string{"sci-fi", "classic"}, book.Tags)
	assert.Equal(t, DefaultStatus, book.Status)
	assert.NotNil(t, book.Genres)
	assert.NotNil(t, book.Links)
}

func TestImporter_ParseInvalidFeed(t *testing.T) {
	imp := New(afero.NewMemMapFs())

	_, err := imp.Parse("<invalid>xml</broken>")
	assert.Error(t, err, "Should error on invalid XML")

	_, err = imp.Parse("")
	assert.Error(t, err, "Should error on empty string")
}

func TestImporter_ParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/exports/shelf.xml", []byte(plainRSS), 0o644))

	imp := New(fs)
	books, err := imp.ParseFile("/exports/shelf.xml")
	require.NoError(t, err)
	assert.Len(t, books, 1)

	_, err = imp.ParseFile("/exports/missing.xml")
	assert.Error(t, err)
}

func TestImporter_LoadDispatchesOnScheme(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(plainRSS))
	}))
	defer server.Close()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "shelf.xml", []byte(shelfRSS), 0o644))
	imp := New(fs)
	ctx := context.Background()

	fromURL, err := imp.Load(ctx, server.URL+"/shelf.rss")
	require.NoError(t, err)
	assert.Len(t, fromURL, 1)

	fromFile, err := imp.Load(ctx, "shelf.xml")
	require.NoError(t, err)
	assert.Len(t, fromFile, 2)
}

func TestImporter_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	_, err := New(afero.NewMemMapFs()).Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}
