package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
}

// fakeAPI is an in-memory stand-in for the catalog API. Documents are kept
// as decoded JSON so any collection can be served.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server
	token  string

	mu       sync.Mutex
	docs     map[string]map[string]map[string]any
	requests []recordedRequest
}

func newFakeAPI(t *testing.T, token string) *fakeAPI {
	f := &fakeAPI{
		t:     t,
		token: token,
		docs:  make(map[string]map[string]map[string]any),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{coll}", f.list)
	mux.HandleFunc("POST /{coll}", f.create)
	mux.HandleFunc("GET /{coll}/search", f.search)
	mux.HandleFunc("GET /{coll}/{id}", f.get)
	mux.HandleFunc("PUT /{coll}/{id}", f.update)
	mux.HandleFunc("DELETE /{coll}/{id}", f.delete)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Query:    r.URL.Query(),
			Header:   r.Header.Clone(),
		})
		f.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+f.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) client(t *testing.T, opts Options) *Client {
	opts.BaseURL = f.server.URL
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

// seed stores v (any JSON-encodable value) and returns its new id.
func (f *fakeAPI) seed(coll string, v any) string {
	data, err := json.Marshal(v)
	require.NoError(f.t, err)
	var doc map[string]any
	require.NoError(f.t, json.Unmarshal(data, &doc))

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(coll, doc)
}

func (f *fakeAPI) insert(coll string, doc map[string]any) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	doc["_id"] = map[string]any{"$oid": id}
	if f.docs[coll] == nil {
		f.docs[coll] = make(map[string]map[string]any)
	}
	f.docs[coll][id] = doc
	return id
}

func (f *fakeAPI) lastRequest() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(f.t, f.requests)
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs := []map[string]any{}
	for _, doc := range f.docs[r.PathValue("coll")] {
		docs = append(docs, doc)
	}
	writeJSON(w, http.StatusOK, docs)
}

func (f *fakeAPI) search(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	title := strings.ToLower(r.URL.Query().Get("title"))
	var genres []string
	if g := r.URL.Query().Get("genres"); g != "" {
		genres = strings.Split(g, ",")
	}

	docs := []map[string]any{}
	for _, doc := range f.docs[r.PathValue("coll")] {
		if t, _ := doc["title"].(string); !strings.Contains(strings.ToLower(t), title) {
			continue
		}
		if !hasAll(doc["genres"], genres) {
			continue
		}
		docs = append(docs, doc)
	}
	writeJSON(w, http.StatusOK, docs)
}

func hasAll(field any, want []string) bool {
	raw, _ := field.([]any)
	var have []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			have = append(have, s)
		}
	}
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

func (f *fakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := doc["_id"]; ok {
		http.Error(w, "new items must not carry an id", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.insert(r.PathValue("coll"), doc)
	writeJSON(w, http.StatusCreated, doc)
}

func (f *fakeAPI) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[r.PathValue("coll")][r.PathValue("id")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (f *fakeAPI) update(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	coll, id := r.PathValue("coll"), r.PathValue("id")
	if _, ok := f.docs[coll][id]; !ok {
		http.NotFound(w, r)
		return
	}
	doc["_id"] = map[string]any{"$oid": id}
	f.docs[coll][id] = doc
	writeJSON(w, http.StatusOK, doc)
}

func (f *fakeAPI) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	coll, id := r.PathValue("coll"), r.PathValue("id")
	if _, ok := f.docs[coll][id]; !ok {
		http.NotFound(w, r)
		return
	}
	delete(f.docs[coll], id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
