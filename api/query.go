package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bearodactyl/readwatch/model"
)

// Multi-valued filters are sent as one comma-joined parameter
// (genres=a,b), the form the search endpoint parses.

func encodeBookQuery(q model.BookQuery) url.Values {
	params := url.Values{}
	setString(params, "title", q.Title)
	setString(params, "author", q.Author)
	setList(params, "genres", q.Genres)
	setList(params, "tags", q.Tags)
	setFloat(params, "min_rating", q.MinRating)
	setFloat(params, "max_rating", q.MaxRating)
	setString(params, "status", q.Status)
	setBool(params, "explicit", q.Explicit)
	setString(params, "sort", q.Sort)
	return params
}

func encodeGameQuery(q model.GameQuery) url.Values {
	params := url.Values{}
	setString(params, "title", q.Title)
	setString(params, "developer", q.Developer)
	setList(params, "genres", q.Genres)
	setList(params, "tags", q.Tags)
	setFloat(params, "min_rating", q.MinRating)
	setFloat(params, "max_rating", q.MaxRating)
	setFloat(params, "exact_rating", q.ExactRating)
	setFloat(params, "min_progress", q.MinProgress)
	setFloat(params, "max_progress", q.MaxProgress)
	setFloat(params, "exact_progress", q.ExactProgress)
	setString(params, "status", q.Status)
	setBool(params, "explicit", q.Explicit)
	setString(params, "sort", q.Sort)
	setBool(params, "bad", q.Bad)
	return params
}

func setString(params url.Values, key, v string) {
	if v != "" {
		params.Set(key, v)
	}
}

func setList(params url.Values, key string, v []string) {
	if len(v) > 0 {
		params.Set(key, strings.Join(v, ","))
	}
}

func setFloat(params url.Values, key string, v *float64) {
	if v != nil {
		params.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

func setBool(params url.Values, key string, v *bool) {
	if v != nil {
		params.Set(key, strconv.FormatBool(*v))
	}
}
