package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"

	"github.com/aros-club/aros-api/internal/domain/entity"
	"github.com/aros-club/aros-api/pkg/helpers"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, fn func(r *http.Request) (int, string)) *elasticsearch.Client {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			status, body := fn(r)
			h := http.Header{}
			h.Set("Content-Type", "application/json")
			h.Set("X-Elastic-Product", "Elasticsearch")
			return &http.Response{
				StatusCode: status,
				Status:     http.StatusText(status),
				Header:     h,
				Body:       io.NopCloser(strings.NewReader(body)),
				Request:    r,
			}, nil
		}),
	})
	require.NoError(t, err)
	return es
}

func TestNewsIndexIndex(t *testing.T) {
	var gotPath string
	var gotDoc map[string]any
	es := newTestClient(t, func(r *http.Request) (int, string) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotDoc)
		return http.StatusCreated, `{"result":"created"}`
	})
	x := NewNewsIndex(es, "news", helpers.NewNopLogger())

	n := &entity.News{ID: "n-1", Title: "Club night", ShortSynopsis: "Short", Synopsis: "Long", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, x.Index(context.Background(), n))
	require.Equal(t, "/news/_doc/n-1", gotPath)
	require.Equal(t, "Club night", gotDoc["title"])
	require.Equal(t, "2024-01-02T03:04:05Z", gotDoc["createdAt"])
}

func TestNewsIndexIndexErrorStatus(t *testing.T) {
	es := newTestClient(t, func(*http.Request) (int, string) {
		return http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`
	})
	x := NewNewsIndex(es, "news", nil)
	require.Error(t, x.Index(context.Background(), &entity.News{ID: "n-1"}))
}

func TestNewsIndexSearch(t *testing.T) {
	var gotQuery map[string]any
	es := newTestClient(t, func(r *http.Request) (int, string) {
		require.Equal(t, "/news/_search", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotQuery)
		return http.StatusOK, `{"hits":{"hits":[
			{"_id":"a","_source":{"id":"a","title":"Club night","shortSynopsis":"s","synopsis":"l","createdAt":"2024-01-02T00:00:00Z"}},
			{"_id":"b","_source":{"title":"Old source without id","createdAt":"2023-01-02T00:00:00Z"}}
		]}}`
	})
	x := NewNewsIndex(es, "news", helpers.NewNopLogger())

	out, err := x.Search(context.Background(), "club", 5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "Club night", out[0].Title)
	require.Equal(t, "b", out[1].ID)
	require.EqualValues(t, 5, gotQuery["size"])
	mm := gotQuery["query"].(map[string]any)["multi_match"].(map[string]any)
	require.Equal(t, "club", mm["query"])
}

func TestNewsIndexSearchErrorStatus(t *testing.T) {
	es := newTestClient(t, func(*http.Request) (int, string) {
		return http.StatusNotFound, `{"error":"index_not_found_exception"}`
	})
	_, err := NewNewsIndex(es, "news", helpers.NewNopLogger()).Search(context.Background(), "x", 5)
	require.Error(t, err)
}
