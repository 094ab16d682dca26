package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/aros-club/aros-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// NewsIndex mirrors news items into an Elasticsearch index for full-text search.
type NewsIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewNewsIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *NewsIndex {
	return &NewsIndex{es: es, index: index, logger: logger}
}

type newsDoc struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ShortSynopsis string    `json:"shortSynopsis"`
	Synopsis      string    `json:"synopsis"`
	CreatedAt     time.Time `json:"createdAt"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	ImageID       string    `json:"imageId,omitempty"`
}

func toDoc(n *entity.News) newsDoc {
	return newsDoc{
		ID:            n.ID,
		Title:         n.Title,
		ShortSynopsis: n.ShortSynopsis,
		Synopsis:      n.Synopsis,
		CreatedAt:     n.CreatedAt,
		ImageURL:      n.ImageURL,
		ImageID:       n.ImageID,
	}
}

func (d newsDoc) entity() entity.News {
	return entity.News{
		ID:            d.ID,
		Title:         d.Title,
		ShortSynopsis: d.ShortSynopsis,
		Synopsis:      d.Synopsis,
		CreatedAt:     d.CreatedAt,
		ImageURL:      d.ImageURL,
		ImageID:       d.ImageID,
	}
}

// Index stores n under its id, replacing any earlier version.
func (x *NewsIndex) Index(ctx context.Context, n *entity.News) error {
	b, err := json.Marshal(toDoc(n))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: n.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", n.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match over the text fields, newest first on ties.
func (x *NewsIndex) Search(ctx context.Context, q string, size int) ([]entity.News, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "shortSynopsis^2", "synopsis"},
			},
		},
		"sort": []any{"_score", map[string]any{"createdAt": "desc"}},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if x.logger != nil {
			x.logger.WithField("status", res.Status()).WithField("q", q).Warn("es search response error")
		}
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Source newsDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.News, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		n := h.Source.entity()
		if n.ID == "" {
			n.ID = h.ID
		}
		out = append(out, n)
	}
	return out, nil
}
