// Package search keeps an Elasticsearch index of tasks and answers
// full-text queries over it. Every query is pinned to one owner.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
)

type Document struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	TaskListUUID string `json:"tasklist_uuid"`
	UserID       uint   `json:"user_id"`
}

type Indexer interface {
	IndexTask(ctx context.Context, doc Document) error
	DeleteTask(ctx context.Context, id string) error
}

type Client struct {
	es    *elasticsearch.Client
	index string
}

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

func NewClient(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	return &Client{es: es, index: cfg.Index}, nil
}

func (c *Client) IndexTask(ctx context.Context, doc Document) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}
	res, err := c.es.Index(c.index, &buf,
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(doc.UUID),
	)
	if err != nil {
		return fmt.Errorf("index task: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index task: %s", res.Status())
	}
	return nil
}

// DeleteTask removes a task document. A document that was never indexed is
// not an error.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	res, err := c.es.Delete(c.index, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete task: %s", res.Status())
	}
	return nil
}

func BuildQuery(userID uint, q string, from, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     strings.TrimSpace(q),
						"fields":    []string{"name^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"user_id": userID}},
				},
			},
		},
		"from": from,
		"size": size,
	}
}

func (c *Client) Search(ctx context.Context, userID uint, q string, from, size int) (int64, []Document, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(BuildQuery(userID, q, from, size)); err != nil {
		return 0, nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]Document, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		// the filter already pins the owner; this guards against a bad mapping
		if hit.Source.UserID != userID {
			continue
		}
		docs = append(docs, hit.Source)
	}
	return r.Hits.Total.Value, docs, nil
}

type Nop struct{}

func (Nop) IndexTask(context.Context, Document) error { return nil }
func (Nop) DeleteTask(context.Context, string) error  { return nil }
