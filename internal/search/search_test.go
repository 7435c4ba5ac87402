package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	f.bodies[key] = string(body)
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/tasks/_doc/"):
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodDelete && r.URL.Path == "/tasks/_doc/missing":
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	case r.Method == http.MethodDelete:
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_source":{"uuid":"t1","name":"Buy milk","description":"2l","status":"PENDING","tasklist_uuid":"l1","user_id":7}},
			{"_source":{"uuid":"t2","name":"Buy bread","description":"rye","status":"PENDING","tasklist_uuid":"l1","user_id":8}}
		]}}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newClient(t *testing.T) (*Client, *fakeES) {
	t.Helper()
	fake := &fakeES{bodies: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{URL: srv.URL, Index: "tasks"})
	require.NoError(t, err)
	return c, fake
}

func TestBuildQuery_AlwaysFiltersOwner(t *testing.T) {
	t.Parallel()

	q := BuildQuery(7, "  milk ", 0, 10)
	raw, err := json.Marshal(q)
	require.NoError(t, err)

	var decoded struct {
		Query struct {
			Bool struct {
				Must struct {
					MultiMatch struct {
						Query string `json:"query"`
					} `json:"multi_match"`
				} `json:"must"`
				Filter []struct {
					Term map[string]uint `json:"term"`
				} `json:"filter"`
			} `json:"bool"`
		} `json:"query"`
		From int `json:"from"`
		Size int `json:"size"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "milk", decoded.Query.Bool.Must.MultiMatch.Query)
	require.Len(t, decoded.Query.Bool.Filter, 1)
	assert.Equal(t, uint(7), decoded.Query.Bool.Filter[0].Term["user_id"])
	assert.Equal(t, 10, decoded.Size)
}

func TestClient_IndexAndDelete(t *testing.T) {
	t.Parallel()
	c, fake := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.IndexTask(ctx, Document{UUID: "t1", Name: "Buy milk", UserID: 7}))
	require.NoError(t, c.DeleteTask(ctx, "t1"))
	require.NoError(t, c.DeleteTask(ctx, "missing"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "PUT /tasks/_doc/t1")
	assert.Contains(t, fake.requests, "DELETE /tasks/_doc/t1")
	assert.Contains(t, fake.bodies["PUT /tasks/_doc/t1"], `"user_id":7`)
}

func TestClient_SearchDropsForeignHits(t *testing.T) {
	t.Parallel()
	c, fake := newClient(t)

	total, docs, err := c.Search(context.Background(), 7, "buy", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, docs, 1)
	assert.Equal(t, "t1", docs[0].UUID)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	var body string
	for k, v := range fake.bodies {
		if strings.HasSuffix(k, "/_search") {
			body = v
		}
	}
	assert.Contains(t, body, `"user_id":7`)
}

func TestNop(t *testing.T) {
	t.Parallel()
	var ix Indexer = Nop{}
	assert.NoError(t, ix.IndexTask(context.Background(), Document{}))
	assert.NoError(t, ix.DeleteTask(context.Background(), "x"))
}
