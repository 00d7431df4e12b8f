package history

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElasticsearch answers the handful of endpoints the repository uses
type fakeElasticsearch struct {
	*httptest.Server
	mu       sync.Mutex
	index    string
	created  bool
	mapping  string
	docs     map[string]json.RawMessage
	refresh  []string
	searches int
}

func newFakeElasticsearch(t *testing.T) *fakeElasticsearch {
	t.Helper()
	f := &fakeElasticsearch{index: "palace_rounds", docs: map[string]json.RawMessage{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeElasticsearch) handle(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	body, _ := io.ReadAll(req.Body)
	path := strings.Trim(req.URL.Path, "/")

	switch {
	case path == "":
		io.WriteString(w, `{"version":{"number":"8.17.1"},"tagline":"You Know, for Search"}`)

	case path == f.index && req.Method == http.MethodHead:
		if !f.created {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)

	case path == f.index && req.Method == http.MethodPut:
		f.created = true
		f.mapping = string(body)
		io.WriteString(w, `{"acknowledged":true,"index":"`+f.index+`"}`)

	case strings.HasPrefix(path, f.index+"/_doc/"):
		id := strings.TrimPrefix(path, f.index+"/_doc/")
		f.docs[id] = json.RawMessage(body)
		f.refresh = append(f.refresh, req.URL.Query().Get("refresh"))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"_id":"`+id+`","result":"created"}`)

	case path == f.index+"/_search":
		f.searches++
		f.search(w, req, body)

	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"unexpected request `+req.Method+` `+path+`"}`)
	}
}

func (f *fakeElasticsearch) search(w http.ResponseWriter, req *http.Request, body []byte) {
	var query struct {
		Query struct {
			Term struct {
				PlayerNames string `json:"player_names"`
			} `json:"term"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &query); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	type hit struct {
		completedAt string
		source      json.RawMessage
	}
	var hits []hit
	for _, raw := range f.docs {
		var doc struct {
			CompletedAt string   `json:"completed_at"`
			PlayerNames []string `json:"player_names"`
		}
		_ = json.Unmarshal(raw, &doc)
		for _, name := range doc.PlayerNames {
			if name == query.Query.Term.PlayerNames {
				hits = append(hits, hit{completedAt: doc.CompletedAt, source: raw})
				break
			}
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].completedAt > hits[j].completedAt })

	if size, err := strconv.Atoi(req.URL.Query().Get("size")); err == nil && len(hits) > size {
		hits = hits[:size]
	}

	type esHit struct {
		Source json.RawMessage `json:"_source"`
	}
	resp := struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []esHit `json:"hits"`
		} `json:"hits"`
	}{}
	resp.Hits.Total.Value = len(hits)
	resp.Hits.Hits = []esHit{}
	for _, h := range hits {
		resp.Hits.Hits = append(resp.Hits.Hits, esHit{Source: h.source})
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func TestElasticsearchCreatesIndexOnce(t *testing.T) {
	ctx := context.Background()
	srv := newFakeElasticsearch(t)

	_, err := NewElasticsearchRepository(ctx, &ElasticsearchConfig{URL: srv.URL}, nil)
	require.NoError(t, err)
	assert.True(t, srv.created)
	assert.Contains(t, srv.mapping, `"player_names": { "type": "keyword" }`)

	srv.mapping = ""
	_, err = NewElasticsearchRepository(ctx, &ElasticsearchConfig{URL: srv.URL}, nil)
	require.NoError(t, err)
	assert.Empty(t, srv.mapping, "existing index is left alone")
}

func TestElasticsearchIndexesWithRefresh(t *testing.T) {
	ctx := context.Background()
	srv := newFakeElasticsearch(t)
	repo, err := NewElasticsearchRepository(ctx, &ElasticsearchConfig{URL: srv.URL}, nil)
	require.NoError(t, err)

	round := testRound("round-42", time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC), "Ana", "Bo")
	require.NoError(t, repo.SaveRoundResult(ctx, round))

	require.Contains(t, srv.docs, "round-42")
	assert.Equal(t, []string{"true"}, srv.refresh)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(srv.docs["round-42"], &doc))
	assert.Equal(t, "round-42", doc["round_id"])
	assert.Equal(t, []any{"Ana", "Bo"}, doc["player_names"])
}

func TestElasticsearchSearchError(t *testing.T) {
	ctx := context.Background()
	srv := newFakeElasticsearch(t)
	repo, err := NewElasticsearchRepository(ctx, &ElasticsearchConfig{URL: srv.URL, Index: "palace_rounds"}, nil)
	require.NoError(t, err)

	repo.index = "missing"
	_, err = repo.GetPlayerResults(ctx, "Ana", 5)
	assert.Error(t, err)
}
