package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/fadedpez/blackjackpalace/internal/logging"
	"github.com/fadedpez/blackjackpalace/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL      string
	Username string
	Password string
	Index    string
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:   "http://localhost:9200",
		Index: "palace_rounds",
	}
}

const roundMapping = `{
	"mappings": {
		"properties": {
			"round_id": { "type": "keyword" },
			"game_id": { "type": "keyword" },
			"round_number": { "type": "integer" },
			"completed_at": { "type": "date" },
			"dealer_value": { "type": "integer" },
			"early_settlement": { "type": "boolean" },
			"player_names": { "type": "keyword" },
			"dealer_cards": {
				"properties": {
					"suit": { "type": "keyword" },
					"rank": { "type": "keyword" }
				}
			},
			"players": {
				"type": "nested",
				"properties": {
					"name": { "type": "keyword" },
					"value": { "type": "integer" },
					"bet": { "type": "integer" },
					"payout": { "type": "integer" },
					"insurance_stake": { "type": "integer" },
					"insurance_payout": { "type": "integer" },
					"outcome": { "type": "keyword" },
					"doubled_down": { "type": "boolean" },
					"chips_after": { "type": "integer" },
					"new_badges": { "type": "keyword" }
				}
			}
		}
	}
}`

// roundDocument is the indexed form of a round. player_names is flattened
// so a plain term query finds every round a player sat in.
type roundDocument struct {
	entities.RoundResult
	PlayerNames []string `json:"player_names"`
}

// ElasticsearchRepository archives rounds in a single index
type ElasticsearchRepository struct {
	client *elasticsearch.Client
	index  string
	logger *log.Logger
}

// NewElasticsearchRepository connects and creates the index when it is missing
func NewElasticsearchRepository(ctx context.Context, config *ElasticsearchConfig, logger *log.Logger) (*ElasticsearchRepository, error) {
	if config == nil {
		config = DefaultElasticsearchConfig()
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	index := config.Index
	if index == "" {
		index = DefaultElasticsearchConfig().Index
	}

	repo := &ElasticsearchRepository{
		client: client,
		index:  index,
		logger: logging.OrDiscard(logger),
	}
	if err := repo.initIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return repo, nil
}

func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if round index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(roundMapping)),
	}
	res, err = req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating round index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating round index: %s", res.String())
	}

	r.logger.Info("Created round index", "index", r.index)
	return nil
}

// SaveRoundResult indexes the round under its round id
func (r *ElasticsearchRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	doc := roundDocument{RoundResult: *result, PlayerNames: result.PlayerNames()}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling round result: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: result.ID,
		Body:       bytes.NewReader(jsonData),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error indexing round result: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing round result: %s", res.String())
	}

	return nil
}

// GetPlayerResults returns the player's most recent rounds, newest first
func (r *ElasticsearchRepository) GetPlayerResults(ctx context.Context, name string, limit int) ([]*entities.RoundResult, error) {
	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"player_names": name},
		},
		"sort": []any{
			map[string]any{"completed_at": map[string]any{"order": "desc"}},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("error building player query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithSize(normalizeLimit(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching for player rounds: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching for player rounds: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source roundDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing player rounds: %w", err)
	}

	rounds := make([]*entities.RoundResult, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		round := hit.Source.RoundResult
		rounds = append(rounds, &round)
	}
	return rounds, nil
}

// Close is a no-op; the client holds no open resources
func (r *ElasticsearchRepository) Close() error {
	return nil
}
