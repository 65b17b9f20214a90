package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/hatbot/pkg/entities"
	"github.com/fadedpez/hatbot/pkg/storage"
)

// maxGuilds bounds a single Load; one document is stored per guild
const maxGuilds = 10000

const guildMapping = `{
	"mappings": {
		"properties": {
			"guild_id": { "type": "keyword" },
			"pool": { "type": "keyword" },
			"pendingByUser": { "type": "object", "enabled": false }
		}
	}
}`

// Config holds configuration options for the Elasticsearch store
type Config struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// DefaultConfig returns a default configuration for Elasticsearch
func DefaultConfig() *Config {
	return &Config{
		URL:         "http://localhost:9200",
		IndexPrefix: "hatbot",
	}
}

// guildDocument is the indexed form of one guild's state
type guildDocument struct {
	GuildID string `json:"guild_id"`
	entities.GuildState
}

// Storage implements storage.Store with one Elasticsearch document per guild
type Storage struct {
	client *elasticsearch.Client
	index  string
}

// Ensure Storage implements storage.Store
var _ storage.Store = (*Storage)(nil)

// New creates the client and makes sure the guild index exists
func New(ctx context.Context, config *Config) (*Storage, error) {
	if config == nil {
		config = DefaultConfig()
	}

	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = DefaultConfig().IndexPrefix
	}

	s := &Storage{
		client: client,
		index:  prefix + "_guilds",
	}

	if err := s.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("error initializing index: %w", err)
	}

	return s, nil
}

// Index returns the name of the guild index
func (s *Storage) Index() string {
	return s.index
}

// ensureIndex creates the guild index if it doesn't exist
func (s *Storage) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if guild index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	req := esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  bytes.NewReader([]byte(guildMapping)),
	}

	res, err = req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("error creating guild index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating guild index: %s", res.String())
	}
	return nil
}

// Load fetches every guild document
func (s *Storage) Load(ctx context.Context) (*entities.Document, error) {
	query := `{ "query": { "match_all": {} } }`

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader([]byte(query))),
		s.client.Search.WithSize(maxGuilds),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching guilds: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		// Index was removed underneath us; recreate it empty
		if err := s.ensureIndex(ctx); err != nil {
			return nil, err
		}
		return entities.NewDocument(), nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("error searching guilds: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID     string        `json:"_id"`
				Source guildDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing guilds: %w", err)
	}

	doc := entities.NewDocument()
	for _, hit := range result.Hits.Hits {
		guildID := hit.Source.GuildID
		if guildID == "" {
			guildID = hit.ID
		}
		state := hit.Source.GuildState
		doc.Guilds[guildID] = &state
	}
	doc.Normalize()

	return doc, nil
}

// Save indexes every guild in the document, replacing the stored versions
func (s *Storage) Save(ctx context.Context, doc *entities.Document) error {
	for guildID, state := range doc.Guilds {
		if state == nil {
			continue
		}

		body, err := json.Marshal(guildDocument{GuildID: guildID, GuildState: *state})
		if err != nil {
			return fmt.Errorf("error marshaling guild %s: %w", guildID, err)
		}

		res, err := s.client.Index(
			s.index,
			bytes.NewReader(body),
			s.client.Index.WithDocumentID(guildID),
			s.client.Index.WithContext(ctx),
			s.client.Index.WithRefresh("true"),
		)
		if err != nil {
			return fmt.Errorf("error indexing guild %s: %w", guildID, err)
		}

		if res.IsError() {
			defer res.Body.Close()
			return fmt.Errorf("error indexing guild %s: %s", guildID, res.String())
		}
		res.Body.Close()
	}

	return nil
}

// Close is a no-op; the client holds no persistent connections that need closing
func (s *Storage) Close() error {
	return nil
}
