package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	classesdomain "gym-app-go/internal/domain/classes"
)

const maxHits = 50

// ClassIndex keeps class documents in Elasticsearch for fuzzy search.
type ClassIndex struct {
	client *elasticsearch.Client
	index  string
}

type classDocument struct {
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	InstructorName string    `json:"instructor_name"`
	StartsAt       time.Time `json:"starts_at"`
	Capacity       int       `json:"capacity"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

func NewClassIndex(ctx context.Context, url, index string) (*ClassIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{url}})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: ping: %s", res.Status())
	}

	return newClassIndex(client, index), nil
}

func newClassIndex(client *elasticsearch.Client, index string) *ClassIndex {
	return &ClassIndex{client: client, index: index}
}

func (i *ClassIndex) IndexClass(ctx context.Context, class classesdomain.ClassSummary) error {
	body, err := json.Marshal(classDocument{
		Name:           class.Name,
		Location:       class.Location,
		InstructorName: class.InstructorName,
		StartsAt:       class.StartsAt,
		Capacity:       class.Capacity,
	})
	if err != nil {
		return fmt.Errorf("elasticsearch: encode class %d: %w", class.ID, err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: strconv.FormatUint(uint64(class.ID), 10),
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("elasticsearch: index class %d: %w", class.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: index class %d: %s", class.ID, res.String())
	}
	return nil
}

// SearchClassIDs returns matching class ids ordered by relevance.
func (i *ClassIndex) SearchClassIDs(ctx context.Context, query string) ([]uint, error) {
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(map[string]any{
		"size":    maxHits,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^3", "location", "instructor_name"},
				"fuzziness": "AUTO",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: encode query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch: search: %s", res.String())
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("elasticsearch: decode response: %w", err)
	}

	ids := make([]uint, 0, len(decoded.Hits.Hits))
	for _, hit := range decoded.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
