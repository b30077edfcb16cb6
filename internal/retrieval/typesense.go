package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/rampart-ai/rampart/internal/policy"
)

const policyCollection = "policy_documents"

// TypesenseIndex implements SearchClient against a Typesense collection of
// policy documents. Role scoping is pushed down to the backend as a filter_by
// clause so role-restricted documents never leave the index.
type TypesenseIndex struct {
	client *typesense.Client
}

// NewTypesenseIndex creates a search client for the given Typesense server.
func NewTypesenseIndex(serverURL, apiKey string) *TypesenseIndex {
	client := typesense.NewClient(
		typesense.WithServer(serverURL),
		typesense.WithAPIKey(apiKey),
	)
	return &TypesenseIndex{client: client}
}

// InitSchema ensures the policy collection exists.
func (t *TypesenseIndex) InitSchema(ctx context.Context) error {
	_, err := t.client.Collection(policyCollection).Retrieve(ctx)
	if err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: policyCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "content", Type: "string"},
			{Name: "role_tag", Type: "string", Facet: pointer.True()},
			{Name: "source", Type: "string"},
		},
	}

	if _, err := t.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// Index upserts a policy document into the collection.
func (t *TypesenseIndex) Index(ctx context.Context, doc policy.Document) error {
	record := map[string]interface{}{
		"id":       doc.ID,
		"content":  doc.Content,
		"role_tag": doc.RoleTag,
		"source":   doc.Source,
	}

	if _, err := t.client.Collection(policyCollection).Documents().Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to index policy document %s: %w", doc.ID, err)
	}
	return nil
}

// Search implements SearchClient.
func (t *TypesenseIndex) Search(ctx context.Context, query string, allowedTags []string, limit int) ([]policy.ScoredDocument, error) {
	params := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("content,source"),
		FilterBy: pointer.String(fmt.Sprintf("role_tag:=[%s]", strings.Join(allowedTags, ","))),
		PerPage:  pointer.Int(limit),
	}

	result, err := t.client.Collection(policyCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("typesense search failed: %w", err)
	}

	if result.Hits == nil {
		return nil, nil
	}

	docs := make([]policy.ScoredDocument, 0, len(*result.Hits))
	for rank, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		record := *hit.Document

		doc := policy.Document{
			ID:      stringField(record, "id"),
			Content: stringField(record, "content"),
			RoleTag: stringField(record, "role_tag"),
			Source:  stringField(record, "source"),
		}

		score := rankScore(rank, len(*result.Hits))
		if hit.TextMatch != nil {
			score = float64(*hit.TextMatch)
		}
		docs = append(docs, policy.ScoredDocument{Document: doc, Score: score})
	}
	return docs, nil
}

func stringField(record map[string]interface{}, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

// rankScore derives a descending score from result position when the backend
// does not report a text match score.
func rankScore(rank, total int) float64 {
	return float64(total-rank) / float64(total)
}
