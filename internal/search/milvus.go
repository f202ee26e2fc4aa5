package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/deepresearch-labs/deep-research/internal/api"
	"github.com/deepresearch-labs/deep-research/internal/config"
	"github.com/deepresearch-labs/deep-research/internal/embedding"
)

// MilvusProvider searches the document collection in Milvus by embedding
// the query and running a cosine similarity search.
type MilvusProvider struct {
	client      client.Client
	embedder    embedding.Embedder
	collection  string
	vectorField string
	textField   string
}

// NewMilvusProvider connects to Milvus and returns a vector search provider.
func NewMilvusProvider(ctx context.Context, cfg *config.MilvusConfig, embedder embedding.Embedder) (*MilvusProvider, error) {
	c, err := client.NewClient(ctx, client.Config{
		Address: cfg.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus: %w", err)
	}

	return &MilvusProvider{
		client:      c,
		embedder:    embedder,
		collection:  cfg.Collection,
		vectorField: cfg.VectorField,
		textField:   cfg.TextField,
	}, nil
}

// Name identifies this provider as the vector backend.
func (p *MilvusProvider) Name() api.SearchProvider {
	return api.SearchProviderMilvus
}

// Available reports whether the collection is reachable.
func (p *MilvusProvider) Available(ctx context.Context) bool {
	ok, err := p.client.HasCollection(ctx, p.collection)
	return err == nil && ok
}

// Search embeds the query and returns the top matching document chunks.
func (p *MilvusProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	vectors, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	sp, err := entity.NewIndexFlatSearchParam()
	if err != nil {
		return nil, fmt.Errorf("build search param: %w", err)
	}

	outputFields := []string{p.textField, "source", "chunk_index", "document_type", "title"}
	searchResults, err := p.client.Search(
		ctx,
		p.collection,
		nil,
		"",
		outputFields,
		[]entity.Vector{entity.FloatVector(embedding.ToFloat32(vectors[0]))},
		p.vectorField,
		entity.COSINE,
		limit,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var results []Result
	for _, sr := range searchResults {
		textCol := sr.Fields.GetColumn(p.textField)
		sourceCol := sr.Fields.GetColumn("source")
		typeCol := sr.Fields.GetColumn("document_type")
		titleCol := sr.Fields.GetColumn("title")
		chunkCol := sr.Fields.GetColumn("chunk_index")

		for i := 0; i < sr.ResultCount; i++ {
			r := Result{
				Provider: api.SearchProviderMilvus,
				Score:    float64(sr.Scores[i]),
			}
			if textCol != nil {
				r.Content, _ = textCol.GetAsString(i)
			}
			if sourceCol != nil {
				r.Source, _ = sourceCol.GetAsString(i)
			}
			if typeCol != nil {
				r.DocumentType, _ = typeCol.GetAsString(i)
			}
			if titleCol != nil {
				r.Title, _ = titleCol.GetAsString(i)
			}
			if chunkCol != nil {
				if idx, err := chunkCol.GetAsInt64(i); err == nil {
					r.Metadata = map[string]any{"chunk_index": idx}
				}
			}
			if sr.IDs != nil {
				if id, err := sr.IDs.GetAsInt64(i); err == nil {
					r.ID = strconv.FormatInt(id, 10)
				}
			}
			results = append(results, r)
		}
	}

	return results, nil
}

// Close releases the Milvus connection.
func (p *MilvusProvider) Close() error {
	return p.client.Close()
}
