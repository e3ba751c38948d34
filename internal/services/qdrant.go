package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"digitaltalent/career-wizard/internal/models"
)

// OccupationRecord is one taxonomy entry stored in the vector index.
type OccupationRecord struct {
	ID       string
	Name     string
	Units    string
	Keywords string
}

// OccupationIndex stores occupation embeddings and ranks them against a query.
type OccupationIndex interface {
	InitCollection(ctx context.Context) error
	UpsertOccupation(ctx context.Context, seq uint64, occ OccupationRecord, embedding []float32) error
	SearchOccupations(ctx context.Context, queryEmbedding []float32, limit int) ([]models.OccupationCandidate, error)
	Close() error
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (OccupationIndex, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

// InitCollection implements OccupationIndex.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Occupation collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertOccupation implements OccupationIndex. seq is the occupation's row
// number, so re-ingesting the same export overwrites instead of duplicating.
func (q *qdrantService) UpsertOccupation(ctx context.Context, seq uint64, occ OccupationRecord, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(seq),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]any{
			"occupation_id": occ.ID,
			"nama":          occ.Name,
			"units":         occ.Units,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchOccupations implements OccupationIndex. Results keep Qdrant's order.
func (q *qdrantService) SearchOccupations(ctx context.Context, queryEmbedding []float32, limit int) ([]models.OccupationCandidate, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]models.OccupationCandidate, 0, len(searchResult))
	for _, point := range searchResult {
		results = append(results, models.OccupationCandidate{
			ID:    payloadString(point.Payload, "occupation_id", "N/A"),
			Nama:  payloadString(point.Payload, "nama", "N/A"),
			Score: float64(point.Score),
			Gap:   gapPlaceholder,
		})
	}

	return results, nil
}

// Close implements OccupationIndex.
func (q *qdrantService) Close() error {
	return q.client.Close()
}

func payloadString(payload map[string]*qdrant.Value, key, fallback string) string {
	if v, ok := payload[key]; ok {
		if val, ok := v.GetKind().(*qdrant.Value_StringValue); ok && val.StringValue != "" {
			return val.StringValue
		}
	}
	return fallback
}
