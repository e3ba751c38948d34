package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"digitaltalent/career-wizard/internal/config"
	"digitaltalent/career-wizard/internal/services"
)

// ponRow is one row of the PON/SKKNI occupation export.
type ponRow struct {
	OkupasiID      any `json:"OkupasiID"`
	Okupasi        any `json:"Okupasi"`
	UnitKompetensi any `json:"Unit_Kompetensi"`
	KukKeywords    any `json:"Kuk_Keywords"`
}

func main() {
	dataPath := flag.String("data", "./data/pon_data.json", "path to the occupation JSON export")
	flag.Parse()

	log.Println("🚀 Starting occupation ingestion...")

	// Load configuration
	cfg := config.Load()
	if cfg.Gemini.APIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY is required")
	}

	ctx := context.Background()

	// Initialize services
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.ChatModel, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	defer qdrantService.Close()

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	raw, err := os.ReadFile(*dataPath)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *dataPath, err)
	}

	var rows []ponRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Fatalf("❌ Failed to decode %s: %v", *dataPath, err)
	}
	log.Printf("📄 Loaded %d occupations from %s", len(rows), *dataPath)

	successCount := 0
	failCount := 0

	for i, row := range rows {
		occ := services.OccupationRecord{
			ID:       field(row.OkupasiID),
			Name:     field(row.Okupasi),
			Units:    field(row.UnitKompetensi),
			Keywords: field(row.KukKeywords),
		}

		text := services.OccupationEmbeddingText(occ.Name, occ.Units, occ.Keywords)
		embedding, err := geminiService.GenerateEmbedding(ctx, text, services.TaskRetrievalDocument)
		if err != nil {
			log.Printf("   ❌ Failed to embed occupation %s: %v", occ.ID, err)
			failCount++
			continue
		}

		if err := qdrantService.UpsertOccupation(ctx, uint64(i), occ, embedding); err != nil {
			log.Printf("   ❌ Failed to store occupation %s: %v", occ.ID, err)
			failCount++
			continue
		}
		successCount++

		if (i+1)%10 == 0 || i == len(rows)-1 {
			log.Printf("   📊 Progress: %d/%d occupations", i+1, len(rows))
		}
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d occupations", successCount)
	log.Printf("   ❌ Failed: %d occupations", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some occupations failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All occupations ingested successfully!")
}

// field renders a JSON cell as text. Missing cells read as "N/A".
func field(v any) string {
	switch t := v.(type) {
	case nil:
		return "N/A"
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}
