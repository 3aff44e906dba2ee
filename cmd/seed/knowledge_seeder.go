package main

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/repository/unitofwork"
	"cooking-coach-be/pkg/embedding"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

const defaultKnowledgeDir = "assets/knowledge"

// SeedKnowledgeBase ingests Markdown principle files into the vector index.
// Each `## Heading` starts a category; each `- bullet` under it becomes one
// document. Ingestion is all-or-nothing per run: a non-empty index is left
// untouched so re-running the seeder never duplicates documents.
func SeedKnowledgeBase(ctx context.Context, db *gorm.DB) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		color.Yellow("GEMINI_API_KEY is not set, skipping knowledge ingestion")
		return
	}

	dir := os.Getenv("KNOWLEDGE_DIR")
	if dir == "" {
		dir = defaultKnowledgeDir
	}

	repo := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).KnowledgeDocumentRepository()

	count, err := repo.Count(ctx)
	if err != nil {
		color.Red("Failed to count knowledge documents: %v", err)
		return
	}
	if count > 0 {
		color.Yellow("Knowledge base already has %d documents, skipping...", count)
		return
	}

	entries, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil || len(entries) == 0 {
		color.Red("No knowledge files found under %s", dir)
		return
	}

	provider := embedding.NewGeminiProvider(apiKey)

	var docs []*entity.KnowledgeDocument
	for _, path := range entries {
		principles, err := parsePrincipleFile(path)
		if err != nil {
			color.Red("Failed to parse %s: %v", path, err)
			return
		}

		for _, p := range principles {
			vec, err := provider.Generate(ctx, p.Text, embedding.TaskRetrievalDocument)
			if err != nil {
				color.Red("Failed to embed principle %q: %v", p.Text, err)
				return
			}
			docs = append(docs, &entity.KnowledgeDocument{
				PrincipleText:  p.Text,
				Category:       p.Category,
				EmbeddingValue: vec,
			})
		}
		color.Green("Parsed %s: %d principles", filepath.Base(path), len(principles))
	}

	if err := repo.CreateBulk(ctx, docs); err != nil {
		color.Red("Failed to store knowledge documents: %v", err)
		return
	}
	color.Green("Ingested %d knowledge documents", len(docs))
}

type principle struct {
	Category string
	Text     string
}

func parsePrincipleFile(path string) ([]principle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	category := "general"
	var out []principle

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "## "):
			category = strings.TrimSpace(strings.TrimPrefix(line, "## "))
		case strings.HasPrefix(line, "- "):
			text := strings.TrimSpace(strings.TrimPrefix(line, "- "))
			if text != "" {
				out = append(out, principle{Category: category, Text: text})
			}
		}
	}
	return out, scanner.Err()
}
