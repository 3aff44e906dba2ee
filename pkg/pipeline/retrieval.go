package pipeline

import (
	"context"
	"fmt"
	"strings"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/repository/contract"
	"cooking-coach-be/pkg/embedding"
)

const (
	knowledgeTopK     = 3
	historySummaryMax = 5
)

// RetrievalStage grounds coaching generation: top knowledge documents by
// embedding similarity against the diagnosis, plus the learner's recent
// session history.
type RetrievalStage struct {
	knowledgeRepo contract.KnowledgeDocumentRepository
	embedder      Embedder
}

func NewRetrievalStage(knowledgeRepo contract.KnowledgeDocumentRepository, embedder Embedder) *RetrievalStage {
	return &RetrievalStage{
		knowledgeRepo: knowledgeRepo,
		embedder:      embedder,
	}
}

func (s *RetrievalStage) Run(ctx context.Context, diagnosis string, dish *entity.Dish, profile *entity.LearnerProfile) (*RetrievalResult, error) {
	const stage = "retrieval"

	// The query couples the observed problem with the dish's principle tags
	// so retrieval lands on principles relevant to both.
	query := diagnosis
	if dish != nil && len(dish.Principles) > 0 {
		query = fmt.Sprintf("%s\n%s", diagnosis, strings.Join(dish.Principles, " "))
	}

	vector, err := s.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, stageErr(stage, fmt.Errorf("embed query: %w", err))
	}

	docs, err := s.knowledgeRepo.SearchSimilar(ctx, vector, knowledgeTopK)
	if err != nil {
		return nil, stageErr(stage, fmt.Errorf("knowledge search: %w", err))
	}

	result := &RetrievalResult{
		Documents: docs,
	}
	if profile != nil {
		result.Summaries = recentSummaries(profile.SessionSummaries, dish, historySummaryMax)
	}

	return result, nil
}

// recentSummaries picks up to max entries from the rolling history, newest
// last. Summaries for the same dish are preferred; remaining slots fill with
// the newest entries for other dishes.
func recentSummaries(all []entity.SessionSummary, dish *entity.Dish, max int) []entity.SessionSummary {
	if len(all) == 0 || max <= 0 {
		return nil
	}

	selected := make(map[int]bool, max)
	count := 0
	if dish != nil {
		for i := len(all) - 1; i >= 0 && count < max; i-- {
			if all[i].DishId == dish.Id {
				selected[i] = true
				count++
			}
		}
	}
	for i := len(all) - 1; i >= 0 && count < max; i-- {
		if !selected[i] {
			selected[i] = true
			count++
		}
	}

	// Emit in the history's own order so the prompt reads oldest to newest.
	picked := make([]entity.SessionSummary, 0, count)
	for i := range all {
		if selected[i] {
			picked = append(picked, all[i])
		}
	}

	return picked
}
