package pipeline

import (
	"context"
	"strings"
	"testing"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	lastText string
	lastTask string
}

func (f *fakeEmbedder) Generate(_ context.Context, text, taskType string) ([]float32, error) {
	f.lastText = text
	f.lastTask = taskType
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeKnowledgeRepo struct {
	lastLimit int
	docs      []*entity.KnowledgeDocument
}

func (f *fakeKnowledgeRepo) Create(context.Context, *entity.KnowledgeDocument) error { return nil }
func (f *fakeKnowledgeRepo) CreateBulk(context.Context, []*entity.KnowledgeDocument) error {
	return nil
}
func (f *fakeKnowledgeRepo) Count(context.Context) (int64, error) { return int64(len(f.docs)), nil }
func (f *fakeKnowledgeRepo) SearchSimilar(_ context.Context, _ []float32, limit int) ([]*entity.KnowledgeDocument, error) {
	f.lastLimit = limit
	return f.docs, nil
}

func TestRetrievalStageQueryAndLimit(t *testing.T) {
	embedder := &fakeEmbedder{}
	repo := &fakeKnowledgeRepo{docs: []*entity.KnowledgeDocument{
		{Id: uuid.New(), PrincipleText: "弱火で加熱する", Category: "火加減"},
	}}
	stage := NewRetrievalStage(repo, embedder)

	dish := &entity.Dish{
		Id:         uuid.New(),
		Principles: []string{"卵液を漉す", "弱めの中火"},
	}

	result, err := stage.Run(context.Background(), "火力が強すぎる", dish, nil)
	require.NoError(t, err)

	assert.Equal(t, embedding.TaskRetrievalQuery, embedder.lastTask)
	assert.True(t, strings.HasPrefix(embedder.lastText, "火力が強すぎる"))
	assert.Contains(t, embedder.lastText, "卵液を漉す")
	assert.Equal(t, knowledgeTopK, repo.lastLimit)
	assert.Len(t, result.Documents, 1)
	assert.Nil(t, result.Summaries)
}

func TestRecentSummaries(t *testing.T) {
	dishA := uuid.New()
	dishB := uuid.New()
	mk := func(dish uuid.UUID, problem string) entity.SessionSummary {
		return entity.SessionSummary{SessionId: uuid.New(), DishId: dish, Problem: problem}
	}

	history := []entity.SessionSummary{
		mk(dishA, "a1"),
		mk(dishB, "b1"),
		mk(dishA, "a2"),
		mk(dishB, "b2"),
		mk(dishB, "b3"),
		mk(dishA, "a3"),
		mk(dishB, "b4"),
	}

	t.Run("same dish preferred, chronological", func(t *testing.T) {
		got := recentSummaries(history, &entity.Dish{Id: dishA}, 5)
		problems := make([]string, 0, len(got))
		for _, s := range got {
			problems = append(problems, s.Problem)
		}
		// All three dishA entries plus the two newest others, oldest first.
		assert.Equal(t, []string{"a1", "a2", "b3", "a3", "b4"}, problems)
	})

	t.Run("cap applies", func(t *testing.T) {
		got := recentSummaries(history, &entity.Dish{Id: dishB}, 2)
		require.Len(t, got, 2)
		assert.Equal(t, "b3", got[0].Problem)
		assert.Equal(t, "b4", got[1].Problem)
	})

	t.Run("nil dish takes newest overall", func(t *testing.T) {
		got := recentSummaries(history, nil, 3)
		require.Len(t, got, 3)
		assert.Equal(t, "b3", got[0].Problem)
		assert.Equal(t, "a3", got[1].Problem)
		assert.Equal(t, "b4", got[2].Problem)
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Nil(t, recentSummaries(nil, &entity.Dish{Id: dishA}, 5))
	})
}
