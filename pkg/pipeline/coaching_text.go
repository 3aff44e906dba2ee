package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cooking-coach-be/internal/constant"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/pkg/genai"
)

// CoachingTextStage generates the four-part coaching message. Output must
// pass the schema and carry no digits; one corrective retry is allowed
// before the stage fails.
type CoachingTextStage struct {
	gen TextGenerator
}

func NewCoachingTextStage(gen TextGenerator) *CoachingTextStage {
	return &CoachingTextStage{gen: gen}
}

func (s *CoachingTextStage) Run(ctx context.Context, in CoachingInput) (*entity.CoachingText, error) {
	const stage = "coaching_text"

	prompt := s.buildPrompt(in)

	coaching, err := s.generateOnce(ctx, prompt)
	if err == nil {
		return coaching, nil
	}

	// One corrective retry with the violation spelled out.
	retryPrompt := fmt.Sprintf("%s\n\n%s", prompt, constant.CoachingTextRetryPromptV1)
	coaching, retryErr := s.generateOnce(ctx, retryPrompt)
	if retryErr != nil {
		return nil, stageErr(stage, fmt.Errorf("after retry: %w (first attempt: %v)", retryErr, err))
	}

	return coaching, nil
}

func (s *CoachingTextStage) generateOnce(ctx context.Context, prompt string) (*entity.CoachingText, error) {
	reply, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	doc, err := genai.ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstSchema(coachingTextSchema, doc); err != nil {
		return nil, err
	}

	var coaching entity.CoachingText
	if err := json.Unmarshal([]byte(doc), &coaching); err != nil {
		return nil, err
	}

	if err := validateCoachingText(&coaching); err != nil {
		return nil, err
	}

	return &coaching, nil
}

func (s *CoachingTextStage) buildPrompt(in CoachingInput) string {
	learnerName := in.LearnerName
	if learnerName == "" {
		learnerName = "the learner"
	}

	selfAssessment := in.SelfAssessment
	if selfAssessment == "" {
		selfAssessment = "(no self-assessment provided)"
	}

	var state strings.Builder
	if in.Profile != nil {
		for _, skill := range in.Profile.SkillsAcquired {
			fmt.Fprintf(&state, "- acquired: %s\n", skill)
		}
		for _, skill := range in.Profile.SkillsDeveloping {
			fmt.Fprintf(&state, "- developing: %s\n", skill)
		}
		for _, mistake := range in.Profile.RecurringMistakes {
			fmt.Fprintf(&state, "- recurring mistake (seen %d times): %s\n", mistake.Count, mistake.Text)
		}
	}
	if state.Len() == 0 {
		state.WriteString("(no profile yet)\n")
	}

	var knowledge strings.Builder
	if in.Retrieval != nil {
		for _, doc := range in.Retrieval.Documents {
			fmt.Fprintf(&knowledge, "- [%s] %s\n", doc.Category, doc.PrincipleText)
		}
	}
	if knowledge.Len() == 0 {
		knowledge.WriteString("(none)\n")
	}

	var history strings.Builder
	if in.Retrieval != nil {
		for _, summary := range in.Retrieval.Summaries {
			fmt.Fprintf(&history, "- problem: %s / skill: %s\n", summary.Problem, summary.Skill)
		}
	}
	if history.Len() == 0 {
		history.WriteString("(first session)\n")
	}

	return fmt.Sprintf(constant.CoachingTextPromptV1,
		learnerName,
		in.AttemptNumber,
		in.DishName,
		in.Diagnosis,
		selfAssessment,
		state.String(),
		knowledge.String(),
		history.String(),
	)
}
