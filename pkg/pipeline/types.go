package pipeline

import (
	"context"
	"fmt"

	"cooking-coach-be/internal/entity"
)

// StageError marks a failure inside a named stage. The orchestrator persists
// its message as the session's error detail.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// SelfAssessmentResult is what the optional stage 0 produces: the voice
// transcript (empty when no memo exists) and the structured extract (nil when
// extraction failed or there was nothing to extract).
type SelfAssessmentResult struct {
	Transcript string
	Extract    *entity.SelfAssessment
}

// RetrievalResult bundles the grounding context for coaching generation.
type RetrievalResult struct {
	Documents []*entity.KnowledgeDocument
	Summaries []entity.SessionSummary
}

// CoachingInput is everything the coaching text stage needs. Profile is the
// learner's snapshot as read before generation; nil for a first session.
type CoachingInput struct {
	DishName       string
	LearnerName    string
	AttemptNumber  int
	Diagnosis      string
	SelfAssessment string
	Profile        *entity.LearnerProfile
	Retrieval      *RetrievalResult
}

// Stage interfaces. The orchestrator depends on these so runs can be
// exercised against fakes; the concrete stages live in this package.

type SelfAssessor interface {
	Run(ctx context.Context, session *entity.CookingSession) (*SelfAssessmentResult, error)
}

type VideoAnalyzer interface {
	Run(ctx context.Context, session *entity.CookingSession, dishName string) (*entity.VideoAnalysis, error)
}

type Retriever interface {
	Run(ctx context.Context, diagnosis string, dish *entity.Dish, profile *entity.LearnerProfile) (*RetrievalResult, error)
}

type CoachingWriter interface {
	Run(ctx context.Context, in CoachingInput) (*entity.CoachingText, error)
}

type ScriptWriter interface {
	Run(ctx context.Context, coaching *entity.CoachingText, analysis *entity.VideoAnalysis) (*entity.NarrationScript, error)
}

type VideoProducer interface {
	Run(ctx context.Context, session *entity.CookingSession, analysis *entity.VideoAnalysis, script *entity.NarrationScript) (string, error)
}

// External collaborators, narrowed to what the stages call so tests can
// substitute fakes.

type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type AudioTranscriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type SpeechSynthesizer interface {
	SynthesizeToFile(ctx context.Context, text string, path string) error
}

type Embedder interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
