package pipeline

import (
	"context"
	"encoding/json"
	"io"

	"cooking-coach-be/internal/constant"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/pkg/genai"
	"cooking-coach-be/pkg/gcs"
)

// SelfAssessmentStage turns the learner's voice memo or free text into a
// structured self-assessment. The whole stage is best effort: a missing memo,
// a failed transcription, or an unparsable extraction all yield an empty
// result instead of failing the run, because coaching works without it.
type SelfAssessmentStage struct {
	storage     *gcs.Client
	transcriber AudioTranscriber
	gen         TextGenerator
	log         logger.ILogger
}

func NewSelfAssessmentStage(storage *gcs.Client, transcriber AudioTranscriber, gen TextGenerator, log logger.ILogger) *SelfAssessmentStage {
	return &SelfAssessmentStage{
		storage:     storage,
		transcriber: transcriber,
		gen:         gen,
		log:         log,
	}
}

func (s *SelfAssessmentStage) Run(ctx context.Context, session *entity.CookingSession) (*SelfAssessmentResult, error) {
	result := &SelfAssessmentResult{}

	if session.VoiceMemoPath != "" {
		transcript, err := s.transcribeMemo(ctx, session.VoiceMemoPath)
		if err != nil {
			s.log.Warn("pipeline", "voice memo transcription failed, continuing without it", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		} else {
			result.Transcript = transcript
		}
	}

	// Structured ratings submitted with the session need no extraction.
	if session.SelfRatings != nil {
		result.Extract = &entity.SelfAssessment{
			Taste:          session.SelfRatings.Taste,
			Appearance:     session.SelfRatings.Appearance,
			Texture:        session.SelfRatings.Texture,
			Aroma:          session.SelfRatings.Aroma,
			SelfAssessment: firstNonEmpty(session.SelfAssessmentText, result.Transcript),
		}
		return result, nil
	}

	source := firstNonEmpty(result.Transcript, session.SelfAssessmentText)
	if source == "" {
		return result, nil
	}

	extract, err := s.extract(ctx, source)
	if err != nil {
		s.log.Warn("pipeline", "self-assessment extraction failed, continuing without it", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
		return result, nil
	}
	result.Extract = extract

	return result, nil
}

func (s *SelfAssessmentStage) transcribeMemo(ctx context.Context, memoPath string) (string, error) {
	r, err := s.storage.Download(ctx, memoPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	audio, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return s.transcriber.Transcribe(ctx, audio)
}

func (s *SelfAssessmentStage) extract(ctx context.Context, source string) (*entity.SelfAssessment, error) {
	reply, err := s.gen.GenerateText(ctx, constant.SelfAssessmentExtractionPromptV1+source)
	if err != nil {
		return nil, err
	}

	doc, err := genai.ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstSchema(selfAssessmentSchema, doc); err != nil {
		return nil, err
	}

	var extract entity.SelfAssessment
	if err := json.Unmarshal([]byte(doc), &extract); err != nil {
		return nil, err
	}

	return &extract, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
