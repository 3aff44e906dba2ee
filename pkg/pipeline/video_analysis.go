package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cooking-coach-be/internal/constant"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/pkg/ffmpeg"
	"cooking-coach-be/pkg/gcs"
	"cooking-coach-be/pkg/genai"
)

// VideoModel is the multimodal slice of the Gemini client the analysis
// stage depends on.
type VideoModel interface {
	UploadFile(ctx context.Context, path string, mimeType string) (genai.FileInfo, error)
	WaitForFileActive(ctx context.Context, file genai.FileInfo) (genai.FileInfo, error)
	GenerateWithVideo(ctx context.Context, prompt string, file genai.FileInfo) (string, error)
	DeleteFile(ctx context.Context, name string) error
}

// VideoAnalysisStage watches the raw cooking video and produces the event
// timeline, the key moment, and the diagnosis. Unlike self-assessment this
// stage is load-bearing: a schema violation or an out-of-range key moment
// fails the run.
type VideoAnalysisStage struct {
	storage *gcs.Client
	model   VideoModel
	ffmpeg  *ffmpeg.Runner
	log     logger.ILogger
}

func NewVideoAnalysisStage(storage *gcs.Client, model VideoModel, runner *ffmpeg.Runner, log logger.ILogger) *VideoAnalysisStage {
	return &VideoAnalysisStage{
		storage: storage,
		model:   model,
		ffmpeg:  runner,
		log:     log,
	}
}

func (s *VideoAnalysisStage) Run(ctx context.Context, session *entity.CookingSession, dishName string) (*entity.VideoAnalysis, error) {
	const stage = "video_analysis"

	tmpDir, err := os.MkdirTemp("", "analysis-*")
	if err != nil {
		return nil, stageErr(stage, err)
	}
	defer os.RemoveAll(tmpDir)

	localPath := filepath.Join(tmpDir, "raw.mp4")
	if err := s.storage.DownloadToFile(ctx, session.RawVideoPath, localPath); err != nil {
		return nil, stageErr(stage, fmt.Errorf("download raw video: %w", err))
	}

	duration, err := s.ffmpeg.Duration(ctx, localPath)
	if err != nil {
		return nil, stageErr(stage, fmt.Errorf("probe raw video: %w", err))
	}

	file, err := s.model.UploadFile(ctx, localPath, "video/mp4")
	if err != nil {
		return nil, stageErr(stage, fmt.Errorf("upload to file api: %w", err))
	}
	defer func() {
		if err := s.model.DeleteFile(context.Background(), file.Name); err != nil {
			s.log.Warn("pipeline", "failed to delete uploaded analysis file", map[string]interface{}{
				"file":  file.Name,
				"error": err.Error(),
			})
		}
	}()

	file, err = s.model.WaitForFileActive(ctx, file)
	if err != nil {
		return nil, stageErr(stage, err)
	}

	prompt := fmt.Sprintf(constant.VideoAnalysisPromptV1, dishName, duration)
	reply, err := s.model.GenerateWithVideo(ctx, prompt, file)
	if err != nil {
		return nil, stageErr(stage, err)
	}

	doc, err := genai.ExtractJSON(reply)
	if err != nil {
		return nil, stageErr(stage, err)
	}

	if err := validateAgainstSchema(videoAnalysisSchema, doc); err != nil {
		return nil, stageErr(stage, err)
	}

	var analysis entity.VideoAnalysis
	if err := json.Unmarshal([]byte(doc), &analysis); err != nil {
		return nil, stageErr(stage, err)
	}

	if err := validateVideoAnalysis(&analysis, duration); err != nil {
		return nil, stageErr(stage, err)
	}

	return &analysis, nil
}
