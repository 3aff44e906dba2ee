package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/pkg/ffmpeg"
	"cooking-coach-be/pkg/gcs"
)

// VideoProductionStage renders the coaching video: a narrated intro over the
// learner's own footage, the key-moment clip with commentary, and the fixed
// outro. The finished file is uploaded to object storage and the stage
// returns its immutable path.
type VideoProductionStage struct {
	storage      *gcs.Client
	tts          SpeechSynthesizer
	ffmpeg       *ffmpeg.Runner
	clipDuration float64
	outroAsset   string // object path of the pre-rendered outro; empty disables it
	log          logger.ILogger
}

func NewVideoProductionStage(storage *gcs.Client, tts SpeechSynthesizer, runner *ffmpeg.Runner, clipDuration float64, outroAsset string, log logger.ILogger) *VideoProductionStage {
	return &VideoProductionStage{
		storage:      storage,
		tts:          tts,
		ffmpeg:       runner,
		clipDuration: clipDuration,
		outroAsset:   outroAsset,
		log:          log,
	}
}

func (s *VideoProductionStage) Run(ctx context.Context, session *entity.CookingSession, analysis *entity.VideoAnalysis, script *entity.NarrationScript) (string, error) {
	const stage = "video_production"

	tmpDir, err := os.MkdirTemp("", "production-*")
	if err != nil {
		return "", stageErr(stage, err)
	}
	defer os.RemoveAll(tmpDir)

	rawPath := filepath.Join(tmpDir, "raw.mp4")
	if err := s.storage.DownloadToFile(ctx, session.RawVideoPath, rawPath); err != nil {
		return "", stageErr(stage, fmt.Errorf("download raw video: %w", err))
	}

	videoDuration, err := s.ffmpeg.Duration(ctx, rawPath)
	if err != nil {
		return "", stageErr(stage, fmt.Errorf("probe raw video: %w", err))
	}

	// Narration audio. The pivot line is spoken at the end of the intro,
	// right before the clip starts.
	introAudio := filepath.Join(tmpDir, "intro.mp3")
	if err := s.tts.SynthesizeToFile(ctx, script.Intro+"\n"+script.Pivot, introAudio); err != nil {
		return "", stageErr(stage, fmt.Errorf("synthesize intro: %w", err))
	}
	clipAudio := filepath.Join(tmpDir, "clip.mp3")
	if err := s.tts.SynthesizeToFile(ctx, script.Clip, clipAudio); err != nil {
		return "", stageErr(stage, fmt.Errorf("synthesize clip narration: %w", err))
	}

	introAudioDur, err := s.ffmpeg.Duration(ctx, introAudio)
	if err != nil {
		return "", stageErr(stage, fmt.Errorf("probe intro audio: %w", err))
	}
	clipAudioDur, err := s.ffmpeg.Duration(ctx, clipAudio)
	if err != nil {
		return "", stageErr(stage, fmt.Errorf("probe clip audio: %w", err))
	}

	// Intro segment: the learner's own footage looped under the intro audio.
	introSegment := filepath.Join(tmpDir, "segment_intro.mp4")
	if err := s.ffmpeg.CreateLoopedSegment(ctx, rawPath, introAudio, introAudioDur, introSegment); err != nil {
		return "", stageErr(stage, fmt.Errorf("intro segment: %w", err))
	}

	// Key-moment clip.
	start := ClipStart(analysis.KeyMomentSeconds, videoDuration, s.clipDuration)
	clipLen := s.clipDuration
	if videoDuration <= s.clipDuration {
		clipLen = videoDuration
	}
	clipRaw := filepath.Join(tmpDir, "clip_raw.mp4")
	if err := s.ffmpeg.ExtractClip(ctx, rawPath, start, clipLen, clipRaw); err != nil {
		return "", stageErr(stage, fmt.Errorf("extract clip: %w", err))
	}

	// The narration is never truncated: if it outlasts the clip, the clip
	// visual loops for the remainder.
	segmentDur := SegmentDuration(clipLen, clipAudioDur)
	keyMomentSegment := filepath.Join(tmpDir, "segment_keymoment.mp4")
	if clipAudioDur > clipLen {
		err = s.ffmpeg.CreateLoopedSegment(ctx, clipRaw, clipAudio, segmentDur, keyMomentSegment)
	} else {
		err = s.ffmpeg.CreateKeyMomentSegment(ctx, clipRaw, clipAudio, segmentDur, keyMomentSegment)
	}
	if err != nil {
		return "", stageErr(stage, fmt.Errorf("key-moment segment: %w", err))
	}

	segments := []string{introSegment, keyMomentSegment}

	if s.outroAsset != "" {
		outroRaw := filepath.Join(tmpDir, "outro_raw.mp4")
		if err := s.storage.DownloadToFile(ctx, s.outroAsset, outroRaw); err != nil {
			return "", stageErr(stage, fmt.Errorf("download outro: %w", err))
		}
		outroSegment := filepath.Join(tmpDir, "segment_outro.mp4")
		if err := s.ffmpeg.NormalizeSegment(ctx, outroRaw, outroSegment); err != nil {
			return "", stageErr(stage, fmt.Errorf("normalize outro: %w", err))
		}
		segments = append(segments, outroSegment)
	}

	finalPath := filepath.Join(tmpDir, "coaching_video.mp4")
	if err := s.ffmpeg.ConcatSegments(ctx, segments, finalPath); err != nil {
		return "", stageErr(stage, fmt.Errorf("concat: %w", err))
	}

	objectPath := fmt.Sprintf("sessions/%s/coaching_video.mp4", session.Id.String())
	if err := s.storage.UploadFile(ctx, objectPath, finalPath, "video/mp4"); err != nil {
		return "", stageErr(stage, fmt.Errorf("upload coaching video: %w", err))
	}

	return objectPath, nil
}

// ClipStart places the clip window so it covers the key moment and stays
// inside the video: min(T, max(0, D-clipDur)). When the whole video fits in
// the window the clip starts at zero.
func ClipStart(keyMoment, videoDuration, clipDuration float64) float64 {
	if videoDuration <= clipDuration {
		return 0
	}
	latest := videoDuration - clipDuration
	if latest < 0 {
		latest = 0
	}
	if keyMoment < latest {
		return keyMoment
	}
	return latest
}

// SegmentDuration sizes the key-moment segment so the clip is fully shown
// and the narration is fully heard.
func SegmentDuration(clipLen, narrationDur float64) float64 {
	if narrationDur > clipLen {
		return narrationDur
	}
	return clipLen
}
