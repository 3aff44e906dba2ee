package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Segments are normalized to a common format so the final concat can run in
// stream-copy mode without re-encoding.
const normalizeFilter = "scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=30"

// RunFunc executes an external command and returns its combined output.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w: %s", name, err, string(out))
	}
	return out, nil
}

// Runner drives ffmpeg and ffprobe. The exec function is injectable so
// argument construction can be tested without the binaries installed.
type Runner struct {
	run RunFunc
}

func NewRunner() *Runner {
	return &Runner{run: execRun}
}

func NewRunnerWithExec(run RunFunc) *Runner {
	return &Runner{run: run}
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeOutput struct {
	Format probeFormat `json:"format"`
}

// Duration returns the media duration in seconds via ffprobe.
func (r *Runner) Duration(ctx context.Context, path string) (float64, error) {
	out, err := r.run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	if err != nil {
		return 0, err
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(parsed.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", parsed.Format.Duration, err)
	}

	return dur, nil
}

// CreateLoopedSegment loops the base video for as long as the narration audio
// runs, producing the intro segment. The video loops infinitely on input and
// the output is cut at the audio length.
func (r *Runner) CreateLoopedSegment(ctx context.Context, videoPath, audioPath string, duration float64, outPath string) error {
	_, err := r.run(ctx, "ffmpeg",
		"-y",
		"-stream_loop", "-1",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-vf", normalizeFilter,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-t", formatSeconds(duration),
		outPath,
	)
	return err
}

// ExtractClip cuts [start, start+duration) out of the source video.
func (r *Runner) ExtractClip(ctx context.Context, videoPath string, start, duration float64, outPath string) error {
	_, err := r.run(ctx, "ffmpeg",
		"-y",
		"-ss", formatSeconds(start),
		"-i", videoPath,
		"-t", formatSeconds(duration),
		"-vf", normalizeFilter,
		"-c:v", "libx264",
		"-an",
		outPath,
	)
	return err
}

// CreateKeyMomentSegment lays the narration audio over the extracted clip.
// The audio is padded with silence so a narration shorter than the clip does
// not truncate the video; the -t cut handles the opposite case.
func (r *Runner) CreateKeyMomentSegment(ctx context.Context, clipPath, audioPath string, duration float64, outPath string) error {
	_, err := r.run(ctx, "ffmpeg",
		"-y",
		"-i", clipPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-af", "apad",
		"-c:v", "copy",
		"-c:a", "aac",
		"-t", formatSeconds(duration),
		outPath,
	)
	return err
}

// NormalizeSegment re-encodes an arbitrary asset (the outro) into the common
// segment format so concat can stream-copy it.
func (r *Runner) NormalizeSegment(ctx context.Context, inPath, outPath string) error {
	_, err := r.run(ctx, "ffmpeg",
		"-y",
		"-i", inPath,
		"-vf", normalizeFilter,
		"-c:v", "libx264",
		"-c:a", "aac",
		outPath,
	)
	return err
}

// ConcatSegments joins the segments in order using the concat demuxer in
// stream-copy mode. All inputs must already share the normalized format.
func (r *Runner) ConcatSegments(ctx context.Context, segmentPaths []string, outPath string) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to concat")
	}

	listPath := filepath.Join(filepath.Dir(outPath), "concat_list.txt")
	var sb strings.Builder
	for _, p := range segmentPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "file '%s'\n", abs)
	}
	if err := os.WriteFile(listPath, []byte(sb.String()), 0o644); err != nil {
		return err
	}
	defer os.Remove(listPath)

	_, err := r.run(ctx, "ffmpeg",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	)
	return err
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
