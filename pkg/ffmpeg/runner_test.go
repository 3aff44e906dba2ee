package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedCall struct {
	name string
	args []string
}

func newCapturingRunner(output []byte, err error) (*Runner, *[]capturedCall) {
	calls := &[]capturedCall{}
	runner := NewRunnerWithExec(func(_ context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, capturedCall{name: name, args: args})
		return output, err
	})
	return runner, calls
}

func TestDurationParsesProbeOutput(t *testing.T) {
	runner, calls := newCapturingRunner([]byte(`{"format":{"duration":"312.480000"}}`), nil)

	dur, err := runner.Duration(context.Background(), "/tmp/raw.mp4")
	require.NoError(t, err)
	assert.InDelta(t, 312.48, dur, 0.001)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "ffprobe", call.name)
	assert.Contains(t, call.args, "format=duration")
	assert.Equal(t, "/tmp/raw.mp4", call.args[len(call.args)-1])
}

func TestDurationRejectsGarbage(t *testing.T) {
	runner, _ := newCapturingRunner([]byte(`{"format":{}}`), nil)

	_, err := runner.Duration(context.Background(), "/tmp/raw.mp4")
	require.Error(t, err)
}

func TestDurationPropagatesExecError(t *testing.T) {
	runner, _ := newCapturingRunner(nil, errors.New("ffprobe failed"))

	_, err := runner.Duration(context.Background(), "/tmp/raw.mp4")
	require.Error(t, err)
}

func TestExtractClipArgs(t *testing.T) {
	runner, calls := newCapturingRunner(nil, nil)

	err := runner.ExtractClip(context.Background(), "/tmp/raw.mp4", 285, 15, "/tmp/clip.mp4")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	args := strings.Join((*calls)[0].args, " ")
	assert.Contains(t, args, "-ss 285.000")
	assert.Contains(t, args, "-t 15.000")
	assert.Contains(t, args, "-an", "the clip carries narration audio, never source audio")
	assert.Contains(t, args, normalizeFilter)
}

func TestCreateLoopedSegmentArgs(t *testing.T) {
	runner, calls := newCapturingRunner(nil, nil)

	err := runner.CreateLoopedSegment(context.Background(), "/tmp/raw.mp4", "/tmp/intro.mp3", 8.5, "/tmp/seg.mp4")
	require.NoError(t, err)

	args := strings.Join((*calls)[0].args, " ")
	assert.Contains(t, args, "-stream_loop -1", "the visual must loop for the full narration")
	assert.Contains(t, args, "-t 8.500")
	assert.Contains(t, args, "-map 0:v:0")
	assert.Contains(t, args, "-map 1:a:0")
}

func TestCreateKeyMomentSegmentArgs(t *testing.T) {
	runner, calls := newCapturingRunner(nil, nil)

	err := runner.CreateKeyMomentSegment(context.Background(), "/tmp/clip.mp4", "/tmp/clip.mp3", 15, "/tmp/seg.mp4")
	require.NoError(t, err)

	args := strings.Join((*calls)[0].args, " ")
	assert.Contains(t, args, "-af apad", "short narration pads with silence instead of cutting the clip")
	assert.Contains(t, args, "-c:v copy")
	assert.Contains(t, args, "-t 15.000")
}

func TestConcatSegmentsWritesListFile(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "final.mp4")

	var listContent string
	runner := NewRunnerWithExec(func(_ context.Context, name string, args ...string) ([]byte, error) {
		// The list file must exist while ffmpeg runs.
		data, err := os.ReadFile(filepath.Join(tmpDir, "concat_list.txt"))
		if err != nil {
			return nil, err
		}
		listContent = string(data)
		return nil, nil
	})

	segments := []string{
		filepath.Join(tmpDir, "segment_intro.mp4"),
		filepath.Join(tmpDir, "segment_keymoment.mp4"),
		filepath.Join(tmpDir, "segment_outro.mp4"),
	}
	err := runner.ConcatSegments(context.Background(), segments, outPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(listContent), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "segment_intro.mp4")
	assert.Contains(t, lines[1], "segment_keymoment.mp4")
	assert.Contains(t, lines[2], "segment_outro.mp4")

	// The list file is cleaned up afterwards.
	_, statErr := os.Stat(filepath.Join(tmpDir, "concat_list.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConcatSegmentsRejectsEmptyInput(t *testing.T) {
	runner, _ := newCapturingRunner(nil, nil)

	err := runner.ConcatSegments(context.Background(), nil, "/tmp/final.mp4")
	require.Error(t, err)
}
