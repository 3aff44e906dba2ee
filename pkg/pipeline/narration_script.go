package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cooking-coach-be/internal/constant"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/pkg/genai"
)

// NarrationScriptStage turns the coaching message into a three-part spoken
// script. The pivot line is always the fixed literal; the clip narration
// must restate the success signal, with one corrective retry before failing.
type NarrationScriptStage struct {
	gen TextGenerator
}

func NewNarrationScriptStage(gen TextGenerator) *NarrationScriptStage {
	return &NarrationScriptStage{gen: gen}
}

func (s *NarrationScriptStage) Run(ctx context.Context, coaching *entity.CoachingText, analysis *entity.VideoAnalysis) (*entity.NarrationScript, error) {
	const stage = "narration_script"

	prompt := fmt.Sprintf(constant.NarrationScriptPromptV1,
		coaching.Problem,
		coaching.Skill,
		coaching.NextAction,
		coaching.SuccessSignal,
		analysis.KeyMomentSeconds,
		keyMomentCue(analysis),
		analysis.Diagnosis,
	)

	script, err := s.generateOnce(ctx, prompt, coaching)
	if err == nil {
		return script, nil
	}

	retryPrompt := fmt.Sprintf("%s\n\n%s", prompt, constant.NarrationScriptRetryPromptV1)
	script, retryErr := s.generateOnce(ctx, retryPrompt, coaching)
	if retryErr != nil {
		return nil, stageErr(stage, fmt.Errorf("after retry: %w (first attempt: %v)", retryErr, err))
	}

	return script, nil
}

func (s *NarrationScriptStage) generateOnce(ctx context.Context, prompt string, coaching *entity.CoachingText) (*entity.NarrationScript, error) {
	reply, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	doc, err := genai.ExtractJSON(reply)
	if err != nil {
		return nil, err
	}

	if err := validateAgainstSchema(narrationScriptSchema, doc); err != nil {
		return nil, err
	}

	var script entity.NarrationScript
	if err := json.Unmarshal([]byte(doc), &script); err != nil {
		return nil, err
	}

	// The pivot is not the model's to write.
	script.Pivot = constant.NarrationPivotLine

	if err := validateScriptConsistency(&script, coaching); err != nil {
		return nil, err
	}

	return &script, nil
}

// validateScriptConsistency requires the clip narration to carry the success
// signal so the learner hears the rule while watching their own mistake.
func validateScriptConsistency(script *entity.NarrationScript, coaching *entity.CoachingText) error {
	if !strings.Contains(script.Clip, coaching.SuccessSignal) {
		return fmt.Errorf("clip narration does not restate the success signal")
	}
	return nil
}

// keyMomentCue renders the observed event closest to the key moment so the
// narration can point at what is actually on screen.
func keyMomentCue(analysis *entity.VideoAnalysis) string {
	var best *entity.CookingEvent
	bestDist := math.MaxFloat64
	for i := range analysis.CookingEvents {
		seconds, err := parseEventTimestamp(analysis.CookingEvents[i].Timestamp)
		if err != nil {
			continue
		}
		dist := math.Abs(seconds - analysis.KeyMomentSeconds)
		if dist < bestDist {
			bestDist = dist
			best = &analysis.CookingEvents[i]
		}
	}
	if best == nil {
		return "(no observed events)"
	}
	return fmt.Sprintf("%s (%s)", best.EventLabel, best.EnvironmentState)
}

// parseEventTimestamp converts "MM:SS" or "HH:MM:SS" to seconds.
func parseEventTimestamp(ts string) (float64, error) {
	total := 0.0
	for _, part := range strings.Split(ts, ":") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q: %w", ts, err)
		}
		total = total*60 + float64(v)
	}
	return total, nil
}
