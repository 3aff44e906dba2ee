package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"cooking-coach-be/internal/entity"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for the structured model outputs. Every stage validates the
// raw model reply against its schema before unmarshalling into the entity.

var selfAssessmentSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["taste", "appearance", "texture", "aroma", "self_assessment"],
	"properties": {
		"taste":           {"type": "integer", "minimum": 1, "maximum": 5},
		"appearance":      {"type": "integer", "minimum": 1, "maximum": 5},
		"texture":         {"type": "integer", "minimum": 1, "maximum": 5},
		"aroma":           {"type": "integer", "minimum": 1, "maximum": 5},
		"self_assessment": {"type": "string"}
	}
}`)

var videoAnalysisSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["cooking_events", "key_moment_seconds", "diagnosis"],
	"properties": {
		"cooking_events": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["timestamp", "event_label", "environment_state"],
				"properties": {
					"timestamp":         {"type": "string"},
					"event_label":       {"type": "string", "minLength": 1},
					"environment_state": {"type": "string"}
				}
			}
		},
		"key_moment_seconds": {"type": "number", "minimum": 0},
		"diagnosis":          {"type": "string", "minLength": 1}
	}
}`)

var coachingTextSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["problem", "skill", "next_action", "success_signal"],
	"properties": {
		"problem":        {"type": "string", "minLength": 1},
		"skill":          {"type": "string", "minLength": 1},
		"next_action":    {"type": "string", "minLength": 1},
		"success_signal": {"type": "string", "minLength": 1}
	}
}`)

var narrationScriptSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["intro", "pivot", "clip"],
	"properties": {
		"intro": {"type": "string", "minLength": 1},
		"pivot": {"type": "string"},
		"clip":  {"type": "string", "minLength": 1}
	}
}`)

func validateAgainstSchema(schema gojsonschema.JSONLoader, doc string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// The coaching message must express every quantity in words. Both ASCII and
// full-width digits are rejected.
var digitPattern = regexp.MustCompile(`[0-9０-９]`)

func containsDigit(s string) bool {
	return digitPattern.MatchString(s)
}

// validateCoachingText enforces the no-digit rule across all four fields.
func validateCoachingText(c *entity.CoachingText) error {
	for field, value := range map[string]string{
		"problem":        c.Problem,
		"skill":          c.Skill,
		"next_action":    c.NextAction,
		"success_signal": c.SuccessSignal,
	} {
		if containsDigit(value) {
			return fmt.Errorf("field %s contains digits", field)
		}
	}
	return nil
}

// validateVideoAnalysis checks the key moment sits inside the video.
func validateVideoAnalysis(a *entity.VideoAnalysis, videoDuration float64) error {
	if a.KeyMomentSeconds < 0 || a.KeyMomentSeconds > videoDuration {
		return fmt.Errorf("key moment %.1fs outside video duration %.1fs", a.KeyMomentSeconds, videoDuration)
	}
	return nil
}
