package pipeline

import (
	"testing"

	"cooking-coach-be/internal/entity"
)

func TestContainsDigit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"no digits", "しっかり混ぜましょう", false},
		{"ascii digit", "3分ほど加熱します", true},
		{"fullwidth digit", "３分ほど加熱します", true},
		{"digit at end", "火加減はレベル5", true},
		{"empty string", "", false},
		{"kanji numerals pass", "三分ほど加熱します", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsDigit(tt.input); got != tt.want {
				t.Errorf("containsDigit(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateCoachingText(t *testing.T) {
	clean := func() *entity.CoachingText {
		return &entity.CoachingText{
			Problem:       "火が強すぎて表面が焦げています",
			Skill:         "弱めの中火を保つ",
			NextAction:    "次回は煙が出る前に火を弱めましょう",
			SuccessSignal: "縁がゆっくり固まり始めること",
		}
	}

	t.Run("clean text passes", func(t *testing.T) {
		if err := validateCoachingText(clean()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	mutations := []struct {
		name   string
		mutate func(c *entity.CoachingText)
	}{
		{"digit in problem", func(c *entity.CoachingText) { c.Problem = "3分焦げています" }},
		{"digit in skill", func(c *entity.CoachingText) { c.Skill = "火力を2に保つ" }},
		{"digit in next_action", func(c *entity.CoachingText) { c.NextAction = "５分待ちましょう" }},
		{"digit in success_signal", func(c *entity.CoachingText) { c.SuccessSignal = "180度になること" }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			c := clean()
			tt.mutate(c)
			if err := validateCoachingText(c); err == nil {
				t.Error("expected digit violation, got nil")
			}
		})
	}
}

func TestValidateVideoAnalysis(t *testing.T) {
	tests := []struct {
		name      string
		keyMoment float64
		duration  float64
		wantErr   bool
	}{
		{"inside video", 42.0, 300.0, false},
		{"at start", 0, 300.0, false},
		{"at exact end", 300.0, 300.0, false},
		{"beyond end", 301.0, 300.0, true},
		{"negative", -1.0, 300.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &entity.VideoAnalysis{KeyMomentSeconds: tt.keyMoment}
			err := validateVideoAnalysis(a, tt.duration)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateVideoAnalysis() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAgainstSchema(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name:    "valid coaching text",
			doc:     `{"problem":"a","skill":"b","next_action":"c","success_signal":"d"}`,
			wantErr: false,
		},
		{
			name:    "missing field",
			doc:     `{"problem":"a","skill":"b","next_action":"c"}`,
			wantErr: true,
		},
		{
			name:    "empty field",
			doc:     `{"problem":"","skill":"b","next_action":"c","success_signal":"d"}`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			doc:     `{"problem":1,"skill":"b","next_action":"c","success_signal":"d"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAgainstSchema(coachingTextSchema, tt.doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAgainstSchema() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVideoAnalysisSchemaRequiresEvents(t *testing.T) {
	doc := `{"key_moment_seconds": 10, "diagnosis": "x"}`
	if err := validateAgainstSchema(videoAnalysisSchema, doc); err == nil {
		t.Error("expected missing cooking_events to fail, got nil")
	}

	doc = `{"cooking_events":[{"timestamp":"01:20","event_label":"flip","environment_state":"smoking pan"}],"key_moment_seconds":80,"diagnosis":"overheated"}`
	if err := validateAgainstSchema(videoAnalysisSchema, doc); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVideoAnalysisSchemaRequiresKeyMoment(t *testing.T) {
	doc := `{"cooking_events":[{"timestamp":"01:20","event_label":"flip","environment_state":"smoking pan"}],"diagnosis":"overheated"}`
	if err := validateAgainstSchema(videoAnalysisSchema, doc); err == nil {
		t.Error("expected missing key_moment_seconds to fail, got nil")
	}
}
