package entity

// Stage output records. These are the typed data contracts between pipeline
// stages; each one is validated at the stage boundary before it is persisted.

// CookingEvent is one observed, timestamped event in the source video.
type CookingEvent struct {
	Timestamp        string `json:"timestamp"` // "MM:SS" or "HH:MM:SS" position in the source video
	EventLabel       string `json:"event_label"`
	EnvironmentState string `json:"environment_state"`
}

// VideoAnalysis is the structured result of the video analysis stage.
type VideoAnalysis struct {
	CookingEvents    []CookingEvent `json:"cooking_events"`
	KeyMomentSeconds float64        `json:"key_moment_seconds"`
	Diagnosis        string         `json:"diagnosis"`
}

// SelfAssessment is the structured extract of the user's voice memo / free text.
type SelfAssessment struct {
	Taste          int    `json:"taste"`
	Appearance     int    `json:"appearance"`
	Texture        int    `json:"texture"`
	Aroma          int    `json:"aroma"`
	SelfAssessment string `json:"self_assessment"`
}

// CoachingText is the four-field coaching message delivered at text_ready.
type CoachingText struct {
	Problem       string `json:"problem"`
	Skill         string `json:"skill"`
	NextAction    string `json:"next_action"`
	SuccessSignal string `json:"success_signal"`
}

// NarrationScript is the three-part script driving video production.
// Pivot is always the fixed literal line, never model output.
type NarrationScript struct {
	Intro string `json:"intro"`
	Pivot string `json:"pivot"`
	Clip  string `json:"clip"`
}
