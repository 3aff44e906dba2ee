package pipeline

import "testing"

func TestClipStart(t *testing.T) {
	tests := []struct {
		name      string
		keyMoment float64
		duration  float64
		clipDur   float64
		want      float64
	}{
		{"key moment in middle", 60, 300, 15, 60},
		{"key moment at start", 0, 300, 15, 0},
		{"key moment near end clamps", 295, 300, 15, 285},
		{"key moment at exact end clamps", 300, 300, 15, 285},
		{"video shorter than clip", 5, 10, 15, 0},
		{"video exactly clip length", 8, 15, 15, 0},
		{"key moment exactly at latest start", 285, 300, 15, 285},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipStart(tt.keyMoment, tt.duration, tt.clipDur)
			if got != tt.want {
				t.Errorf("ClipStart(%v, %v, %v) = %v, want %v", tt.keyMoment, tt.duration, tt.clipDur, got, tt.want)
			}
		})
	}
}

func TestSegmentDuration(t *testing.T) {
	tests := []struct {
		name      string
		clipLen   float64
		narration float64
		want      float64
	}{
		{"narration shorter than clip", 15, 10, 15},
		{"narration longer than clip", 15, 22.5, 22.5},
		{"equal", 15, 15, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentDuration(tt.clipLen, tt.narration)
			if got != tt.want {
				t.Errorf("SegmentDuration(%v, %v) = %v, want %v", tt.clipLen, tt.narration, got, tt.want)
			}
		})
	}
}
