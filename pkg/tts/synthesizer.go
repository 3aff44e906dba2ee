package tts

import (
	"context"
	"fmt"
	"os"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

// Synthesizer renders narration text into MP3 audio for the coaching video.
type Synthesizer struct {
	client       *texttospeech.Client
	languageCode string
	voiceName    string
}

func NewSynthesizer(ctx context.Context, languageCode string, voiceName string, opts ...option.ClientOption) (*Synthesizer, error) {
	c, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("texttospeech client: %w", err)
	}

	return &Synthesizer{
		client:       c,
		languageCode: languageCode,
		voiceName:    voiceName,
	}, nil
}

// Synthesize renders the text and returns the MP3 bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.languageCode,
			Name:         s.voiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := s.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	return resp.AudioContent, nil
}

// SynthesizeToFile renders the text straight into a local MP3 file.
func (s *Synthesizer) SynthesizeToFile(ctx context.Context, text string, path string) error {
	audio, err := s.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return os.WriteFile(path, audio, 0o644)
}

func (s *Synthesizer) Close() error {
	return s.client.Close()
}
