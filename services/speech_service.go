package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/config"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

const (
	ttsModelID = "eleven_multilingual_v2"

	ttsMaxRetries = 3
	ttsRetryDelay = time.Second
)

// SpeechService turns text into MPEG audio via the ElevenLabs API.
// Transient failures (timeouts, network drops, rate limits) are retried
// with a linearly growing delay; auth failures are not.
type SpeechService struct {
	baseURL string
	apiKey  string
	voiceID string
	client  *http.Client

	sleep func(ctx context.Context, d time.Duration) error
}

func NewSpeechService(settings *config.Settings) *SpeechService {
	return &SpeechService{
		baseURL: settings.TTSBaseURL,
		apiKey:  settings.TTSKey,
		voiceID: settings.TTSVoiceID,
		client:  &http.Client{Timeout: 30 * time.Second},
		sleep:   sleepCtx,
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize returns MPEG bytes for the given text.
func (s *SpeechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, &utils.ValidationError{Reason: "text is required"}
	}

	var lastErr error
	for attempt := 0; attempt <= ttsMaxRetries; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, ttsRetryDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}

		audio, err := s.synthesizeOnce(ctx, text)
		if err == nil {
			return audio, nil
		}
		lastErr = err
		if !retryableSpeechError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (s *SpeechService) synthesizeOnce(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: ttsModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech payload: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", s.baseURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &utils.ServiceError{Kind: utils.ServiceTimeout, Err: err}
		}
		return nil, &utils.ServiceError{Kind: utils.ServiceUnknown, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, utils.ClassifyHTTPStatus(resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &utils.ServiceError{Kind: utils.ServiceUnknown, Err: fmt.Errorf("failed to read audio stream: %w", err)}
	}
	if len(audio) == 0 {
		return nil, &utils.ServiceError{Kind: utils.ServiceUnknown, Err: fmt.Errorf("empty audio stream")}
	}
	return audio, nil
}

// retryableSpeechError admits timeouts, network-level unknowns and rate
// limits; auth failures would fail the same way again.
func retryableSpeechError(err error) bool {
	var se *utils.ServiceError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Kind {
	case utils.ServiceTimeout, utils.ServiceRateLimit, utils.ServiceUnknown:
		return true
	default:
		return false
	}
}
