package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/config"
	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

func newTestSpeech(t *testing.T, handler http.HandlerFunc) *SpeechService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewSpeechService(&config.Settings{
		TTSBaseURL: server.URL,
		TTSKey:     "tts-key",
		TTSVoiceID: "voice-1",
	})
	svc.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return svc
}

func TestSynthesizeReturnsAudio(t *testing.T) {
	svc := newTestSpeech(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "tts-key" {
			t.Errorf("api key header = %q", r.Header.Get("xi-api-key"))
		}
		w.Write([]byte("MPEG-AUDIO-BYTES"))
	})

	audio, err := svc.Synthesize(context.Background(), "This snack scores 68 out of 100.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "MPEG-AUDIO-BYTES" {
		t.Errorf("audio = %q", audio)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	svc := newTestSpeech(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote API must not be called for empty text")
	})

	_, err := svc.Synthesize(context.Background(), "")
	var ve *utils.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSynthesizeRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	svc := newTestSpeech(t, func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			http.Error(w, "busy", http.StatusTooManyRequests)
		case 2:
			http.Error(w, "flaky", http.StatusInternalServerError)
		default:
			w.Write([]byte("AUDIO"))
		}
	})

	audio, err := svc.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("remote called %d times, want 3", calls.Load())
	}
	if len(audio) == 0 {
		t.Error("expected audio after retries")
	}
}

func TestSynthesizeGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	svc := newTestSpeech(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "busy", http.StatusTooManyRequests)
	})

	_, err := svc.Synthesize(context.Background(), "hello")
	if !utils.IsRateLimited(err) {
		t.Fatalf("expected the final rate-limit error, got %v", err)
	}
	if calls.Load() != ttsMaxRetries+1 {
		t.Errorf("remote called %d times, want %d", calls.Load(), ttsMaxRetries+1)
	}
}

func TestSynthesizeDoesNotRetryAuthFailure(t *testing.T) {
	var calls atomic.Int32
	svc := newTestSpeech(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	_, err := svc.Synthesize(context.Background(), "hello")
	var se *utils.ServiceError
	if !errors.As(err, &se) || se.Kind != utils.ServiceAuth {
		t.Fatalf("expected auth ServiceError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("remote called %d times, want 1", calls.Load())
	}
}

func TestSynthesizeLinearBackoff(t *testing.T) {
	var delays []time.Duration
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	svc := NewSpeechService(&config.Settings{TTSBaseURL: server.URL, TTSKey: "k", TTSVoiceID: "v"})
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, _ = svc.Synthesize(context.Background(), "hello")

	want := []time.Duration{ttsRetryDelay, 2 * ttsRetryDelay, 3 * ttsRetryDelay}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}
