package services

import (
	"context"
	"fmt"
	"sync"
)

// PlayerState is the lifecycle of one playback session.
type PlayerState string

const (
	PlayerIdle    PlayerState = "idle"
	PlayerLoading PlayerState = "loading"
	PlayerPlaying PlayerState = "playing"
	PlayerPaused  PlayerState = "paused"
)

type playbackSession struct {
	state PlayerState
	text  string
	audio []byte
}

// Player tracks one playback session per user and enforces the
// at-most-one-playing rule: starting new audio replaces whatever was
// active. State changes are broadcast over the realtime hub so every
// connected client renders the same controls.
type Player struct {
	mu       sync.Mutex
	speech   *SpeechService
	hub      *RealtimeHub
	sessions map[uint]*playbackSession
}

func NewPlayer(speech *SpeechService, hub *RealtimeHub) *Player {
	return &Player{
		speech:   speech,
		hub:      hub,
		sessions: make(map[uint]*playbackSession),
	}
}

// Play synthesizes text and starts a new session for the user. Any
// session already active for that user is stopped first.
func (p *Player) Play(ctx context.Context, userID uint, text string) ([]byte, error) {
	p.mu.Lock()
	p.sessions[userID] = &playbackSession{state: PlayerLoading, text: text}
	p.mu.Unlock()
	p.broadcast(userID, PlayerLoading)

	audio, err := p.speech.Synthesize(ctx, text)
	if err != nil {
		p.mu.Lock()
		delete(p.sessions, userID)
		p.mu.Unlock()
		p.broadcast(userID, PlayerIdle)
		return nil, err
	}

	p.mu.Lock()
	p.sessions[userID] = &playbackSession{state: PlayerPlaying, text: text, audio: audio}
	p.mu.Unlock()
	p.broadcast(userID, PlayerPlaying)
	return audio, nil
}

func (p *Player) Pause(userID uint) error {
	if err := p.transition(userID, PlayerPlaying, PlayerPaused); err != nil {
		return err
	}
	p.broadcast(userID, PlayerPaused)
	return nil
}

func (p *Player) Resume(userID uint) error {
	if err := p.transition(userID, PlayerPaused, PlayerPlaying); err != nil {
		return err
	}
	p.broadcast(userID, PlayerPlaying)
	return nil
}

// Stop ends the user's session. Stopping an idle player is a no-op.
func (p *Player) Stop(userID uint) {
	p.mu.Lock()
	_, active := p.sessions[userID]
	delete(p.sessions, userID)
	p.mu.Unlock()
	if active {
		p.broadcast(userID, PlayerIdle)
	}
}

// State reports the user's current player state.
func (p *Player) State(userID uint) PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[userID]; ok {
		return s.state
	}
	return PlayerIdle
}

func (p *Player) transition(userID uint, from, to PlayerState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[userID]
	if !ok || s.state != from {
		current := PlayerIdle
		if ok {
			current = s.state
		}
		return fmt.Errorf("invalid player transition: %s -> %s", current, to)
	}
	s.state = to
	return nil
}

func (p *Player) broadcast(userID uint, state PlayerState) {
	if p.hub == nil {
		return
	}
	p.hub.Broadcast(userID, map[string]any{
		"kind":  "player.state",
		"state": state,
	})
}
