package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"voice-assistant/internal/domain"
)

// Session runs the turn-taking loop: one user input (typed or spoken) is
// carried through transcription, generation and speech output strictly in
// order, then the UI is told to re-render. Exactly one turn is in flight at
// a time; triggers arriving while busy are rejected with ErrSessionBusy.
type Session struct {
	recorder Recorder
	stt      Transcriber
	chat     Responder
	speaker  Speaker
	events   EventSink
	logger   *slog.Logger

	mu      sync.Mutex
	state   domain.SessionState
	history *domain.Conversation
}

func NewSession(
	recorder Recorder,
	stt Transcriber,
	chat Responder,
	speaker Speaker,
	events EventSink,
	logger *slog.Logger,
) *Session {
	if events == nil {
		events = &NoopSink{}
	}
	return &Session{
		recorder: recorder,
		stt:      stt,
		chat:     chat,
		speaker:  speaker,
		events:   events,
		logger:   logger,
		state:    domain.StateIdle,
		history:  domain.NewConversation(),
	}
}

func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) History() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Turns()
}

// Clear resets the conversation. Only allowed between turns.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Busy() {
		return domain.ErrSessionBusy
	}
	s.history.Clear()
	return nil
}

// SubmitText runs one typed turn through generation and speech output.
func (s *Session) SubmitText(ctx context.Context, text string) (domain.TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.TurnResult{}, fmt.Errorf("empty input")
	}

	if err := s.begin(domain.StateGenerating); err != nil {
		return domain.TurnResult{}, err
	}

	s.logger.Info("typed turn started", "chars", len(text))
	return s.completeTurn(ctx, text, false, time.Now())
}

// StartRecording acquires the microphone and begins capturing a voice turn.
func (s *Session) StartRecording(ctx context.Context) error {
	if err := s.begin(domain.StateRecording); err != nil {
		return err
	}

	if err := s.recorder.Start(ctx); err != nil {
		wrapped := domain.NewStageError(domain.StageCapture, err)
		s.fail(wrapped)
		return wrapped
	}

	s.logger.Info("recording started", "recorder", s.recorder.Name())
	return nil
}

// StopRecording ends capture and runs the rest of the voice pipeline:
// transcription, generation, speech output.
func (s *Session) StopRecording(ctx context.Context) (domain.TurnResult, error) {
	if err := s.transition(domain.StateRecording, domain.StateTranscribing); err != nil {
		return domain.TurnResult{}, err
	}
	started := time.Now()

	audio, err := s.recorder.Stop()
	if err != nil {
		wrapped := domain.NewStageError(domain.StageCapture, err)
		s.fail(wrapped)
		return domain.TurnResult{}, wrapped
	}

	s.logger.Info("recording stopped", "bytes", len(audio))

	text, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		wrapped := domain.NewStageError(domain.StageTranscription, err)
		s.fail(wrapped)
		return domain.TurnResult{}, wrapped
	}
	text = strings.TrimSpace(text)
	if text == "" {
		wrapped := domain.NewStageError(domain.StageTranscription, fmt.Errorf("empty transcription result"))
		s.fail(wrapped)
		return domain.TurnResult{}, wrapped
	}

	s.logger.Info("transcribed", "text", text)
	s.setState(domain.StateGenerating)

	return s.completeTurn(ctx, text, true, started)
}

// CancelRecording discards an in-progress capture without running the
// pipeline. The device is still released.
func (s *Session) CancelRecording() error {
	if err := s.transition(domain.StateRecording, domain.StateIdle); err != nil {
		return err
	}
	if _, err := s.recorder.Stop(); err != nil {
		s.logger.Warn("releasing recorder after cancel", "error", err)
	}
	s.logger.Info("recording cancelled")
	return nil
}

// completeTurn runs generation and speech for an input that has already been
// transcribed (or typed). The caller must hold the generating state.
func (s *Session) completeTurn(ctx context.Context, text string, spoken bool, started time.Time) (domain.TurnResult, error) {
	reply, err := s.chat.Respond(ctx, s.History(), text)
	if err != nil {
		wrapped := domain.NewStageError(domain.StageGeneration, err)
		s.fail(wrapped)
		return domain.TurnResult{}, wrapped
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		wrapped := domain.NewStageError(domain.StageGeneration, fmt.Errorf("empty completion"))
		s.fail(wrapped)
		return domain.TurnResult{}, wrapped
	}

	userTurn := domain.NewTurn(domain.RoleUser, text, spoken)
	assistantTurn := domain.NewTurn(domain.RoleAssistant, reply, false)
	result := domain.TurnResult{User: userTurn, Assistant: assistantTurn}

	s.mu.Lock()
	s.history.AppendPair(userTurn, assistantTurn)
	s.mu.Unlock()

	s.logger.Info("turn completed", "reply_chars", len(reply))
	s.events.TurnCompleted(result, time.Since(started))

	// The turn pair is already in the history: a synthesis failure is a
	// presentation error, not a data error.
	s.setState(domain.StateSpeaking)
	if err := s.speaker.Speak(ctx, reply); err != nil {
		wrapped := domain.NewStageError(domain.StageSynthesis, err)
		s.logger.Error("speaking reply", "speaker", s.speaker.Name(), "error", err)
		s.events.TurnFailed(domain.StageSynthesis, wrapped)
		s.setState(domain.StateError)
		s.setState(domain.StateIdle)
		return result, nil
	}

	s.setState(domain.StateIdle)
	return result, nil
}

// begin moves the session from rest into the given state, rejecting the
// trigger if a turn is already in flight.
func (s *Session) begin(next domain.SessionState) error {
	s.mu.Lock()
	if s.state.Busy() {
		s.mu.Unlock()
		return domain.ErrSessionBusy
	}
	s.state = next
	s.mu.Unlock()

	// Published outside the lock: a slow sink must not hold up State()
	// or the next trigger's busy check.
	s.events.StateChanged(next)
	return nil
}

// transition moves between two in-flight states, requiring the current one.
func (s *Session) transition(from, to domain.SessionState) error {
	s.mu.Lock()
	if s.state != from {
		busy := s.state.Busy()
		s.mu.Unlock()
		if busy {
			return domain.ErrSessionBusy
		}
		return domain.ErrNotRecording
	}
	s.state = to
	s.mu.Unlock()

	s.events.StateChanged(to)
	return nil
}

func (s *Session) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.events.StateChanged(state)
}

// fail reports a pipeline failure and returns the session to idle. History
// is never touched here; stages that run before generation completed have
// appended nothing.
func (s *Session) fail(err *domain.StageError) {
	s.logger.Error("turn failed", "stage", err.Stage, "error", err.Err)
	s.events.TurnFailed(err.Stage, err)
	s.setState(domain.StateError)
	s.setState(domain.StateIdle)
}
