// Package voice runs the spoken assistant: it reacts to wake, speech and
// silence events and drives one conversation at a time.
package voice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-triage/internal/agent"
	"voice-triage/internal/consultation"
	"voice-triage/internal/logging"
	"voice-triage/internal/response"
	"voice-triage/internal/triage"
)

type State string

const (
	StateStandby    State = "STANDBY"
	StateListening  State = "LISTENING"
	StateProcessing State = "PROCESSING"
	StateResponding State = "RESPONDING"
	StateError      State = "ERROR"
)

// Speaker voices a reply and returns once it has been spoken.
type Speaker interface {
	Speak(ctx context.Context, text string, params triage.SpeechParams) error
}

const (
	hearingFailure = "I'm sorry, I couldn't make that out. Could you please say it again?"
	hearingTimeout = "Sorry, that took too long to understand. Could you say it again?"
)

type Assistant struct {
	repo    consultation.Repository
	engine  *consultation.Engine
	opts    consultation.Options
	stt     consultation.Transcriber
	speaker Speaker
	voice   string
	logger  *slog.Logger

	mu    sync.Mutex
	state State

	conv    *consultation.Conversation
	autoEnd <-chan time.Time
	after   func(time.Duration) <-chan time.Time
	onState func(State)
	onEnd   func(id uuid.UUID, status consultation.Status)
}

func NewAssistant(repo consultation.Repository, engine *consultation.Engine, opts consultation.Options,
	stt consultation.Transcriber, speaker Speaker, voice string) *Assistant {
	return &Assistant{
		repo:    repo,
		engine:  engine,
		opts:    opts,
		stt:     stt,
		speaker: speaker,
		voice:   voice,
		logger:  logging.New("voice"),
		state:   StateStandby,
		after:   time.After,
	}
}

// OnSessionEnd registers fn to be called after a session has been erased.
// It must be set before Run.
func (a *Assistant) OnSessionEnd(fn func(id uuid.UUID, status consultation.Status)) {
	a.onEnd = fn
}

func (a *Assistant) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Assistant) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
	if a.onState != nil {
		a.onState(s)
	}
}

// Run handles events in arrival order until ctx is done or events is
// closed. An open session is ended and erased before Run returns.
func (a *Assistant) Run(ctx context.Context, events <-chan Event) error {
	a.logger.Info("assistant standing by")
	defer a.shutdown(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			a.handle(ctx, ev)
		case <-a.autoEnd:
			a.autoEnd = nil
			if a.conv != nil {
				a.logger.Info("grace delay elapsed, ending session")
				a.respond(ctx, a.conv.End(consultation.StatusCompleted))
			}
		}
	}
}

func (a *Assistant) shutdown(ctx context.Context) {
	if a.conv == nil {
		return
	}
	a.finish(context.WithoutCancel(ctx), consultation.StatusTerminated)
}

func (a *Assistant) handle(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventWake:
		a.wake(ctx)
	case EventSpeech:
		a.speech(ctx, ev.Audio)
	case EventSilence:
		a.silence(ctx, ev.Silence)
	}
}

func (a *Assistant) wake(ctx context.Context) {
	if a.conv != nil {
		a.logger.Debug("wake ignored, session already open")
		return
	}
	sess, err := a.repo.Create(ctx)
	if err != nil {
		a.logger.Error("failed to create session", "error", err)
		a.setState(StateError)
		a.setState(StateStandby)
		return
	}
	a.conv = consultation.NewConversation(a.engine, a.opts, sess)
	a.logger.Info("session started", "session_id", sess.ID)
	a.respond(ctx, a.conv.Greet())
}

func (a *Assistant) speech(ctx context.Context, audio []byte) {
	if a.conv == nil {
		return
	}
	a.setState(StateProcessing)

	text, err := a.stt.Transcribe(ctx, audio)
	if err != nil {
		a.logger.Warn("transcription failed", "error", err)
		msg := hearingFailure
		if errors.Is(err, agent.ErrTranscriptionTimeout) {
			msg = hearingTimeout
		}
		a.respond(ctx, consultation.Reply{Text: msg})
		return
	}
	if strings.TrimSpace(text) == "" {
		a.setState(StateListening)
		return
	}

	reply, err := a.conv.Handle(text)
	if err != nil {
		a.logger.Error("utterance rejected", "error", err)
		a.finish(ctx, consultation.StatusTerminated)
		return
	}
	a.respond(ctx, reply)
}

func (a *Assistant) silence(ctx context.Context, d time.Duration) {
	if a.conv == nil {
		return
	}
	reply, err := a.conv.Silence(d)
	if err != nil {
		a.logger.Error("silence rejected", "error", err)
		a.finish(ctx, consultation.StatusTerminated)
		return
	}
	if reply.Text == "" && !reply.Ended {
		return
	}
	a.respond(ctx, reply)
}

// respond speaks the reply and moves to the next state. A speech failure
// never prevents an ended session from being erased.
func (a *Assistant) respond(ctx context.Context, reply consultation.Reply) {
	if reply.Text != "" {
		a.setState(StateResponding)
		params := response.Speech(reply.RiskLevel(), a.voice)
		if err := a.speaker.Speak(ctx, reply.Text, params); err != nil {
			a.logger.Error("failed to speak reply", "error", err)
			a.setState(StateError)
		}
	}

	if reply.Ended {
		a.finish(ctx, a.conv.Session().Status)
		return
	}
	switch {
	case reply.AutoEnd:
		a.autoEnd = a.after(a.opts.AutoEndDelay)
	case len(reply.Questions) > 0:
		// the user is answering a fresh question
		a.autoEnd = nil
	}
	a.setState(StateListening)
}

// finish removes the erased session and returns to standby.
func (a *Assistant) finish(ctx context.Context, status consultation.Status) {
	id := a.conv.Session().ID
	a.conv.End(status)
	if err := a.repo.Delete(ctx, id); err != nil {
		a.logger.Error("failed to delete session", "session_id", id, "error", err)
	}
	a.conv = nil
	a.autoEnd = nil
	a.setState(StateStandby)
	a.logger.Info("session closed", "session_id", id, "status", status)
	if a.onEnd != nil {
		a.onEnd(id, status)
	}
}
