package consultation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"voice-triage/internal/logging"
	"voice-triage/internal/response"
	"voice-triage/internal/triage"
)

// Transcriber converts recorded speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, params triage.SpeechParams) ([]byte, error)
}

// SessionView is the public summary of a session. It never carries symptom
// text or history.
type SessionView struct {
	ID              uuid.UUID        `json:"session_id"`
	Status          Status           `json:"status"`
	SymptomCount    int              `json:"symptom_count"`
	QuestionsAsked  int              `json:"questions_asked"`
	RiskLevel       triage.RiskLevel `json:"risk_level,omitempty"`
	SessionDuration float64          `json:"session_duration"`
}

// AudioReply is a Reply to a spoken turn.
type AudioReply struct {
	Reply
	Transcript string `json:"text"`
	Audio      []byte `json:"-"`
}

type Service interface {
	Start(ctx context.Context) (uuid.UUID, Reply, error)
	Utter(ctx context.Context, id uuid.UUID, text string) (Reply, error)
	ProcessAudio(ctx context.Context, id uuid.UUID, audio []byte) (AudioReply, error)
	Silence(ctx context.Context, id uuid.UUID, d time.Duration) (Reply, error)
	View(ctx context.Context, id uuid.UUID) (SessionView, error)
	End(ctx context.Context, id uuid.UUID) error
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
	// Sweep ends sessions whose grace delay or idle time has run out and
	// returns how many it removed.
	Sweep(ctx context.Context, now time.Time) int
}

const sttFailureReply = "I'm sorry, I couldn't make that out. Could you please say it again?"

type service struct {
	repo   Repository
	engine *Engine
	opts   Options
	stt    Transcriber
	tts    Synthesizer
	voice  string
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo Repository, engine *Engine, opts Options, stt Transcriber, tts Synthesizer, voice string) Service {
	return &service{
		repo:   repo,
		engine: engine,
		opts:   opts,
		stt:    stt,
		tts:    tts,
		voice:  voice,
		now:    time.Now,
		logger: logging.New("consultation"),
	}
}

func (s *service) conversation(sess *Session) *Conversation {
	c := NewConversation(s.engine, s.opts, sess)
	c.now = s.now
	return c
}

func (s *service) Start(ctx context.Context) (uuid.UUID, Reply, error) {
	sess, err := s.repo.Create(ctx)
	if err != nil {
		return uuid.Nil, Reply{}, fmt.Errorf("failed to start session: %w", err)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.logger.Info("session started", "session_id", sess.ID)
	return sess.ID, s.conversation(sess).Greet(), nil
}

// withConversation runs fn with the session locked, so turns of one session
// never overlap. Ended sessions are erased and removed afterwards.
func (s *service) withConversation(ctx context.Context, id uuid.UUID, fn func(c *Conversation) (Reply, error)) (Reply, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Reply{}, err
	}

	sess.mu.Lock()
	if !sess.Active() {
		sess.mu.Unlock()
		return Reply{}, ErrSessionClosed
	}
	conv := s.conversation(sess)
	if conv.AutoEndDue(s.now()) {
		conv.End(StatusCompleted)
		sess.mu.Unlock()
		s.remove(ctx, id)
		return Reply{}, ErrSessionClosed
	}
	reply, err := fn(conv)
	sess.mu.Unlock()

	if reply.Ended {
		s.remove(ctx, id)
	}
	return reply, err
}

func (s *service) remove(ctx context.Context, id uuid.UUID) {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete session", "session_id", id, "error", err)
	}
}

func (s *service) Utter(ctx context.Context, id uuid.UUID, text string) (Reply, error) {
	return s.withConversation(ctx, id, func(c *Conversation) (Reply, error) {
		return c.Handle(text)
	})
}

func (s *service) ProcessAudio(ctx context.Context, id uuid.UUID, audio []byte) (AudioReply, error) {
	var transcript string
	reply, err := s.withConversation(ctx, id, func(c *Conversation) (Reply, error) {
		text, err := s.stt.Transcribe(ctx, audio)
		if err != nil {
			s.logger.Warn("transcription failed", "session_id", id, "error", err)
			return Reply{Text: sttFailureReply}, nil
		}
		transcript = text
		if strings.TrimSpace(text) == "" {
			// no speech detected
			return Reply{}, nil
		}
		return c.Handle(text)
	})
	if err != nil {
		return AudioReply{}, err
	}

	out := AudioReply{Reply: reply, Transcript: transcript}
	if reply.Text != "" {
		audio, err := s.tts.Synthesize(ctx, reply.Text, response.Speech(reply.RiskLevel(), s.voice))
		if err != nil {
			s.logger.Warn("speech synthesis failed", "session_id", id, "error", err)
		} else {
			out.Audio = audio
		}
	}
	return out, nil
}

func (s *service) Silence(ctx context.Context, id uuid.UUID, d time.Duration) (Reply, error) {
	return s.withConversation(ctx, id, func(c *Conversation) (Reply, error) {
		return c.Silence(d)
	})
}

func (s *service) View(ctx context.Context, id uuid.UUID) (SessionView, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sc := sess.context(s.now())
	return SessionView{
		ID:              sess.ID,
		Status:          sess.Status,
		SymptomCount:    len(sc.Symptoms),
		QuestionsAsked:  sc.QuestionsAsked,
		RiskLevel:       sc.RiskLevel,
		SessionDuration: sc.SessionDuration,
	}, nil
}

// End terminates a session at the user's request. Unknown ids are ignored.
func (s *service) End(ctx context.Context, id uuid.UUID) error {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil
	}
	sess.mu.Lock()
	s.conversation(sess).End(StatusTerminated)
	sess.mu.Unlock()

	return s.repo.Delete(ctx, id)
}

func (s *service) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	return s.tts.Synthesize(ctx, text, response.Speech(triage.RiskMild, s.voice))
}

func (s *service) Sweep(ctx context.Context, now time.Time) int {
	removed := 0
	for _, id := range s.repo.IDs(ctx) {
		sess, err := s.repo.GetByID(ctx, id)
		if err != nil {
			continue
		}

		sess.mu.Lock()
		conv := s.conversation(sess)
		expire := true
		switch {
		case !sess.Active():
		case conv.AutoEndDue(now):
			conv.End(StatusCompleted)
		case s.opts.IdleTTL > 0 && now.Sub(sess.LastActivity) > s.opts.IdleTTL:
			conv.End(StatusExpired)
		default:
			expire = false
		}
		sess.mu.Unlock()

		if expire {
			s.remove(ctx, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("expired sessions removed", "count", removed)
	}
	return removed
}
