package consultation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-triage/internal/triage"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusExpired    Status = "expired"
	StatusTerminated Status = "terminated"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the privacy-sensitive record of one conversation. It lives only
// in memory and is erased when the conversation ends.
type Session struct {
	mu sync.Mutex

	ID     uuid.UUID `json:"id"`
	Status Status    `json:"status"`

	Symptoms       []triage.SymptomEntity `json:"symptoms"`
	Assessment     *triage.RiskAssessment `json:"assessment,omitempty"`
	QuestionsAsked int                    `json:"questions_asked"`
	// ReachedEmergency stays set once any assessment was an emergency.
	ReachedEmergency bool `json:"reached_emergency"`

	History []Turn `json:"history"`

	// Silence accumulated since the last utterance.
	Silence         time.Duration `json:"-"`
	SilencePrompted bool          `json:"-"`

	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	// AutoEndAt is set after an assessment is delivered; zero means none.
	AutoEndAt time.Time `json:"auto_end_at,omitempty"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
}

func newSession(id uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:           id,
		Status:       StatusActive,
		Symptoms:     []triage.SymptomEntity{},
		History:      []Turn{},
		StartedAt:    now,
		LastActivity: now,
	}
}

func (s *Session) Active() bool {
	return s.Status == StatusActive
}

// RiskLevel is the level of the latest assessment, or "" before any.
func (s *Session) RiskLevel() triage.RiskLevel {
	if s.Assessment == nil {
		return ""
	}
	return s.Assessment.Level
}

func (s *Session) addTurn(role Role, content string, at time.Time) {
	s.History = append(s.History, Turn{Role: role, Content: content, Timestamp: at})
}

// close marks the session finished and erases everything it learned. Only
// the identity, final status and timestamps survive. Closing twice is a no-op.
func (s *Session) close(status Status, now time.Time) {
	if s.Active() {
		s.Status = status
		s.EndedAt = now
	}
	s.erase()
}

func (s *Session) erase() {
	for i := range s.Symptoms {
		s.Symptoms[i] = triage.SymptomEntity{}
	}
	for i := range s.History {
		s.History[i] = Turn{}
	}
	s.Symptoms = []triage.SymptomEntity{}
	s.History = []Turn{}
	s.Assessment = nil
	s.QuestionsAsked = 0
	s.ReachedEmergency = false
	s.Silence = 0
	s.SilencePrompted = false
	s.AutoEndAt = time.Time{}
}

// snapshot is the part of a session a failed turn must not change.
type snapshot struct {
	symptoms         []triage.SymptomEntity
	assessment       *triage.RiskAssessment
	questionsAsked   int
	reachedEmergency bool
	autoEndAt        time.Time
	historyLen       int
}

func (s *Session) snapshot() snapshot {
	snap := snapshot{
		symptoms:         triage.CloneSymptoms(s.Symptoms),
		questionsAsked:   s.QuestionsAsked,
		reachedEmergency: s.ReachedEmergency,
		autoEndAt:        s.AutoEndAt,
		historyLen:       len(s.History),
	}
	if s.Assessment != nil {
		a := s.Assessment.Clone()
		snap.assessment = &a
	}
	return snap
}

func (s *Session) restore(snap snapshot) {
	s.Symptoms = snap.symptoms
	s.Assessment = snap.assessment
	s.QuestionsAsked = snap.questionsAsked
	s.ReachedEmergency = snap.reachedEmergency
	s.AutoEndAt = snap.autoEndAt
	if snap.historyLen < len(s.History) {
		for i := snap.historyLen; i < len(s.History); i++ {
			s.History[i] = Turn{}
		}
		s.History = s.History[:snap.historyLen]
	}
}

// SessionContext is the orchestrator's working view of a session.
type SessionContext struct {
	Symptoms        []triage.SymptomEntity `json:"symptoms"`
	QuestionsAsked  int                    `json:"questions_asked"`
	RiskLevel       triage.RiskLevel       `json:"risk_level,omitempty"`
	SessionDuration float64                `json:"session_duration"`
}

func (s *Session) context(now time.Time) SessionContext {
	return SessionContext{
		Symptoms:        triage.CloneSymptoms(s.Symptoms),
		QuestionsAsked:  s.QuestionsAsked,
		RiskLevel:       s.RiskLevel(),
		SessionDuration: now.Sub(s.StartedAt).Seconds(),
	}
}
