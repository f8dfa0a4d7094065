package consultation

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voice-triage/internal/ambiguity"
	"voice-triage/internal/logging"
	"voice-triage/internal/nlp"
	"voice-triage/internal/triage"
)

const (
	signalBonus       = 0.1
	genericSymptom    = "general discomfort"
	maxListedSymptoms = 4
)

// Reply is what the assistant says after one event.
type Reply struct {
	Text       string                 `json:"response"`
	Intent     nlp.Intent             `json:"intent,omitempty"`
	Questions  []string               `json:"questions,omitempty"`
	Assessment *triage.RiskAssessment `json:"assessment,omitempty"`
	// AutoEnd is set when an assessment was delivered and the session should
	// end after the grace delay.
	AutoEnd bool `json:"auto_end,omitempty"`
	Ended   bool `json:"ended"`
}

// RiskLevel of the delivered assessment, or "".
func (r Reply) RiskLevel() triage.RiskLevel {
	if r.Assessment == nil {
		return ""
	}
	return r.Assessment.Level
}

// Conversation drives one session through the triage dialog. It is not safe
// for concurrent use; callers serialise events for a session.
type Conversation struct {
	engine  *Engine
	opts    Options
	session *Session
	now     func() time.Time
	logger  *slog.Logger
}

func NewConversation(engine *Engine, opts Options, session *Session) *Conversation {
	return &Conversation{
		engine:  engine,
		opts:    opts,
		session: session,
		now:     time.Now,
		logger:  logging.New("conversation").With("session_id", session.ID),
	}
}

func (c *Conversation) Session() *Session {
	return c.session
}

func (c *Conversation) Context() SessionContext {
	return c.session.context(c.now())
}

// Greet opens the dialog.
func (c *Conversation) Greet() Reply {
	text := c.engine.picker.Pick(greetings)
	c.session.addTurn(RoleAssistant, text, c.now())
	return Reply{Text: text}
}

// Handle processes one utterance. A failing turn leaves the session as it
// was before the turn and returns an apology instead of an error.
func (c *Conversation) Handle(text string) (Reply, error) {
	s := c.session
	if !s.Active() {
		return Reply{}, ErrSessionClosed
	}

	snap := s.snapshot()
	now := c.now()
	s.LastActivity = now
	s.Silence = 0
	s.SilencePrompted = false
	s.addTurn(RoleUser, text, now)

	reply := c.safeProcess(text, snap)
	if reply.Ended {
		return reply, nil
	}
	s.addTurn(RoleAssistant, reply.Text, c.now())
	return reply, nil
}

func (c *Conversation) safeProcess(text string, snap snapshot) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("turn failed, restoring session state", "panic", r)
			c.session.restore(snap)
			reply = c.turnFailure()
		}
	}()
	return c.process(text)
}

func (c *Conversation) turnFailure() Reply {
	// No picker here: the failure may have come from it.
	return Reply{Text: turnFailures[0]}
}

func (c *Conversation) process(text string) Reply {
	intent := c.engine.analyzer.DetectIntent(text)
	c.logger.Debug("intent detected", "intent", intent)

	var reply Reply
	switch intent {
	case nlp.IntentEndSession:
		reply = c.End(StatusCompleted)
	case nlp.IntentAskClarification:
		reply = c.reconfirm()
	case nlp.IntentRequestHelp:
		reply = Reply{Text: c.engine.picker.Pick(helpMessages)}
	case nlp.IntentUnknown:
		switch {
		case len(c.session.Symptoms) > 0:
			reply = c.classify("")
		case c.engine.analyzer.HasSymptomKeywords(text):
			reply = c.describe(text)
		default:
			reply = Reply{Text: c.engine.picker.Pick(reprompts)}
		}
	default:
		reply = c.describe(text)
	}
	reply.Intent = intent
	return reply
}

// describe merges what the utterance adds and then either asks a follow-up
// or classifies.
func (c *Conversation) describe(text string) Reply {
	s := c.session
	found := c.engine.analyzer.ExtractSymptoms(text)

	var ack string
	switch {
	case len(found) > 0:
		s.Symptoms = mergeSymptoms(s.Symptoms, found)
		ack = fmt.Sprintf(c.engine.picker.Pick(confirmations), joinNames(found))
	case len(s.Symptoms) > 0:
		if name, ok := c.enrich(text); ok {
			ack = fmt.Sprintf(c.engine.picker.Pick(enrichments), name)
		}
	}

	if c.shouldAsk(text) {
		questions := c.engine.scorer.ClarificationQuestions(text, s.Symptoms)
		questions = questions[:min(len(questions), c.opts.MaxQuestions-s.QuestionsAsked)]
		if len(questions) > 0 {
			s.QuestionsAsked += len(questions)
			// a pending auto-end would cut off the answer
			s.AutoEndAt = time.Time{}
			c.logger.Info("asking follow-up",
				"questions", len(questions), "questions_asked", s.QuestionsAsked, "symptoms", len(s.Symptoms))
			return Reply{Text: joinText(ack, strings.Join(questions, " ")), Questions: questions}
		}
	}
	return c.classify(ack)
}

// shouldAsk applies the question budget and the ambiguity threshold. No
// question is asked once emergency signs are present.
func (c *Conversation) shouldAsk(text string) bool {
	s := c.session
	if s.QuestionsAsked >= c.opts.MaxQuestions || s.ReachedEmergency {
		return false
	}
	if len(s.Symptoms) == 0 {
		return true
	}
	if c.engine.classifier.HasEmergencySign(s.Symptoms) {
		return false
	}
	main := ambiguity.MainSymptom(s.Symptoms)
	return c.engine.scorer.IsAmbiguous(text, []triage.SymptomEntity{main})
}

// enrich applies duration, severity or body part cues from a follow-up
// answer to the main symptom.
func (c *Conversation) enrich(text string) (string, bool) {
	s := c.session
	a := c.engine.analyzer
	idx := mainIndex(s.Symptoms)
	target := s.Symptoms[idx]

	changed := false
	if d := a.ExtractDuration(text); d != nil {
		target.Duration = d
		target.Confidence += signalBonus
		changed = true
	}
	if a.AnalyzeTextComplexity(text).HasSeverity {
		if sev := a.ExtractSeverity(text); sev.Rank() > target.Severity.Rank() {
			target.Severity = sev
		}
		target.Confidence += signalBonus
		changed = true
	}
	if target.BodyPart == "" {
		if part := a.ExtractBodyPart(text); part != "" {
			target.BodyPart = part
			target.Confidence += signalBonus
			changed = true
		}
	}
	if !changed {
		return "", false
	}
	target.Confidence = min(target.Confidence, 1.0)

	updated := triage.CloneSymptoms(s.Symptoms)
	updated[idx] = target
	// a newly named body part can collide with another entry
	s.Symptoms = mergeSymptoms(nil, updated)
	return target.Symptom, true
}

// classify runs the assessment pipeline and schedules the automatic end.
func (c *Conversation) classify(ack string) Reply {
	s := c.session
	e := c.engine

	a := e.classifier.Classify(s.Symptoms)
	a = e.guardian.EnforceEmergencyProtocol(a)
	text := e.guardian.GenerateSafeResponse(e.generator.Generate(a), a)

	s.Assessment = &a
	if a.Level == triage.RiskEmergency {
		s.ReachedEmergency = true
	}
	s.AutoEndAt = c.now().Add(c.opts.AutoEndDelay)

	c.logger.Info("risk assessed",
		"level", a.Level, "confidence", a.Confidence, "symptoms", len(s.Symptoms), "questions_asked", s.QuestionsAsked)

	out := a.Clone()
	return Reply{Text: joinText(ack, text), Assessment: &out, AutoEnd: true}
}

func (c *Conversation) reconfirm() Reply {
	if len(c.session.Symptoms) == 0 {
		return Reply{Text: joinText(noteFallback, c.engine.picker.Pick(reprompts))}
	}
	details := make([]string, 0, len(c.session.Symptoms))
	for _, sym := range c.session.Symptoms {
		details = append(details, describeSymptom(sym))
	}
	return Reply{Text: "So far I have noted " + joinList(details) + "."}
}

// Silence accounts for a stretch of silence. It prompts once at the first
// threshold and ends the session at the second.
func (c *Conversation) Silence(d time.Duration) (Reply, error) {
	s := c.session
	if !s.Active() {
		return Reply{}, ErrSessionClosed
	}

	s.Silence += d
	switch {
	case s.Silence >= c.opts.SilenceEnd:
		c.logger.Info("silence limit reached", "silence", s.Silence)
		return c.End(StatusExpired), nil
	case s.Silence >= c.opts.SilencePrompt && !s.SilencePrompted:
		s.SilencePrompted = true
		text := c.engine.picker.Pick(stillThere)
		s.addTurn(RoleAssistant, text, c.now())
		return Reply{Text: text}, nil
	}
	return Reply{}, nil
}

// AutoEndDue reports whether the post-assessment grace delay has elapsed.
func (c *Conversation) AutoEndDue(now time.Time) bool {
	at := c.session.AutoEndAt
	return !at.IsZero() && !now.Before(at)
}

// End says goodbye and erases the session. The erasure runs even when
// producing the goodbye fails. Ending an ended session is a no-op.
func (c *Conversation) End(status Status) (reply Reply) {
	s := c.session
	if !s.Active() {
		return Reply{Ended: true}
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("closing message failed", "panic", r)
			reply = Reply{Text: closings[0], Ended: true}
		}
		s.close(status, c.now())
		c.logger.Info("session ended", "status", status)
	}()
	return Reply{Text: c.closing(status), Ended: true}
}

func (c *Conversation) closing(status Status) string {
	switch {
	case status == StatusExpired:
		return c.engine.picker.Pick(silenceClosings)
	case c.session.ReachedEmergency:
		return c.engine.picker.Pick(emergencyClosings)
	default:
		return c.engine.picker.Pick(closings)
	}
}

// mergeSymptoms adds found to existing, deduplicating by symptom and body
// part. A duplicate fills a missing duration, raises severity and keeps the
// higher confidence. Specific symptoms replace a general discomfort entry.
func mergeSymptoms(existing, found []triage.SymptomEntity) []triage.SymptomEntity {
	out := triage.CloneSymptoms(existing)
	if out == nil {
		out = []triage.SymptomEntity{}
	}
	for _, f := range triage.CloneSymptoms(found) {
		merged := false
		for i := range out {
			if out[i].Key() != f.Key() {
				continue
			}
			if out[i].Duration == nil && f.Duration != nil {
				out[i].Duration = f.Duration
			}
			if f.Severity.Rank() > out[i].Severity.Rank() {
				out[i].Severity = f.Severity
			}
			out[i].Confidence = max(out[i].Confidence, f.Confidence)
			merged = true
			break
		}
		if !merged {
			out = append(out, f)
		}
	}

	if hasSpecific(out) {
		specific := out[:0]
		for _, sym := range out {
			if sym.Symptom != genericSymptom {
				specific = append(specific, sym)
			}
		}
		out = specific
	}
	return out
}

func hasSpecific(symptoms []triage.SymptomEntity) bool {
	for _, s := range symptoms {
		if s.Symptom != genericSymptom {
			return true
		}
	}
	return false
}

func mainIndex(symptoms []triage.SymptomEntity) int {
	idx := 0
	for i, s := range symptoms {
		if s.Confidence > symptoms[idx].Confidence {
			idx = i
		}
	}
	return idx
}

func describeSymptom(s triage.SymptomEntity) string {
	parts := []string{string(s.Severity) + " " + s.Symptom}
	if s.BodyPart != "" {
		parts = append(parts, "in your "+s.BodyPart)
	}
	if s.Duration != nil {
		parts = append(parts, "for "+s.Duration.String())
	}
	return strings.Join(parts, " ")
}

func joinNames(symptoms []triage.SymptomEntity) string {
	names := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		if len(names) == maxListedSymptoms {
			break
		}
		names = append(names, s.Symptom)
	}
	return joinList(names)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}

func joinText(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
