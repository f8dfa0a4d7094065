package consultation

import (
	"time"

	"voice-triage/internal/ambiguity"
	"voice-triage/internal/nlp"
	"voice-triage/internal/phrase"
	"voice-triage/internal/policy"
	"voice-triage/internal/response"
	"voice-triage/internal/risk"
	"voice-triage/internal/safety"
)

// Engine bundles the stateless triage components. One Engine is shared by
// every conversation.
type Engine struct {
	analyzer   *nlp.Analyzer
	scorer     *ambiguity.Scorer
	classifier *risk.Classifier
	guardian   *safety.Guardian
	generator  *response.Generator
	picker     *phrase.Picker
}

func NewEngine(p *policy.Policy, picker *phrase.Picker) *Engine {
	analyzer := nlp.NewAnalyzer()
	return &Engine{
		analyzer:   analyzer,
		scorer:     ambiguity.NewScorer(analyzer, picker, p.AmbiguityThreshold),
		classifier: risk.NewClassifier(p),
		guardian:   safety.NewGuardian(p, picker),
		generator:  response.NewGenerator(p, picker),
		picker:     picker,
	}
}

// Options are the per-conversation limits.
type Options struct {
	MaxQuestions  int
	SilencePrompt time.Duration
	SilenceEnd    time.Duration
	AutoEndDelay  time.Duration
	IdleTTL       time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxQuestions:  5,
		SilencePrompt: 30 * time.Second,
		SilenceEnd:    60 * time.Second,
		AutoEndDelay:  10 * time.Second,
		IdleTTL:       5 * time.Minute,
	}
}
