// Package ambiguity estimates how much information is still missing from a
// symptom description and produces follow-up questions.
package ambiguity

import (
	"fmt"
	"strings"

	"voice-triage/internal/nlp"
	"voice-triage/internal/phrase"
	"voice-triage/internal/triage"
)

const (
	noSymptomsWeight      = 0.8
	lowConfidenceWeight   = 0.4
	missingBodyPartWeight = 0.2
	missingSeverityWeight = 0.2
	missingDurationWeight = 0.1
	shortUtteranceWeight  = 0.3
	uncertaintyWeight     = 0.2

	lowConfidenceCutoff = 0.5
	specificityCutoff   = 0.6
	shortUtteranceWords = 3
	maxQuestionsPerTurn = 2
	DefaultThreshold    = 0.5
)

type Scorer struct {
	analyzer  *nlp.Analyzer
	picker    *phrase.Picker
	threshold float64
}

func NewScorer(analyzer *nlp.Analyzer, picker *phrase.Picker, threshold float64) *Scorer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Scorer{analyzer: analyzer, picker: picker, threshold: threshold}
}

type signals struct {
	bodyPart bool
	severity bool
	duration bool
}

func (s *Scorer) signals(text string, symptoms []triage.SymptomEntity) signals {
	c := s.analyzer.AnalyzeTextComplexity(text)
	sig := signals{bodyPart: c.HasBodyPart, severity: c.HasSeverity, duration: c.HasDuration}
	for _, sym := range symptoms {
		if sym.BodyPart != "" {
			sig.bodyPart = true
		}
		if sym.Severity != triage.SeverityMild {
			sig.severity = true
		}
		if sym.Duration != nil {
			sig.duration = true
		}
	}
	return sig
}

// Score returns a value in [0,1]; higher means more information is missing.
func (s *Scorer) Score(text string, symptoms []triage.SymptomEntity) float64 {
	score := 0.0
	if len(symptoms) == 0 {
		score += noSymptomsWeight
	} else if meanConfidence(symptoms) < lowConfidenceCutoff {
		score += lowConfidenceWeight
	}

	sig := s.signals(text, symptoms)
	if !sig.bodyPart {
		score += missingBodyPartWeight
	}
	if !sig.severity {
		score += missingSeverityWeight
	}
	if !sig.duration {
		score += missingDurationWeight
	}
	if len(strings.Fields(text)) < shortUtteranceWords {
		score += shortUtteranceWeight
	}
	if s.analyzer.HasUncertainty(text) {
		score += uncertaintyWeight
	}
	return min(score, 1.0)
}

// IsAmbiguous applies the configured threshold to Score.
func (s *Scorer) IsAmbiguous(text string, symptoms []triage.SymptomEntity) bool {
	return s.Score(text, symptoms) > s.threshold
}

// ClarificationQuestions returns at most two follow-up questions. The
// categories asked and their order depend only on the inputs; wording is
// picked from each category's pool.
func (s *Scorer) ClarificationQuestions(text string, symptoms []triage.SymptomEntity) []string {
	if len(symptoms) == 0 {
		return []string{s.picker.Pick(describeQuestions)}
	}

	main := MainSymptom(symptoms)
	name := main.Symptom
	severityCue := s.analyzer.AnalyzeTextComplexity(text).HasSeverity
	textBodyPart := s.analyzer.ExtractBodyPart(text) != ""
	textDuration := s.analyzer.ExtractDuration(text) != nil

	var questions []string
	add := func(pool []string) {
		if len(questions) >= maxQuestionsPerTurn {
			return
		}
		q := s.picker.Pick(pool)
		if strings.Contains(q, "%s") {
			q = fmt.Sprintf(q, name)
		}
		questions = append(questions, q)
	}

	if main.BodyPart == "" && !textBodyPart {
		add(bodyPartQuestions)
	}
	if main.Severity == triage.SeverityMild && !severityCue {
		add(severityQuestions)
	}
	if main.Duration == nil && !textDuration {
		add(durationQuestions)
	}
	if main.Confidence < specificityCutoff {
		add(specificityQuestions)
	}
	if len(symptoms) > 2 {
		add(priorityQuestions)
	}
	return questions
}

// MainSymptom is the most confident entity; earlier entries win ties.
// symptoms must not be empty.
func MainSymptom(symptoms []triage.SymptomEntity) triage.SymptomEntity {
	main := symptoms[0]
	for _, s := range symptoms[1:] {
		if s.Confidence > main.Confidence {
			main = s
		}
	}
	return main
}

func meanConfidence(symptoms []triage.SymptomEntity) float64 {
	if len(symptoms) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range symptoms {
		total += s.Confidence
	}
	return total / float64(len(symptoms))
}
