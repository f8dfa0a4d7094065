// Package response turns a risk assessment into spoken guidance.
package response

import (
	"fmt"
	"strings"

	"voice-triage/internal/phrase"
	"voice-triage/internal/policy"
	"voice-triage/internal/triage"
)

const (
	highConfidence     = 0.8
	moderateConfidence = 0.5

	// maxRecommendations caps how many assessment recommendations are read out.
	maxRecommendations = 2
)

type Generator struct {
	policy *policy.Policy
	picker *phrase.Picker
}

func NewGenerator(p *policy.Policy, picker *phrase.Picker) *Generator {
	return &Generator{policy: p, picker: picker}
}

// ConfidenceBand maps a numeric confidence to high, moderate or low.
func ConfidenceBand(c float64) string {
	switch {
	case c >= highConfidence:
		return "high"
	case c >= moderateConfidence:
		return "moderate"
	default:
		return "low"
	}
}

// Generate builds the reply as summary, guidance and disclaimer, in that
// order. Only the wording inside each section varies between calls.
func (g *Generator) Generate(a triage.RiskAssessment) string {
	parts := []string{
		g.summary(a),
		g.guidance(a),
	}
	if recs := recommendations(a); recs != "" {
		parts = append(parts, recs)
	}
	parts = append(parts, g.disclaimer(a.Level))
	return strings.Join(parts, " ")
}

func (g *Generator) summary(a triage.RiskAssessment) string {
	word, ok := levelWords[a.Level]
	if !ok {
		word = levelWords[triage.RiskMild]
	}
	return fmt.Sprintf(g.picker.Pick(summaryTemplates), word, ConfidenceBand(a.Confidence))
}

func (g *Generator) guidance(a triage.RiskAssessment) string {
	pool := poolFor(a.Level)
	options, ok := pool[hintFor(a.Reasoning)]
	if !ok {
		options = pool[hintGeneral]
	}
	return g.picker.Pick(options)
}

func poolFor(level triage.RiskLevel) map[hint][]string {
	switch level {
	case triage.RiskEmergency:
		return emergencyTemplates
	case triage.RiskModerate:
		return consultationTemplates
	default:
		return selfCareTemplates
	}
}

// HintFor returns the symptom category suggested by reasoning text, or
// "general" when nothing matches.
func HintFor(reasoning []string) string {
	return string(hintFor(reasoning))
}

func hintFor(reasoning []string) hint {
	text := strings.ToLower(strings.Join(reasoning, " "))
	for _, hk := range hintKeywords {
		for _, kw := range hk.keywords {
			if strings.Contains(text, kw) {
				return hk.hint
			}
		}
	}
	return hintGeneral
}

func recommendations(a triage.RiskAssessment) string {
	n := min(len(a.Recommendations), maxRecommendations)
	recs := make([]string, 0, n)
	for _, r := range a.Recommendations[:n] {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if !strings.HasSuffix(r, ".") && !strings.HasSuffix(r, "!") {
			r += "."
		}
		recs = append(recs, r)
	}
	return strings.Join(recs, " ")
}

func (g *Generator) disclaimer(level triage.RiskLevel) string {
	if level == triage.RiskEmergency {
		return g.policy.EmergencyDisclaimer
	}
	return g.picker.Pick(g.policy.Disclaimers)
}

// Speech returns voice parameters for a reply at the given level. Emergency
// replies are slower and strongly emphasised.
func Speech(level triage.RiskLevel, voice string) triage.SpeechParams {
	if level == triage.RiskEmergency {
		return triage.SpeechParams{Rate: 0.85, Pitch: 1.0, Voice: voice, Emphasis: "strong"}
	}
	return triage.SpeechParams{Rate: 1.0, Pitch: 1.0, Voice: voice, Emphasis: "moderate"}
}
