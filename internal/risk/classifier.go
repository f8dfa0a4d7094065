// Package risk classifies accumulated symptoms into mild, moderate or
// emergency. Classification is pure and deterministic.
package risk

import (
	"fmt"
	"strings"

	"voice-triage/internal/policy"
	"voice-triage/internal/triage"
)

const (
	emptyConfidence           = 0.3
	keywordEmergencyConf      = 0.95
	severeCardioEmergencyConf = 0.9
	minFallbackConfidence     = 0.1

	conditionBase      = 0.5
	severityMatchBonus = 0.3
	bodyPartMatchBonus = 0.2
	durationMatchBonus = 0.2
)

// cardioRespiratoryTerms flag a severe symptom as an emergency on their own.
var cardioRespiratoryTerms = []string{"chest", "breath", "heart"}

type Classifier struct {
	emergencyKeywords []string
	matchThreshold    float64
	rules             []Rule
}

func NewClassifier(p *policy.Policy) *Classifier {
	return &Classifier{
		emergencyKeywords: p.EmergencyKeywords,
		matchThreshold:    p.RuleMatchThreshold,
		rules:             defaultRules,
	}
}

// Classify always returns exactly one level with non-empty reasoning and
// recommendations. Order: emergency override, rule matching, per-symptom
// severity fallback.
func (c *Classifier) Classify(symptoms []triage.SymptomEntity) triage.RiskAssessment {
	if len(symptoms) == 0 {
		return triage.RiskAssessment{
			Level:      triage.RiskMild,
			Confidence: emptyConfidence,
			Reasoning:  []string{"No specific symptoms were identified, so more detail is needed."},
			Recommendations: []string{
				"Please describe your symptoms in more detail so I can help.",
				"If you feel very unwell, contact a healthcare provider.",
			},
		}
	}

	if a, ok := c.emergencyOverride(symptoms); ok {
		return a
	}
	if a, ok := c.matchRules(symptoms); ok {
		return a
	}
	return c.fallback(symptoms)
}

// HasEmergencySign reports whether symptoms alone force an emergency level.
func (c *Classifier) HasEmergencySign(symptoms []triage.SymptomEntity) bool {
	_, ok := c.emergencyOverride(symptoms)
	return ok
}

func (c *Classifier) emergencyOverride(symptoms []triage.SymptomEntity) (triage.RiskAssessment, bool) {
	for _, s := range symptoms {
		name := strings.ToLower(s.Symptom)
		for _, kw := range c.emergencyKeywords {
			if strings.Contains(name, kw) {
				return emergencyAssessment(keywordEmergencyConf,
					fmt.Sprintf("Emergency warning sign reported: %s.", s.Symptom)), true
			}
		}
	}
	for _, s := range symptoms {
		if s.Severity != triage.SeveritySevere {
			continue
		}
		name := strings.ToLower(s.Symptom)
		for _, term := range cardioRespiratoryTerms {
			if strings.Contains(name, term) {
				return emergencyAssessment(severeCardioEmergencyConf,
					fmt.Sprintf("Severe %s affecting the heart or breathing was reported.", s.Symptom)), true
			}
		}
	}
	return triage.RiskAssessment{}, false
}

func emergencyAssessment(confidence float64, reason string) triage.RiskAssessment {
	return triage.RiskAssessment{
		Level:           triage.RiskEmergency,
		Confidence:      confidence,
		Reasoning:       []string{reason, "Emergency signs take priority over every other finding."},
		Recommendations: append([]string(nil), emergencyRecommendations...),
	}
}

func (c *Classifier) matchRules(symptoms []triage.SymptomEntity) (triage.RiskAssessment, bool) {
	var best *Rule
	bestScore := 0.0
	for i := range c.rules {
		score := ruleScore(c.rules[i], symptoms)
		if score > c.matchThreshold && score > bestScore {
			best, bestScore = &c.rules[i], score
		}
	}
	if best == nil {
		return triage.RiskAssessment{}, false
	}
	return triage.RiskAssessment{
		Level:      best.Level,
		Confidence: best.BaseConfidence * bestScore,
		Reasoning: []string{
			best.Reasoning,
			fmt.Sprintf("Reported symptoms match the %q pattern (score %.2f).", best.Name, bestScore),
		},
		Recommendations: append([]string(nil), best.Recommendations...),
	}, true
}

// ruleScore averages per-condition scores. A required condition that no
// symptom satisfies disqualifies the rule.
func ruleScore(rule Rule, symptoms []triage.SymptomEntity) float64 {
	if len(rule.Conditions) == 0 {
		return 0
	}
	total := 0.0
	for _, cond := range rule.Conditions {
		if cond.Required && !satisfied(cond, symptoms) {
			return 0
		}
		total += conditionScore(cond, symptoms)
	}
	return total / float64(len(rule.Conditions))
}

func satisfied(cond Condition, symptoms []triage.SymptomEntity) bool {
	for _, s := range symptoms {
		if strings.EqualFold(s.Symptom, cond.Symptom) && (cond.Severity == "" || s.Severity == cond.Severity) {
			return true
		}
	}
	return false
}

func conditionScore(cond Condition, symptoms []triage.SymptomEntity) float64 {
	best := 0.0
	for _, s := range symptoms {
		if !strings.EqualFold(s.Symptom, cond.Symptom) {
			continue
		}
		score := conditionBase
		if cond.Severity != "" && s.Severity == cond.Severity {
			score += severityMatchBonus
		}
		if cond.BodyPart != "" && strings.EqualFold(s.BodyPart, cond.BodyPart) {
			score += bodyPartMatchBonus
		}
		if cond.hasDurationRange() && inRange(cond, s.Duration) {
			score += durationMatchBonus
		}
		best = max(best, min(score, 1.0))
	}
	return best
}

func inRange(cond Condition, d *triage.Duration) bool {
	if d == nil {
		return false
	}
	h := d.Hours()
	if cond.MinHours > 0 && h < cond.MinHours {
		return false
	}
	if cond.MaxHours > 0 && h > cond.MaxHours {
		return false
	}
	return true
}

func (c *Classifier) fallback(symptoms []triage.SymptomEntity) triage.RiskAssessment {
	level := triage.RiskMild
	total := 0.0
	reasoning := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		tier, ok := baseTiers[strings.ToLower(s.Symptom)]
		if !ok {
			tier = triage.RiskMild
		}
		if s.Severity == triage.SeveritySevere {
			tier = tier.Escalate()
		}
		level = triage.MaxRisk(level, tier)
		total += s.Confidence
		reasoning = append(reasoning, fmt.Sprintf("%s (%s) points to a %s concern.", s.Symptom, s.Severity, tier))
	}

	confidence := total / float64(len(symptoms))
	confidence = min(max(confidence, minFallbackConfidence), 1.0)

	return triage.RiskAssessment{
		Level:           level,
		Confidence:      confidence,
		Reasoning:       reasoning,
		Recommendations: append([]string(nil), tierRecommendations[level]...),
	}
}
