// Package safety filters generated guidance, adds disclaimers and makes sure
// emergency assessments carry an explicit call to action.
package safety

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"voice-triage/internal/logging"
	"voice-triage/internal/phrase"
	"voice-triage/internal/policy"
	"voice-triage/internal/triage"
)

const (
	emergencyCallToAction = "Call emergency services immediately."
	urgencyReminder       = "Do not delay: get help immediately."
	enforcementNote       = "Emergency protocol enforced: urgent call-to-action verified."
)

// fallbackTemplates are pre-vetted texts used when generated guidance fails
// validation. A configured disclaimer is appended to each.
var fallbackTemplates = map[triage.RiskLevel]string{
	triage.RiskMild:      "Based on what you've told me, your symptoms sound mild. Rest, drink fluids, and contact a healthcare provider if things get worse or don't improve.",
	triage.RiskModerate:  "Based on what you've told me, your symptoms should be checked by a healthcare provider soon. Please contact your doctor or a clinic within the next day.",
	triage.RiskEmergency: "Based on what you've told me, this may be an emergency. Call emergency services immediately and do not delay.",
}

// Validation is the result of checking one response.
type Validation struct {
	IsValid    bool     `json:"is_valid"`
	Violations []string `json:"violations"`
}

type Guardian struct {
	policy *policy.Policy
	picker *phrase.Picker
	logger *slog.Logger
}

func NewGuardian(p *policy.Policy, picker *phrase.Picker) *Guardian {
	return &Guardian{policy: p, picker: picker, logger: logging.New("safety")}
}

// ValidateResponse reports every policy violation in text without changing it.
func (g *Guardian) ValidateResponse(text string) Validation {
	lower := strings.ToLower(text)
	violations := []string{}

	for _, term := range g.policy.ProhibitedTerms {
		if strings.Contains(lower, term) {
			violations = append(violations, fmt.Sprintf("prohibited term: %q", term))
		}
	}
	for _, re := range diagnosticPatterns {
		if m := re.FindString(text); m != "" {
			violations = append(violations, fmt.Sprintf("diagnostic language: %q", m))
		}
	}
	for _, re := range prescriptionPatterns {
		if m := re.FindString(text); m != "" {
			violations = append(violations, fmt.Sprintf("prescription language: %q", m))
		}
	}
	if utf8.RuneCountInString(text) > g.policy.MinDisclaimerTextLength && !g.HasDisclaimer(text) {
		violations = append(violations, "missing medical disclaimer")
	}

	return Validation{IsValid: len(violations) == 0, Violations: violations}
}

// HasDisclaimer reports whether text contains the opening of any configured
// disclaimer.
func (g *Guardian) HasDisclaimer(text string) bool {
	lower := strings.ToLower(text)
	for _, d := range g.policy.AllDisclaimers() {
		if strings.Contains(lower, strings.ToLower(prefix(d, g.policy.DisclaimerPrefixLength))) {
			return true
		}
	}
	return false
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// AddMedicalDisclaimer appends a disclaimer unless one is already present.
// Urgent wording gets the emergency disclaimer, advice wording the guidance
// disclaimer, anything else a pick from the general pool.
func (g *Guardian) AddMedicalDisclaimer(text string) string {
	if g.HasDisclaimer(text) {
		return text
	}

	var disclaimer string
	switch {
	case urgentWording.MatchString(text):
		disclaimer = g.policy.EmergencyDisclaimer
	case guidanceWording.MatchString(text):
		disclaimer = g.policy.GuidanceDisclaimer
	default:
		disclaimer = g.picker.Pick(g.policy.Disclaimers)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return disclaimer
	}
	return text + " " + disclaimer
}

// FilterProhibitedContent rewrites prohibited phrases, dosages and named
// medications into safe wording. It is deterministic.
func (g *Guardian) FilterProhibitedContent(text string) string {
	for _, p := range safeParaphrases {
		text = p.re.ReplaceAllString(text, p.replacement)
	}
	text = dosagePattern.ReplaceAllString(text, "an appropriate amount")
	text = medicationPattern.ReplaceAllString(text, "appropriate medication")
	return text
}

// EnforceEmergencyProtocol returns an enhanced copy of an emergency
// assessment. Other levels are returned unchanged.
func (g *Guardian) EnforceEmergencyProtocol(a triage.RiskAssessment) triage.RiskAssessment {
	if a.Level != triage.RiskEmergency {
		return a
	}
	out := a.Clone()

	hasCall := false
	hasUrgency := false
	for _, r := range out.Recommendations {
		if emergencyCall.MatchString(r) {
			hasCall = true
		}
		if urgencyPhrase.MatchString(r) {
			hasUrgency = true
		}
	}
	if !hasCall {
		out.Recommendations = append([]string{emergencyCallToAction}, out.Recommendations...)
		hasUrgency = true
	}
	if !hasUrgency {
		out.Recommendations = append(out.Recommendations, urgencyReminder)
	}

	out.Confidence = max(out.Confidence, g.policy.EmergencyConfidenceFloor)
	out.Reasoning = append(out.Reasoning, enforcementNote)
	return out
}

// GenerateSafeResponse filters text, adds a disclaimer and validates the
// result. Text that still fails validation is discarded in favour of the
// fallback for the assessment's level.
func (g *Guardian) GenerateSafeResponse(text string, a triage.RiskAssessment) string {
	candidate := g.AddMedicalDisclaimer(g.FilterProhibitedContent(text))
	v := g.ValidateResponse(candidate)
	if v.IsValid {
		return candidate
	}
	g.logger.Warn("generated response failed validation, using fallback",
		"level", a.Level, "violations", len(v.Violations))
	return g.FallbackResponse(a.Level)
}

// FallbackResponse is the fixed safe text for a risk level.
func (g *Guardian) FallbackResponse(level triage.RiskLevel) string {
	template, ok := fallbackTemplates[level]
	if !ok {
		template = fallbackTemplates[triage.RiskMild]
	}
	disclaimer := g.policy.Disclaimers[0]
	if level == triage.RiskEmergency {
		disclaimer = g.policy.EmergencyDisclaimer
	}
	return template + " " + disclaimer
}
