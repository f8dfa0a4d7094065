// Package nlp turns utterance text into symptom entities and an intent.
// Matching is keyword and regex based so the output is deterministic.
package nlp

import (
	"strings"

	"voice-triage/internal/triage"
)

const (
	baseConfidence        = 0.5
	nameMatchBonus        = 0.3
	corroborationBonus    = 0.1
	maxCorroborationBonus = 0.3
	severityBonus         = 0.1
	durationBonus         = 0.1
	genericConfidence     = 0.3
)

// Analyzer is stateless; one instance is safe to share between sessions.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// TextComplexity summarises which signals an utterance carries.
type TextComplexity struct {
	HasSymptoms bool `json:"has_symptoms"`
	HasBodyPart bool `json:"has_body_part"`
	HasSeverity bool `json:"has_severity"`
	HasDuration bool `json:"has_duration"`
	IsAmbiguous bool `json:"is_ambiguous"`
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "’", "'")
	return strings.ToLower(strings.TrimSpace(text))
}

// ExtractSymptoms returns one entity per recognised symptom, in table order.
// When nothing specific matches but the text mentions generic discomfort, a
// single low-confidence "general discomfort" entity is returned.
func (a *Analyzer) ExtractSymptoms(text string) []triage.SymptomEntity {
	norm := normalize(text)
	if norm == "" {
		return []triage.SymptomEntity{}
	}

	severity, severityFound := extractSeverity(norm)
	duration := extractDuration(norm)
	mentionedParts := bodyPartsIn(norm)

	entities := []triage.SymptomEntity{}
	seen := make(map[string]bool)
	for _, s := range symptomTable {
		if seen[s.name] {
			continue
		}
		hits := countMatches(norm, s.keywords)
		if hits == 0 {
			continue
		}
		seen[s.name] = true

		confidence := baseConfidence
		if s.nameRe.MatchString(norm) {
			confidence += nameMatchBonus
		}
		confidence += min(float64(hits-1)*corroborationBonus, maxCorroborationBonus)
		if severityFound && severity != triage.SeverityMild {
			confidence += severityBonus
		}
		if duration != nil {
			confidence += durationBonus
		}

		entity := triage.SymptomEntity{
			Symptom:    s.name,
			BodyPart:   chooseBodyPart(s.bodyPart, mentionedParts),
			Severity:   severity,
			Confidence: min(confidence, 1.0),
		}
		if duration != nil {
			d := *duration
			entity.Duration = &d
		}
		entities = append(entities, entity)
	}

	if len(entities) == 0 && anyMatch(norm, genericTable) {
		entity := triage.SymptomEntity{
			Symptom:    genericSymptomName,
			Severity:   severity,
			Confidence: genericConfidence,
		}
		if duration != nil {
			d := *duration
			entity.Duration = &d
		}
		entities = append(entities, entity)
	}
	return entities
}

// ExtractSeverity returns the strongest severity cue in text, mild if none.
func (a *Analyzer) ExtractSeverity(text string) triage.Severity {
	s, _ := extractSeverity(normalize(text))
	return s
}

func extractSeverity(norm string) (triage.Severity, bool) {
	for _, s := range severityTable {
		if anyMatch(norm, s.keywords) {
			return s.level, true
		}
	}
	return triage.SeverityMild, false
}

// ExtractBodyPart returns the first body part mentioned in text, or "".
func (a *Analyzer) ExtractBodyPart(text string) string {
	parts := bodyPartsIn(normalize(text))
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func bodyPartsIn(norm string) []string {
	var parts []string
	for _, bp := range bodyPartTable {
		if anyMatch(norm, bp.keywords) {
			parts = append(parts, bp.part)
		}
	}
	return parts
}

// chooseBodyPart prefers the symptom's usual location when the user named
// it, then the first mentioned part, then the usual location.
func chooseBodyPart(usual string, mentioned []string) string {
	for _, p := range mentioned {
		if p == usual {
			return p
		}
	}
	if len(mentioned) > 0 {
		return mentioned[0]
	}
	return usual
}

// HasSymptomKeywords reports whether text mentions any known symptom or
// generic discomfort term.
func (a *Analyzer) HasSymptomKeywords(text string) bool {
	return hasSymptomKeywords(normalize(text))
}

func hasSymptomKeywords(norm string) bool {
	for _, s := range symptomTable {
		if anyMatch(norm, s.keywords) {
			return true
		}
	}
	return anyMatch(norm, genericTable)
}

// AnalyzeTextComplexity reports which signals the text carries. The text is
// ambiguous when it names symptoms but no body part, severity or duration.
func (a *Analyzer) AnalyzeTextComplexity(text string) TextComplexity {
	norm := normalize(text)
	_, hasSeverity := extractSeverity(norm)
	c := TextComplexity{
		HasSymptoms: len(a.ExtractSymptoms(text)) > 0,
		HasBodyPart: len(bodyPartsIn(norm)) > 0,
		HasSeverity: hasSeverity,
		HasDuration: extractDuration(norm) != nil,
	}
	c.IsAmbiguous = c.HasSymptoms && !c.HasBodyPart && !c.HasSeverity && !c.HasDuration
	return c
}
