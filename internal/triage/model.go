// Package triage holds the value types exchanged between the analyzer,
// the classifier, the safety layer and the conversation orchestrator.
package triage

import "fmt"

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Rank orders severities from mild (0) to severe (2).
func (s Severity) Rank() int {
	switch s {
	case SeverityModerate:
		return 1
	case SeveritySevere:
		return 2
	default:
		return 0
	}
}

type DurationUnit string

const (
	UnitMinute DurationUnit = "minute"
	UnitHour   DurationUnit = "hour"
	UnitDay    DurationUnit = "day"
	UnitWeek   DurationUnit = "week"
	UnitMonth  DurationUnit = "month"
	UnitYear   DurationUnit = "year"
)

var unitHours = map[DurationUnit]float64{
	UnitMinute: 1.0 / 60,
	UnitHour:   1,
	UnitDay:    24,
	UnitWeek:   24 * 7,
	UnitMonth:  24 * 30,
	UnitYear:   24 * 365,
}

// Duration is how long a symptom has been going on, as the user said it.
type Duration struct {
	Value float64      `json:"value"`
	Unit  DurationUnit `json:"unit"`
}

// Hours converts the duration to hours for range comparisons.
func (d Duration) Hours() float64 {
	return d.Value * unitHours[d.Unit]
}

func (d Duration) String() string {
	if d.Value == 1 {
		return fmt.Sprintf("1 %s", d.Unit)
	}
	return fmt.Sprintf("%g %ss", d.Value, d.Unit)
}

// SymptomEntity is one complaint extracted from an utterance.
type SymptomEntity struct {
	Symptom    string    `json:"symptom"`
	BodyPart   string    `json:"body_part,omitempty"`
	Severity   Severity  `json:"severity"`
	Duration   *Duration `json:"duration,omitempty"`
	Confidence float64   `json:"confidence"`
}

// Key identifies an entity for deduplication within a session.
func (e SymptomEntity) Key() string {
	return e.Symptom + "|" + e.BodyPart
}

type RiskLevel string

const (
	RiskMild      RiskLevel = "mild"
	RiskModerate  RiskLevel = "moderate"
	RiskEmergency RiskLevel = "emergency"
)

// Rank orders risk levels from mild (0) to emergency (2).
func (l RiskLevel) Rank() int {
	switch l {
	case RiskModerate:
		return 1
	case RiskEmergency:
		return 2
	default:
		return 0
	}
}

// Escalate moves one tier up, saturating at emergency.
func (l RiskLevel) Escalate() RiskLevel {
	switch l {
	case RiskMild:
		return RiskModerate
	default:
		return RiskEmergency
	}
}

// MaxRisk returns the higher of two levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// RiskAssessment is the outcome of one classification. Assessments are
// replaced wholesale, never edited in place.
type RiskAssessment struct {
	Level           RiskLevel `json:"level"`
	Confidence      float64   `json:"confidence"`
	Reasoning       []string  `json:"reasoning"`
	Recommendations []string  `json:"recommendations"`
}

// Clone returns a deep copy.
func (a RiskAssessment) Clone() RiskAssessment {
	out := a
	out.Reasoning = append([]string(nil), a.Reasoning...)
	out.Recommendations = append([]string(nil), a.Recommendations...)
	return out
}

// CloneSymptoms deep-copies a symptom list, including durations.
func CloneSymptoms(in []SymptomEntity) []SymptomEntity {
	if in == nil {
		return nil
	}
	out := make([]SymptomEntity, len(in))
	for i, s := range in {
		out[i] = s
		if s.Duration != nil {
			d := *s.Duration
			out[i].Duration = &d
		}
	}
	return out
}

// SpeechParams controls how a reply is voiced.
type SpeechParams struct {
	Rate     float64 `json:"rate"`
	Pitch    float64 `json:"pitch"`
	Voice    string  `json:"voice"`
	Emphasis string  `json:"emphasis"`
}
