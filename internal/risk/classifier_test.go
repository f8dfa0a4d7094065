package risk

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-triage/internal/nlp"
	"voice-triage/internal/policy"
	"voice-triage/internal/triage"
)

func newTestClassifier() *Classifier {
	return NewClassifier(policy.Default())
}

func sym(name string, sev triage.Severity, conf float64) triage.SymptomEntity {
	return triage.SymptomEntity{Symptom: name, Severity: sev, Confidence: conf}
}

func days(n float64) *triage.Duration {
	return &triage.Duration{Value: n, Unit: triage.UnitDay}
}

func assertWellFormed(t *testing.T, a triage.RiskAssessment) {
	t.Helper()
	assert.Contains(t, []triage.RiskLevel{triage.RiskMild, triage.RiskModerate, triage.RiskEmergency}, a.Level)
	assert.Greater(t, a.Confidence, 0.0)
	assert.LessOrEqual(t, a.Confidence, 1.0)
	assert.NotEmpty(t, a.Reasoning)
	assert.NotEmpty(t, a.Recommendations)
}

func TestClassify_Empty(t *testing.T) {
	a := newTestClassifier().Classify(nil)

	assert.Equal(t, triage.RiskMild, a.Level)
	assert.Equal(t, 0.3, a.Confidence)
	assertWellFormed(t, a)
}

func TestClassify_EmergencyKeywordDominates(t *testing.T) {
	c := newTestClassifier()
	symptoms := []triage.SymptomEntity{
		sym("runny nose", triage.SeverityMild, 0.8),
		sym("cough", triage.SeverityMild, 0.8),
		sym("sore throat", triage.SeverityMild, 0.8),
		sym("difficulty breathing", triage.SeverityMild, 0.6),
	}

	a := c.Classify(symptoms)

	assert.Equal(t, triage.RiskEmergency, a.Level)
	assert.Equal(t, 0.95, a.Confidence)
	assert.Contains(t, a.Reasoning[0], "difficulty breathing")
	assert.Contains(t, a.Recommendations[0], "emergency services")
}

func TestClassify_KeywordIsSubstringOfName(t *testing.T) {
	a := newTestClassifier().Classify([]triage.SymptomEntity{sym("suicidal thoughts", triage.SeverityMild, 0.5)})
	assert.Equal(t, triage.RiskEmergency, a.Level)
}

func TestClassify_SevereCardioRespiratory(t *testing.T) {
	c := newTestClassifier()

	a := c.Classify([]triage.SymptomEntity{sym("heart palpitations", triage.SeveritySevere, 0.7)})
	assert.Equal(t, triage.RiskEmergency, a.Level)
	assert.Equal(t, 0.9, a.Confidence)

	a = c.Classify([]triage.SymptomEntity{sym("heart palpitations", triage.SeverityModerate, 0.7)})
	assert.NotEqual(t, triage.RiskEmergency, a.Level)
}

func TestClassify_SevereChestPainFromText(t *testing.T) {
	symptoms := nlp.NewAnalyzer().ExtractSymptoms("I have severe chest pain and trouble breathing")

	a := newTestClassifier().Classify(symptoms)

	assert.Equal(t, triage.RiskEmergency, a.Level)
	assert.GreaterOrEqual(t, a.Confidence, 0.85)
}

func TestClassify_RuleMatch(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name     string
		symptoms []triage.SymptomEntity
		level    triage.RiskLevel
		conf     float64
	}{
		{
			name: "moderate chest pain",
			symptoms: []triage.SymptomEntity{
				{Symptom: "chest pain", BodyPart: "chest", Severity: triage.SeverityModerate, Confidence: 0.9},
			},
			level: triage.RiskModerate,
			conf:  0.8 * 0.8,
		},
		{
			name: "cardiac warning",
			symptoms: []triage.SymptomEntity{
				{Symptom: "chest pain", BodyPart: "chest", Severity: triage.SeverityModerate, Confidence: 0.9},
				{Symptom: "heart palpitations", BodyPart: "chest", Severity: triage.SeverityMild, Confidence: 0.8},
			},
			level: triage.RiskEmergency,
			conf:  0.9 * 0.85,
		},
		{
			name: "persistent fever",
			symptoms: []triage.SymptomEntity{
				{Symptom: "fever", Severity: triage.SeverityMild, Duration: days(4), Confidence: 0.9},
			},
			level: triage.RiskModerate,
			conf:  0.8 * 0.7,
		},
		{
			name: "recent mild headache",
			symptoms: []triage.SymptomEntity{
				{Symptom: "headache", BodyPart: "head", Severity: triage.SeverityMild, Duration: &triage.Duration{Value: 2, Unit: triage.UnitHour}, Confidence: 0.9},
			},
			level: triage.RiskMild,
			conf:  0.85,
		},
		{
			name: "common cold",
			symptoms: []triage.SymptomEntity{
				sym("cough", triage.SeverityMild, 0.8),
				sym("runny nose", triage.SeverityMild, 0.8),
				sym("sore throat", triage.SeverityMild, 0.8),
			},
			level: triage.RiskMild,
			conf:  0.8 * 0.8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := c.Classify(tt.symptoms)
			assert.Equal(t, tt.level, a.Level)
			assert.InDelta(t, tt.conf, a.Confidence, 1e-9)
			assertWellFormed(t, a)
		})
	}
}

func TestRuleScore_RequiredConditionDisqualifies(t *testing.T) {
	rule := Rule{Conditions: []Condition{
		{Symptom: "vomiting", Required: true},
		{Symptom: "diarrhea", Required: true},
	}}
	assert.Equal(t, 0.0, ruleScore(rule, []triage.SymptomEntity{sym("vomiting", triage.SeverityMild, 1)}))
	assert.Equal(t, 0.5, ruleScore(rule, []triage.SymptomEntity{
		sym("vomiting", triage.SeverityMild, 1),
		sym("diarrhea", triage.SeverityMild, 1),
	}))
}

func TestRuleScore_RequiredSeverityMustMatch(t *testing.T) {
	severeMigraine := Rule{Conditions: []Condition{
		{Symptom: "headache", Severity: triage.SeveritySevere, Required: true},
	}}
	assert.Equal(t, 0.0, ruleScore(severeMigraine, []triage.SymptomEntity{sym("headache", triage.SeverityMild, 1)}))
	assert.InDelta(t, 0.8, ruleScore(severeMigraine, []triage.SymptomEntity{sym("headache", triage.SeveritySevere, 1)}), 1e-9)
}

func TestClassify_SevereHeadacheNotDowngradedByMildRule(t *testing.T) {
	a := newTestClassifier().Classify([]triage.SymptomEntity{{
		Symptom: "headache", BodyPart: "head", Severity: triage.SeveritySevere,
		Duration: &triage.Duration{Value: 2, Unit: triage.UnitHour}, Confidence: 1,
	}})
	assert.NotEqual(t, triage.RiskMild, a.Level)
}

func TestConditionScore_Capped(t *testing.T) {
	cond := Condition{Symptom: "headache", Severity: triage.SeveritySevere, BodyPart: "head", MinHours: 1}
	s := triage.SymptomEntity{Symptom: "headache", Severity: triage.SeveritySevere, BodyPart: "head", Duration: days(1)}
	assert.Equal(t, 1.0, conditionScore(cond, []triage.SymptomEntity{s}))
}

func TestClassify_FallbackTiers(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name     string
		symptoms []triage.SymptomEntity
		level    triage.RiskLevel
	}{
		{"mild default", []triage.SymptomEntity{sym("cough", triage.SeverityMild, 0.8)}, triage.RiskMild},
		{"moderate base tier", []triage.SymptomEntity{sym("dizziness", triage.SeverityMild, 0.6)}, triage.RiskModerate},
		{"severe mild-tier escalates once", []triage.SymptomEntity{sym("back pain", triage.SeveritySevere, 0.8)}, triage.RiskModerate},
		{"severe moderate-tier escalates to emergency", []triage.SymptomEntity{sym("dizziness", triage.SeveritySevere, 0.8)}, triage.RiskEmergency},
		{"moderate severity does not escalate", []triage.SymptomEntity{sym("rash", triage.SeverityModerate, 0.8)}, triage.RiskMild},
		{"max across symptoms", []triage.SymptomEntity{sym("rash", triage.SeverityMild, 0.8), sym("vomiting", triage.SeverityMild, 0.6)}, triage.RiskModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := c.Classify(tt.symptoms)
			assert.Equal(t, tt.level, a.Level)
			assertWellFormed(t, a)
		})
	}
}

func TestClassify_FallbackConfidenceIsMean(t *testing.T) {
	a := newTestClassifier().Classify([]triage.SymptomEntity{
		sym("rash", triage.SeverityMild, 0.8),
		sym("fatigue", triage.SeverityMild, 0.4),
	})
	assert.InDelta(t, 0.6, a.Confidence, 1e-9)
}

func TestClassify_FallbackConfidenceFloor(t *testing.T) {
	a := newTestClassifier().Classify([]triage.SymptomEntity{sym("rash", triage.SeverityMild, 0)})
	assert.Greater(t, a.Confidence, 0.0)
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier()
	analyzer := nlp.NewAnalyzer()
	inputs := []string{
		"I have a slight cough",
		"my stomach hurts really bad and I threw up",
		"I have had a fever for 5 days",
		"I feel dizzy",
		"",
	}
	for _, in := range inputs {
		symptoms := analyzer.ExtractSymptoms(in)
		first := c.Classify(symptoms)
		second := c.Classify(symptoms)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Classify(%q) not deterministic (-first +second):\n%s", in, diff)
		}
		assertWellFormed(t, first)
	}
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	symptoms := []triage.SymptomEntity{sym("cough", triage.SeveritySevere, 0.8)}
	before := triage.CloneSymptoms(symptoms)

	newTestClassifier().Classify(symptoms)

	require.Empty(t, cmp.Diff(before, symptoms))
}
