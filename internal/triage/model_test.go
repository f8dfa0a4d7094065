package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevel_EscalateSaturates(t *testing.T) {
	assert.Equal(t, RiskModerate, RiskMild.Escalate())
	assert.Equal(t, RiskEmergency, RiskModerate.Escalate())
	assert.Equal(t, RiskEmergency, RiskEmergency.Escalate())
}

func TestMaxRisk(t *testing.T) {
	assert.Equal(t, RiskModerate, MaxRisk(RiskMild, RiskModerate))
	assert.Equal(t, RiskEmergency, MaxRisk(RiskEmergency, RiskMild))
}

func TestDuration_Hours(t *testing.T) {
	assert.Equal(t, 48.0, Duration{Value: 2, Unit: UnitDay}.Hours())
	assert.Equal(t, 0.5, Duration{Value: 30, Unit: UnitMinute}.Hours())
	assert.Equal(t, "1 day", Duration{Value: 1, Unit: UnitDay}.String())
	assert.Equal(t, "3 weeks", Duration{Value: 3, Unit: UnitWeek}.String())
}

func TestClones_AreIndependent(t *testing.T) {
	a := RiskAssessment{Level: RiskMild, Confidence: 0.5, Reasoning: []string{"r"}, Recommendations: []string{"x"}}
	b := a.Clone()
	b.Reasoning[0] = "changed"
	assert.Equal(t, "r", a.Reasoning[0])

	s := []SymptomEntity{{Symptom: "cough", Duration: &Duration{Value: 1, Unit: UnitDay}}}
	c := CloneSymptoms(s)
	c[0].Duration.Value = 5
	assert.Equal(t, 1.0, s[0].Duration.Value)
}
