package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-triage/internal/triage"
)

func findSymptom(entities []triage.SymptomEntity, name string) *triage.SymptomEntity {
	for i := range entities {
		if entities[i].Symptom == name {
			return &entities[i]
		}
	}
	return nil
}

func TestExtractSymptoms_SevereChestPain(t *testing.T) {
	a := NewAnalyzer()

	entities := a.ExtractSymptoms("I have severe chest pain and trouble breathing")

	chest := findSymptom(entities, "chest pain")
	require.NotNil(t, chest)
	assert.Equal(t, triage.SeveritySevere, chest.Severity)
	assert.Equal(t, "chest", chest.BodyPart)
	// base 0.5 + name 0.3 + severity 0.1
	assert.InDelta(t, 0.9, chest.Confidence, 1e-9)

	breathing := findSymptom(entities, "difficulty breathing")
	require.NotNil(t, breathing)
	assert.Equal(t, triage.SeveritySevere, breathing.Severity)
	assert.InDelta(t, 0.6, breathing.Confidence, 1e-9)
}

func TestExtractSymptoms_SlightCough(t *testing.T) {
	a := NewAnalyzer()

	entities := a.ExtractSymptoms("I have a slight cough")

	require.Len(t, entities, 1)
	assert.Equal(t, "cough", entities[0].Symptom)
	assert.Equal(t, triage.SeverityMild, entities[0].Severity)
	assert.Equal(t, "chest", entities[0].BodyPart)
	assert.Nil(t, entities[0].Duration)
	assert.InDelta(t, 0.8, entities[0].Confidence, 1e-9)
}

func TestExtractSymptoms_CorroborationAndDuration(t *testing.T) {
	a := NewAnalyzer()

	entities := a.ExtractSymptoms("My headache has been pounding, my head hurts and it feels like a migraine for 2 days")

	h := findSymptom(entities, "headache")
	require.NotNil(t, h)
	require.NotNil(t, h.Duration)
	assert.Equal(t, triage.Duration{Value: 2, Unit: triage.UnitDay}, *h.Duration)
	// 0.5 + 0.3 name + 0.2 two extra keywords + 0.1 duration, clamped
	assert.InDelta(t, 1.0, h.Confidence, 1e-9)
}

func TestExtractSymptoms_GenericDiscomfort(t *testing.T) {
	a := NewAnalyzer()

	entities := a.ExtractSymptoms("I don't feel good")

	require.Len(t, entities, 1)
	assert.Equal(t, "general discomfort", entities[0].Symptom)
	assert.Empty(t, entities[0].BodyPart)
	assert.Equal(t, 0.3, entities[0].Confidence)
}

func TestExtractSymptoms_NothingMatches(t *testing.T) {
	a := NewAnalyzer()

	assert.Empty(t, a.ExtractSymptoms("what a lovely day outside"))
	assert.Empty(t, a.ExtractSymptoms(""))
	assert.Empty(t, a.ExtractSymptoms("   "))
}

func TestExtractSymptoms_ConfidenceBounds(t *testing.T) {
	a := NewAnalyzer()
	inputs := []string{
		"severe excruciating chest pain, chest hurts, tight chest, chest pressure, pain in my chest for 3 hours",
		"a bit of a cough",
		"I feel sick",
		"dizzy and lightheaded with vertigo since yesterday",
	}
	for _, in := range inputs {
		for _, e := range a.ExtractSymptoms(in) {
			assert.GreaterOrEqual(t, e.Confidence, 0.0, in)
			assert.LessOrEqual(t, e.Confidence, 1.0, in)
		}
	}
}

func TestExtractSymptoms_BodyPartPreference(t *testing.T) {
	a := NewAnalyzer()

	entities := a.ExtractSymptoms("my back hurts and my knee too")

	bp := findSymptom(entities, "back pain")
	require.NotNil(t, bp)
	assert.Equal(t, "back", bp.BodyPart)
}

func TestExtractDuration(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		input string
		want  *triage.Duration
	}{
		{"for 3 days", &triage.Duration{Value: 3, Unit: triage.UnitDay}},
		{"about two weeks now", &triage.Duration{Value: 2, Unit: triage.UnitWeek}},
		{"it's been going on for a day", &triage.Duration{Value: 1, Unit: triage.UnitDay}},
		{"a few hours", &triage.Duration{Value: 3, Unit: triage.UnitHour}},
		{"since yesterday", &triage.Duration{Value: 1, Unit: triage.UnitDay}},
		{"started this morning", &triage.Duration{Value: 1, Unit: triage.UnitHour}},
		{"for 45 minutes", &triage.Duration{Value: 45, Unit: triage.UnitMinute}},
		{"no time given", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, a.ExtractDuration(tt.input))
		})
	}
}

func TestExtractDuration_ExplicitBeforeIdiom(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, &triage.Duration{Value: 4, Unit: triage.UnitDay}, a.ExtractDuration("since yesterday, so 4 days total"))
}

func TestExtractSeverity(t *testing.T) {
	a := NewAnalyzer()

	assert.Equal(t, triage.SeveritySevere, a.ExtractSeverity("the pain is unbearable"))
	assert.Equal(t, triage.SeverityModerate, a.ExtractSeverity("it's getting worse"))
	assert.Equal(t, triage.SeverityMild, a.ExtractSeverity("it's not too bad"))
	assert.Equal(t, triage.SeverityMild, a.ExtractSeverity("no cue here"))
}

func TestAnalyzeTextComplexity(t *testing.T) {
	a := NewAnalyzer()

	c := a.AnalyzeTextComplexity("I have a cough")
	assert.True(t, c.HasSymptoms)
	assert.False(t, c.HasBodyPart)
	assert.True(t, c.IsAmbiguous)

	c = a.AnalyzeTextComplexity("I have a severe cough in my chest for 2 days")
	assert.True(t, c.HasSymptoms)
	assert.True(t, c.HasBodyPart)
	assert.True(t, c.HasSeverity)
	assert.True(t, c.HasDuration)
	assert.False(t, c.IsAmbiguous)

	c = a.AnalyzeTextComplexity("hello there")
	assert.False(t, c.HasSymptoms)
	assert.False(t, c.IsAmbiguous)
}
