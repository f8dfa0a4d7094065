package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		input string
		want  Intent
	}{
		{"I have a terrible headache", IntentDescribeSymptoms},
		{"my stomach hurts", IntentDescribeSymptoms},
		{"it's been going on for a day but it's not too bad", IntentDescribeSymptoms},
		{"I don't feel good", IntentDescribeSymptoms},
		{"chest pain", IntentDescribeSymptoms},
		{"my nose won't stop running and I'm congested", IntentDescribeSymptoms},
		{"goodbye", IntentEndSession},
		{"that's all, thanks", IntentEndSession},
		{"stop", IntentEndSession},
		{"what can you do?", IntentRequestHelp},
		{"could you repeat that", IntentAskClarification},
		{"what do you mean?", IntentAskClarification},
		{"I don't know", IntentUnknown},
		{"maybe", IntentUnknown},
		{"the weather is nice", IntentRequestHelp},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, a.DetectIntent(tt.input))
		})
	}
}

func TestDetectIntent_UncertaintyBeatsDescribe(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, IntentUnknown, a.DetectIntent("I have a headache, I'm not sure"))
}

func TestHasUncertainty(t *testing.T) {
	a := NewAnalyzer()
	assert.True(t, a.HasUncertainty("it might be my stomach"))
	assert.True(t, a.HasUncertainty("I think it is a headache"))
	assert.False(t, a.HasUncertainty("my head hurts"))
}
