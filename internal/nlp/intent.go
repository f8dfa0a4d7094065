package nlp

import "regexp"

type Intent string

const (
	IntentDescribeSymptoms Intent = "describe_symptoms"
	IntentEndSession       Intent = "end_session"
	IntentAskClarification Intent = "ask_clarification"
	IntentRequestHelp      Intent = "request_help"
	IntentUnknown          Intent = "unknown"
)

// uncertaintyPattern wins over every other intent pattern.
var uncertaintyPattern = regexp.MustCompile(`\b(i don't know|i dont know|i do not know|not sure|unsure|unclear|maybe|no idea|i can't tell|hard to say)\b`)

type intentPatterns struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// intentPriority is checked top to bottom; the first group with a hit wins.
var intentPriority = []intentPatterns{
	{IntentDescribeSymptoms, []*regexp.Regexp{
		regexp.MustCompile(`\bi (have|had|got|get) (a|an|some|been|this|pain|trouble|really|terrible|severe|bad)\b`),
		regexp.MustCompile(`\bi've (got|had|been)\b`),
		regexp.MustCompile(`\bi('m| am) (feeling|having|experiencing|suffering)\b`),
		regexp.MustCompile(`\bi feel\b`),
		regexp.MustCompile(`\bmy \w+ (hurts?|aches?|is sore|is killing me|feels)\b`),
		regexp.MustCompile(`\b(it hurts|it aches|it's been|it has been|going on|it started|started|since)\b`),
		regexp.MustCompile(`\b(suffering from|experiencing)\b`),
	}},
	{IntentEndSession, []*regexp.Regexp{
		regexp.MustCompile(`\b(goodbye|good bye|bye|end (the )?session|that's all|that is all|i'm done|i am done|no more questions|we're done)\b`),
		regexp.MustCompile(`^(stop|quit|exit|cancel)( now| please)?[.!]?$`),
	}},
	{IntentRequestHelp, []*regexp.Regexp{
		regexp.MustCompile(`\b(help|what can you do|how does this work|how do i|instructions)\b`),
	}},
	{IntentAskClarification, []*regexp.Regexp{
		regexp.MustCompile(`\b(what do you mean|repeat that|say that again|repeat|pardon|come again|didn't understand|don't understand|what did you say|can you explain|what was that)\b`),
	}},
}

// DetectIntent classifies an utterance. Uncertain phrasing returns unknown
// before any other pattern is considered.
func (a *Analyzer) DetectIntent(text string) Intent {
	norm := normalize(text)
	if uncertaintyPattern.MatchString(norm) {
		return IntentUnknown
	}
	for _, group := range intentPriority {
		for _, re := range group.patterns {
			if re.MatchString(norm) {
				return group.intent
			}
		}
	}
	if hasSymptomKeywords(norm) {
		return IntentDescribeSymptoms
	}
	return IntentRequestHelp
}

// HasUncertainty reports whether the text carries hedging words.
func (a *Analyzer) HasUncertainty(text string) bool {
	return uncertaintyMarkers.MatchString(normalize(text))
}

var uncertaintyMarkers = regexp.MustCompile(`\b(maybe|might|perhaps|possibly|not sure|unsure|i think|i guess|kind of|sort of|probably)\b`)
