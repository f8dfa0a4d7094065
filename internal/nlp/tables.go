package nlp

import (
	"regexp"
	"strings"

	"voice-triage/internal/triage"
)

type symptomDef struct {
	name     string
	bodyPart string
	keywords []string
}

// symptomDefs is ordered: entities come out in this order for a given text.
var symptomDefs = []symptomDef{
	{"chest pain", "chest", []string{"chest pain", "chest hurts", "pain in my chest", "chest tightness", "tight chest", "chest pressure"}},
	{"difficulty breathing", "chest", []string{"difficulty breathing", "trouble breathing", "can't breathe", "cannot breathe", "shortness of breath", "short of breath", "hard to breathe", "breathless"}},
	{"heart attack", "chest", []string{"heart attack"}},
	{"heart palpitations", "chest", []string{"heart palpitations", "palpitations", "heart racing", "racing heart", "heart pounding", "irregular heartbeat", "heart fluttering"}},
	{"stroke", "head", []string{"stroke", "face drooping", "slurred speech", "can't move one side"}},
	{"seizure", "", []string{"seizure", "seizures", "convulsion", "convulsions"}},
	{"unconscious", "", []string{"unconscious", "passed out", "fainted", "blacked out", "unresponsive"}},
	{"severe bleeding", "", []string{"severe bleeding", "bleeding heavily", "heavy bleeding", "won't stop bleeding", "losing a lot of blood"}},
	{"choking", "throat", []string{"choking", "something stuck in my throat"}},
	{"anaphylaxis", "throat", []string{"anaphylaxis", "throat is closing", "throat closing", "tongue swelling", "lips swelling"}},
	{"overdose", "", []string{"overdose", "took too many pills"}},
	{"suicidal thoughts", "", []string{"suicidal", "kill myself", "end my life", "want to die"}},
	{"headache", "head", []string{"headache", "head hurts", "head ache", "migraine", "head is pounding", "head pain"}},
	{"fever", "", []string{"fever", "feverish", "temperature", "chills", "hot and cold"}},
	{"cough", "chest", []string{"cough", "coughing", "hacking"}},
	{"sore throat", "throat", []string{"sore throat", "throat hurts", "scratchy throat", "throat pain"}},
	{"runny nose", "nose", []string{"runny nose", "stuffy nose", "congestion", "congested", "sniffles"}},
	{"earache", "ear", []string{"earache", "ear pain", "ear hurts"}},
	{"nausea", "stomach", []string{"nausea", "nauseous", "queasy", "sick to my stomach"}},
	{"vomiting", "stomach", []string{"vomiting", "vomit", "throwing up", "threw up"}},
	{"diarrhea", "stomach", []string{"diarrhea", "loose stools"}},
	{"abdominal pain", "stomach", []string{"abdominal pain", "stomach ache", "stomachache", "stomach pain", "stomach hurts", "belly pain", "tummy ache", "cramps"}},
	{"back pain", "back", []string{"back pain", "back hurts", "backache", "sore back"}},
	{"joint pain", "joints", []string{"joint pain", "joints hurt", "knee pain", "sore joints", "aching joints"}},
	{"sprain", "leg", []string{"sprain", "sprained", "twisted my ankle", "rolled my ankle"}},
	{"dizziness", "head", []string{"dizziness", "dizzy", "lightheaded", "light headed", "vertigo", "room is spinning"}},
	{"fatigue", "", []string{"fatigue", "tired", "exhausted", "no energy", "weakness"}},
	{"rash", "skin", []string{"rash", "hives", "itchy skin", "red spots"}},
	{"insomnia", "", []string{"insomnia", "can't sleep", "cannot sleep", "trouble sleeping"}},
}

// bodyPartDefs maps surface forms to a canonical body part, in scan order.
var bodyPartDefs = []struct {
	part     string
	keywords []string
}{
	{"chest", []string{"chest"}},
	{"head", []string{"head", "forehead", "temple", "temples"}},
	{"throat", []string{"throat"}},
	{"stomach", []string{"stomach", "belly", "abdomen", "tummy", "gut"}},
	{"back", []string{"back", "spine", "lower back"}},
	{"ear", []string{"ear", "ears"}},
	{"eye", []string{"eye", "eyes"}},
	{"nose", []string{"nose", "sinuses"}},
	{"neck", []string{"neck"}},
	{"arm", []string{"arm", "arms", "shoulder", "elbow", "wrist", "hand"}},
	{"leg", []string{"leg", "legs", "knee", "ankle", "foot", "feet", "hip"}},
	{"skin", []string{"skin"}},
	{"joints", []string{"joint", "joints"}},
}

// severityDefs are checked strongest first.
var severityDefs = []struct {
	level    triage.Severity
	keywords []string
}{
	{triage.SeveritySevere, []string{"severe", "severely", "terrible", "unbearable", "excruciating", "worst", "really bad", "very bad", "intense", "extreme", "agonizing"}},
	{triage.SeverityModerate, []string{"moderate", "moderately", "pretty bad", "quite bad", "fairly bad", "uncomfortable", "getting worse", "worse"}},
	{triage.SeverityMild, []string{"mild", "mildly", "slight", "slightly", "a little", "a bit", "minor", "not too bad", "not that bad"}},
}

var genericDiscomfortTerms = []string{
	"pain", "ache", "aches", "aching", "hurt", "hurts", "sick", "unwell", "sore",
	"don't feel good", "not feeling well", "feel bad", "feel awful",
}

const genericSymptomName = "general discomfort"

type keywordMatcher struct {
	raw string
	re  *regexp.Regexp
}

func compileKeyword(kw string) keywordMatcher {
	return keywordMatcher{raw: kw, re: regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + `\b`)}
}

func compileKeywords(kws []string) []keywordMatcher {
	out := make([]keywordMatcher, len(kws))
	for i, kw := range kws {
		out[i] = compileKeyword(kw)
	}
	return out
}

type compiledSymptom struct {
	name     string
	bodyPart string
	nameRe   *regexp.Regexp
	keywords []keywordMatcher
}

type compiledBodyPart struct {
	part     string
	keywords []keywordMatcher
}

type compiledSeverity struct {
	level    triage.Severity
	keywords []keywordMatcher
}

// Compiled once at init and only read afterwards.
var (
	symptomTable  []compiledSymptom
	bodyPartTable []compiledBodyPart
	severityTable []compiledSeverity
	genericTable  []keywordMatcher
)

func init() {
	for _, d := range symptomDefs {
		symptomTable = append(symptomTable, compiledSymptom{
			name:     d.name,
			bodyPart: d.bodyPart,
			nameRe:   compileKeyword(d.name).re,
			keywords: compileKeywords(d.keywords),
		})
	}
	for _, d := range bodyPartDefs {
		bodyPartTable = append(bodyPartTable, compiledBodyPart{part: d.part, keywords: compileKeywords(d.keywords)})
	}
	for _, d := range severityDefs {
		severityTable = append(severityTable, compiledSeverity{level: d.level, keywords: compileKeywords(d.keywords)})
	}
	genericTable = compileKeywords(genericDiscomfortTerms)
}

func anyMatch(text string, kws []keywordMatcher) bool {
	for _, kw := range kws {
		if kw.re.MatchString(text) {
			return true
		}
	}
	return false
}

func countMatches(text string, kws []keywordMatcher) int {
	n := 0
	for _, kw := range kws {
		if kw.re.MatchString(text) {
			n++
		}
	}
	return n
}
