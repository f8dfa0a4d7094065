package response

import "voice-triage/internal/triage"

type hint string

const (
	hintCardiac     hint = "cardiac"
	hintRespiratory hint = "respiratory"
	hintNeuro       hint = "neurological"
	hintDigestive   hint = "digestive"
	hintFever       hint = "fever"
	hintInjury      hint = "injury"
	hintGeneral     hint = "general"
)

// hintKeywords is scanned in order against the assessment reasoning; the
// first hint with a matching keyword wins.
var hintKeywords = []struct {
	hint     hint
	keywords []string
}{
	{hintCardiac, []string{"chest", "heart", "heartbeat", "palpitation"}},
	{hintRespiratory, []string{"breath", "cough", "throat", "cold", "choking"}},
	{hintNeuro, []string{"headache", "migraine", "stroke", "seizure", "dizz", "unconscious"}},
	{hintDigestive, []string{"abdominal", "stomach", "vomit", "nausea", "diarrhea", "dehydration"}},
	{hintFever, []string{"fever", "temperature"}},
	{hintInjury, []string{"sprain", "bleeding", "joint", "injur"}},
}

var levelWords = map[triage.RiskLevel]string{
	triage.RiskMild:      "mild",
	triage.RiskModerate:  "moderate",
	triage.RiskEmergency: "emergency",
}

// Summary templates take the level word and the confidence band.
var summaryTemplates = []string{
	"Based on what you've described, I'd rate this as %s risk, with %s confidence.",
	"From what you've told me, this looks like a %s risk situation, and I have %s confidence in that.",
	"Putting together what you shared, I'd place this at %s risk, with %s confidence.",
}

var selfCareTemplates = map[hint][]string{
	hintRespiratory: {
		"For a cough or sore throat, warm drinks and rest often help.",
		"Resting your voice and staying warm can ease throat and chest discomfort.",
	},
	hintNeuro: {
		"Resting in a quiet, dim room can make a headache easier to bear.",
		"Try to rest, limit screen time, and keep sipping water.",
	},
	hintDigestive: {
		"Small sips of water and plain, light food can settle your stomach.",
		"Give your stomach a rest and keep up your fluids a little at a time.",
	},
	hintFever: {
		"Rest, light clothing, and plenty of fluids can help while your temperature settles.",
	},
	hintInjury: {
		"Resting the area, cooling it, and keeping it raised usually helps.",
	},
	hintGeneral: {
		"Rest, stay hydrated, and keep an eye on how you feel over the next few days.",
		"Taking it easy and drinking plenty of fluids is a good place to start.",
	},
}

var consultationTemplates = map[hint][]string{
	hintCardiac: {
		"Chest symptoms should be checked by a healthcare professional today.",
		"Please have a doctor look at these chest symptoms today.",
	},
	hintRespiratory: {
		"A healthcare provider should listen to your chest and breathing soon.",
	},
	hintNeuro: {
		"It would be wise to talk to a healthcare provider about these headaches soon.",
	},
	hintDigestive: {
		"A healthcare provider should check these stomach symptoms soon, especially if fluids are hard to keep down.",
	},
	hintFever: {
		"A healthcare provider should check a fever like this within the next day.",
	},
	hintInjury: {
		"Having a healthcare provider examine the area soon is a good idea.",
	},
	hintGeneral: {
		"Please arrange to see a healthcare provider within the next day.",
		"It would be a good idea to contact your doctor or a clinic soon.",
	},
}

var emergencyTemplates = map[hint][]string{
	hintCardiac: {
		"Chest and heart symptoms like these need emergency help now. Sit down and stay as still as you can.",
	},
	hintRespiratory: {
		"Breathing problems like this need emergency help now. Sit upright and try to stay calm.",
	},
	hintNeuro: {
		"Signs like these need emergency help now. Note the time they started and stay with someone if you can.",
	},
	hintInjury: {
		"Press firmly on any bleeding while you wait for emergency help.",
	},
	hintGeneral: {
		"This needs emergency help now. Please get help immediately.",
		"Please get emergency help right now and do not wait to see if it improves.",
	},
}
