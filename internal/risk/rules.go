package risk

import "voice-triage/internal/triage"

// Condition is one finding a rule looks for. Zero-valued fields are not
// checked and earn no bonus. A required condition is satisfied by a symptom
// with the same name and, when Severity is set, the same severity.
type Condition struct {
	Symptom  string
	Severity triage.Severity
	BodyPart string
	MinHours float64
	MaxHours float64
	Required bool
}

func (c Condition) hasDurationRange() bool {
	return c.MinHours > 0 || c.MaxHours > 0
}

// Rule maps a combination of findings to a risk level.
type Rule struct {
	Name            string
	Conditions      []Condition
	Level           triage.RiskLevel
	BaseConfidence  float64
	Reasoning       string
	Recommendations []string
}

const (
	hoursPerDay  = 24
	hoursPerWeek = 24 * 7
)

// defaultRules is evaluated in order; on equal scores the earlier rule wins.
var defaultRules = []Rule{
	{
		Name: "cardiac warning",
		Conditions: []Condition{
			{Symptom: "chest pain", Severity: triage.SeverityModerate, BodyPart: "chest", Required: true},
			{Symptom: "heart palpitations", BodyPart: "chest", Required: true},
		},
		Level:          triage.RiskEmergency,
		BaseConfidence: 0.9,
		Reasoning:      "Chest pain together with a racing or irregular heartbeat can signal a heart problem.",
		Recommendations: []string{
			"Call emergency services now.",
			"Sit down, stay calm, and avoid any physical effort while you wait for help.",
		},
	},
	{
		Name: "high fever with severe headache",
		Conditions: []Condition{
			{Symptom: "fever", Severity: triage.SeveritySevere, Required: true},
			{Symptom: "headache", Severity: triage.SeveritySevere, Required: true},
		},
		Level:          triage.RiskEmergency,
		BaseConfidence: 0.85,
		Reasoning:      "A high fever combined with a severe headache needs urgent medical evaluation.",
		Recommendations: []string{
			"Call emergency services or go to the nearest emergency department now.",
			"Tell them about the fever and headache, and whether your neck feels stiff.",
		},
	},
	{
		Name: "severe abdominal pain with vomiting",
		Conditions: []Condition{
			{Symptom: "abdominal pain", Severity: triage.SeveritySevere, BodyPart: "stomach", Required: true},
			{Symptom: "vomiting", BodyPart: "stomach", Required: true},
		},
		Level:          triage.RiskEmergency,
		BaseConfidence: 0.85,
		Reasoning:      "Severe abdominal pain with vomiting can point to a condition that needs urgent care.",
		Recommendations: []string{
			"Go to an emergency department or call emergency services now.",
			"Avoid eating or drinking until you have been checked.",
		},
	},
	{
		Name: "moderate chest pain",
		Conditions: []Condition{
			{Symptom: "chest pain", Severity: triage.SeverityModerate, Required: true},
		},
		Level:          triage.RiskModerate,
		BaseConfidence: 0.8,
		Reasoning:      "Chest pain should always be checked by a healthcare professional.",
		Recommendations: []string{
			"Contact a doctor or urgent care today about the chest pain.",
			"If the pain spreads to your arm, jaw or back, or gets stronger, call emergency services right away.",
		},
	},
	{
		Name: "severe abdominal pain",
		Conditions: []Condition{
			{Symptom: "abdominal pain", Severity: triage.SeveritySevere, Required: true},
		},
		Level:          triage.RiskModerate,
		BaseConfidence: 0.8,
		Reasoning:      "Severe abdominal pain should be looked at by a healthcare professional soon.",
		Recommendations: []string{
			"Contact a doctor or visit urgent care today.",
			"Seek emergency care if the pain becomes unbearable or you develop a fever.",
		},
	},
	{
		Name: "severe migraine",
		Conditions: []Condition{
			{Symptom: "headache", Severity: triage.SeveritySevere, BodyPart: "head", Required: true},
			{Symptom: "nausea", BodyPart: "stomach"},
		},
		Level:          triage.RiskModerate,
		BaseConfidence: 0.75,
		Reasoning:      "A severe headache with nausea is worth discussing with a healthcare provider.",
		Recommendations: []string{
			"Rest in a quiet, dark room and stay hydrated.",
			"Contact your doctor if this headache is unusual for you or does not ease.",
		},
	},
	{
		Name: "severe fever",
		Conditions: []Condition{
			{Symptom: "fever", Severity: triage.SeveritySevere, Required: true},
		},
		Level:          triage.RiskModerate,
		BaseConfidence: 0.8,
		Reasoning:      "A high fever should be reviewed by a healthcare provider.",
		Recommendations: []string{
			"Contact your doctor or a clinic within the next day.",
			"Drink plenty of fluids and rest.",
		},
	},
	{
		Name: "persistent fever",
		Conditions: []Condition{
			{Symptom: "fever", MinHours: 3 * hoursPerDay, Required: true},
		},
		Level:          triage.RiskModerate,
		BaseConfidence: 0.8,
		Reasoning:      "A fever lasting three days or more should be checked by a healthcare provider.",
		Recommendations: []string{
			"Book an appointment with your doctor in the next day or two.",
			"Keep track of your temperature and drink plenty of fluids.",
		},
	},
	{
		Name: "dehydration risk",
		Conditions: []Condition{
			{Symptom: "vomiting", MinHours: hoursPerDay, Required: true},
			{Symptom: "diarrhea", MinHours: hoursPerDay, Required: true},
		},
		Level:          triage.RiskModerate,
		BaseConfidence: 0.75,
		Reasoning:      "Ongoing vomiting and diarrhea can lead to dehydration.",
		Recommendations: []string{
			"Sip water or an oral rehydration drink frequently.",
			"Contact a doctor if you cannot keep fluids down or feel very weak.",
		},
	},
	{
		Name: "persistent cough",
		Conditions: []Condition{
			{Symptom: "cough", MinHours: 3 * hoursPerWeek, Required: true},
		},
		Level:          triage.RiskModerate,
		BaseConfidence: 0.75,
		Reasoning:      "A cough that lasts three weeks or longer should be checked by a doctor.",
		Recommendations: []string{
			"Make an appointment with your doctor to have the cough checked.",
		},
	},
	{
		Name: "common cold pattern",
		Conditions: []Condition{
			{Symptom: "cough", Severity: triage.SeverityMild},
			{Symptom: "runny nose", Severity: triage.SeverityMild},
			{Symptom: "sore throat", Severity: triage.SeverityMild},
		},
		Level:          triage.RiskMild,
		BaseConfidence: 0.8,
		Reasoning:      "A mild cough, runny nose and sore throat together usually point to a common cold.",
		Recommendations: []string{
			"Rest, stay warm, and drink plenty of fluids.",
			"Contact a healthcare provider if you develop a high fever or trouble breathing.",
		},
	},
	{
		Name: "recent mild headache",
		Conditions: []Condition{
			{Symptom: "headache", Severity: triage.SeverityMild, BodyPart: "head", MaxHours: hoursPerDay, Required: true},
		},
		Level:          triage.RiskMild,
		BaseConfidence: 0.85,
		Reasoning:      "A mild headache that started recently is usually not a cause for concern.",
		Recommendations: []string{
			"Rest, drink water, and take a break from screens.",
			"Contact a healthcare provider if the headache gets much worse or keeps coming back.",
		},
	},
	{
		Name: "minor sprain",
		Conditions: []Condition{
			{Symptom: "sprain", Severity: triage.SeverityMild, BodyPart: "leg", Required: true},
		},
		Level:          triage.RiskMild,
		BaseConfidence: 0.75,
		Reasoning:      "A mild sprain can usually be cared for at home.",
		Recommendations: []string{
			"Rest the joint, apply ice, and keep it raised.",
			"See a healthcare provider if you cannot put weight on it or the swelling grows.",
		},
	},
}

// baseTiers maps symptoms to the tier used when no rule matches. Unlisted
// symptoms are mild.
var baseTiers = map[string]triage.RiskLevel{
	"heart attack":         triage.RiskEmergency,
	"stroke":               triage.RiskEmergency,
	"seizure":              triage.RiskEmergency,
	"unconscious":          triage.RiskEmergency,
	"severe bleeding":      triage.RiskEmergency,
	"choking":              triage.RiskEmergency,
	"anaphylaxis":          triage.RiskEmergency,
	"overdose":             triage.RiskEmergency,
	"suicidal thoughts":    triage.RiskEmergency,
	"difficulty breathing": triage.RiskEmergency,
	"chest pain":           triage.RiskModerate,
	"heart palpitations":   triage.RiskModerate,
	"fever":                triage.RiskModerate,
	"abdominal pain":       triage.RiskModerate,
	"vomiting":             triage.RiskModerate,
	"dizziness":            triage.RiskModerate,
}

var tierRecommendations = map[triage.RiskLevel][]string{
	triage.RiskMild: {
		"Rest and keep an eye on how you feel.",
		"Drink plenty of fluids.",
		"If your symptoms get worse or don't improve in a few days, contact a healthcare provider.",
	},
	triage.RiskModerate: {
		"Contact your doctor or a clinic within the next day.",
		"If you can't reach your doctor, consider visiting an urgent care center.",
		"Seek immediate care if your symptoms suddenly get worse.",
	},
	triage.RiskEmergency: emergencyRecommendations,
}

var emergencyRecommendations = []string{
	"Call emergency services now.",
	"Do not drive yourself to the hospital.",
	"Stay where you are and follow the dispatcher's instructions.",
}
