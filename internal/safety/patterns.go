package safety

import "regexp"

var diagnosticPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\byou (have|likely have|probably have|definitely have|certainly have) (a |an )?[a-z' ]{0,30}?(disease|infection|disorder|syndrome|cancer|condition)\b`),
	regexp.MustCompile(`(?i)\byou (are|were|have been) diagnosed with\b`),
	regexp.MustCompile(`(?i)\byour diagnosis is\b`),
	regexp.MustCompile(`(?i)\bthis is (definitely|certainly|clearly) (a |an )?[a-z]+ (disease|infection|disorder|syndrome)\b`),
	regexp.MustCompile(`(?i)\bi diagnose\b`),
}

var dosagePattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s?(mg|milligrams?|mcg|micrograms?|ml|milliliters?)\b`)

var medicationPattern = regexp.MustCompile(`(?i)\b(ibuprofen|acetaminophen|paracetamol|aspirin|naproxen|amoxicillin|penicillin|antibiotics?|codeine|morphine|tylenol|advil|motrin|aleve|benadryl|prednisone|oxycodone)\b`)

var prescriptionPatterns = []*regexp.Regexp{
	dosagePattern,
	medicationPattern,
	regexp.MustCompile(`(?i)\btake \d+\b`),
	regexp.MustCompile(`(?i)\b(once|twice|three times|four times) (a|per) day\b`),
	regexp.MustCompile(`(?i)\bevery \d+ hours\b`),
}

// safeParaphrases rewrite prohibited phrasing, applied in order before the
// dosage and medication patterns.
var safeParaphrases = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\btake medication\b`), "consider consulting a healthcare provider about treatment options"},
	{regexp.MustCompile(`(?i)\byou have been diagnosed with\b`), "your symptoms may need to be evaluated for"},
	{regexp.MustCompile(`(?i)\byou have been diagnosed\b`), "your symptoms may need to be evaluated"},
	{regexp.MustCompile(`(?i)\byour diagnosis is\b`), "a healthcare provider can help identify"},
	{regexp.MustCompile(`(?i)\byou definitely have\b`), "you may be experiencing"},
	{regexp.MustCompile(`(?i)\bprescriptions?\b`), "treatment plan"},
	{regexp.MustCompile(`(?i)\bprescrib(e|ed|es|ing)\b`), "recommend"},
	{regexp.MustCompile(`(?i)\bdosages?\b`), "treatment details"},
	{regexp.MustCompile(`(?i)\bguaranteed cure\b`), "possible relief"},
	{regexp.MustCompile(`(?i)\bno need to see a doctor\b`), "a good idea to check with a doctor if things change"},
}

var (
	urgentWording   = regexp.MustCompile(`(?i)\b(emergency|urgent|urgently|immediately|right away)\b`)
	guidanceWording = regexp.MustCompile(`(?i)\b(recommend|recommended|suggest|suggested|consider|should)\b`)
	emergencyCall   = regexp.MustCompile(`(?i)\b(call|contact|phone|dial)\b.*\b(emergency services|emergency number|911|112|999|an ambulance)\b`)
	urgencyPhrase   = regexp.MustCompile(`(?i)\b(immediately|do not delay|don't delay)\b`)
)
