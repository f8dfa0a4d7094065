package nlp

import (
	"regexp"
	"strconv"

	"voice-triage/internal/triage"
)

var wordNumbers = map[string]float64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"a couple of": 2, "couple of": 2, "a couple": 2, "a few": 3, "few": 3, "several": 3,
}

var unitWords = map[string]triage.DurationUnit{
	"minute": triage.UnitMinute,
	"hour":   triage.UnitHour,
	"day":    triage.UnitDay,
	"week":   triage.UnitWeek,
	"month":  triage.UnitMonth,
	"year":   triage.UnitYear,
}

// explicitDuration captures "N units" with a numeric or spelled-out count.
var explicitDuration = regexp.MustCompile(
	`\b(\d+(?:\.\d+)?|a couple of|couple of|a couple|a few|few|several|an|a|one|two|three|four|five|six|seven|eight|nine|ten)\s+(minute|hour|day|week|month|year)s?\b`)

// idiomaticDurations are checked in order after the explicit pattern.
var idiomaticDurations = []struct {
	re       *regexp.Regexp
	duration triage.Duration
}{
	{regexp.MustCompile(`\bjust now\b|\bjust started\b`), triage.Duration{Value: 5, Unit: triage.UnitMinute}},
	{regexp.MustCompile(`\bthis morning\b`), triage.Duration{Value: 1, Unit: triage.UnitHour}},
	{regexp.MustCompile(`\bthis afternoon\b|\bthis evening\b`), triage.Duration{Value: 1, Unit: triage.UnitHour}},
	{regexp.MustCompile(`\byesterday\b`), triage.Duration{Value: 1, Unit: triage.UnitDay}},
	{regexp.MustCompile(`\blast night\b|\bovernight\b`), triage.Duration{Value: 1, Unit: triage.UnitDay}},
	{regexp.MustCompile(`\ball day\b`), triage.Duration{Value: 1, Unit: triage.UnitDay}},
	{regexp.MustCompile(`\blast week\b`), triage.Duration{Value: 1, Unit: triage.UnitWeek}},
	{regexp.MustCompile(`\blast month\b`), triage.Duration{Value: 1, Unit: triage.UnitMonth}},
}

// ExtractDuration finds how long the complaint has lasted, or nil.
func (a *Analyzer) ExtractDuration(text string) *triage.Duration {
	return extractDuration(normalize(text))
}

func extractDuration(norm string) *triage.Duration {
	if m := explicitDuration.FindStringSubmatch(norm); m != nil {
		value, ok := wordNumbers[m[1]]
		if !ok {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil
			}
			value = v
		}
		return &triage.Duration{Value: value, Unit: unitWords[m[2]]}
	}
	for _, d := range idiomaticDurations {
		if d.re.MatchString(norm) {
			dur := d.duration
			return &dur
		}
	}
	return nil
}
