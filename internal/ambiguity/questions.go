package ambiguity

// Each pool holds interchangeable wordings; %s is the main symptom name.
var (
	describeQuestions = []string{
		"Can you describe what you're feeling right now?",
		"Could you tell me a bit more about what's bothering you?",
		"What symptoms are you noticing at the moment?",
	}
	bodyPartQuestions = []string{
		"Where in your body do you feel the %s?",
		"Which part of your body is affected by the %s?",
		"Can you tell me where the %s is located?",
	}
	severityQuestions = []string{
		"How bad is the %s? Would you say it's mild, moderate, or severe?",
		"On a scale from mild to severe, how strong is the %s?",
		"How much is the %s bothering you: a little, quite a bit, or a lot?",
	}
	durationQuestions = []string{
		"How long have you had the %s?",
		"When did the %s start?",
		"How long has the %s been going on?",
	}
	specificityQuestions = []string{
		"Can you describe the %s in a little more detail?",
		"What does the %s feel like exactly?",
		"Could you tell me more about the %s?",
	}
	priorityQuestions = []string{
		"You mentioned a few things. Which one bothers you the most?",
		"Of everything you've described, which symptom worries you most?",
	}
)
