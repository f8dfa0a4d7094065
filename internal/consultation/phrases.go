package consultation

var (
	greetings = []string{
		"Hello, I'm here to help you understand your symptoms. What's bothering you today?",
		"Hi there. Tell me what you're feeling and I'll help you figure out what to do next.",
		"Hello. Please describe how you're feeling, and I'll guide you from there.",
	}
	// confirmations take the joined symptom names.
	confirmations = []string{
		"I understand you're experiencing %s.",
		"Thank you. I've noted %s.",
		"Okay, so you have %s.",
	}
	// enrichments take the main symptom name.
	enrichments = []string{
		"Thanks, that helps me understand your %s better.",
		"Got it, I've added that to what you told me about your %s.",
	}
	helpMessages = []string{
		"I can help you decide how urgently you should get care. Describe your symptoms, for example where it hurts, how bad it is, and how long it has been going on. Say goodbye when you're done.",
		"Just tell me what you're feeling in your own words, like how strong it is and when it started. I'll ask a few questions and suggest next steps. Say that's all to finish.",
	}
	reprompts = []string{
		"That's okay. You could say something like \"I've had a headache since yesterday\" or \"my stomach hurts a lot\".",
		"No problem. Try telling me one thing you're feeling, for example \"I have a sore throat\" or \"my back hurts\".",
	}
	stillThere = []string{
		"Are you still there? Take your time, and tell me when you're ready.",
		"I'm still here. Are you there?",
	}
	closings = []string{
		"Thank you for talking with me. Take care, and contact a healthcare provider if anything changes.",
		"Take care of yourself. If your symptoms get worse, please reach out to a healthcare provider.",
	}
	emergencyClosings = []string{
		"Please don't wait to get the emergency help we talked about. Take care.",
		"Please get emergency help right away if you haven't already. I'm ending our conversation now.",
	}
	silenceClosings = []string{
		"I haven't heard from you for a while, so I'm ending our conversation. You can wake me again anytime.",
	}
	turnFailures = []string{
		"I'm sorry, I had trouble with that. Could you please say it again?",
		"Sorry, something went wrong on my side. Please try telling me again.",
	}
	noteFallback = "I haven't noted any symptoms yet."
)
