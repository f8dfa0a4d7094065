package voice

import "time"

type EventKind int

const (
	EventWake EventKind = iota
	EventSpeech
	EventSilence
)

func (k EventKind) String() string {
	switch k {
	case EventWake:
		return "wake"
	case EventSpeech:
		return "speech"
	case EventSilence:
		return "silence"
	}
	return "unknown"
}

// Event is one input to the assistant: the wake word, a recorded utterance
// or a stretch of silence.
type Event struct {
	Kind    EventKind
	Audio   []byte
	Silence time.Duration
}

func Wake() Event {
	return Event{Kind: EventWake}
}

func Speech(audio []byte) Event {
	return Event{Kind: EventSpeech, Audio: audio}
}

func Silence(d time.Duration) Event {
	return Event{Kind: EventSilence, Silence: d}
}
