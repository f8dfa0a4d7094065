package voice

import (
	"context"
	"fmt"
	"io"
	"sync"

	"voice-triage/internal/triage"
)

// WriterSpeaker prints replies instead of playing them.
type WriterSpeaker struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSpeaker(w io.Writer) *WriterSpeaker {
	return &WriterSpeaker{w: w}
}

func (s *WriterSpeaker) Speak(ctx context.Context, text string, params triage.SpeechParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := "assistant"
	if params.Emphasis == "strong" {
		prefix = "assistant (urgent)"
	}
	_, err := fmt.Fprintf(s.w, "%s> %s\n", prefix, text)
	return err
}

// TextTranscriber treats the recorded audio as already transcribed text.
// It lets typed input drive the same event loop as a microphone.
type TextTranscriber struct{}

func (TextTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return string(audio), ctx.Err()
}
