package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"voice-triage/internal/consultation"
	"voice-triage/internal/voice"
)

var (
	chatWaitWake bool
	chatTick     time.Duration
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant from the terminal",
	Long: `Runs the assistant with typed input standing in for speech. Each line is
one utterance. Silence is counted while nothing is typed, so the session
prompts and then closes on its own. The command exits when the session ends.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatWaitWake, "wait-wake", false, "stay in standby until the wake phrase is typed")
	chatCmd.Flags().DurationVar(&chatTick, "silence-tick", 5*time.Second, "how often idle time is reported as silence")
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, engine, err := setup()
	if err != nil {
		return err
	}
	if chatTick <= 0 {
		return fmt.Errorf("--silence-tick must be positive")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	out := cmd.OutOrStdout()
	assistant := voice.NewAssistant(consultation.NewRepository(), engine, options(cfg),
		voice.TextTranscriber{}, voice.NewWriterSpeaker(out), cfg.TTSVoice)
	assistant.OnSessionEnd(func(_ uuid.UUID, _ consultation.Status) {
		fmt.Fprintln(out, "(session ended, all details erased)")
		cancel()
	})

	events := make(chan voice.Event, 1)
	go readLines(ctx, cmd.InOrStdin(), cfg.WakePhrase, events)
	go tickSilence(ctx, chatTick, events)

	if chatWaitWake {
		fmt.Fprintf(out, "(say %q to start)\n", cfg.WakePhrase)
	} else if !send(ctx, events, voice.Wake()) {
		return nil
	}

	if err := assistant.Run(ctx, events); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// readLines turns typed lines into events. Once input is exhausted the
// session runs out on silence.
func readLines(ctx context.Context, r io.Reader, wake string, events chan<- voice.Event) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ev := voice.Speech([]byte(line))
		if strings.EqualFold(line, wake) {
			ev = voice.Wake()
		}
		if !send(ctx, events, ev) {
			return
		}
	}
}

func tickSilence(ctx context.Context, every time.Duration, events chan<- voice.Event) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !send(ctx, events, voice.Silence(every)) {
				return
			}
		}
	}
}

func send(ctx context.Context, events chan<- voice.Event, ev voice.Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
