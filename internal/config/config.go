package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Conversation
	WakePhrase     string        `env:"TRIAGE_WAKE_PHRASE" envDefault:"hey triage"`
	MaxQuestions   int           `env:"TRIAGE_MAX_QUESTIONS" envDefault:"5"`
	SilencePrompt  time.Duration `env:"TRIAGE_SILENCE_PROMPT" envDefault:"30s"`
	SilenceEnd     time.Duration `env:"TRIAGE_SILENCE_END" envDefault:"60s"`
	AutoEndDelay   time.Duration `env:"TRIAGE_AUTO_END_DELAY" envDefault:"10s"`
	SessionIdleTTL time.Duration `env:"TRIAGE_SESSION_IDLE_TTL" envDefault:"5m"`
	SweepSchedule  string        `env:"TRIAGE_SWEEP_SCHEDULE" envDefault:"@every 30s"`
	PolicyFile     string        `env:"TRIAGE_POLICY_FILE"`
	Seed           uint64        `env:"TRIAGE_SEED" envDefault:"0"`

	// Session creation per client; a zero rate disables the limit
	StartRate  float64 `env:"TRIAGE_START_RATE" envDefault:"1"`
	StartBurst int     `env:"TRIAGE_START_BURST" envDefault:"5"`

	// Speech collaborators
	STTURL     string        `env:"STT_URL" envDefault:"http://tts:8000/transcribe"`
	STTTimeout time.Duration `env:"STT_TIMEOUT" envDefault:"3000ms"`
	TTSURL     string        `env:"TTS_URL" envDefault:"http://tts:8000/synthesize"`
	TTSVoice   string        `env:"TTS_VOICE" envDefault:"en_0"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxQuestions < 0 {
		return fmt.Errorf("TRIAGE_MAX_QUESTIONS must be >= 0, got %d", c.MaxQuestions)
	}
	if c.SilencePrompt <= 0 || c.SilenceEnd <= 0 {
		return fmt.Errorf("silence thresholds must be positive")
	}
	if c.SilencePrompt >= c.SilenceEnd {
		return fmt.Errorf("TRIAGE_SILENCE_PROMPT (%s) must be below TRIAGE_SILENCE_END (%s)", c.SilencePrompt, c.SilenceEnd)
	}
	if c.AutoEndDelay < 0 {
		return fmt.Errorf("TRIAGE_AUTO_END_DELAY must not be negative")
	}
	if c.StartRate < 0 || c.StartBurst < 0 {
		return fmt.Errorf("session start limits must not be negative")
	}
	if c.StartRate > 0 && c.StartBurst == 0 {
		return fmt.Errorf("TRIAGE_START_BURST must be positive when TRIAGE_START_RATE is set")
	}
	if c.STTTimeout <= 0 {
		return fmt.Errorf("STT_TIMEOUT must be positive")
	}
	return nil
}
