package main

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"

	"voice-triage/internal/config"
	"voice-triage/internal/consultation"
	"voice-triage/internal/logging"
	"voice-triage/internal/phrase"
	"voice-triage/internal/policy"
)

// setup loads .env and the environment, configures logging and builds the
// triage engine shared by every command.
func setup() (*config.Config, *consultation.Engine, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	p := policy.Default()
	if cfg.PolicyFile != "" {
		if p, err = policy.Load(cfg.PolicyFile); err != nil {
			return nil, nil, fmt.Errorf("failed to load policy: %w", err)
		}
	}

	return cfg, consultation.NewEngine(p, phrase.NewPicker(cfg.Seed)), nil
}

func options(cfg *config.Config) consultation.Options {
	return consultation.Options{
		MaxQuestions:  cfg.MaxQuestions,
		SilencePrompt: cfg.SilencePrompt,
		SilenceEnd:    cfg.SilenceEnd,
		AutoEndDelay:  cfg.AutoEndDelay,
		IdleTTL:       cfg.SessionIdleTTL,
	}
}
