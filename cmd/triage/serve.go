package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"voice-triage/internal/agent"
	"voice-triage/internal/consultation"
	"voice-triage/internal/logging"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the session API. Speech is transcribed by the Whisper service at
STT_URL and replies are voiced by the Silero service at TTS_URL. Idle and
finished sessions are erased by a background sweeper.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, engine, err := setup()
	if err != nil {
		return err
	}
	log := logging.New("server")

	stt := agent.NewWhisperClient(cfg.STTURL, cfg.STTTimeout)
	tts := agent.NewSileroClient(cfg.TTSURL)

	repo := consultation.NewRepository()
	svc := consultation.NewService(repo, engine, options(cfg), stt, tts, cfg.TTSVoice)

	sweeper := consultation.NewSweeper(svc, cfg.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	var limiter *consultation.RateLimiter
	if cfg.StartRate > 0 {
		limiter = consultation.NewRateLimiter(cfg.StartRate, cfg.StartBurst)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	consultation.RegisterRoutes(r, consultation.NewHandler(svc), limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("server shutting down")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		err := srv.Shutdown(shutdownCtx)

		// open sessions never outlive the process
		for _, id := range repo.IDs(shutdownCtx) {
			if endErr := svc.End(shutdownCtx, id); endErr != nil {
				log.Error("failed to erase session", "session_id", id, "error", endErr)
			}
		}
		return err
	})
	return g.Wait()
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
