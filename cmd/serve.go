package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ayushprasai11/Valorant/internal/extract"
	"github.com/Ayushprasai11/Valorant/internal/model"
)

var (
	servePort      int
	serveSpecsPath string
)

// runner is the part of ingest.Runner the server drives.
type runner interface {
	Run(ctx context.Context, targets []model.Target) (*model.RunReport, error)
}

type runRequest struct {
	Targets []model.Target `json:"targets"`
}

type runResponse struct {
	*model.RunReport
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// server serializes runs so two requests never share the renderer.
type server struct {
	mu       sync.Mutex
	runner   runner
	reg      *extract.Registry
	defaults []model.Target
}

func buildRouter(s *server, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/specs", s.handleSpecs)
	r.Post("/runs", s.handleRun)
	return r
}

func (s *server) handleSpecs(w http.ResponseWriter, _ *http.Request) {
	out := make(map[string]extract.Spec, s.reg.Len())
	for _, name := range s.reg.Names() {
		spec, err := s.reg.Lookup(name)
		if err == nil {
			out[name] = spec
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}
	targets := req.Targets
	if len(targets) == 0 {
		targets = s.defaults
	}
	if len(targets) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "targets are required"})
		return
	}
	for _, t := range targets {
		if t.URL == "" || t.Spec == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "every target needs url and spec"})
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := zap.L().With(zap.String("component", "serve"), zap.String("request_id", middleware.GetReqID(r.Context())))
	log.Info("run requested", zap.Int("targets", len(targets)))

	report, err := s.runner.Run(r.Context(), targets)
	if report == nil {
		report = &model.RunReport{}
	}
	resp := runResponse{RunReport: report, Records: report.RecordCount()}
	status := http.StatusOK
	if err != nil {
		log.Error("run failed", zap.Error(err))
		resp.Error = err.Error()
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("write response", zap.Error(err))
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP server that triggers ingestion runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sf, err := loadSpecs(serveSpecsPath, true)
		if err != nil {
			return err
		}
		env, err := initEnv(sf, false)
		if err != nil {
			return err
		}
		defer env.Close()

		s := &server{runner: env.Runner, reg: env.Registry, defaults: sf.Targets}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(s, cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveSpecsPath, "specs", "", "spec file (built-in presets are always loaded)")
	rootCmd.AddCommand(serveCmd)
}
