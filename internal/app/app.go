package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"CohortDashboard/internal/config"
	"CohortDashboard/internal/infrastructure/clinical"
	"CohortDashboard/internal/infrastructure/deg"
	"CohortDashboard/internal/infrastructure/pager"
	"CohortDashboard/internal/logging"
	"CohortDashboard/internal/server"
	"CohortDashboard/internal/usecase"
)

// Application wires configs to the render pipeline and the HTTP server.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	srv    *server.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	clinicalSource, err := clinical.New(cfg.Clinical, nil)
	if err != nil {
		return nil, fmt.Errorf("clinical source: %w", err)
	}

	degLoader := deg.NewLoader(cfg.DEG.Path, cfg.DEG.SampleName, baseLogger.With("component", "deg"))
	enricher := pager.NewClient(cfg.PAGER, nil)

	renderer := usecase.NewRenderer(usecase.RendererDeps{
		Clinical: clinicalSource,
		DEG:      degLoader,
		Enricher: enricher,
		Logger:   baseLogger.With("component", "renderer"),
	})

	srv := server.New(renderer, clinicalSource, degLoader, pageAssets(cfg), baseLogger.With("component", "http"))

	return &Application{cfg: cfg, logger: baseLogger, srv: srv}, nil
}

// Run serves the dashboard until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: a.srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("dashboard listening", "addr", a.cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func pageAssets(cfg config.Config) server.PageAssets {
	assets := server.PageAssets{
		ImagePath:  cfg.Assets.ImagePath,
		SourceNote: sourceNote(cfg),
	}

	if cfg.Assets.ReferencesPath != "" {
		if raw, err := os.ReadFile(cfg.Assets.ReferencesPath); err == nil {
			assets.References = string(raw)
		}
	}
	return assets
}

// sourceNote summarizes where each table comes from, for the show-source
// affordance on the page.
func sourceNote(cfg config.Config) string {
	var b strings.Builder
	switch cfg.Clinical.Mode {
	case "remote":
		fmt.Fprintf(&b, "clinical: %s/getalli2b2demographics?requestorid=%s&cohortid=%s&format=csv\n",
			cfg.Clinical.BaseURL, cfg.Clinical.RequestorID, cfg.Clinical.CohortID)
	default:
		fmt.Fprintf(&b, "clinical: local snapshot %s\n", cfg.Clinical.SnapshotPath)
	}
	fmt.Fprintf(&b, "deg: %s (tagged %s)\n", cfg.DEG.Path, cfg.DEG.SampleName)
	fmt.Fprintf(&b, "pager: %s/PAGER/index.php/geneset/pagerapi\n", cfg.PAGER.BaseURL)
	return b.String()
}
