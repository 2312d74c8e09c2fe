package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dconn.dev/showcase/internal/handlers"
	"dconn.dev/showcase/internal/render"
	"dconn.dev/showcase/internal/services"
	"dconn.dev/showcase/internal/watch"
)

var (
	serveAddr    string
	serveData    string
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the project grid over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveData, "data", "", "data.json path or URL (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not reload data.json on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveData != "" {
		cfg.Data.Source = serveData
	}
	if serveNoWatch {
		cfg.Data.Watch = false
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := services.NewLoader(cfg.Data.Source, logger)
	projectService := services.NewProjectService(loader.Load(ctx))

	renderer, markdown, err := newRenderer(render.QueryLinks{})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handlers.SetupRoutes(handlers.Deps{
			Config:         cfg,
			Logger:         logger,
			ProjectService: projectService,
			Loader:         loader,
			Renderer:       renderer,
			Markdown:       markdown,
		}),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", zap.String("addr", cfg.Server.Addr), zap.String("data", cfg.Data.Source))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Data.Watch && !cfg.Data.IsRemote() {
		dw, err := watch.New(cfg.Data.Source, loader, projectService, cfg.Data.Debounce, logger)
		if err != nil {
			// serving stale data beats not serving
			logger.Warn("Failed to start data watcher", zap.Error(err))
		} else {
			g.Go(func() error { return dw.Run(gctx) })
		}
	}

	return g.Wait()
}
