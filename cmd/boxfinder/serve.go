package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mikepea/boxfinder/api/swagger"
	"github.com/mikepea/boxfinder/pkg/boxfinder/boxes"
	"github.com/mikepea/boxfinder/pkg/boxfinder/config"
	"github.com/mikepea/boxfinder/pkg/boxfinder/importexport"
	"github.com/mikepea/boxfinder/pkg/boxfinder/logging"
	"github.com/mikepea/boxfinder/pkg/boxfinder/metrics"
	"github.com/mikepea/boxfinder/pkg/boxfinder/onboarding"
	"github.com/mikepea/boxfinder/pkg/boxfinder/places"
	"github.com/mikepea/boxfinder/pkg/boxfinder/sessions"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store"
	"github.com/mikepea/boxfinder/pkg/boxfinder/validation"
	"github.com/mikepea/boxfinder/pkg/boxfinder/workflow"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const webDistPath = "./web/dist"

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := commonRun()
			if err != nil {
				return err
			}
			return serveRun(cmd.Context(), cfg, logger)
		},
	}
}

// routerDeps are the services the HTTP routes are built from
type routerDeps struct {
	store     store.Store
	places    workflow.PlaceLookup
	validator *validation.Validator
	sessions  *sessions.Manager
	metrics   *metrics.Metrics
	logger    *slog.Logger

	// adminToken enables import and export when set
	adminToken string
}

// apiHealth reports service status
// @Summary Service health
// @Description Reports service status and the number of live onboarding sessions
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func apiHealth(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"service":         programName,
			"active_sessions": mgr.Len(),
		})
	}
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(logging.Recovery(d.logger), logging.Middleware(d.logger))
	if d.metrics != nil {
		r.Use(d.metrics.Middleware())
		r.GET("/metrics", d.metrics.Handler())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/health", apiHealth(d.sessions))

		boxes.NewHandler(d.store, d.places, d.validator).RegisterRoutes(api)
		onboarding.NewHandler(d.sessions).RegisterRoutes(api.Group("/onboarding"))

		if d.adminToken != "" {
			var rec importexport.Recorder
			if d.metrics != nil {
				rec = d.metrics
			}
			admin := api.Group("", importexport.RequireToken(d.adminToken))
			importexport.NewHandler(d.store, rec, d.logger).RegisterRoutes(admin)
		} else {
			d.logger.Warn("admin token not set, import and export are disabled")
		}
	}

	// Serve the kiosk client if it has been built
	if _, err := os.Stat(webDistPath); err == nil {
		r.Static("/assets", filepath.Join(webDistPath, "assets"))
		indexHTML := filepath.Join(webDistPath, "index.html")
		r.GET("/", func(c *gin.Context) {
			c.File(indexHTML)
		})
		d.logger.Info("serving frontend", "path", webDistPath)
	}

	return r
}

func serveRun(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !globalFlags.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(true)
	}

	pl, err := places.New(places.Config{
		APIKey:   cfg.PlacesAPIKey,
		BaseURL:  cfg.PlacesBaseURL,
		CacheTTL: cfg.PlacesCacheTTL,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	defer pl.Close()

	var lookup workflow.PlaceLookup
	if pl.Configured() {
		lookup = pl
	} else {
		logger.Warn("places API key not set, box suggestions are disabled")
	}

	if cfg.SessionSecret == "" {
		logger.Warn("session secret not set, using the development default")
	}
	tokens, err := sessions.NewTokens(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	validator := validation.New()
	wfOpts := workflow.Options{
		Directory:     st,
		Places:        lookup,
		Validator:     validator,
		Logger:        logger,
		DebounceQuiet: cfg.DebounceQuiet,
		ExitDelay:     cfg.ExitDelay,
		RetryBase:     cfg.RetryBase,
		MaxRetries:    cfg.SearchRetries(),
	}
	sessCfg := sessions.Config{
		Tokens:      tokens,
		IdleTimeout: cfg.SessionIdleTimeout,
		Logger:      logger,
	}
	if m != nil {
		wfOpts.Metrics = m
		sessCfg.Active = m.Sessions
	}
	sessCfg.Factory = onboarding.NewFactory(wfOpts)

	mgr, err := sessions.NewManager(sessCfg)
	if err != nil {
		return err
	}
	defer mgr.Close()
	go mgr.Run(ctx, cfg.SweepInterval)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: newRouter(routerDeps{
			store:      st,
			places:     lookup,
			validator:  validator,
			sessions:   mgr,
			metrics:    m,
			adminToken: cfg.AdminToken,
			logger:     logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
