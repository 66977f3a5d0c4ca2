package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"foodlens/config"
	"foodlens/controllers"
	"foodlens/metrics"
	"foodlens/middlewares"
	"foodlens/routes"
	"foodlens/services"
	"foodlens/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := config.NewLogger(cfg.Log)
	log := logrus.NewEntry(logger)
	gin.SetMode(cfg.HTTP.GinMode)
	metrics.Register()

	if cfg.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	db, err := config.InitDB(cfg.DB, logger)
	if err != nil {
		return err
	}

	var denylist services.TokenDenylist = services.NewMemoryDenylist()
	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		denylist = services.NewRedisDenylist(rdb)
	} else {
		log.Warn("REDIS_ADDR not set, signed-out tokens are kept in memory")
	}

	var mailer services.Mailer
	if cfg.AWS.SESSender != "" {
		m, err := utils.NewSESMailer(ctx, cfg.AWS.Region, cfg.AWS.SESSender)
		if err != nil {
			return err
		}
		mailer = m
	}

	var images services.ImageStore
	if cfg.AWS.S3Bucket != "" {
		store, err := utils.NewS3ImageStore(ctx, cfg.AWS.S3Region, cfg.AWS.S3Bucket, cfg.AWS.CloudFrontURL)
		if err != nil {
			return err
		}
		images = store
	} else {
		log.Warn("S3_BUCKET not set, analyses will not be saved")
	}

	var vision services.VisionAnalyzer = services.NewOpenAIVisionService(
		cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
	if cfg.AWS.FoodPrescreen {
		rek, err := services.NewRekognitionService(ctx, cfg.AWS.Region, cfg.AWS.PrescreenMinConfid)
		if err != nil {
			return err
		}
		vision = services.NewScreenedVision(rek, vision, log)
	}

	bus := services.NewEventBus()
	hub := services.NewRealtimeHub(log)
	detach := hub.Attach(bus)
	defer detach()

	records := services.NewGormRecordStore(db)
	auth := services.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.TTL, denylist, mailer, bus, log)
	analysis := services.NewAnalysisService(vision, images, records, bus, log)
	healthSvc := services.NewHealthService(records, bus, log)

	limiter := middlewares.NewRateLimiter(cfg.RateLimit.AnalyzePerMinute, cfg.RateLimit.AnalyzeBurst, log)
	limiter.StartCleanup(ctx, 10*time.Minute)

	r := routes.SetupRouter(routes.Deps{
		Auth:        auth,
		AuthCtl:     controllers.NewAuthController(auth, log),
		AnalysisCtl: controllers.NewAnalysisController(analysis, cfg.HTTP.MaxImageBytes, log),
		HealthCtl:   controllers.NewHealthController(healthSvc, log),
		RealtimeCtl: controllers.NewRealtimeController(hub),
		Limiter:     limiter,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
