package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inkpress/internal/config"
	apphttp "inkpress/internal/http"
	"inkpress/internal/repository/sqlite"
	"inkpress/internal/scheduler"
	"inkpress/internal/service"
	"inkpress/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	applied, err := sqlite.Migrate(ctx, db)
	if err != nil {
		logger.Fatalf("migrate database: %v", err)
	}
	if len(applied) > 0 {
		logger.WithField("versions", applied).Info("applied migrations")
	}

	userRepo := sqlite.NewUserRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	postRepo := sqlite.NewPostRepository(db)
	tagRepo := sqlite.NewTagRepository(db)
	commentRepo := sqlite.NewCommentRepository(db)
	searchRepo := sqlite.NewSearchRepository(db)

	fullText, err := searchRepo.HasIndex(ctx)
	if err != nil {
		logger.Warnf("probe full-text index: %v", err)
	}
	if !fullText {
		logger.Warn("full-text index unavailable, search uses substring matching")
	}

	authService := service.NewAuthService(userRepo, sessionRepo, nil)
	deps := apphttp.Dependencies{
		Auth:     authService,
		Posts:    service.NewPostService(postRepo, nil),
		Tags:     service.NewTagService(tagRepo, postRepo),
		Comments: service.NewCommentService(commentRepo, postRepo),
		Search:   service.NewSearchService(searchRepo, service.SearchOptions{FullText: fullText, Logger: logger}),
		Logger:   logger,
	}

	store, err := openImageStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("image store: %v", err)
	}
	if store != nil {
		deps.Images = service.NewImageService(store, service.ImageOptions{
			KeyPrefix: cfg.Storage.KeyPrefix,
			MaxBytes:  cfg.Uploads.MaxBytes,
		})
	}

	var sweeper *scheduler.SessionSweeper
	if cfg.Sessions.SweepSchedule != "" {
		sweeper, err = scheduler.NewSessionSweeper(authService, cfg.Sessions.SweepSchedule, logger)
		if err != nil {
			logger.Fatalf("session sweeper: %v", err)
		}
		sweeper.Start()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Uploads.MaxBytes
	handler := apphttp.NewHandler(deps)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("inkpress listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("signal received, draining requests")

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if sweeper != nil {
		sweeper.Stop(drainCtx)
	}
	if err := srv.Shutdown(drainCtx); err != nil {
		logger.WithError(err).Warn("server did not drain cleanly")
	}
	logger.Info("stopped")
}

// openImageStore connects to the configured bucket. It returns a nil store
// when no bucket is set.
func openImageStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (storage.Service, error) {
	sc := cfg.Storage
	if sc.Bucket == "" {
		log.Warn("no storage bucket configured, image routes disabled")
		return nil, nil
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(sc.Region)}
	if profile := cfg.AWS.Profile; profile != "" {
		opts = append(opts, awscfg.WithSharedConfigProfile(profile))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if sc.Endpoint != "" {
		// MinIO and R2 endpoints need path-style addressing.
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true
		})
	}
	log.WithFields(logrus.Fields{"bucket": sc.Bucket, "region": sc.Region}).Info("image store ready")
	return storage.NewS3Service(s3.NewFromConfig(awsCfg, clientOpts...), sc.Bucket), nil
}
