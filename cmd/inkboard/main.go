package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/inkboard/inkboard/internal/ai"
	"github.com/inkboard/inkboard/internal/config"
	"github.com/inkboard/inkboard/internal/filestore"
	"github.com/inkboard/inkboard/internal/handler"
	"github.com/inkboard/inkboard/internal/hub"
	"github.com/inkboard/inkboard/internal/job"
	"github.com/inkboard/inkboard/internal/middleware"
	"github.com/inkboard/inkboard/internal/repo"
	"github.com/inkboard/inkboard/internal/schedule"
	"github.com/inkboard/inkboard/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "inkboard",
		Short: "inkboard collaborative whiteboard server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run inkboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_path", cfg.DBPath),
		zap.String("file_store", cfg.FileStore.Type),
	)

	userRepo := repo.NewUserRepo(db)
	boardRepo := repo.NewBoardRepo(db)
	versionRepo := repo.NewVersionRepo(db)

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	boardService := service.NewBoardService(boardRepo, versionRepo, cfg.VersionMaxKeep)

	// The relay still works without an AI provider; prompts just fall back
	// to the rule-based interpreter and canned suggestions.
	var aiProvider ai.IProvider
	if cfg.AI.Provider != "" {
		provider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
		if err != nil {
			logutil.GetLogger(context.Background()).Warn("init ai provider failed", zap.Error(err))
		} else {
			aiProvider = provider
		}
	}
	aiService := service.NewAIService(aiProvider, cfg.AI.Model, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	exportService := service.NewExportService(boardService, store)

	relay := hub.New(boardService)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Boards:    handler.NewBoardHandler(boardService, exportService),
		AI:        handler.NewAIHandler(aiService, boardService),
		Files:     handler.NewFileHandler(exportService),
		WS:        handler.NewWSHandler(relay),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewVersionRetentionJob(boardService), cfg.RetentionCron); err != nil {
		return fmt.Errorf("schedule retention job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
