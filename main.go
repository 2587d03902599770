package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant/configs"
	"restaurant/llm"
	"restaurant/pkg/logger"
	"restaurant/routes"
	"restaurant/tasks"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

const (
	cleanupSpec        = "@every 10m"
	limiterIdle        = 30 * time.Minute
	userCacheIdle      = time.Hour
	shutdownTimeout    = 15 * time.Second
)

func main() {
	cfg := configs.LoadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// DB
	db, err := configs.ConnectionDB(cfg.DBSource)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}

	// migrate
	if err := configs.SetupDatabase(db); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	queue := tasks.New(db, log, tasks.Options{Workers: cfg.ChatWorkers})

	if cfg.LLMAPIKey == "" {
		log.Warn("LLM_API_KEY is not set; AI chat replies will fall back to the error message")
	}
	llmClient := llm.NewClient(llm.Config{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	app := routes.RegisterRoutes(r, cfg, db, log, queue, llmClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedDemoMenu {
		n, err := app.Menu.SeedDemoData(ctx)
		if err != nil {
			log.WithError(err).Fatal("seed demo menu")
		}
		log.WithField("inserted", n).Info("demo menu seeded")
	}

	// background work
	go app.Hub.Run(ctx)
	queue.Start(ctx)

	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))))
	if _, err := sched.AddFunc(cfg.TaskSweepSpec, func() {
		if err := queue.Sweep(context.Background()); err != nil {
			log.WithError(err).Error("task sweep failed")
		}
	}); err != nil {
		log.WithError(err).Fatal("invalid TASK_SWEEP_SPEC")
	}
	if _, err := sched.AddFunc(cleanupSpec, func() {
		if n := app.Limiter.Cleanup(limiterIdle); n > 0 {
			log.WithField("removed", n).Debug("rate limiters cleaned up")
		}
	}); err != nil {
		log.WithError(err).Fatal("schedule limiter cleanup")
	}
	if _, err := sched.AddFunc(cleanupSpec, func() {
		if n := app.Users.Cleanup(userCacheIdle); n > 0 {
			log.WithField("removed", n).Debug("user sync cache cleaned up")
		}
	}); err != nil {
		log.WithError(err).Fatal("schedule user cache cleanup")
	}
	sched.Start()

	// pick up replies left pending by a previous run
	if err := queue.Sweep(ctx); err != nil {
		log.WithError(err).Error("initial task sweep failed")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	<-sched.Stop().Done()
	queue.Wait()
	log.Info("bye")
}
