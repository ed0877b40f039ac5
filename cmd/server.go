package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/fbedussi/ganpro/internal/calendar"
	config "github.com/fbedussi/ganpro/internal/configs"
	httpapi "github.com/fbedussi/ganpro/internal/http"
	repository "github.com/fbedussi/ganpro/internal/repositories"
	"github.com/fbedussi/ganpro/internal/scheduler"
	"github.com/fbedussi/ganpro/internal/services"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  "Starts the Gantt planner HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		var holidayCache calendar.Cache
		if cfg.RedisAddr != "" {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()
			holidayCache = calendar.NewRedisCache(redisClient, cfg.RedisHolidayPrefix)
		}

		cal, err := calendar.New(cfg.CalendarCountry, holidayCache)
		if err != nil {
			return err
		}

		db := config.New(cfg.DatabaseDSN)
		taskRepo := repository.NewTaskRepository(db)
		projectRepo := repository.NewProjectRepository(db)

		propagator := scheduler.NewPropagator(cal)
		taskService := services.NewTaskService(taskRepo, projectRepo, cal, propagator)
		projectService := services.NewProjectService(projectRepo)

		e := echo.New()
		handler := httpapi.NewHandler(taskService, projectService)
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
