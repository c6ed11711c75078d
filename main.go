package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trivia-backend/internal/config"
	"trivia-backend/internal/middleware"
	"trivia-backend/internal/question"
	"trivia-backend/internal/registry"
	"trivia-backend/internal/score"
	"trivia-backend/internal/server"

	"github.com/MadAppGang/httplog"
	"github.com/rs/cors"
)

func init() {
	if os.Getenv("DEBUG") == "yes" {
		middleware.CORS = cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
		})
		middleware.HTTPLogger = httplog.LoggerWithConfig(httplog.LoggerConfig{
			RouterName: "Trivia",
			Formatter: httplog.ChainLogFormatter(
				httplog.DefaultLogFormatter,
				httplog.RequestHeaderLogFormatter, httplog.RequestBodyLogFormatter,
				httplog.ResponseHeaderLogFormatter, httplog.ResponseBodyLogFormatter),
			CaptureBody: true,
		})
	}
}

func main() {
	cfg, err := config.Load("") // TODO: config flags
	if err != nil {
		log.Fatal(err)
	}

	repo, err := loadQuestions(cfg)
	if err != nil {
		log.Fatal(err)
	}

	srv, err := server.New(cfg, repo, score.NewFileStore(cfg.ScoreboardFile), registry.New())
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

func loadQuestions(cfg config.Config) (*question.Repository, error) {
	if cfg.QuestionsFile == "" {
		return question.Default(), nil
	}
	return question.LoadFile(cfg.QuestionsFile)
}
