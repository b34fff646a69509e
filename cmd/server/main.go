package main

import (
	"context"
	"fmt"

	"github.com/ewalker114/lifelog/internal/config"
	handlerhttp "github.com/ewalker114/lifelog/internal/handler/http"
	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/repository"
	"github.com/ewalker114/lifelog/internal/server"
	"github.com/ewalker114/lifelog/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("lifelog-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	backend, err := store.NewPostgresBackend(context.Background(), cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storage backend")
	}
	defer backend.Close()

	repos := repository.NewRepositories(backend, log)
	handler := handlerhttp.NewHandler(backend, repos, cfg.AuthToken, log)

	srv := server.NewServer(handler.Init(), cfg, log)
	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
