package main

import (
	"context"
	"time"

	"github.com/cppla/feedbbs/config"
	"github.com/cppla/feedbbs/routes"
	"github.com/cppla/feedbbs/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase()

	r := routes.SetupRouter(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Expired, unreferenced uploads are removed in the background
	utils.StartUploadCleaner(ctx, db, 5*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, cancel); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
