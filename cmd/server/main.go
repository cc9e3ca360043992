package main

import (
	"context"
	"flag"
	"log"

	"github.com/karlov/authgate/internal/app"
	"github.com/karlov/authgate/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad(*configPath)

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
