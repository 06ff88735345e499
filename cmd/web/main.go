package main

import (
	"context"
	"log"

	"wormdetector/internal/web"
	"wormdetector/internal/web/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := web.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	app.Run(context.Background())
}
