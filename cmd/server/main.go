package main

import (
	"context"
	"log"

	"wormdetector/internal/server"
	"wormdetector/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}

	app.Run(context.Background())
}
