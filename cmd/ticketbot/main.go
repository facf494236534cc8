package main

import (
	"log"

	corecmd "ticketbot/core/cmd"
	"ticketbot/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; env vars win over file values.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config/config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("ticketbot: %v", err)
	}
}
