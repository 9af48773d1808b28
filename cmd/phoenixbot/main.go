package main

import (
	"log"

	corecmd "github.com/phxteam/phoenixbot/core/cmd"
	"github.com/phxteam/phoenixbot/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("phoenixbot: %v", err)
	}
}
