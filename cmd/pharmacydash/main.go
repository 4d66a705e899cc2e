package main

import (
	"fmt"
	"log"

	"github.com/gorushbn/pharmacydash/internal/app"
	"github.com/gorushbn/pharmacydash/internal/config"
	"github.com/gorushbn/pharmacydash/pgk/logger"
	"github.com/gorushbn/pharmacydash/pgk/password"
)

func main() {
	lg, err := logger.New()
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	cfg, err := config.Read()
	if err != nil {
		lg.Fatal(err)
	}

	if cfg.HashAccessKey != "" {
		hash, err := password.HashPassword(cfg.HashAccessKey, cfg.PassCost)
		if err != nil {
			lg.Fatal(err)
		}
		fmt.Println(hash)
		return
	}

	if err := app.Run(cfg, lg); err != nil {
		lg.Fatal(err)
	}
}
