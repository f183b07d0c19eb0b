package main

import (
	"log"
	"os"

	"ItemList/internal/cli"
	"ItemList/internal/config"
)

func main() {
	log.SetFlags(0)

	conf, err := config.Parse()
	if err != nil {
		log.Fatalf("items: %+v", err)
	}

	cmd := cli.NewRootCommand(cli.RootOptions{
		DBPath:   conf.Storage.DSN,
		Timezone: conf.Display.Timezone,
	})
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
