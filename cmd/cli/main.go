package main

import (
	"fmt"
	"os"

	"qrscan-go/pkg/cli"
	"qrscan-go/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := cli.NewApp(cfg)
	if err := cli.NewRootCommand(app).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
