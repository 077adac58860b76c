package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/devmatch/internal/client/cli"
	"github.com/dmitrijs2005/devmatch/internal/client/config"
	"github.com/dmitrijs2005/devmatch/internal/flagx"
)

var valueFlags = []string{"-a", "-t", "-timeout", "-c", "-config", "--a", "--t", "--timeout", "--c", "--config"}

func main() {
	args := os.Args[1:]

	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Run(ctx, flagx.Positional(args, valueFlags))
}
