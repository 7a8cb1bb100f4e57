package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/evdokimovs/mute-unmute-poc/config"
)

const (
	latencyKey = "latency"
	timeoutKey = "timeout"
	peersKey   = "peers"
	silentKey  = "silent"
	itersKey   = "iters"
	maxKey     = "max"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	cmd := &cli.Command{
		Name:  "mutedemo",
		Usage: "Mute and unmute a call room through reactive track state",
		Commands: []*cli.Command{
			runCommand(cfg),
			benchCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
