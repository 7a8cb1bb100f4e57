package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/evdokimovs/mute-unmute-poc/cmd/mutedemo/templates"
	"github.com/evdokimovs/mute-unmute-poc/config"
	"github.com/evdokimovs/mute-unmute-poc/room"
	"github.com/evdokimovs/mute-unmute-poc/rpc"
)

func runCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Mute then partially unmute a room against a loopback server",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  latencyKey,
				Usage: "Server reply latency",
				Value: cfg.Latency,
			},
			&cli.DurationFlag{
				Name:  timeoutKey,
				Usage: "How long to wait for the server, 0 waits forever",
				Value: cfg.Timeout,
			},
			&cli.StringSliceFlag{
				Name:  peersKey,
				Usage: "Peers to add to the room",
				Value: cfg.Peers,
			},
			&cli.BoolFlag{
				Name:  silentKey,
				Usage: "Server never replies",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cfg, cmd)
		},
	}
}

func run(ctx context.Context, cfg config.Config, cmd *cli.Command) error {
	log, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}

	opts := []rpc.Option{rpc.WithLatency(cmd.Duration(latencyKey)), rpc.WithLogger(log)}
	if cmd.Bool(silentKey) {
		opts = append(opts, rpc.WithSilence())
	}
	client := rpc.NewLoopback(opts...)
	defer client.Close()

	r := room.New(client, room.WithTimeout(cmd.Duration(timeoutKey)), room.WithLogger(log))

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return scenario(ctx, r, cmd.StringSlice(peersKey), log)
	})
	return g.Wait()
}

func scenario(ctx context.Context, r *room.Room, peers []string, log *slog.Logger) error {
	for _, name := range peers {
		id, err := r.AddPeer(ctx, name)
		if err != nil {
			return err
		}
		log.Info("peer joined", slog.String("peer", name), slog.String("id", id.String()))
	}

	changes, err := r.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for st := range changes.All(ctx) {
			log.Info("track changed",
				slog.String("peer", st.Peer),
				slog.String("kind", st.Kind.String()),
				slog.Bool("muted", st.Muted),
			)
		}
	}()

	var steps []templates.Step
	step := func(name string, fn func(context.Context) error) error {
		start := time.Now()
		err := fn(ctx)
		steps = append(steps, templates.Step{Name: name, Took: time.Since(start), Err: err})
		if err != nil && !errors.Is(err, room.ErrTimeout) {
			return err
		}
		return nil
	}

	if err := step("mute "+templates.Selection(true, true), func(ctx context.Context) error {
		return r.Mute(ctx, true, true)
	}); err != nil {
		return err
	}

	states, err := r.Snapshot(ctx)
	if err != nil {
		return err
	}
	renderStatus(states)

	if err := step("unmute "+templates.Selection(true, false), func(ctx context.Context) error {
		return r.Unmute(ctx, true, false)
	}); err != nil {
		return err
	}

	if states, err = r.Snapshot(ctx); err != nil {
		return err
	}
	templates.WriteReport(os.Stdout, r.ID().String(), steps, states)

	return r.Close(ctx)
}

func renderStatus(states []room.TrackState) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"peer", "id", "track", "muted"})
	for _, st := range states {
		table.Append([]string{
			st.Peer,
			st.PeerID.String(),
			st.Kind.String(),
			fmt.Sprint(st.Muted),
		})
	}
	table.Render()
}
