package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/evdokimovs/mute-unmute-poc/reactive"
)

var mutations = []int{1, 10, 100, 1_000, 10_000}

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Time subscribe, mutate and deliver for each field kind",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Samples per row",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  maxKey,
				Usage: "Skip rows with more mutations than this",
				Value: 10_000,
			},
		},
		Action: bench,
	}
}

type benchCase struct {
	name string
	run  func(n int) error
}

var benchCases = []benchCase{
	{"field", benchField},
	{"once field", benchOnceField},
	{"universal field", benchUniversalField},
}

func bench(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Uint(itersKey))
	limit := int(cmd.Uint(maxKey))

	log.Printf("warming up")
	for _, bc := range benchCases {
		if err := bc.run(100); err != nil {
			return err
		}
	}

	tbl := table.NewWriter()
	tbl.SetTitle("Reactive Fields")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, bc := range benchCases {
		for _, n := range mutations {
			if n > limit {
				continue
			}
			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			for range iters {
				if err := ctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				if err := bc.run(n); err != nil {
					return fmt.Errorf("%s x%d: %w", bc.name, n, err)
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("%s: %s mutations", bc.name, humanize.Comma(int64(n))),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	return nil
}

func benchField(n int) error {
	f := reactive.NewField(0)
	s := f.Subscribe()
	for i := 1; i <= n; i++ {
		f.Set(i)
	}
	if s.Len() != n {
		return fmt.Errorf("delivered %d of %d", s.Len(), n)
	}
	f.Close()
	return nil
}

func benchOnceField(n int) error {
	f := reactive.NewOnceField(0)
	w := f.WhenEq(n)
	for i := 1; i <= n; i++ {
		f.Set(i)
	}
	if !w.Resolved() {
		return fmt.Errorf("waiter for %d not resolved", n)
	}
	f.Close()
	return nil
}

func benchUniversalField(n int) error {
	f := reactive.NewUniversalField(0)
	s := f.Subscribe()
	w := f.WhenEq(n)
	for i := 1; i <= n; i++ {
		f.Set(i)
	}
	if !w.Resolved() || s.Len() != n {
		return fmt.Errorf("waiter resolved %t, delivered %d of %d", w.Resolved(), s.Len(), n)
	}
	f.Close()
	return nil
}
