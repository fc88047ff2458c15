package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	promise "github.com/donatorsky/go-promise/v2"
)

const (
	widthKey      = "width"
	depthKey      = "depth"
	iterationsKey = "iterations"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure settlement latency of promise chains",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  widthKey,
				Usage: "Largest number of independent chains per round",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  depthKey,
				Usage: "Largest chain depth per round",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  iterationsKey,
				Usage: "Rounds per width/depth pair",
				Value: 100,
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	started := time.Now()
	log.Print("Starting promise benchmark, please wait...")
	defer func() {
		log.Printf("Finished promise benchmark in %v", time.Since(started))
	}()

	var (
		widths = stepsUpTo(int(cmd.Uint(widthKey)))
		depths = stepsUpTo(int(cmd.Uint(depthKey)))
		iters  = int(cmd.Uint(iterationsKey))
	)

	tbl := table.NewWriter()
	tbl.SetTitle("Promise settlement latency")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "settled", "avg", "min", "p75", "p99", "max"})

	for _, w := range widths {
		for _, d := range depths {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			for i := 0; i < iters; i++ {
				tach.AddTime(settleChains(w, d))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("settle: %d * %d", w, d),
					humanize.Comma(int64(iters * w * d)),
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

// settleChains builds w independent Map chains of depth d off a single
// root promise, fulfills the root, and reports how long it takes every
// leaf to settle.
func settleChains(w, d int) time.Duration {
	ctx := promise.NewSerialContext()
	root := promise.Pending[int]()

	var wg sync.WaitGroup
	wg.Add(w)

	for i := 0; i < w; i++ {
		last := root
		for j := 0; j < d; j++ {
			last = promise.Map(last, ctx, addOne)
		}
		last.Finally(ctx, wg.Done)
	}

	start := time.Now()
	root.Fulfill(1)
	wg.Wait()

	return time.Since(start)
}

func addOne(value int) (int, error) {
	return value + 1, nil
}

func stepsUpTo(limit int) []int {
	var steps []int
	for step := 1; step <= limit; step *= 10 {
		steps = append(steps, step)
	}

	return steps
}
