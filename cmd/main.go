package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	cache "github.com/krisalay/ttl-memo"
	api "github.com/krisalay/ttl-memo/api"
	mylog "github.com/krisalay/ttl-memo/internal/log"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// configPath is the YAML file flags fall back to, from MEMO_CONFIG or ./memo.yaml.
func configPath() string {
	if p := os.Getenv("MEMO_CONFIG"); p != "" {
		return p
	}
	return "memo.yaml"
}

func newApp() *cli.Command {
	src := altsrc.StringSourcer(configPath())

	return &cli.Command{
		Name:  "memo-demo",
		Usage: "memoize a slow lookup for a fixed TTL and watch it hit and expire",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "lifetime of a memoized result",
				Value: 10 * time.Second,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("MEMO_TTL"),
					yaml.YAML("ttl", src),
				),
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "simulated latency of the lookup",
				Value: 2 * time.Second,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("MEMO_DELAY"),
					yaml.YAML("delay", src),
				),
			},
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "pause before the last call",
				Value: 11 * time.Second,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("MEMO_WAIT"),
					yaml.YAML("wait", src),
				),
			},
			&cli.DurationFlag{
				Name:  "compute-timeout",
				Usage: "upper bound for one lookup, 0 for none",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("MEMO_COMPUTE_TIMEOUT"),
					yaml.YAML("compute_timeout", src),
				),
			},
			&cli.IntFlag{
				Name:  "shards",
				Usage: "store partitions, 0 for the default",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("MEMO_SHARDS"),
					yaml.YAML("shards", src),
				),
			},
			&cli.IntFlag{
				Name:  "id",
				Usage: "id to look up",
				Value: 1,
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	delay := cmd.Duration("delay")
	fetchData := func(ctx context.Context, id int) (string, error) {
		fmt.Fprintf(out, "Fetching data for ID: %d\n", id)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		return fmt.Sprintf("Data for ID: %d", id), nil
	}

	c, err := cache.New(cache.Config{
		TTL:            cmd.Duration("ttl"),
		Shards:         int(cmd.Int("shards")),
		ComputeTimeout: cmd.Duration("compute-timeout"),
	}, fetchData)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := scenario(ctx, out, c, int(cmd.Int("id")), cmd.Duration("wait")); err != nil {
		return err
	}

	printStats(out, c.Stats())
	return nil
}

// scenario calls twice, waits past the TTL and calls again.
func scenario(ctx context.Context, out io.Writer, m api.Memoizer[int, string], id int, wait time.Duration) error {
	fetch := func() error {
		start := time.Now()
		v, err := m.GetOrCompute(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Received: %s (took %s, expires %s)\n",
			v, time.Since(start).Round(time.Millisecond), humanize.Time(time.Now().Add(m.TTL(id))))
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}
	if err := fetch(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Sleeping %s\n", wait)
	select {
	case <-time.After(wait):
	case <-ctx.Done():
		return ctx.Err()
	}

	return fetch()
}

func printStats(out io.Writer, s cache.Stats) {
	fmt.Fprintln(out, "\n==================== STATS ====================")
	fmt.Fprintf(out, "HITS         : %s\n", humanize.Comma(int64(s.Hits)))
	fmt.Fprintf(out, "MISSES       : %s\n", humanize.Comma(int64(s.Misses)))
	fmt.Fprintf(out, "EXPIRED      : %s\n", humanize.Comma(int64(s.Expirations)))
	fmt.Fprintf(out, "COMPUTATIONS : %s\n", humanize.Comma(int64(s.Computations)))
	fmt.Fprintf(out, "FAILURES     : %s\n", humanize.Comma(int64(s.Failures)))
}
