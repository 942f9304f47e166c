package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"spese/internal/amqp"
	"spese/internal/log"
)

// watchCmd prints ledger change events as they are published.
type watchCmd struct {
	app *App
	max int
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "print ledger changes published on AMQP" }
func (*watchCmd) Usage() string {
	return `spese watch [-max <count>]

  Consumes the change events published by add, edit and delete from the
  AMQP_QUEUE queue and prints one line per event until interrupted.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.max, "max", 0, "stop after this many events (0 means no limit)")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	consumer, status := c.app.dialConsumer("watch")
	if consumer == nil {
		return status
	}

	f := c.app.Formatter()
	seen, err := consume(ctx, consumer, c.max, func(msg *amqp.ExpenseChangeMessage) error {
		fmt.Fprintf(c.app.Out, "%s %s #%d: %s\n",
			msg.Timestamp.Format("15:04:05"), msg.Op, msg.Index, describe(msg.Record(), f))
		return nil
	})
	log.FromContext(ctx).WithComponent(log.ComponentAMQP).
		DebugContext(ctx, "Stopped watching", log.FieldOperation, log.OpConsume, "events", seen)
	if err != nil {
		errorf(c.app, "%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// dialConsumer connects to the configured broker. On failure it reports the
// problem and returns a nil consumer with the exit status to use.
func (a *App) dialConsumer(command string) (ChangeConsumer, subcommands.ExitStatus) {
	cfg := a.Config
	if cfg.AMQPURL == "" {
		errorf(a, "%s needs AMQP_URL", command)
		return nil, subcommands.ExitUsageError
	}
	consumer, err := a.DialConsumer(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		errorf(a, "connecting to AMQP: %v", err)
		return nil, subcommands.ExitFailure
	}
	return consumer, subcommands.ExitSuccess
}

// consume runs handler on each event until ctx is done or limit events were
// handled, and returns how many were. The broker connection is closed on the
// way out, which also unblocks the consumer.
func consume(ctx context.Context, consumer ChangeConsumer, limit int, handler func(*amqp.ExpenseChangeMessage) error) (int, error) {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	seen := 0
	counted := func(msg *amqp.ExpenseChangeMessage) error {
		if err := handler(msg); err != nil {
			return err
		}
		seen++
		if limit > 0 && seen >= limit {
			stop()
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.ConsumeChanges(gctx, counted)
	})
	g.Go(func() error {
		<-gctx.Done()
		return consumer.Close()
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return seen, nil
	}
	return seen, err
}
