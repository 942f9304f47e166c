package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"spese/internal/amqp"
	"spese/internal/backend"
	"spese/internal/log"
	"spese/internal/worker"
)

// mirrorCmd copies the ledger to a second backing store, once or after
// every change event.
type mirrorCmd struct {
	app  *App
	to   string
	once bool
	max  int
}

func (*mirrorCmd) Name() string     { return "mirror" }
func (*mirrorCmd) Synopsis() string { return "copy the ledger to another backing store" }
func (*mirrorCmd) Usage() string {
	return `spese mirror -to <csv|sqlite|sheets> [-once] [-max <count>]

  Copies the whole ledger from the configured backing store to the one named
  by -to, configured from the same environment. Unless -once is given it then
  copies again after every change event received on AMQP_QUEUE.
`
}

func (c *mirrorCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "target backing store type")
	f.BoolVar(&c.once, "once", false, "copy once and exit")
	f.IntVar(&c.max, "max", 0, "stop after this many events (0 means no limit)")
}

func (c *mirrorCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := log.FromContext(ctx).WithComponent(log.ComponentStorage)

	sourceCfg, err := backend.FromAppConfig(c.app.Config)
	if err != nil {
		errorf(c.app, "%v", err)
		return subcommands.ExitUsageError
	}
	targetCfg := sourceCfg
	targetCfg.Type = backend.BackendType(c.to)
	if !targetCfg.Type.IsValid() || targetCfg.Type == backend.MemoryBackend {
		errorf(c.app, "-to must be one of csv, sqlite, sheets")
		return subcommands.ExitUsageError
	}
	if targetCfg.Type == sourceCfg.Type {
		errorf(c.app, "-to must differ from the configured backend %q", sourceCfg.Type)
		return subcommands.ExitUsageError
	}

	source, err := c.app.Factory.CreateBackend(ctx, sourceCfg)
	if err != nil {
		errorf(c.app, "opening source: %v", err)
		return subcommands.ExitFailure
	}
	defer source.Close()

	target, err := c.app.Factory.CreateBackend(ctx, targetCfg)
	if err != nil {
		errorf(c.app, "opening target: %v", err)
		return subcommands.ExitFailure
	}
	defer target.Close()

	w := worker.NewMirrorWorker(source.Store, target.Store)
	if err := w.StartupSync(ctx); err != nil {
		errorf(c.app, "%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(c.app.Out, "Mirrored %s to %s\n", source.Store.Location(), target.Store.Location())
	if c.once {
		return subcommands.ExitSuccess
	}

	consumer, status := c.app.dialConsumer("mirror")
	if consumer == nil {
		return status
	}
	seen, err := consume(ctx, consumer, c.max, func(msg *amqp.ExpenseChangeMessage) error {
		return w.HandleChangeMessage(ctx, msg)
	})
	logger.InfoContext(ctx, "Stopped mirroring", log.FieldLocation, target.Store.Location(), "events", seen)
	if err != nil {
		errorf(c.app, "%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
