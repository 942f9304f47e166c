package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"spese/internal/amqp"
	"spese/internal/backend"
	"spese/internal/config"
	"spese/internal/core"
	"spese/internal/ledger"
	"spese/internal/log"
	"spese/internal/render"
	"spese/internal/services"
)

// ChangeConsumer delivers ledger change events.
type ChangeConsumer interface {
	ConsumeChanges(ctx context.Context, handler func(*amqp.ExpenseChangeMessage) error) error
	Close() error
}

// App is the state shared by every subcommand of one process run.
type App struct {
	Config *config.Config

	// Plain prints raw markdown instead of styled terminal output
	Plain bool

	Out io.Writer
	Err io.Writer

	Clock   core.Clock
	Factory backend.Factory

	// DialPublisher and DialConsumer connect to the broker at AMQP_URL
	DialPublisher func(url, exchange, queue string) (services.Publisher, error)
	DialConsumer  func(url, exchange, queue string) (ChangeConsumer, error)
}

// NewApp returns an App writing to stdout and stderr and talking to the
// real backends. Loggers come from the command context.
func NewApp(cfg *config.Config) *App {
	return &App{
		Config:  cfg,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Clock:   core.SystemClock,
		Factory: backend.NewFactory(nil),
		DialPublisher: func(url, exchange, queue string) (services.Publisher, error) {
			c, err := amqp.NewClient(url, exchange, queue)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		DialConsumer: func(url, exchange, queue string) (ChangeConsumer, error) {
			c, err := amqp.NewClient(url, exchange, queue)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

// Commands returns the subcommands bound to app.
func Commands(app *App) []subcommands.Command {
	return []subcommands.Command{
		&addCmd{app: app},
		&editCmd{app: app},
		&deleteCmd{app: app},
		&searchCmd{app: app},
		&summaryCmd{app: app},
		&monthlyCmd{app: app},
		&recentCmd{app: app},
		&chartCmd{app: app},
		&watchCmd{app: app},
		&mirrorCmd{app: app},
	}
}

// Register adds the subcommands to c, grouped for the help output.
func Register(c *subcommands.Commander, app *App) {
	for _, cmd := range Commands(app) {
		group := "reports"
		switch cmd.Name() {
		case "add", "edit", "delete":
			group = "expenses"
		case "watch", "mirror":
			group = "events"
		}
		c.Register(cmd, group)
	}
}

// Open loads the ledger from the configured backend and wraps it in an
// expense service. The returned cleanup releases the backend and the broker
// connection.
func (a *App) Open(ctx context.Context) (*services.ExpenseService, func(), error) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentBackend)

	bcfg, err := backend.FromAppConfig(a.Config)
	if err != nil {
		return nil, nil, err
	}
	res, err := a.Factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	l, err := ledger.Open(ctx, res.Store, ledger.WithClock(a.Clock))
	if err != nil {
		_ = res.Close()
		return nil, nil, err
	}

	var pub services.Publisher
	if a.Config.AMQPURL != "" && a.DialPublisher != nil {
		p, err := a.DialPublisher(a.Config.AMQPURL, a.Config.AMQPExchange, a.Config.AMQPQueue)
		if err != nil {
			logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
		} else {
			pub = p
		}
	}

	svc := services.NewExpenseService(l, pub)
	cleanup := func() {
		if err := svc.Close(); err != nil {
			logger.WarnContext(ctx, "Failed to close expense service", log.FieldError, err)
		}
		if err := res.Close(); err != nil {
			logger.WarnContext(ctx, "Failed to close backend", log.FieldBackend, bcfg.Type, log.FieldError, err)
		}
	}

	logger.DebugContext(ctx, "Ledger opened",
		log.FieldBackend, bcfg.Type,
		log.FieldLocation, l.Location(),
		log.FieldRecords, l.Len(),
		"amqp_enabled", pub != nil)

	return svc, cleanup, nil
}

// Formatter returns the amount formatter for the configured currency.
func (a *App) Formatter() render.Formatter {
	return render.NewFormatter(a.Config.Currency)
}

// printMarkdown writes md to the output, styled unless Plain is set or
// styling fails.
func (a *App) printMarkdown(md string) {
	if a.Plain {
		io.WriteString(a.Out, md)
		return
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		io.WriteString(a.Out, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		io.WriteString(a.Out, md)
		return
	}
	io.WriteString(a.Out, out)
}
