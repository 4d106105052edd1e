package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recordkit/internal/declare"
	"recordkit/internal/logger"
	"recordkit/internal/match"
	"recordkit/options"
	"recordkit/record"
	"recordkit/store"
)

// App represents the CLI application.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	rootCmd *cobra.Command
	restore func()

	// Flags
	debug    bool
	logJSON  bool
	declFile string
	now      string
}

// NewApp creates the CLI application reading input from in.
func NewApp(in io.Reader, out, errOut io.Writer) *App {
	a := &App{in: in, out: out, errOut: errOut}

	a.rootCmd = &cobra.Command{
		Use:   "recordkit",
		Short: "Construct, validate and describe structured records",
		Long: `recordkit normalizes raw inputs into structured records.

Records come from a YAML declaration file (--decl) or, without one, from the
built-in demonstration catalog (Product, Order, ValidatedOrder, Pagination, ...).

Examples:
  recordkit records
  recordkit construct -r Pagination -i page.yaml
  recordkit construct -d records.yaml -r Order -i order.json -o yaml
  recordkit schema -r ValidatedOrder
  recordkit demo`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	a.rootCmd.SetIn(in)
	a.rootCmd.SetOut(out)
	a.rootCmd.SetErr(errOut)

	flags := a.rootCmd.PersistentFlags()
	flags.BoolVar(&a.debug, "debug", envBool(logger.EnvDebug), "Enable debug logging, repaired values included (env "+logger.EnvDebug+")")
	flags.BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON")
	flags.StringVarP(&a.declFile, "decl", "d", "", "Record declaration file (default: built-in catalog)")
	flags.StringVar(&a.now, "now", "", "RFC 3339 time used for factory defaults (default: current time)")

	a.rootCmd.AddCommand(
		a.constructCmd(),
		a.schemaCmd(),
		a.recordsCmd(),
		a.demoCmd(),
	)

	return a
}

// Execute runs the CLI with the given arguments.
func (a *App) Execute(args []string) error {
	a.rootCmd.SetArgs(args)

	defer func() {
		if a.restore != nil {
			a.restore()
		}
	}()

	return a.rootCmd.Execute()
}

func (a *App) setup(*cobra.Command, []string) error {
	a.restore = logger.Setup(logger.Config{Debug: a.debug, JSON: a.logJSON, Writer: a.errOut})

	return nil
}

// options returns the construction options shared by every command.
func (a *App) options() ([]options.Option, error) {
	opts := []options.Option{options.WithRepairLogger(logger.L())}

	if a.now != "" {
		t, err := time.Parse(time.RFC3339Nano, a.now)
		if err != nil {
			return nil, fmt.Errorf("invalid --now: %w", err)
		}

		opts = append(opts, options.WithClock(func() time.Time { return t }))
	}

	return opts, nil
}

// catalog resolves record names to schemas.
type catalog interface {
	Names() []string
	Schema(name string) (*record.Schema, error)
}

func (a *App) catalog() (catalog, error) {
	if a.declFile == "" {
		return builtin{}, nil
	}

	cat, err := declare.LoadFile(a.declFile)
	if err != nil {
		return nil, err
	}

	logger.L().Debug("declarations loaded", "file", a.declFile, "records", len(cat.Names()))

	return cat, nil
}

func (a *App) schema(name string) (*record.Schema, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}

	return cat.Schema(name)
}

// builtin is the demonstration catalog of package store.
type builtin struct{}

func (builtin) Names() []string {
	return store.Names()
}

func (builtin) Schema(name string) (*record.Schema, error) {
	if s, ok := store.Lookup(name); ok {
		return s, nil
	}

	err := fmt.Errorf("%w %q", declare.ErrUnknownRecord, name)
	if sugg := match.Suggest(name, store.Names(), match.DefaultSuggestions); len(sugg) > 0 {
		err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(sugg, ", "))
	}

	return nil, err
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
