package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"budgetcoach/internal/core"
	"budgetcoach/internal/insight"
)

// Reports is the read side used by budgetctl.
type Reports interface {
	MonthSummary(ctx context.Context, month string) (insight.MonthSummary, error)
	AdaptiveBudget(ctx context.Context, month string) (insight.AdaptiveBudget, error)
	RealtimePacing(ctx context.Context) (insight.Pacing, error)
	Projection(ctx context.Context, month string) (insight.Projection, error)
	Compare(ctx context.Context, month1, month2 string) (insight.Comparison, error)
	Trends(ctx context.Context, month string) (insight.Trends, error)
}

// Expenses is the write side used by budgetctl.
type Expenses interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id string) (core.Expense, error)
}

// Session is an open connection to the configured backend.
type Session struct {
	Reports  Reports
	Expenses Expenses
	Close    func() error
}

// Opener opens a session for one command run.
type Opener func(ctx context.Context) (*Session, error)

// App is the budgetctl command tree.
type App struct {
	rootCmd *cobra.Command
	open    Opener
	now     func() time.Time

	flagJSON    bool
	flagNoColor bool
	colors      palette
}

// NewApp builds the command tree. now supplies the default month and date.
func NewApp(open Opener, now func() time.Time) *App {
	if now == nil {
		now = time.Now
	}
	app := &App{open: open, now: now}

	app.rootCmd = &cobra.Command{
		Use:           "budgetctl",
		Short:         "Budget insights from the command line",
		Long:          "Summaries, adaptive budgets, pacing and trends for your tracked expenses.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			app.colors = newPalette(!app.flagNoColor && !color.NoColor)
		},
	}
	app.rootCmd.PersistentFlags().BoolVar(&app.flagJSON, "json", false, "Print results as JSON")
	app.rootCmd.PersistentFlags().BoolVar(&app.flagNoColor, "no-color", false, "Disable colored output")

	app.rootCmd.AddCommand(
		app.summaryCmd(),
		app.budgetCmd(),
		app.pacingCmd(),
		app.projectionCmd(),
		app.compareCmd(),
		app.trendsCmd(),
		app.addCmd(),
		app.deleteCmd(),
	)
	return app
}

// Execute runs the command line in args, writing results to out.
func (a *App) Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	a.rootCmd.SetArgs(args)
	a.rootCmd.SetOut(out)
	a.rootCmd.SetErr(errOut)
	return a.rootCmd.ExecuteContext(ctx)
}

// Main runs budgetctl against os.Args and exits non-zero on failure.
func Main(open Opener) {
	app := NewApp(open, nil)
	if err := app.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// withSession opens a session, runs fn and closes the session.
func (a *App) withSession(cmd *cobra.Command, fn func(s *Session) error) (err error) {
	if a.open == nil {
		return errors.New("no backend configured")
	}
	s, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	if s.Close != nil {
		defer func() {
			if cerr := s.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	return fn(s)
}

// monthArg returns the first argument or the current month.
func (a *App) monthArg(args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	return core.MonthOf(a.now()).String()
}

func (a *App) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type palette struct {
	title func(a ...any) string
	warn  func(a ...any) string
	good  func(a ...any) string
	dim   func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		title: mk(color.FgCyan, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		good:  mk(color.FgGreen),
		dim:   mk(color.Faint),
	}
}
