package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dompet/internal/cli"
	"dompet/internal/config"
	"dompet/internal/core"
	"dompet/internal/export"
	applog "dompet/internal/log"
	"dompet/internal/services"
)

var errUsage = errors.New("usage")

func main() {
	cli.LoadEnvFile()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "dompet: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "dompet - shared expense tracker")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  dompet <command> [options]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  report    Show the summary, budget and expense list for a period")
	fmt.Fprintln(w, "  add       Record an income or expense")
	fmt.Fprintln(w, "  budget    Set the budget of a month")
	fmt.Fprintln(w, "  export    Write a period's expenses as CSV")
	fmt.Fprintln(w, "  help      Show this help message")
	fmt.Fprintln(w, "\nRun 'dompet <command> -h' for more information on a command.")
	fmt.Fprintln(w, "\nEnvironment: DATA_BACKEND, SQLITE_DB_PATH, DATA_FILE, PROJECT_ID, LOG_LEVEL")
}

// app is what every subcommand needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	service *services.ReportService
	now     time.Time
	stdout  io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	cmd := args[0]
	switch cmd {
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	case "report", "add", "budget", "export":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", cmd)
		printUsage(stderr)
		return errUsage
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}

	res, err := cli.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open backend", applog.FieldBackend, cfg.DataBackend, applog.FieldError, err)
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Failed to close backend", applog.FieldError, err)
		}
	}()

	a := &app{
		cfg: cfg,
		service: services.NewReportService(res.Store, services.Options{
			BudgetCacheSize: cfg.BudgetCacheSize,
			BudgetCacheTTL:  cfg.BudgetCacheTTL,
			Logger:          logger,
		}),
		now:    time.Now(),
		stdout: stdout,
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()

	switch cmd {
	case "report":
		return a.runReport(ctx, args[1:])
	case "add":
		return a.runAdd(ctx, args[1:])
	case "budget":
		return a.runBudget(ctx, args[1:])
	default:
		return a.runExport(ctx, args[1:])
	}
}

func (a *app) runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	project := fs.String("project", a.cfg.ProjectID, "Project ID")
	period := fs.String("period", core.MonthOf(a.now).String(), "Month (YYYY-MM) or 'all'")
	category := fs.String("category", core.AllKey, "Category filter: All, Living, Playing, Saving or Income")
	contributor := fs.String("contributor", core.AllKey, "Contributor user ID or All")
	sortOrder := fs.String("sort", string(core.Newest), "Sort order: newest, oldest, highest or lowest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := core.ParsePeriod(*period)
	if err != nil {
		return err
	}
	cat, err := core.ParseCategoryFilter(normalizeCategory(*category))
	if err != nil {
		return err
	}
	order, err := core.ParseSortOrder(*sortOrder)
	if err != nil {
		return err
	}

	sel := core.DefaultSelector(a.now).
		WithPeriod(p).
		WithCategory(cat).
		WithContributor(*contributor).
		WithSort(order)

	r, err := a.service.BuildReport(ctx, *project, sel)
	if err != nil {
		return err
	}
	return renderReport(a.stdout, r)
}

func (a *app) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	project := fs.String("project", a.cfg.ProjectID, "Project ID")
	user := fs.String("user", "", "User ID of the contributor")
	amount := fs.String("amount", "", "Amount in Rupiah, e.g. 150000 or 1.500.000")
	category := fs.String("category", string(core.Living), "Living, Playing, Saving or Income")
	desc := fs.String("desc", "", "Description")
	date := fs.String("date", a.now.Format(core.DateLayout), "Date (YYYY-MM-DD)")
	source := fs.String("source", "balance", "Pay from 'balance' or 'saving'")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amt, err := core.ParseStrictAmount(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}
	src, err := parseSource(*source)
	if err != nil {
		return err
	}

	stored, err := a.service.AddTransaction(ctx, *project, *user, core.Draft{
		Amount:      amt,
		Category:    core.Category(normalizeCategory(*category)),
		Description: strings.TrimSpace(*desc),
		Date:        *date,
		Source:      src,
	})
	if err != nil {
		return err
	}
	for _, e := range stored {
		fmt.Fprintf(a.stdout, "Added %s %s %q (%s)\n", e.Date, e.Category, e.Description, core.FormatRupiah(e.Amount))
	}
	return nil
}

func (a *app) runBudget(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("budget", flag.ContinueOnError)
	project := fs.String("project", a.cfg.ProjectID, "Project ID")
	month := fs.String("month", core.MonthOf(a.now).String(), "Month (YYYY-MM)")
	amount := fs.String("amount", "", "Budget in Rupiah")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := core.ParsePeriod(*month)
	if err != nil {
		return err
	}
	amt, err := core.ParseStrictAmount(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}
	if err := a.service.SetBudget(ctx, *project, p, amt); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Budget for %s set to %s\n", p, core.FormatRupiah(amt))
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	project := fs.String("project", a.cfg.ProjectID, "Project ID")
	period := fs.String("period", core.MonthOf(a.now).String(), "Month (YYYY-MM) or 'all'")
	out := fs.String("out", "", "Output file (default expenses-<period>.csv, '-' for stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := core.ParsePeriod(*period)
	if err != nil {
		return err
	}

	if *out == "-" {
		_, err := a.service.Export(ctx, *project, p, a.stdout)
		return err
	}

	path := *out
	if path == "" {
		path = export.FileName(p)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if _, err := a.service.Export(ctx, *project, p, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	fmt.Fprintf(a.stdout, "Exported %s\n", path)
	return nil
}

// normalizeCategory accepts category names in any case.
func normalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, core.AllKey) {
		return core.AllKey
	}
	for _, c := range core.Categories() {
		if strings.EqualFold(s, string(c)) {
			return string(c)
		}
	}
	return s
}

func parseSource(s string) (core.FundingSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "balance":
		return core.SourceBalance, nil
	case "saving", "savings":
		return core.SourceSaving, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrInvalidSource, s)
	}
}
